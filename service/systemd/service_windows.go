// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

//go:build windows

package systemd

// IsRunning returns whether or not systemd is the local init system.
func IsRunning() bool {
	return false
}
