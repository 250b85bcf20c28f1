// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import (
	"github.com/juju/errors"
)

const (
	// HostDetection describes an error that occurs when the host identity
	// file is missing, unreadable or does not name the distribution and
	// version.
	HostDetection = errors.ConstError("host detection failed")

	// UnsupportedPlatform describes an error that occurs when the host
	// distribution is not one the operations manager knows how to install
	// packages on.
	UnsupportedPlatform = errors.ConstError("unsupported platform")

	// InstallFailed describes an error that occurs when a package manager
	// invocation exits non-zero.
	InstallFailed = errors.ConstError("install failed")

	// ServiceControlFailed describes an error that occurs when the service
	// manager exits non-zero.
	ServiceControlFailed = errors.ConstError("service control failed")

	// TemplateNotFound describes an error that occurs when the named
	// template does not exist under the template root.
	TemplateNotFound = errors.ConstError("template not found")

	// TemplateRenderFailed describes an error that occurs when a template
	// cannot be parsed or executed against its context.
	TemplateRenderFailed = errors.ConstError("template render failed")

	// ConfigWriteFailed describes an error that occurs when the rendered
	// configuration cannot replace the file on disk.
	ConfigWriteFailed = errors.ConstError("config write failed")
)
