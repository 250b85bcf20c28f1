// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"github.com/juju/errors"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
)

// Status is the workload status a unit reports with status-set.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// StatusInfo holds a Status and associated information.
type StatusInfo struct {
	Status  Status
	Message string
}

const (
	// Maintenance is set when the unit is installing or reconfiguring
	// its workload.
	Maintenance Status = "maintenance"

	// Blocked is set when the unit needs an operator or a relation
	// before it can continue.
	Blocked Status = "blocked"

	// Waiting is set when the unit has done its part but the workload
	// is not yet running.
	Waiting Status = "waiting"

	// Active is set when the workload is configured and running.
	Active Status = "active"

	// Error is set by the agent when a hook fails. Units cannot set it.
	Error Status = "error"

	// Unknown is the status before the unit has reported anything.
	Unknown Status = "unknown"
)

// ValidWorkloadStatus returns true if status can be set by a unit.
func ValidWorkloadStatus(status Status) bool {
	switch status {
	case Maintenance, Blocked, Waiting, Active:
		return true
	}
	return false
}

// NewActive returns an Active status with msg.
func NewActive(msg string) StatusInfo { return StatusInfo{Status: Active, Message: msg} }

// NewBlocked returns a Blocked status with msg.
func NewBlocked(msg string) StatusInfo { return StatusInfo{Status: Blocked, Message: msg} }

// NewWaiting returns a Waiting status with msg.
func NewWaiting(msg string) StatusInfo { return StatusInfo{Status: Waiting, Message: msg} }

// NewMaintenance returns a Maintenance status with msg.
func NewMaintenance(msg string) StatusInfo { return StatusInfo{Status: Maintenance, Message: msg} }

var reasons = []struct {
	kind   errors.ConstError
	reason string
}{
	{coreerrors.HostDetection, "cannot detect host platform"},
	{coreerrors.UnsupportedPlatform, "unsupported platform"},
	{coreerrors.InstallFailed, "installation failed"},
	{coreerrors.ServiceControlFailed, "service control failed"},
	{coreerrors.TemplateNotFound, "configuration template missing"},
	{coreerrors.TemplateRenderFailed, "cannot render configuration"},
	{coreerrors.ConfigWriteFailed, "cannot write configuration"},
}

// FromError returns the blocked status reported for err. The message
// starts with a reason derived from the error kind, followed by the error
// text. A nil error yields Active with no message.
func FromError(err error) StatusInfo {
	if err == nil {
		return StatusInfo{Status: Active}
	}
	for _, r := range reasons {
		if errors.Is(err, r.kind) {
			return NewBlocked(r.reason + ": " + err.Error())
		}
	}
	return NewBlocked(err.Error())
}
