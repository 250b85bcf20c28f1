// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	coreos "github.com/juju/filebeat-operator/core/os"
	"github.com/juju/filebeat-operator/core/status"
	"github.com/juju/filebeat-operator/hookenv"
	"github.com/juju/filebeat-operator/workload"
)

// HookContext is the part of the hook environment the charm uses.
type HookContext interface {
	UnitName() (string, error)
	RelationID() string
	RemoteUnit() string

	StatusSet(info status.StatusInfo) error
	ConfigGet() (map[string]interface{}, error)
	ResourceGet(name string) (string, error)
	RelationGet(relationID, unit string) (map[string]string, error)
	StateGet(key string) (string, error)
	StateSet(values map[string]string) error
	OpenPort(ports hookenv.PortRange) error
	ClosePort(ports hookenv.PortRange) error
	ApplicationVersionSet(version string) error
}

// Workload is the operations manager for the charmed service.
type Workload interface {
	Descriptor() workload.ServiceDescriptor
	Facts() coreos.HostFacts
	Install(artifactPath string) error
	Start() error
	Running() (bool, error)
	RenderConfigAndRestart(ctx workload.RenderContext) error
}
