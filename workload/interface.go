// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package workload

import (
	"os"

	coreos "github.com/juju/filebeat-operator/core/os"
)

// Installer installs the workload package and its dependencies.
type Installer interface {
	Install(facts coreos.HostFacts, artifactPath string) error
}

// ServiceController drives the host's service manager.
type ServiceController interface {
	Start(name string) error
	Restart(name string) error
	Running(name string) (bool, error)
}

// Renderer renders a named template.
type Renderer interface {
	Render(name string, context map[string]interface{}) (string, error)
}

// FileSystemOps is the file system access the manager needs to replace a
// configuration file.
type FileSystemOps interface {
	Remove(name string) error
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type fileSystemOps struct{}

func (fileSystemOps) Remove(name string) error {
	return os.Remove(name)
}

func (fileSystemOps) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fileSystemOps) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}
