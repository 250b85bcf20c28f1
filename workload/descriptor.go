// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package workload

import (
	"path/filepath"
)

// TemplateExt is the extension of workload configuration templates.
const TemplateExt = "tmpl"

// ServiceDescriptor names a managed service and the files derived from its
// name.
type ServiceDescriptor struct {
	// Name is the systemd service name, e.g. "filebeat".
	Name string
	// ConfigPath is where the rendered configuration is written.
	ConfigPath string
	// TemplateName is the template the configuration is rendered from.
	TemplateName string
}

// NewServiceDescriptor derives the descriptor for the named service:
// /etc/{name}/{name}.yml rendered from {name}.yml.tmpl.
func NewServiceDescriptor(name string) ServiceDescriptor {
	return ServiceDescriptor{
		Name:         name,
		ConfigPath:   filepath.Join("/etc", name, name+".yml"),
		TemplateName: name + ".yml." + TemplateExt,
	}
}

// WithRoot returns a copy of the descriptor with its config path moved
// under root.
func (d ServiceDescriptor) WithRoot(root string) ServiceDescriptor {
	if root == "" {
		return d
	}
	d.ConfigPath = filepath.Join(root, d.ConfigPath)
	return d
}
