// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package workload is the operations manager for a single Elasticsearch
// family service: it installs the package, starts the service, and
// replaces its configuration.
package workload

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"gopkg.in/yaml.v3"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
	coreos "github.com/juju/filebeat-operator/core/os"
)

var logger = loggo.GetLogger("filebeat.workload")

// RenderContext holds the values a configuration template is rendered
// against. Values are strings or lists of strings.
type RenderContext map[string]interface{}

// ManagerConfig holds the dependencies of a Manager.
type ManagerConfig struct {
	Descriptor ServiceDescriptor
	Facts      coreos.HostFacts
	Installer  Installer
	Services   ServiceController
	Renderer   Renderer
	// FileSystem defaults to the host file system.
	FileSystem FileSystemOps
}

// Validate checks that the config is usable.
func (c ManagerConfig) Validate() error {
	if c.Descriptor.Name == "" {
		return errors.NotValidf("empty service name")
	}
	if c.Descriptor.ConfigPath == "" {
		return errors.NotValidf("empty config path")
	}
	if c.Descriptor.TemplateName == "" {
		return errors.NotValidf("empty template name")
	}
	if c.Facts.ID == "" || c.Facts.VersionID == "" {
		return errors.NotValidf("incomplete host facts %q", c.Facts)
	}
	if c.Installer == nil {
		return errors.NotValidf("nil Installer")
	}
	if c.Services == nil {
		return errors.NotValidf("nil Services")
	}
	if c.Renderer == nil {
		return errors.NotValidf("nil Renderer")
	}
	return nil
}

// Manager installs, starts and reconfigures one service. The host facts
// and descriptor are fixed when it is created.
type Manager struct {
	descriptor ServiceDescriptor
	facts      coreos.HostFacts
	installer  Installer
	services   ServiceController
	renderer   Renderer
	fs         FileSystemOps

	// mu serialises configuration replacement.
	mu sync.Mutex
}

// NewManager returns a Manager for the configured service.
func NewManager(config ManagerConfig) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	fs := config.FileSystem
	if fs == nil {
		fs = fileSystemOps{}
	}
	return &Manager{
		descriptor: config.Descriptor,
		facts:      config.Facts,
		installer:  config.Installer,
		services:   config.Services,
		renderer:   config.Renderer,
		fs:         fs,
	}, nil
}

// Descriptor returns the descriptor of the managed service.
func (m *Manager) Descriptor() ServiceDescriptor {
	return m.descriptor
}

// Facts returns the host facts the manager was created with.
func (m *Manager) Facts() coreos.HostFacts {
	return m.facts
}

// Install installs the package file at artifactPath and its dependencies.
func (m *Manager) Install(artifactPath string) error {
	logger.Infof("installing %s on %s", m.descriptor.Name, m.facts)
	return errors.Trace(m.installer.Install(m.facts, artifactPath))
}

// Start enables and starts the service.
func (m *Manager) Start() error {
	logger.Infof("starting %s", m.descriptor.Name)
	return errors.Trace(m.services.Start(m.descriptor.Name))
}

// Running reports whether the service is active.
func (m *Manager) Running() (bool, error) {
	running, err := m.services.Running(m.descriptor.Name)
	return running, errors.Trace(err)
}

// RenderConfigAndRestart replaces the service's configuration with one
// rendered from ctx, then restarts the service. The service is only
// restarted once the new configuration is on disk; if the restart fails the
// new configuration stays in place.
func (m *Manager) RenderConfigAndRestart(ctx RenderContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.removeConfig(); err != nil {
		return errors.Trace(err)
	}
	if err := m.writeConfig(ctx); err != nil {
		return errors.Trace(err)
	}

	logger.Infof("restarting %s", m.descriptor.Name)
	if err := m.services.Restart(m.descriptor.Name); err != nil {
		return errors.Annotatef(err, "restarting %s with new config", m.descriptor.Name)
	}
	return nil
}

func (m *Manager) removeConfig() error {
	path := m.descriptor.ConfigPath
	err := m.fs.Remove(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return errors.WithType(errors.Annotatef(err, "removing %s", path), coreerrors.ConfigWriteFailed)
}

func (m *Manager) writeConfig(ctx RenderContext) error {
	path := m.descriptor.ConfigPath
	content, err := m.renderer.Render(m.descriptor.TemplateName, ctx)
	if err != nil {
		return errors.Trace(err)
	}
	if err := validateYAML(path, content); err != nil {
		return errors.Trace(err)
	}

	if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithType(errors.Annotatef(err, "creating %s", filepath.Dir(path)), coreerrors.ConfigWriteFailed)
	}
	if err := m.fs.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.WithType(errors.Annotatef(err, "writing %s", path), coreerrors.ConfigWriteFailed)
	}
	logger.Debugf("wrote %s", path)
	return nil
}

// validateYAML rejects rendered output that a YAML configured service
// could not load.
func validateYAML(path, content string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
	default:
		return nil
	}
	var doc interface{}
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return errors.WithType(errors.Annotatef(err, "rendered %s is not valid YAML", filepath.Base(path)), coreerrors.TemplateRenderFailed)
	}
	return nil
}
