// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/mutex/v2"

	"github.com/juju/filebeat-operator/charm"
	coreos "github.com/juju/filebeat-operator/core/os"
	"github.com/juju/filebeat-operator/core/status"
	"github.com/juju/filebeat-operator/hookenv"
	"github.com/juju/filebeat-operator/packaging"
	"github.com/juju/filebeat-operator/render"
	"github.com/juju/filebeat-operator/service/systemd"
	"github.com/juju/filebeat-operator/utils/command"
	"github.com/juju/filebeat-operator/workload"
)

// lockName is the machine-wide lock held while a hook runs.
const lockName = "filebeat-operator"

const (
	jujuLogWriterName = "juju-log"
	templatesDir      = "templates"
	metadataFile      = "metadata.yaml"
)

// Patched in tests.
var (
	acquireLock = mutex.Acquire
	newRunner   = func() command.Runner {
		return command.NewShellRunner("DEBIAN_FRONTEND=noninteractive")
	}
	systemdRunning = systemd.IsRunning
)

// runHook runs hookName while holding the machine lock.
func runHook(opts options, hookName string, getenv func(string) string) error {
	releaser, err := acquireLock(mutex.Spec{
		Name:    lockName,
		Clock:   clock.WallClock,
		Delay:   250 * time.Millisecond,
		Timeout: opts.lockTimeout,
	})
	if err != nil {
		return errors.Annotate(err, "acquiring machine lock")
	}
	defer releaser.Release()

	runner := newRunner()
	hook := hookenv.NewContext(runner, getenv)
	if _, err := hook.UnitName(); err == nil {
		if err := loggo.RegisterWriter(jujuLogWriterName, hookenv.NewLogWriter(hook, loggo.WARNING)); err == nil {
			defer func() { _, _ = loggo.RemoveWriter(jujuLogWriterName) }()
		}
	}

	ch, err := newCharm(opts, hook, runner)
	if err != nil {
		if statusErr := hook.StatusSet(status.FromError(err)); statusErr != nil {
			logger.Errorf("cannot set status: %v", statusErr)
		}
		return errors.Trace(err)
	}
	return errors.Trace(ch.Dispatch(hookName))
}

// newCharm wires the operations manager for the host and service.
func newCharm(opts options, hook *hookenv.Context, runner command.Runner) (*charm.Charm, error) {
	if !systemdRunning() {
		logger.Warningf("systemd is not running, %s cannot be managed", opts.service)
	}
	facts, err := coreos.ReadHostFacts(opts.osRelease)
	if err != nil {
		return nil, errors.Trace(err)
	}
	logger.Debugf("host is %s", facts)

	meta, err := readMeta(opts.charmDir)
	if err != nil {
		return nil, errors.Trace(err)
	}
	manager, err := workload.NewManager(workload.ManagerConfig{
		Descriptor: workload.NewServiceDescriptor(opts.service),
		Facts:      facts,
		Installer:  packaging.NewInstaller(runner),
		Services:   systemd.NewController(runner),
		Renderer:   render.NewRenderer(filepath.Join(opts.charmDir, templatesDir)),
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return charm.NewCharm(charm.CharmConfig{
		Meta:     meta,
		Hook:     hook,
		Workload: manager,
	})
}

// readMeta reads the charm's metadata.yaml. A charm without one gets
// the default relation endpoint.
func readMeta(charmDir string) (*charm.Meta, error) {
	f, err := os.Open(filepath.Join(charmDir, metadataFile))
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() { _ = f.Close() }()
	meta, err := charm.ReadMeta(f)
	return meta, errors.Annotatef(err, "reading %s", metadataFile)
}
