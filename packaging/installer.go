// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package packaging installs the Java runtime and the workload package on
// the host with the package manager native to its distribution.
package packaging

import (
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
	coreos "github.com/juju/filebeat-operator/core/os"
	"github.com/juju/filebeat-operator/utils/command"
)

var logger = loggo.GetLogger("filebeat.packaging")

// Installer installs packages through a command runner.
type Installer struct {
	runner command.Runner
}

// NewInstaller returns an Installer that runs package manager commands
// with runner.
func NewInstaller(runner command.Runner) *Installer {
	return &Installer{runner: runner}
}

// Install installs the Java runtime the host needs, then the package file at
// artifactPath. The distribution is checked before anything is run, so an
// unsupported host is left untouched. There are no retries: a failure part
// way through leaves the host partially installed.
func (i *Installer) Install(facts coreos.HostFacts, artifactPath string) error {
	artifactArgs, ok := ArtifactCommand(facts, artifactPath)
	if !ok {
		supported := SupportedDistributions()
		sort.Strings(supported)
		return errors.WithType(
			errors.Errorf("distribution %q not supported (expected one of %s)", facts.ID, strings.Join(supported, ", ")),
			coreerrors.UnsupportedPlatform,
		)
	}

	if err := i.installDependencies(facts); err != nil {
		return errors.Trace(err)
	}

	logger.Infof("installing %s", artifactPath)
	if err := i.run(artifactArgs); err != nil {
		return errors.Annotatef(err, "installing %s", artifactPath)
	}
	return nil
}

func (i *Installer) installDependencies(facts coreos.HostFacts) error {
	plan, ok := DependencyPlanFor(facts)
	if !ok {
		// Hosts outside the matrix are assumed to provide Java already.
		logger.Warningf("no java dependency known for %s, skipping", facts)
		return nil
	}
	logger.Infof("installing %s with %s", plan.Package, plan.Manager)
	for _, args := range plan.Commands() {
		if err := i.run(args); err != nil {
			return errors.Annotatef(err, "installing %s", plan.Package)
		}
	}
	return nil
}

func (i *Installer) run(args []string) error {
	if _, err := command.Check(i.runner, args...); err != nil {
		return errors.WithType(err, coreerrors.InstallFailed)
	}
	return nil
}
