// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package packaging

import (
	coreos "github.com/juju/filebeat-operator/core/os"
)

// PackageManager names a distribution package manager binary.
type PackageManager string

const (
	AptGet PackageManager = "apt-get"
	Yum    PackageManager = "yum"
	Dnf    PackageManager = "dnf"
)

const (
	ubuntuJavaPackage = "openjdk-8-jre-headless"
	centosJavaPackage = "java-1.8.0-openjdk-headless"
)

// Platform is a distribution id and version, as read from os-release.
type Platform struct {
	ID        string
	VersionID string
}

// DependencyPlan describes how the Java runtime is installed on a platform.
type DependencyPlan struct {
	Manager PackageManager
	Package string
}

// Commands returns the argv of each command the plan runs, in order.
func (p DependencyPlan) Commands() [][]string {
	manager := string(p.Manager)
	return [][]string{
		{manager, "update", "-y"},
		{manager, "install", p.Package, "-y"},
	}
}

// dependencyPlans is the supported dependency matrix. Platforms missing
// from it have no dependency step.
var dependencyPlans = map[Platform]DependencyPlan{
	{ID: "ubuntu", VersionID: "18.04"}: {Manager: AptGet, Package: ubuntuJavaPackage},
	{ID: "ubuntu", VersionID: "20.04"}: {Manager: AptGet, Package: ubuntuJavaPackage},
	{ID: "centos", VersionID: "7"}:     {Manager: Yum, Package: centosJavaPackage},
	{ID: "centos", VersionID: "8"}:     {Manager: Dnf, Package: centosJavaPackage},
}

// artifactInstallers maps a distribution id to the command prefix that
// installs a local package file.
var artifactInstallers = map[string][]string{
	"ubuntu": {"dpkg", "-i"},
	"centos": {"rpm", "--install"},
}

// DependencyPlanFor returns the dependency plan for the host, and false if
// the host's platform has none.
func DependencyPlanFor(facts coreos.HostFacts) (DependencyPlan, bool) {
	plan, ok := dependencyPlans[Platform{ID: facts.ID, VersionID: facts.VersionID}]
	return plan, ok
}

// ArtifactCommand returns the argv that installs artifactPath on the host,
// and false if the distribution is not supported.
func ArtifactCommand(facts coreos.HostFacts, artifactPath string) ([]string, bool) {
	prefix, ok := artifactInstallers[facts.ID]
	if !ok {
		return nil, false
	}
	args := append([]string(nil), prefix...)
	return append(args, artifactPath), true
}

// SupportedDistributions returns the distribution ids artifacts can be
// installed on.
func SupportedDistributions() []string {
	ids := make([]string, 0, len(artifactInstallers))
	for id := range artifactInstallers {
		ids = append(ids, id)
	}
	return ids
}
