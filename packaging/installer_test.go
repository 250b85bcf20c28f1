// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package packaging_test

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
	coreos "github.com/juju/filebeat-operator/core/os"
	"github.com/juju/filebeat-operator/packaging"
	"github.com/juju/filebeat-operator/utils/command"
	"github.com/juju/filebeat-operator/utils/command/commandtesting"
)

type installerSuite struct {
	testing.IsolationSuite

	runner    *commandtesting.StubRunner
	installer *packaging.Installer
}

var _ = gc.Suite(&installerSuite{})

func (s *installerSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.runner = commandtesting.NewStubRunner()
	s.installer = packaging.NewInstaller(s.runner)
}

func facts(id, version string) coreos.HostFacts {
	return coreos.HostFacts{ID: id, VersionID: version}
}

func (s *installerSuite) TestInstallMatrix(c *gc.C) {
	tests := []struct {
		facts    coreos.HostFacts
		artifact string
		expected [][]string
	}{{
		facts:    facts("ubuntu", "18.04"),
		artifact: "/tmp/filebeat.deb",
		expected: [][]string{
			{"apt-get", "update", "-y"},
			{"apt-get", "install", "openjdk-8-jre-headless", "-y"},
			{"dpkg", "-i", "/tmp/filebeat.deb"},
		},
	}, {
		facts:    facts("ubuntu", "20.04"),
		artifact: "/tmp/filebeat.deb",
		expected: [][]string{
			{"apt-get", "update", "-y"},
			{"apt-get", "install", "openjdk-8-jre-headless", "-y"},
			{"dpkg", "-i", "/tmp/filebeat.deb"},
		},
	}, {
		facts:    facts("centos", "7"),
		artifact: "/tmp/filebeat.rpm",
		expected: [][]string{
			{"yum", "update", "-y"},
			{"yum", "install", "java-1.8.0-openjdk-headless", "-y"},
			{"rpm", "--install", "/tmp/filebeat.rpm"},
		},
	}, {
		facts:    facts("centos", "8"),
		artifact: "/tmp/filebeat.rpm",
		expected: [][]string{
			{"dnf", "update", "-y"},
			{"dnf", "install", "java-1.8.0-openjdk-headless", "-y"},
			{"rpm", "--install", "/tmp/filebeat.rpm"},
		},
	}}
	for i, test := range tests {
		c.Logf("test %d: %s", i, test.facts)
		runner := commandtesting.NewStubRunner()
		err := packaging.NewInstaller(runner).Install(test.facts, test.artifact)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(runner.Commands(), jc.DeepEquals, test.expected)
	}
}

func (s *installerSuite) TestInstallUnlistedVersionSkipsJava(c *gc.C) {
	err := s.installer.Install(facts("ubuntu", "22.04"), "/tmp/filebeat.deb")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.runner.Commands(), jc.DeepEquals, [][]string{
		{"dpkg", "-i", "/tmp/filebeat.deb"},
	})
}

func (s *installerSuite) TestInstallUnsupportedDistribution(c *gc.C) {
	for _, id := range []string{"arch", "debian", "fedora", ""} {
		runner := commandtesting.NewStubRunner()
		err := packaging.NewInstaller(runner).Install(facts(id, "1"), "/tmp/filebeat.deb")
		c.Check(err, jc.ErrorIs, coreerrors.UnsupportedPlatform)
		c.Check(err, gc.ErrorMatches, `distribution ".*" not supported \(expected one of centos, ubuntu\)`)
		runner.CheckNoCalls(c)
	}
}

func (s *installerSuite) TestInstallDependencyFailureStops(c *gc.C) {
	s.runner.SetExitCode("apt-get update -y", 100)

	err := s.installer.Install(facts("ubuntu", "20.04"), "/tmp/filebeat.deb")
	c.Assert(err, jc.ErrorIs, coreerrors.InstallFailed)
	c.Check(err, gc.ErrorMatches, `installing openjdk-8-jre-headless: "apt-get update -y" exited with code 100: failed`)
	c.Check(s.runner.Cmdlines(), jc.DeepEquals, []string{"apt-get update -y"})

	exitErr, ok := errors.AsType[*command.ExitError](err)
	c.Assert(ok, jc.IsTrue)
	c.Check(exitErr.Code, gc.Equals, 100)
}

func (s *installerSuite) TestInstallArtifactFailure(c *gc.C) {
	s.runner.SetExitCode("rpm --install /tmp/filebeat.rpm", 1)

	err := s.installer.Install(facts("centos", "8"), "/tmp/filebeat.rpm")
	c.Assert(err, jc.ErrorIs, coreerrors.InstallFailed)
	c.Check(s.runner.Cmdlines(), jc.DeepEquals, []string{
		"dnf update -y",
		"dnf install java-1.8.0-openjdk-headless -y",
		"rpm --install /tmp/filebeat.rpm",
	})
}

func (s *installerSuite) TestInstallRunnerError(c *gc.C) {
	s.runner.SetErrors(errors.New("exec: not found"))

	err := s.installer.Install(facts("ubuntu", "20.04"), "/tmp/filebeat.deb")
	c.Assert(err, jc.ErrorIs, coreerrors.InstallFailed)
	c.Check(err, gc.ErrorMatches, `.*exec: not found`)
}

func (s *installerSuite) TestInstallMixedCaseDistribution(c *gc.C) {
	path := filepath.Join(c.MkDir(), "os-release")
	err := os.WriteFile(path, []byte("ID=CentOS\nVERSION_ID=\"8\"\n"), 0644)
	c.Assert(err, jc.ErrorIsNil)
	hostFacts, err := coreos.ReadHostFacts(path)
	c.Assert(err, jc.ErrorIsNil)

	err = s.installer.Install(hostFacts, "/tmp/filebeat.rpm")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.runner.Commands(), jc.DeepEquals, [][]string{
		{"dnf", "update", "-y"},
		{"dnf", "install", "java-1.8.0-openjdk-headless", "-y"},
		{"rpm", "--install", "/tmp/filebeat.rpm"},
	})
}
