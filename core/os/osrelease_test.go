// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package os_test

import (
	"os"
	"path/filepath"

	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
	coreos "github.com/juju/filebeat-operator/core/os"
	"github.com/juju/filebeat-operator/core/os/ostype"
)

type osReleaseSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&osReleaseSuite{})

func (s *osReleaseSuite) writeFile(c *gc.C, content string) string {
	path := filepath.Join(c.MkDir(), "os-release")
	err := os.WriteFile(path, []byte(content), 0644)
	c.Assert(err, jc.ErrorIsNil)
	return path
}

func (s *osReleaseSuite) TestReadHostFactsStripsQuotes(c *gc.C) {
	path := s.writeFile(c, "ID=\"ubuntu\"\nVERSION_ID=\"20.04\"\n")

	facts, err := coreos.ReadHostFacts(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(facts.ID, gc.Equals, "ubuntu")
	c.Check(facts.VersionID, gc.Equals, "20.04")
	c.Check(facts.OSType(), gc.Equals, ostype.Ubuntu)
}

func (s *osReleaseSuite) TestReadHostFactsNormalisesID(c *gc.C) {
	path := s.writeFile(c, "ID=\"Ubuntu\"\nVERSION_ID=\" 20.04\"\n")

	facts, err := coreos.ReadHostFacts(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(facts.ID, gc.Equals, "ubuntu")
	c.Check(facts.VersionID, gc.Equals, "20.04")
	c.Check(facts.OSType(), gc.Equals, ostype.Ubuntu)
	c.Check(facts.Values["ID"], gc.Equals, "Ubuntu")
}

func (s *osReleaseSuite) TestReadHostFactsKeepsExtraKeys(c *gc.C) {
	path := s.writeFile(c, `NAME="CentOS Linux"
VERSION="7 (Core)"

ID="centos"
ID_LIKE="rhel fedora"
VERSION_ID="7"
HOME_URL="https://www.centos.org/"
`)

	facts, err := coreos.ReadHostFacts(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(facts.ID, gc.Equals, "centos")
	c.Check(facts.VersionID, gc.Equals, "7")
	c.Check(facts.OSType(), gc.Equals, ostype.CentOS)
	c.Check(facts.Values["ID_LIKE"], gc.Equals, "rhel fedora")
	c.Check(facts.Values["HOME_URL"], gc.Equals, "https://www.centos.org/")
}

func (s *osReleaseSuite) TestReadHostFactsMissingFile(c *gc.C) {
	_, err := coreos.ReadHostFacts(filepath.Join(c.MkDir(), "missing"))
	c.Assert(err, jc.ErrorIs, coreerrors.HostDetection)
}

func (s *osReleaseSuite) TestReadHostFactsMissingID(c *gc.C) {
	path := s.writeFile(c, "VERSION_ID=\"20.04\"\n")

	_, err := coreos.ReadHostFacts(path)
	c.Assert(err, jc.ErrorIs, coreerrors.HostDetection)
	c.Check(err, gc.ErrorMatches, `.*missing ID`)
}

func (s *osReleaseSuite) TestReadHostFactsMissingVersion(c *gc.C) {
	path := s.writeFile(c, "ID=ubuntu\n")

	_, err := coreos.ReadHostFacts(path)
	c.Assert(err, jc.ErrorIs, coreerrors.HostDetection)
	c.Check(err, gc.ErrorMatches, `.*missing VERSION_ID`)
}

func (s *osReleaseSuite) TestParseOSRelease(c *gc.C) {
	values := coreos.ParseOSRelease("# comment\nID=ubuntu\nPRETTY=\"a=b\"\nbogus\nEMPTY=\nQ=\"\"\n")
	c.Check(values, jc.DeepEquals, map[string]string{
		"ID":     "ubuntu",
		"PRETTY": "a=b",
		"EMPTY":  "",
		"Q":      "",
	})
}
