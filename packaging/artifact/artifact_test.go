// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package artifact_test

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/blakesmith/ar"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/juju/version/v2"
	gc "gopkg.in/check.v1"

	"github.com/juju/filebeat-operator/core/os/ostype"
	"github.com/juju/filebeat-operator/packaging/artifact"
	"github.com/juju/filebeat-operator/packaging/artifact/artifacttesting"
)

type artifactSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&artifactSuite{})

const controlFile = `Package: filebeat
Version: 7.10.2
Architecture: amd64
Description: Filebeat sends log files to Logstash or directly to Elasticsearch.
 Continuation lines are ignored.
`

func controlTar(c *gc.C, name, content string) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	err := tw.WriteHeader(&tar.Header{
		Name:     name,
		Mode:     0644,
		Size:     int64(len(content)),
		Typeflag: tar.TypeReg,
	})
	c.Assert(err, jc.ErrorIsNil)
	_, err = tw.Write([]byte(content))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(tw.Close(), jc.ErrorIsNil)
	return buf.Bytes()
}

type member struct {
	name string
	data []byte
}

func writeDeb(c *gc.C, members ...member) string {
	path := filepath.Join(c.MkDir(), "filebeat-7.10.2-amd64.deb")
	f, err := os.Create(path)
	c.Assert(err, jc.ErrorIsNil)
	defer f.Close()

	w := ar.NewWriter(f)
	c.Assert(w.WriteGlobalHeader(), jc.ErrorIsNil)
	for _, m := range members {
		err := w.WriteHeader(&ar.Header{
			Name:    m.name,
			ModTime: time.Unix(0, 0),
			Mode:    0644,
			Size:    int64(len(m.data)),
		})
		c.Assert(err, jc.ErrorIsNil)
		_, err = w.Write(m.data)
		c.Assert(err, jc.ErrorIsNil)
	}
	return path
}

func (s *artifactSuite) TestInspectDeb(c *gc.C) {
	path := writeDeb(c,
		member{"debian-binary", []byte("2.0\n")},
		member{"control.tar", controlTar(c, "./control", controlFile)},
		member{"data.tar", controlTar(c, "./usr/bin/filebeat", "binary")},
	)

	info, err := artifact.Inspect(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info, jc.DeepEquals, artifact.Info{
		Path:    path,
		Format:  artifact.Deb,
		Name:    "filebeat",
		Version: "7.10.2",
	})
	c.Check(info.Compatible(ostype.Ubuntu), jc.IsTrue)
	c.Check(info.Compatible(ostype.CentOS), jc.IsFalse)
}

func (s *artifactSuite) TestInspectDebUnknownControlCompression(c *gc.C) {
	path := writeDeb(c,
		member{"debian-binary", []byte("2.0\n")},
		member{"control.tar.zst", []byte("zstd")},
	)

	info, err := artifact.Inspect(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info.Format, gc.Equals, artifact.Deb)
	c.Check(info.Name, gc.Equals, "")
}

func (s *artifactSuite) TestInspectDebMissingBinaryMember(c *gc.C) {
	path := writeDeb(c,
		member{"control.tar", controlTar(c, "./control", controlFile)},
	)

	_, err := artifact.Inspect(path)
	c.Assert(err, jc.ErrorIs, errors.NotValid)
	c.Check(err, gc.ErrorMatches, `deb ".*": missing debian-binary not valid`)
}

func (s *artifactSuite) TestInspectRPM(c *gc.C) {
	path := artifacttesting.WriteRPM(c, filepath.Join(c.MkDir(), "filebeat-7.10.2-x86_64.rpm"), "filebeat", "7.10.2")

	info, err := artifact.Inspect(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info, jc.DeepEquals, artifact.Info{
		Path:    path,
		Format:  artifact.RPM,
		Name:    "filebeat",
		Version: "7.10.2",
	})
	c.Check(info.Compatible(ostype.CentOS), jc.IsTrue)
	c.Check(info.Compatible(ostype.Ubuntu), jc.IsFalse)
}

func (s *artifactSuite) TestInspectRPMSavedAsDeb(c *gc.C) {
	// resource-get hands back the file under the name in metadata.yaml.
	path := artifacttesting.WriteRPM(c, filepath.Join(c.MkDir(), "filebeat.deb"), "filebeat", "7.10.2")

	info, err := artifact.Inspect(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info.Format, gc.Equals, artifact.RPM)
	c.Check(info.Name, gc.Equals, "filebeat")
	c.Check(info.Compatible(ostype.CentOS), jc.IsTrue)
}

func (s *artifactSuite) TestInspectDebSavedWithoutExtension(c *gc.C) {
	deb := writeDeb(c,
		member{"debian-binary", []byte("2.0\n")},
		member{"control.tar", controlTar(c, "./control", controlFile)},
	)
	path := filepath.Join(c.MkDir(), "filebeat")
	c.Assert(os.Rename(deb, path), jc.ErrorIsNil)

	info, err := artifact.Inspect(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info.Format, gc.Equals, artifact.Deb)
	c.Check(info.Version, gc.Equals, "7.10.2")
}

func (s *artifactSuite) TestInspectTruncatedRPM(c *gc.C) {
	path := filepath.Join(c.MkDir(), "filebeat.rpm")
	err := os.WriteFile(path, []byte{0xed, 0xab, 0xee, 0xdb, 3, 0}, 0644)
	c.Assert(err, jc.ErrorIsNil)

	_, err = artifact.Inspect(path)
	c.Assert(err, jc.ErrorIs, errors.NotValid)
}

func (s *artifactSuite) TestInspectUnknownContent(c *gc.C) {
	for i, content := range []string{"#!/bin/sh\necho hi\n", "not an rpm", ""} {
		c.Logf("test %d: %q", i, content)
		path := filepath.Join(c.MkDir(), "filebeat.deb")
		err := os.WriteFile(path, []byte(content), 0644)
		c.Assert(err, jc.ErrorIsNil)

		_, err = artifact.Inspect(path)
		c.Check(err, jc.ErrorIs, errors.NotSupported)
	}
}

func (s *artifactSuite) TestInspectMissingFile(c *gc.C) {
	_, err := artifact.Inspect(filepath.Join(c.MkDir(), "filebeat.deb"))
	c.Assert(err, jc.ErrorIs, os.ErrNotExist)
}

func (s *artifactSuite) TestVersionNumber(c *gc.C) {
	tests := []struct {
		version  string
		expected version.Number
		err      string
	}{
		{version: "7.10.2", expected: version.MustParse("7.10.2")},
		{version: "1:7.10.2-1", expected: version.MustParse("7.10.2")},
		{version: "oss", err: `package version "oss" not valid`},
	}
	for i, t := range tests {
		c.Logf("test %d: %s", i, t.version)
		n, err := artifact.Info{Version: t.version}.VersionNumber()
		if t.err != "" {
			c.Check(err, gc.ErrorMatches, t.err)
			continue
		}
		c.Check(err, jc.ErrorIsNil)
		c.Check(n, gc.Equals, t.expected)
	}
}
