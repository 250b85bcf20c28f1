// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package artifact reads the metadata of a native package file before it
// is handed to the package manager.
package artifact

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/cavaliergopher/rpm"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/version/v2"

	"github.com/juju/filebeat-operator/core/os/ostype"
)

var logger = loggo.GetLogger("filebeat.packaging.artifact")

// Format is a native package format.
type Format string

const (
	Deb Format = "deb"
	RPM Format = "rpm"
)

// Info describes a package file.
type Info struct {
	Path    string
	Format  Format
	Name    string
	Version string
}

// Compatible reports whether the package can be installed on hosts of the
// given type.
func (i Info) Compatible(t ostype.OSType) bool {
	return t.PackageFormat() == string(i.Format)
}

// VersionNumber parses the package version. Debian epochs and revisions
// are dropped first.
func (i Info) VersionNumber() (version.Number, error) {
	v := i.Version
	if _, rest, ok := strings.Cut(v, ":"); ok {
		v = rest
	}
	if head, _, ok := strings.Cut(v, "-"); ok {
		v = head
	}
	n, err := version.Parse(v)
	if err != nil {
		return version.Zero, errors.NotValidf("package version %q", i.Version)
	}
	return n, nil
}

// rpmLeadMagic starts every rpm file.
var rpmLeadMagic = []byte{0xed, 0xab, 0xee, 0xdb}

// Inspect reads the metadata of the package at path. The format is taken
// from the file content, so a package saved under the wrong extension is
// still recognised. Content that is neither a deb nor an rpm is
// NotSupported.
func Inspect(path string) (Info, error) {
	format, err := sniffFormat(path)
	if err != nil {
		return Info{}, errors.Trace(err)
	}
	switch format {
	case RPM:
		return inspectRPM(path)
	case Deb:
		return inspectDeb(path)
	}
	return Info{}, errors.NotSupportedf("package file %q", filepath.Base(path))
}

// sniffFormat returns the package format named by the magic bytes at the
// start of path, or the empty Format when there is none.
func sniffFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Trace(err)
	}
	defer f.Close()

	magic := make([]byte, len(ar.GLOBAL_HEADER))
	n, err := io.ReadFull(f, magic)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", errors.Annotatef(err, "reading %q", path)
	}
	magic = magic[:n]
	switch {
	case string(magic) == ar.GLOBAL_HEADER:
		return Deb, nil
	case bytes.HasPrefix(magic, rpmLeadMagic):
		return RPM, nil
	}
	return "", nil
}

func inspectRPM(path string) (Info, error) {
	p, err := rpm.Open(path)
	if err != nil {
		return Info{}, errors.NotValidf("rpm %q: %v", path, err)
	}
	info := Info{
		Path:    path,
		Format:  RPM,
		Name:    p.Name(),
		Version: p.Version(),
	}
	logger.Debugf("%s is rpm %s %s", path, info.Name, info.Version)
	return info, nil
}

func inspectDeb(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, errors.Trace(err)
	}
	defer f.Close()

	info := Info{Path: path, Format: Deb}
	var sawBinary bool
	reader := ar.NewReader(f)
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return Info{}, errors.NotValidf("deb %q: %v", path, err)
		}
		name := strings.TrimSuffix(header.Name, "/")
		switch {
		case name == "debian-binary":
			sawBinary = true
		case strings.HasPrefix(name, "control.tar"):
			fields, err := readControl(name, reader)
			if err != nil {
				return Info{}, errors.Annotatef(err, "reading control from %q", path)
			}
			info.Name = fields["Package"]
			info.Version = fields["Version"]
		}
	}
	if !sawBinary {
		return Info{}, errors.NotValidf("deb %q: missing debian-binary", path)
	}
	logger.Debugf("%s is deb %s %s", path, info.Name, info.Version)
	return info, nil
}

// readControl extracts the fields of the control file from a control
// archive. Compressions other than gzip are skipped, leaving the name and
// version unknown.
func readControl(member string, r io.Reader) (map[string]string, error) {
	var data io.Reader
	switch member {
	case "control.tar":
		data = r
	case "control.tar.gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Trace(err)
		}
		defer gz.Close()
		data = gz
	default:
		logger.Debugf("skipping %s", member)
		return nil, nil
	}

	tr := tar.NewReader(data)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, errors.NotFoundf("control file")
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		if strings.TrimPrefix(header.Name, "./") != "control" {
			continue
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, tr); err != nil {
			return nil, errors.Trace(err)
		}
		return parseControl(&buf), nil
	}
}

func parseControl(r io.Reader) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}
