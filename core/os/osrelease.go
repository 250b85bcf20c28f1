// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package os

import (
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
	"github.com/juju/filebeat-operator/core/os/ostype"
)

// OSReleaseFile is the canonical host identity file.
const OSReleaseFile = "/etc/os-release"

var logger = loggo.GetLogger("filebeat.core.os")

// HostFacts identifies the distribution running on the host. It is read
// once and not modified afterwards.
type HostFacts struct {
	// ID is the lower case distribution id, e.g. "ubuntu".
	ID string
	// VersionID is the distribution version, e.g. "20.04".
	VersionID string
	// Values holds every key read from the identity file.
	Values map[string]string
}

// OSType returns the distribution family of the host.
func (f HostFacts) OSType() ostype.OSType {
	return ostype.OSTypeForID(f.ID)
}

func (f HostFacts) String() string {
	return f.ID + "/" + f.VersionID
}

// ReadHostFacts reads the identity file at path and returns the host's
// distribution id and version.
func ReadHostFacts(path string) (HostFacts, error) {
	values, err := ReadOSRelease(path)
	if err != nil {
		return HostFacts{}, errors.Trace(err)
	}
	// Lookups everywhere else are keyed on the lower case id.
	facts := HostFacts{
		ID:        strings.ToLower(strings.TrimSpace(values["ID"])),
		VersionID: strings.TrimSpace(values["VERSION_ID"]),
		Values:    values,
	}
	if facts.ID == "" {
		return HostFacts{}, errors.WithType(errors.Errorf("%s: missing ID", path), coreerrors.HostDetection)
	}
	if facts.VersionID == "" {
		return HostFacts{}, errors.WithType(errors.Errorf("%s: missing VERSION_ID", path), coreerrors.HostDetection)
	}
	logger.Debugf("host is %s", facts)
	return facts, nil
}

// ReadOSRelease reads and parses the identity file at path.
func ReadOSRelease(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithType(errors.Annotatef(err, "reading %s", path), coreerrors.HostDetection)
	}
	return ParseOSRelease(string(data)), nil
}

// ParseOSRelease parses KEY=VALUE lines. Each value has one surrounding
// pair of double quotes removed. Blank lines, comments and lines without
// '=' are skipped.
func ParseOSRelease(content string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[key] = unquote(value)
	}
	return values
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}
