// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package ostype

import "strings"

// OSType is the distribution family of a host, as named by the ID key of
// its os-release file.
type OSType int

const (
	Unknown OSType = iota
	Ubuntu
	CentOS
)

func (t OSType) String() string {
	switch t {
	case Ubuntu:
		return "ubuntu"
	case CentOS:
		return "centos"
	}
	return "unknown"
}

// PackageFormat returns the native package format installed on hosts of
// this type, or the empty string when there isn't one we know of.
func (t OSType) PackageFormat() string {
	switch t {
	case Ubuntu:
		return "deb"
	case CentOS:
		return "rpm"
	}
	return ""
}

var osTypeIDs = map[string]OSType{
	"ubuntu": Ubuntu,
	"centos": CentOS,
}

// OSTypeForID returns the OSType for an os-release ID, or Unknown.
func OSTypeForID(id string) OSType {
	if t, ok := osTypeIDs[strings.ToLower(id)]; ok {
		return t
	}
	return Unknown
}
