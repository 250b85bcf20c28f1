// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package artifacttesting

import (
	"bytes"
	"encoding/binary"
	"os"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

const (
	rpmTagName    = 1000
	rpmTagVersion = 1001
	rpmTypeString = 6
)

// WriteRPM writes a minimal rpm to path holding only the name and
// version tags, and returns path.
func WriteRPM(c *gc.C, path, name, version string) string {
	var buf bytes.Buffer
	lead := make([]byte, 96)
	copy(lead, []byte{0xed, 0xab, 0xee, 0xdb, 3, 0})
	buf.Write(lead)

	header := func(entries [][4]uint32, store []byte) {
		buf.Write([]byte{0x8e, 0xad, 0xe8, 0x01, 0, 0, 0, 0})
		c.Assert(binary.Write(&buf, binary.BigEndian, uint32(len(entries))), jc.ErrorIsNil)
		c.Assert(binary.Write(&buf, binary.BigEndian, uint32(len(store))), jc.ErrorIsNil)
		for _, entry := range entries {
			c.Assert(binary.Write(&buf, binary.BigEndian, entry), jc.ErrorIsNil)
		}
		buf.Write(store)
	}
	// An empty signature header, then the package header.
	header(nil, nil)
	header([][4]uint32{
		{rpmTagName, rpmTypeString, 0, 1},
		{rpmTagVersion, rpmTypeString, uint32(len(name) + 1), 1},
	}, []byte(name+"\x00"+version+"\x00"))

	err := os.WriteFile(path, buf.Bytes(), 0644)
	c.Assert(err, jc.ErrorIsNil)
	return path
}
