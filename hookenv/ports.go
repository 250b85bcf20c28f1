// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// PortRange is a range of ports opened on the unit's machine. A zero
// ToPort means a single port. ICMP has no ports.
type PortRange struct {
	FromPort int
	ToPort   int
	Protocol string
}

// NewPortRange returns a validated port range.
func NewPortRange(fromPort, toPort int, protocol string) (PortRange, error) {
	p := PortRange{
		FromPort: fromPort,
		ToPort:   toPort,
		Protocol: strings.ToLower(protocol),
	}
	if p.Protocol == "icmp" {
		p.FromPort, p.ToPort = 0, 0
	}
	if err := p.Validate(); err != nil {
		return PortRange{}, errors.Trace(err)
	}
	return p, nil
}

// Validate checks that the range can be passed to open-port.
func (p PortRange) Validate() error {
	switch p.Protocol {
	case "tcp", "udp":
	case "icmp":
		return nil
	default:
		return errors.NotValidf("protocol %q", p.Protocol)
	}
	to := p.ToPort
	if to == 0 {
		to = p.FromPort
	}
	if p.FromPort <= 0 || p.FromPort > 65535 || to > 65535 {
		return errors.NotValidf("port range %d-%d", p.FromPort, to)
	}
	if p.FromPort > to {
		return errors.NotValidf("port range %d-%d", p.FromPort, to)
	}
	return nil
}

// String returns the range as the port hook tools expect it, e.g.
// "5044/tcp", "5000-5010/udp" or "icmp".
func (p PortRange) String() string {
	switch {
	case p.Protocol == "icmp":
		return p.Protocol
	case p.ToPort != 0 && p.ToPort != p.FromPort:
		return fmt.Sprintf("%d-%d/%s", p.FromPort, p.ToPort, p.Protocol)
	default:
		return fmt.Sprintf("%d/%s", p.FromPort, p.Protocol)
	}
}

// OpenPort opens ports on the unit's machine.
func (c *Context) OpenPort(ports PortRange) error {
	return errors.Trace(c.modifyPort("open-port", ports))
}

// ClosePort closes ports opened with OpenPort.
func (c *Context) ClosePort(ports PortRange) error {
	return errors.Trace(c.modifyPort("close-port", ports))
}

func (c *Context) modifyPort(tool string, ports PortRange) error {
	if err := ports.Validate(); err != nil {
		return errors.Trace(err)
	}
	_, err := c.run(tool, ports.String())
	return errors.Trace(err)
}
