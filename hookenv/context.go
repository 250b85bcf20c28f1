// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hookenv gives a charm access to its hook environment: the
// JUJU_* variables set for the running hook, and the hook tools the agent
// puts on the PATH.
package hookenv

import (
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"

	"github.com/juju/filebeat-operator/utils/command"
)

var logger = loggo.GetLogger("filebeat.hookenv")

// Environment variables set by the unit agent for every hook.
const (
	EnvUnitName   = "JUJU_UNIT_NAME"
	EnvHookName   = "JUJU_HOOK_NAME"
	EnvCharmDir   = "JUJU_CHARM_DIR"
	EnvRelationID = "JUJU_RELATION_ID"
	EnvRemoteUnit = "JUJU_REMOTE_UNIT"
)

// Context runs hook tools for the current hook.
type Context struct {
	runner command.Runner
	getenv func(string) string
}

// NewContext returns a Context that runs hook tools with runner and reads
// the hook environment with getenv. A nil getenv reads the process
// environment.
func NewContext(runner command.Runner, getenv func(string) string) *Context {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Context{
		runner: runner,
		getenv: getenv,
	}
}

// UnitName returns the name of the unit the hook runs for.
func (c *Context) UnitName() (string, error) {
	name := c.getenv(EnvUnitName)
	if name == "" {
		return "", errors.NotFoundf("%s", EnvUnitName)
	}
	if !names.IsValidUnit(name) {
		return "", errors.NotValidf("unit name %q", name)
	}
	return name, nil
}

// HookName returns the name of the running hook, or "" outside a hook.
func (c *Context) HookName() string {
	return c.getenv(EnvHookName)
}

// CharmDir returns the directory the charm is unpacked in.
func (c *Context) CharmDir() string {
	return c.getenv(EnvCharmDir)
}

// RelationID returns the relation the hook runs for, e.g.
// "elasticsearch:3", or "" for a non-relation hook.
func (c *Context) RelationID() string {
	return c.getenv(EnvRelationID)
}

// RemoteUnit returns the remote unit a relation hook runs for.
func (c *Context) RemoteUnit() string {
	return c.getenv(EnvRemoteUnit)
}

// run runs a hook tool and returns its trimmed stdout.
func (c *Context) run(args ...string) (string, error) {
	result, err := command.Check(c.runner, args...)
	if err != nil {
		return "", errors.Annotatef(err, "%s", args[0])
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}
