// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/filebeat-operator/core/status"
)

// StatusSet sets the workload status of the unit.
func (c *Context) StatusSet(info status.StatusInfo) error {
	if !status.ValidWorkloadStatus(info.Status) {
		return errors.NotValidf("workload status %q", info.Status)
	}
	logger.Infof("status %s: %s", info.Status, info.Message)
	_, err := c.run("status-set", info.Status.String(), info.Message)
	return errors.Trace(err)
}

// ConfigGet returns the charm config settings. Unset options are omitted.
func (c *Context) ConfigGet() (map[string]interface{}, error) {
	out, err := c.run("config-get", "--format=json")
	if err != nil {
		return nil, errors.Trace(err)
	}
	settings := make(map[string]interface{})
	if out == "" {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(out), &settings); err != nil {
		return nil, errors.Annotate(err, "parsing config-get output")
	}
	for k, v := range settings {
		if v == nil {
			delete(settings, k)
		}
	}
	return settings, nil
}

// ResourceGet fetches the named resource and returns its local path.
func (c *Context) ResourceGet(name string) (string, error) {
	path, err := c.run("resource-get", name)
	if err != nil {
		return "", errors.Trace(err)
	}
	if path == "" {
		return "", errors.NotFoundf("resource %q", name)
	}
	return path, nil
}

// RelationGet returns the settings the remote unit has published on the
// relation.
func (c *Context) RelationGet(relationID, unit string) (map[string]string, error) {
	if relationID == "" || unit == "" {
		return nil, errors.NotValidf("relation %q unit %q", relationID, unit)
	}
	out, err := c.run("relation-get", "--format=json", "-r", relationID, "-", unit)
	if err != nil {
		return nil, errors.Trace(err)
	}
	settings := make(map[string]string)
	if out == "" || out == "null" {
		return settings, nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return nil, errors.Annotate(err, "parsing relation-get output")
	}
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			settings[k] = v
		default:
			settings[k] = fmt.Sprint(v)
		}
	}
	return settings, nil
}

// StateGet returns the value stored under key by StateSet, or "" if there
// is none.
func (c *Context) StateGet(key string) (string, error) {
	value, err := c.run("state-get", key)
	return value, errors.Trace(err)
}

// StateSet stores the given values in the unit's state. An empty value
// removes the key.
func (c *Context) StateSet(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "" || strings.Contains(k, "=") {
			return errors.NotValidf("state key %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := []string{"state-set"}
	for _, k := range keys {
		args = append(args, k+"="+values[k])
	}
	_, err := c.run(args...)
	return errors.Trace(err)
}

// ApplicationVersionSet records the workload version shown in status.
func (c *Context) ApplicationVersionSet(version string) error {
	_, err := c.run("application-version-set", version)
	return errors.Trace(err)
}

// Log writes msg to the unit's log at level.
func (c *Context) Log(level loggo.Level, msg string) error {
	if level == loggo.UNSPECIFIED {
		level = loggo.INFO
	}
	_, err := c.run("juju-log", "-l", level.String(), msg)
	return errors.Trace(err)
}
