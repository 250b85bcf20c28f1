// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/schema"
)

// Charm config option names.
const (
	ElasticsearchHostsKey = "elasticsearch-hosts"
	LogPathKey            = "logpath"
	BeatsPortKey          = "beats-port"
)

// DefaultLogPath is harvested when logpath is unset.
const DefaultLogPath = "/var/log/*.log"

// Config is the typed view of the charm's config settings.
type Config struct {
	// ElasticsearchHosts are backends configured directly rather than
	// learnt over a relation.
	ElasticsearchHosts []string
	// LogPaths are the globs harvested by the workload.
	LogPaths []string
	// BeatsPort is the port the workload listens on for beats, or 0.
	BeatsPort int
}

var configFields = schema.Fields{
	ElasticsearchHostsKey: schema.String(),
	LogPathKey:            schema.String(),
	BeatsPortKey:          schema.ForceInt(),
}

var configDefaults = schema.Defaults{
	ElasticsearchHostsKey: "",
	LogPathKey:            DefaultLogPath,
	BeatsPortKey:          0,
}

var configChecker = schema.FieldMap(configFields, configDefaults)

// ParseConfig coerces the settings returned by config-get. Unknown
// settings are warned about and ignored.
func ParseConfig(settings map[string]interface{}) (Config, error) {
	coerced, err := configChecker.Coerce(settings, nil)
	if err != nil {
		return Config{}, errors.NotValidf("charm config: %v", err)
	}
	for name := range settings {
		if configFields[name] == nil {
			logger.Warningf("unknown config field %q", name)
		}
	}
	m := coerced.(map[string]interface{})

	port := m[BeatsPortKey].(int)
	if port < 0 || port > 65535 {
		return Config{}, errors.NotValidf("%s %d", BeatsPortKey, port)
	}
	logPaths := uniqueFields(strings.Fields(m[LogPathKey].(string)))
	if len(logPaths) == 0 {
		logPaths = []string{DefaultLogPath}
	}
	return Config{
		ElasticsearchHosts: uniqueFields(strings.Split(m[ElasticsearchHostsKey].(string), ",")),
		LogPaths:           logPaths,
		BeatsPort:          port,
	}, nil
}

// uniqueFields trims each value and drops empty and repeated ones,
// keeping the first occurrence.
func uniqueFields(values []string) []string {
	seen := set.NewStrings()
	var result []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen.Contains(v) {
			continue
		}
		seen.Add(v)
		result = append(result, v)
	}
	return result
}
