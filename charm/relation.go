// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"encoding/json"
	"net"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/naturalsort"
)

// DefaultElasticsearchPort is used when a remote unit publishes a host
// without a port.
const DefaultElasticsearchPort = "9200"

// RelationHosts maps each remote elasticsearch unit to the hosts it
// advertised.
type RelationHosts map[string][]string

// ParseRelationHosts decodes hosts stored with Serialize. Empty input
// yields an empty map.
func ParseRelationHosts(data string) (RelationHosts, error) {
	hosts := make(RelationHosts)
	if strings.TrimSpace(data) == "" {
		return hosts, nil
	}
	if err := json.Unmarshal([]byte(data), &hosts); err != nil {
		return nil, errors.Annotate(err, "parsing relation hosts")
	}
	return hosts, nil
}

// Serialize encodes the hosts for storage in unit state.
func (h RelationHosts) Serialize() (string, error) {
	if len(h) == 0 {
		return "", nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return "", errors.Trace(err)
	}
	return string(data), nil
}

// All returns every host, ordered by remote unit name (so unit 2 comes
// before unit 10), without repetitions.
func (h RelationHosts) All() []string {
	units := make([]string, 0, len(h))
	for unit := range h {
		units = append(units, unit)
	}
	naturalsort.Sort(units)
	var all []string
	for _, unit := range units {
		all = append(all, h[unit]...)
	}
	return uniqueFields(all)
}

// HostsFromSettings extracts the Elasticsearch hosts a remote unit
// published. An explicit "hosts" list wins; otherwise the unit's address
// and "port" are used.
func HostsFromSettings(settings map[string]string) []string {
	if hosts := settings["hosts"]; hosts != "" {
		return uniqueFields(strings.FieldsFunc(hosts, func(r rune) bool {
			return r == ',' || r == ' '
		}))
	}
	address := ""
	for _, key := range []string{"host", "ingress-address", "private-address"} {
		if address = strings.TrimSpace(settings[key]); address != "" {
			break
		}
	}
	if address == "" {
		return nil
	}
	port := strings.TrimSpace(settings["port"])
	if port == "" {
		port = DefaultElasticsearchPort
	}
	return []string{net.JoinHostPort(address, port)}
}

// mergeHosts returns the configured hosts followed by the relation
// hosts, without repetitions.
func mergeHosts(configured []string, related RelationHosts) []string {
	return uniqueFields(append(append([]string(nil), configured...), related.All()...))
}
