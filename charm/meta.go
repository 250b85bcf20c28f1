// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"io"
	"sort"

	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/yaml.v3"
)

const (
	ScopeGlobal    = "global"
	ScopeContainer = "container"
)

// Relation represents a single relation defined in the charm
// metadata.yaml file.
type Relation struct {
	Interface string
	Optional  bool
	Limit     int
	Scope     string
}

// Resource is a resource declared in metadata.yaml.
type Resource struct {
	Type        string
	Filename    string
	Description string
}

// Meta represents the parts of a charm's metadata.yaml the operator uses.
type Meta struct {
	Name        string
	Summary     string
	Description string
	Provides    map[string]Relation
	Requires    map[string]Relation
	Peers       map[string]Relation
	Resources   map[string]Resource
	Subordinate bool
}

// ReadMeta reads the content of a metadata.yaml file and returns
// its representation.
func ReadMeta(r io.Reader) (*Meta, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Annotate(err, "metadata")
	}
	v, err := charmSchema.Coerce(raw, nil)
	if err != nil {
		return nil, errors.Annotate(err, "metadata")
	}
	m := v.(map[string]interface{})
	meta := &Meta{
		Name:        m["name"].(string),
		Summary:     m["summary"].(string),
		Description: m["description"].(string),
		Provides:    parseRelations(m["provides"]),
		Requires:    parseRelations(m["requires"]),
		Peers:       parseRelations(m["peers"]),
		Resources:   parseResources(m["resources"]),
	}
	// Subordinate charms must have at least one relation that
	// has container scope, otherwise they can't relate to the
	// principal.
	if subordinate, _ := m["subordinate"].(bool); subordinate {
		valid := false
		for _, relation := range meta.Requires {
			if relation.Scope == ScopeContainer {
				valid = true
				break
			}
		}
		if !valid {
			return nil, errors.NotValidf("subordinate charm %q without container scoped requires relation", meta.Name)
		}
		meta.Subordinate = true
	}
	return meta, nil
}

// RequiredEndpoint returns the name of the requires endpoint speaking the
// given interface. When several do, the first in name order is used.
func (m *Meta) RequiredEndpoint(iface string) (string, error) {
	var endpoints []string
	for name, relation := range m.Requires {
		if relation.Interface == iface {
			endpoints = append(endpoints, name)
		}
	}
	if len(endpoints) == 0 {
		return "", errors.NotFoundf("%s requires endpoint for interface %q", m.Name, iface)
	}
	sort.Strings(endpoints)
	return endpoints[0], nil
}

func parseRelations(relations interface{}) map[string]Relation {
	if relations == nil {
		return nil
	}
	result := make(map[string]Relation)
	for name, rel := range relations.(map[interface{}]interface{}) {
		relMap := rel.(map[string]interface{})
		relation := Relation{
			Interface: relMap["interface"].(string),
			Optional:  relMap["optional"].(bool),
			Scope:     relMap["scope"].(string),
		}
		if limit, ok := relMap["limit"].(int64); ok {
			relation.Limit = int(limit)
		}
		result[name.(string)] = relation
	}
	return result
}

func parseResources(resources interface{}) map[string]Resource {
	if resources == nil {
		return nil
	}
	result := make(map[string]Resource)
	for name, res := range resources.(map[interface{}]interface{}) {
		resMap := res.(map[string]interface{})
		result[name.(string)] = Resource{
			Type:        resMap["type"].(string),
			Filename:    resMap["filename"].(string),
			Description: resMap["description"].(string),
		}
	}
	return result
}

// ifaceExpander returns a checker that expands the interface shorthand
// notation, so that both
//
//	requires:
//	  elasticsearch: elasticsearch
//
// and
//
//	requires:
//	  elasticsearch:
//	    interface: elasticsearch
//	    limit: 1
//
// coerce to the fully specified form.
func ifaceExpander(limit interface{}) schema.Checker {
	return ifaceExpC{limit}
}

type ifaceExpC struct {
	limit interface{}
}

var (
	stringC = schema.String()
	mapC    = schema.StringMap(schema.Any())
)

func (c ifaceExpC) Coerce(v interface{}, path []string) (interface{}, error) {
	if s, err := stringC.Coerce(v, path); err == nil {
		return map[string]interface{}{
			"interface": s,
			"limit":     c.limit,
			"optional":  false,
			"scope":     ScopeGlobal,
		}, nil
	}

	// Optional values are context-sensitive and/or have
	// defaults, which is different than what FieldMap can
	// readily support. So just do it here first, then
	// coerce to the real schema.
	v, err := mapC.Coerce(v, path)
	if err != nil {
		return nil, err
	}
	m := v.(map[string]interface{})
	if _, ok := m["limit"]; !ok {
		m["limit"] = c.limit
	}
	if _, ok := m["optional"]; !ok {
		m["optional"] = false
	}
	if _, ok := m["scope"]; !ok {
		m["scope"] = ScopeGlobal
	}
	return ifaceSchema.Coerce(m, path)
}

var ifaceSchema = schema.FieldMap(
	schema.Fields{
		"interface": schema.String(),
		"limit":     schema.OneOf(schema.Const(nil), schema.Int()),
		"scope":     schema.OneOf(schema.Const(ScopeGlobal), schema.Const(ScopeContainer)),
		"optional":  schema.Bool(),
	},
	schema.Defaults{},
)

var resourceSchema = schema.FieldMap(
	schema.Fields{
		"type":        schema.OneOf(schema.Const("file"), schema.Const("oci-image")),
		"filename":    schema.String(),
		"description": schema.String(),
	},
	schema.Defaults{
		"type":        "file",
		"filename":    "",
		"description": "",
	},
)

var charmSchema = schema.FieldMap(
	schema.Fields{
		"name":        schema.String(),
		"summary":     schema.String(),
		"description": schema.String(),
		"peers":       schema.Map(schema.String(), ifaceExpander(int64(1))),
		"provides":    schema.Map(schema.String(), ifaceExpander(nil)),
		"requires":    schema.Map(schema.String(), ifaceExpander(int64(1))),
		"resources":   schema.Map(schema.String(), resourceSchema),
		"subordinate": schema.Bool(),
	},
	schema.Defaults{
		"description": "",
		"provides":    schema.Omit,
		"requires":    schema.Omit,
		"peers":       schema.Omit,
		"resources":   schema.Omit,
		"subordinate": schema.Omit,
	},
)
