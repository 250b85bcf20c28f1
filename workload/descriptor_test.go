// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package workload

import (
	"github.com/juju/testing"
	gc "gopkg.in/check.v1"
)

type descriptorSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&descriptorSuite{})

func (*descriptorSuite) TestNewServiceDescriptor(c *gc.C) {
	d := NewServiceDescriptor("filebeat")
	c.Check(d, gc.Equals, ServiceDescriptor{
		Name:         "filebeat",
		ConfigPath:   "/etc/filebeat/filebeat.yml",
		TemplateName: "filebeat.yml.tmpl",
	})
}

func (*descriptorSuite) TestNewServiceDescriptorElasticsearch(c *gc.C) {
	d := NewServiceDescriptor("elasticsearch")
	c.Check(d.ConfigPath, gc.Equals, "/etc/elasticsearch/elasticsearch.yml")
	c.Check(d.TemplateName, gc.Equals, "elasticsearch.yml.tmpl")
}

func (*descriptorSuite) TestWithRoot(c *gc.C) {
	d := NewServiceDescriptor("filebeat").WithRoot("/tmp/root")
	c.Check(d.ConfigPath, gc.Equals, "/tmp/root/etc/filebeat/filebeat.yml")
	c.Check(d.Name, gc.Equals, "filebeat")
	c.Check(d.TemplateName, gc.Equals, "filebeat.yml.tmpl")
}

func (*descriptorSuite) TestWithEmptyRoot(c *gc.C) {
	d := NewServiceDescriptor("filebeat")
	c.Check(d.WithRoot(""), gc.Equals, d)
}
