// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status_test

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
	"github.com/juju/filebeat-operator/core/status"
)

type statusSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&statusSuite{})

func (s *statusSuite) TestValidWorkloadStatus(c *gc.C) {
	for _, st := range []status.Status{status.Maintenance, status.Blocked, status.Waiting, status.Active} {
		c.Check(status.ValidWorkloadStatus(st), jc.IsTrue, gc.Commentf("%s", st))
	}
	c.Check(status.ValidWorkloadStatus(status.Error), jc.IsFalse)
	c.Check(status.ValidWorkloadStatus(status.Unknown), jc.IsFalse)
	c.Check(status.ValidWorkloadStatus(status.Status("lost")), jc.IsFalse)
}

func (s *statusSuite) TestConstructors(c *gc.C) {
	c.Check(status.NewBlocked("Need relation to elasticsearch"), jc.DeepEquals, status.StatusInfo{
		Status:  status.Blocked,
		Message: "Need relation to elasticsearch",
	})
	c.Check(status.NewActive("filebeat started").Status, gc.Equals, status.Active)
	c.Check(status.NewWaiting("x").Status, gc.Equals, status.Waiting)
	c.Check(status.NewMaintenance("x").Status, gc.Equals, status.Maintenance)
}

func (s *statusSuite) TestFromNilError(c *gc.C) {
	c.Check(status.FromError(nil), jc.DeepEquals, status.StatusInfo{Status: status.Active})
}

func (s *statusSuite) TestFromErrorKinds(c *gc.C) {
	for i, t := range []struct {
		kind    errors.ConstError
		message string
	}{{
		kind:    coreerrors.HostDetection,
		message: "cannot detect host platform: boom",
	}, {
		kind:    coreerrors.UnsupportedPlatform,
		message: "unsupported platform: boom",
	}, {
		kind:    coreerrors.InstallFailed,
		message: "installation failed: boom",
	}, {
		kind:    coreerrors.ServiceControlFailed,
		message: "service control failed: boom",
	}, {
		kind:    coreerrors.TemplateNotFound,
		message: "configuration template missing: boom",
	}, {
		kind:    coreerrors.TemplateRenderFailed,
		message: "cannot render configuration: boom",
	}, {
		kind:    coreerrors.ConfigWriteFailed,
		message: "cannot write configuration: boom",
	}} {
		c.Logf("test %d: %s", i, t.kind)
		err := errors.Trace(errors.WithType(errors.New("boom"), t.kind))
		c.Check(status.FromError(err), jc.DeepEquals, status.NewBlocked(t.message))
	}
}

func (s *statusSuite) TestFromUntypedError(c *gc.C) {
	err := errors.Annotate(errors.New("boom"), "running hook")
	c.Check(status.FromError(err), jc.DeepEquals, status.NewBlocked("running hook: boom"))
}
