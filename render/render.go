// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package render renders workload configuration files from templates kept
// in the charm's template directory.
package render

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
)

var logger = loggo.GetLogger("filebeat.render")

// Renderer renders named templates from a directory. Templates are read
// from disk on every call.
type Renderer struct {
	dir string
}

// NewRenderer returns a Renderer for the templates in dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Render executes the template called name against context. Referencing a
// key that context does not hold is an error.
func (r *Renderer) Render(name string, context map[string]interface{}) (string, error) {
	path := filepath.Join(r.dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", errors.WithType(errors.Errorf("template %q not found in %s", name, r.dir), coreerrors.TemplateNotFound)
	} else if err != nil {
		return "", errors.Annotatef(err, "reading template %q", name)
	}

	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(data))
	if err != nil {
		return "", errors.WithType(errors.Annotatef(err, "parsing template %q", name), coreerrors.TemplateRenderFailed)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, context); err != nil {
		return "", errors.WithType(errors.Annotatef(err, "rendering template %q", name), coreerrors.TemplateRenderFailed)
	}
	logger.Tracef("rendered %s:\n%s", name, buf.String())
	return buf.String(), nil
}
