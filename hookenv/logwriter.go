// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"fmt"

	"github.com/juju/loggo/v2"
)

// LogWriter is a loggo.Writer that forwards entries at or above a minimum
// level to juju-log, so they appear in the unit's debug-log.
type LogWriter struct {
	ctx      *Context
	minLevel loggo.Level
}

// NewLogWriter returns a LogWriter sending entries at minLevel and above
// through ctx.
func NewLogWriter(ctx *Context, minLevel loggo.Level) *LogWriter {
	return &LogWriter{ctx: ctx, minLevel: minLevel}
}

// Write implements loggo.Writer.
func (w *LogWriter) Write(entry loggo.Entry) {
	if entry.Level < w.minLevel {
		return
	}
	msg := fmt.Sprintf("%s %s", entry.Module, entry.Message)
	// A failure cannot be logged from inside a writer.
	_ = w.ctx.Log(entry.Level, msg)
}
