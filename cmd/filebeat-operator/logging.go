// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"
	"io"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/lumberjack/v2"
)

const fileWriterName = "file"

// setupLogging sends log output to stderr and, when a log file is given,
// to a rotated file. The returned func closes the file.
func setupLogging(opts options, stderr io.Writer) (func(), error) {
	level, ok := loggo.ParseLevel(opts.logLevel)
	if !ok {
		return nil, errors.NotValidf("log level %q", opts.logLevel)
	}
	if _, err := loggo.ReplaceDefaultWriter(loggo.NewSimpleWriter(stderr, loggo.DefaultFormatter)); err != nil {
		return nil, errors.Trace(err)
	}
	if err := loggo.ConfigureLoggers(fmt.Sprintf("<root>=%s", level)); err != nil {
		return nil, errors.Trace(err)
	}
	if opts.logFile == "" {
		return func() {}, nil
	}

	writer := &lumberjack.Logger{
		Filename:   opts.logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 2,
		Compress:   true,
	}
	if err := loggo.RegisterWriter(fileWriterName, loggo.NewSimpleWriter(writer, loggo.DefaultFormatter)); err != nil {
		return nil, errors.Annotatef(err, "logging to %s", opts.logFile)
	}
	return func() {
		_, _ = loggo.RemoveWriter(fileWriterName)
		_ = writer.Close()
	}, nil
}
