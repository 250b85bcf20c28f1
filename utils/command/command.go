// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package command runs external programs on the host. Everything that
// shells out to a package manager, systemctl or a hook tool goes through a
// Runner so that tests can record the exact argv without touching the host.
package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"
)

var logger = loggo.GetLogger("filebeat.utils.command")

// Result holds the outcome of a command that ran to completion.
type Result struct {
	Code   int
	Stdout []byte
	Stderr []byte
}

// Runner runs a command synchronously. An error is only returned when the
// command could not be run at all; a non-zero exit is reported in the
// Result.
type Runner interface {
	Run(args ...string) (*Result, error)
}

// ExitError is returned by Check when a command exits non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%q exited with code %d", strings.Join(e.Args, " "), e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Check runs args and turns a non-zero exit into an *ExitError.
func Check(runner Runner, args ...string) (*Result, error) {
	result, err := runner.Run(args...)
	if err != nil {
		return nil, errors.Annotatef(err, "running %q", strings.Join(args, " "))
	}
	if result.Code != 0 {
		return result, &ExitError{
			Args:   args,
			Code:   result.Code,
			Stderr: strings.TrimSpace(string(result.Stderr)),
		}
	}
	return result, nil
}

// ShellRunner runs commands through the host shell.
type ShellRunner struct {
	// Environment is appended to the process environment for every
	// command.
	Environment []string
	// WorkingDir is the directory commands run in.
	WorkingDir string
}

// NewShellRunner returns a ShellRunner that adds env to the environment of
// every command it runs.
func NewShellRunner(env ...string) *ShellRunner {
	return &ShellRunner{Environment: env}
}

// Run implements Runner.
func (r *ShellRunner) Run(args ...string) (*Result, error) {
	if len(args) == 0 {
		return nil, errors.NotValidf("empty command")
	}
	commands := shellquote.Join(args...)
	logger.Debugf("running: %s", commands)
	resp, err := exec.RunCommands(exec.RunParams{
		Commands:    commands,
		WorkingDir:  r.WorkingDir,
		Environment: append(os.Environ(), r.Environment...),
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	logger.Tracef("stdout: %s", resp.Stdout)
	if resp.Code != 0 {
		logger.Debugf("%q exited with code %d: %s", commands, resp.Code, resp.Stderr)
	}
	return &Result{
		Code:   resp.Code,
		Stdout: resp.Stdout,
		Stderr: resp.Stderr,
	}, nil
}
