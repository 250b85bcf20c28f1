// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commandtesting

import (
	"strings"

	"github.com/juju/testing"

	"github.com/juju/filebeat-operator/utils/command"
)

// StubRunner records every command it is asked to run. Each call is
// recorded against the program name with the remaining argv as arguments.
type StubRunner struct {
	*testing.Stub

	results map[string][]*command.Result
}

// NewStubRunner returns a StubRunner where every command succeeds with no
// output unless told otherwise.
func NewStubRunner() *StubRunner {
	return &StubRunner{
		Stub:    &testing.Stub{},
		results: make(map[string][]*command.Result),
	}
}

// SetResults queues results for commands whose argv, joined by spaces,
// equals cmdline. Results are consumed in order; once exhausted the command
// succeeds.
func (r *StubRunner) SetResults(cmdline string, results ...*command.Result) {
	r.results[cmdline] = append(r.results[cmdline], results...)
}

// SetExitCode makes the next run of cmdline exit with code.
func (r *StubRunner) SetExitCode(cmdline string, code int) {
	r.SetResults(cmdline, &command.Result{Code: code, Stderr: []byte("failed")})
}

// SetStdout makes the next run of cmdline print stdout and succeed.
func (r *StubRunner) SetStdout(cmdline, stdout string) {
	r.SetResults(cmdline, &command.Result{Stdout: []byte(stdout)})
}

// Run implements command.Runner.
func (r *StubRunner) Run(args ...string) (*command.Result, error) {
	callArgs := make([]interface{}, 0, len(args))
	for _, arg := range args[1:] {
		callArgs = append(callArgs, arg)
	}
	r.AddCall(args[0], callArgs...)
	if err := r.NextErr(); err != nil {
		return nil, err
	}

	cmdline := strings.Join(args, " ")
	if queued := r.results[cmdline]; len(queued) > 0 {
		r.results[cmdline] = queued[1:]
		return queued[0], nil
	}
	return &command.Result{}, nil
}

// Commands returns the argv of every command run so far.
func (r *StubRunner) Commands() [][]string {
	var cmds [][]string
	for _, call := range r.Calls() {
		argv := []string{call.FuncName}
		for _, arg := range call.Args {
			argv = append(argv, arg.(string))
		}
		cmds = append(cmds, argv)
	}
	return cmds
}

// Cmdlines returns every command run so far joined by spaces.
func (r *StubRunner) Cmdlines() []string {
	var lines []string
	for _, argv := range r.Commands() {
		lines = append(lines, strings.Join(argv, " "))
	}
	return lines
}
