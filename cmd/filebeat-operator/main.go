// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// filebeat-operator runs the hooks of the filebeat charm. It is installed
// as the charm's dispatch script, or symlinked as each hook, and runs the
// hook named by how it was invoked.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"

	"github.com/juju/filebeat-operator/hookenv"
)

var logger = loggo.GetLogger("filebeat.cmd")

const (
	// exitError is returned when the hook fails.
	exitError = 1
	// exitUsage is returned when the binary is invoked incorrectly.
	exitUsage = 2
	// exitPanic is returned when we exit due to an unhandled panic.
	exitPanic = 3
)

// commandName is the name of the binary when it is not invoked as a hook.
const commandName = "filebeat-operator"

// envDispatchPath is set by the unit agent when the charm has a dispatch
// script, e.g. "hooks/install".
const envDispatchPath = "JUJU_DISPATCH_PATH"

type options struct {
	charmDir    string
	osRelease   string
	service     string
	logFile     string
	logLevel    string
	lockTimeout time.Duration
}

func main() {
	os.Exit(Main(os.Args))
}

// Main is not redundant with main(), because it provides an entry point
// for testing with arbitrary command line arguments.
// A panic is reported as exitPanic once the deferred cleanups, including
// the machine lock release, have run.
func Main(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			logger.Criticalf("Unhandled panic: \n%v\n%s", r, buf)
			code = exitPanic
		}
	}()

	opts, hookName, err := parseArgs(args, os.Getenv, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
		return exitUsage
	}
	closeLog, err := setupLogging(opts, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
		return exitUsage
	}
	defer closeLog()

	if err := runHook(opts, hookName, os.Getenv); err != nil {
		logger.Errorf("%v", err)
		return exitError
	}
	return 0
}

// parseArgs returns the options and the hook to run. The hook is the name
// the binary was invoked as, the hook in JUJU_DISPATCH_PATH (or
// JUJU_HOOK_NAME) when invoked as the dispatch script, or the first
// argument otherwise.
func parseArgs(args []string, getenv func(string) string, stderr io.Writer) (options, string, error) {
	if len(args) == 0 {
		return options{}, "", errors.New("no command name")
	}
	env := hookenv.NewContext(nil, getenv)
	opts := options{}
	name := filepath.Base(args[0])
	fs := gnuflag.NewFlagSet(name, gnuflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.charmDir, "charm-dir", env.CharmDir(), "directory the charm is unpacked in")
	fs.StringVar(&opts.osRelease, "os-release", "/etc/os-release", "host identity file")
	fs.StringVar(&opts.service, "service", "filebeat", "name of the managed service")
	fs.StringVar(&opts.logFile, "log-file", "", "also log to this file, rotating it as it grows")
	fs.StringVar(&opts.logLevel, "log-level", "INFO", "minimum level to log")
	fs.DurationVar(&opts.lockTimeout, "lock-timeout", 5*time.Minute, "how long to wait for another hook to finish")
	if err := fs.Parse(true, args[1:]); err != nil {
		return options{}, "", errors.Trace(err)
	}
	rest := fs.Args()

	var hookName string
	switch name {
	case commandName:
		if len(rest) == 0 {
			return options{}, "", errors.New("no hook name given")
		}
		hookName, rest = rest[0], rest[1:]
	case "dispatch":
		if path := getenv(envDispatchPath); path != "" {
			hookName = filepath.Base(path)
		} else if hookName = env.HookName(); hookName == "" {
			return options{}, "", errors.Errorf("%s not set", envDispatchPath)
		}
	default:
		hookName = name
	}
	if len(rest) > 0 {
		return options{}, "", errors.Errorf("unrecognized args: %q", rest)
	}
	if opts.charmDir == "" {
		return options{}, "", errors.New("charm directory not set, use --charm-dir or JUJU_CHARM_DIR")
	}
	if _, ok := loggo.ParseLevel(opts.logLevel); !ok {
		return options{}, "", errors.NotValidf("log level %q", opts.logLevel)
	}
	opts.service = strings.TrimSpace(opts.service)
	if opts.service == "" {
		return options{}, "", errors.NotValidf("empty service name")
	}
	return opts, hookName, nil
}
