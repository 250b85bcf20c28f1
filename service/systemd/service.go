// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package systemd

import (
	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
	"github.com/juju/filebeat-operator/utils/command"
)

var logger = loggo.GetLogger("filebeat.service.systemd")

const systemctl = "systemctl"

// DBusAPI is the part of the systemd D-Bus API used to query unit state.
type DBusAPI interface {
	ListUnitsByNames(units []string) ([]dbus.UnitStatus, error)
	Close()
}

// DBusAPIFactory opens a connection to systemd.
type DBusAPIFactory = func() (DBusAPI, error)

// NewDBusAPI connects to the system instance of systemd.
var NewDBusAPI = func() (DBusAPI, error) {
	return dbus.New()
}

// Controller enables, starts and restarts systemd services. State changes
// go through systemctl; state queries go over D-Bus.
type Controller struct {
	runner  command.Runner
	newDBus DBusAPIFactory
}

// NewController returns a Controller that runs systemctl with runner.
func NewController(runner command.Runner) *Controller {
	return NewControllerWithDBus(runner, NewDBusAPI)
}

// NewControllerWithDBus returns a Controller that queries unit state over
// connections made by newDBus.
func NewControllerWithDBus(runner command.Runner, newDBus DBusAPIFactory) *Controller {
	return &Controller{
		runner:  runner,
		newDBus: newDBus,
	}
}

func (c *Controller) errorf(err error, name, msg string, args ...interface{}) error {
	msg += " for service %q"
	args = append(args, name)
	err = errors.Annotatef(err, msg, args...)
	logger.Errorf("%v", err)
	return err
}

// Start enables the service so it comes back after a reboot, then starts
// it.
func (c *Controller) Start(name string) error {
	if err := c.systemctl("enable", name); err != nil {
		return errors.Trace(err)
	}
	if err := c.systemctl("start", name); err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("service %q successfully started", name)
	return nil
}

// Restart restarts the service, starting it if it was stopped.
func (c *Controller) Restart(name string) error {
	if err := c.systemctl("restart", name); err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("service %q successfully restarted", name)
	return nil
}

func (c *Controller) systemctl(action, name string) error {
	if _, err := command.Check(c.runner, systemctl, action, name); err != nil {
		return errors.WithType(c.errorf(err, name, "systemctl %s failed", action), coreerrors.ServiceControlFailed)
	}
	return nil
}

// Running reports whether the service's unit is loaded and active.
func (c *Controller) Running(name string) (bool, error) {
	conn, err := c.newDBus()
	if err != nil {
		return false, errors.Annotatef(err, "connecting to systemd for service %q", name)
	}
	defer conn.Close()

	unitName := name + ".service"
	units, err := conn.ListUnitsByNames([]string{unitName})
	if err != nil {
		return false, errors.Annotatef(err, "querying unit %q", unitName)
	}
	for _, unit := range units {
		if unit.Name == unitName {
			return unit.LoadState == "loaded" && unit.ActiveState == "active", nil
		}
	}
	return false, nil
}
