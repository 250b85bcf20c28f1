// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charm maps the lifecycle hooks of the filebeat charm onto the
// workload operations manager and reports the outcome as unit status.
package charm

import (
	"strconv"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coreerrors "github.com/juju/filebeat-operator/core/errors"
	"github.com/juju/filebeat-operator/core/status"
	"github.com/juju/filebeat-operator/hookenv"
	"github.com/juju/filebeat-operator/packaging/artifact"
	"github.com/juju/filebeat-operator/workload"
)

var logger = loggo.GetLogger("filebeat.charm")

// Hooks handled regardless of the charm's relations.
const (
	InstallHook       = "install"
	StartHook         = "start"
	ConfigChangedHook = "config-changed"
	UpgradeCharmHook  = "upgrade-charm"
	UpdateStatusHook  = "update-status"
)

// ElasticsearchInterface is the relation interface spoken with the
// Elasticsearch backend.
const ElasticsearchInterface = "elasticsearch"

// Unit state keys.
const (
	lifecycleKey     = "lifecycle"
	relationHostsKey = "relation-hosts"
	beatsPortKey     = "beats-port"
)

// Lifecycle values stored under the lifecycle key.
const (
	lifecycleInstalled = "installed"
	lifecycleRunning   = "running"
)

// NeedRelationMessage is the blocked status message shown until an
// Elasticsearch backend is known.
const NeedRelationMessage = "Need relation to elasticsearch"

// CharmConfig holds the dependencies of a Charm.
type CharmConfig struct {
	// Meta is the charm's metadata. When nil the relation endpoint is
	// assumed to be named after the interface.
	Meta     *Meta
	Hook     HookContext
	Workload Workload
	// Inspect reads a package file. Defaults to artifact.Inspect.
	Inspect func(path string) (artifact.Info, error)
}

// Validate checks that the config is usable.
func (c CharmConfig) Validate() error {
	if c.Hook == nil {
		return errors.NotValidf("nil Hook")
	}
	if c.Workload == nil {
		return errors.NotValidf("nil Workload")
	}
	return nil
}

// Charm runs hooks for one unit.
type Charm struct {
	hook     HookContext
	workload Workload
	inspect  func(path string) (artifact.Info, error)
	name     string
	endpoint string
	resource string
}

// NewCharm returns a Charm for the configured workload.
func NewCharm(config CharmConfig) (*Charm, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	name := config.Workload.Descriptor().Name
	endpoint := ElasticsearchInterface
	if config.Meta != nil {
		var err error
		if endpoint, err = config.Meta.RequiredEndpoint(ElasticsearchInterface); err != nil {
			return nil, errors.Trace(err)
		}
		if config.Meta.Resources != nil {
			if _, ok := config.Meta.Resources[name]; !ok {
				return nil, errors.NotFoundf("%s resource %q", config.Meta.Name, name)
			}
		}
	}
	inspect := config.Inspect
	if inspect == nil {
		inspect = artifact.Inspect
	}
	return &Charm{
		hook:     config.Hook,
		workload: config.Workload,
		inspect:  inspect,
		name:     name,
		endpoint: endpoint,
		resource: name,
	}, nil
}

// RelationChangedHook returns the name of the hook run when a backend
// publishes new settings.
func (c *Charm) RelationChangedHook() string {
	return c.endpoint + "-relation-changed"
}

// RelationDepartedHook returns the name of the hook run when a backend
// unit leaves the relation.
func (c *Charm) RelationDepartedHook() string {
	return c.endpoint + "-relation-departed"
}

func (c *Charm) handlers() map[string]func() error {
	return map[string]func() error{
		InstallHook:              c.install,
		StartHook:                c.start,
		ConfigChangedHook:        c.configChanged,
		UpgradeCharmHook:         c.upgradeCharm,
		UpdateStatusHook:         c.updateStatus,
		c.RelationChangedHook():  c.relationChanged,
		c.RelationDepartedHook(): c.relationDeparted,
	}
}

// Dispatch runs the named hook. Hooks the charm does not handle are
// ignored. On failure the unit is blocked with a reason derived from the
// error, and the error is returned so the hook fails.
func (c *Charm) Dispatch(hookName string) error {
	handler, ok := c.handlers()[hookName]
	if !ok {
		logger.Debugf("ignoring %s hook", hookName)
		return nil
	}
	logger.Infof("running %s hook", hookName)
	if err := handler(); err != nil {
		logger.Errorf("%s hook failed: %v", hookName, err)
		if statusErr := c.hook.StatusSet(status.FromError(err)); statusErr != nil {
			logger.Errorf("cannot set status: %v", statusErr)
		}
		return errors.Annotatef(err, "%s hook", hookName)
	}
	return nil
}

func (c *Charm) install() error {
	if err := c.hook.StatusSet(status.NewMaintenance("installing " + c.name)); err != nil {
		return errors.Trace(err)
	}
	path, err := c.hook.ResourceGet(c.resource)
	if err != nil {
		return errors.Annotatef(err, "fetching %s resource", c.resource)
	}
	info, err := c.checkArtifact(path)
	if err != nil {
		return errors.Trace(err)
	}
	if err := c.workload.Install(path); err != nil {
		return errors.Trace(err)
	}
	if version := applicationVersion(info); version != "" {
		if err := c.hook.ApplicationVersionSet(version); err != nil {
			return errors.Trace(err)
		}
	}
	if lifecycle, err := c.hook.StateGet(lifecycleKey); err != nil {
		return errors.Trace(err)
	} else if lifecycle == "" {
		if err := c.hook.StateSet(map[string]string{lifecycleKey: lifecycleInstalled}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(c.hook.StatusSet(status.NewMaintenance(c.name + " installed")))
}

// checkArtifact makes sure the package can be installed on this host.
// Files the inspector cannot read are handed to the package manager
// unchecked.
func (c *Charm) checkArtifact(path string) (artifact.Info, error) {
	info, err := c.inspect(path)
	if errors.Is(err, errors.NotSupported) {
		logger.Warningf("not checking %s: %v", path, err)
		return artifact.Info{Path: path}, nil
	} else if err != nil {
		return artifact.Info{}, errors.Annotatef(err, "inspecting %s resource", c.resource)
	}
	facts := c.workload.Facts()
	if !info.Compatible(facts.OSType()) {
		return artifact.Info{}, errors.WithType(
			errors.Errorf("%s package %s cannot be installed on %s", info.Format, info.Name, facts),
			coreerrors.UnsupportedPlatform,
		)
	}
	logger.Infof("installing %s %s from %s", info.Name, info.Version, path)
	return info, nil
}

func applicationVersion(info artifact.Info) string {
	if info.Version == "" {
		return ""
	}
	n, err := info.VersionNumber()
	if err != nil {
		return info.Version
	}
	return n.String()
}

func (c *Charm) start() error {
	if err := c.workload.Start(); err != nil {
		return errors.Trace(err)
	}
	if err := c.hook.StateSet(map[string]string{lifecycleKey: lifecycleRunning}); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.configure())
}

func (c *Charm) upgradeCharm() error {
	running, err := c.started()
	if err != nil {
		return errors.Trace(err)
	}
	if err := c.install(); err != nil {
		return errors.Trace(err)
	}
	if !running {
		return nil
	}
	return errors.Trace(c.configure())
}

func (c *Charm) configChanged() error {
	return errors.Trace(c.configureIfStarted())
}

func (c *Charm) updateStatus() error {
	running, err := c.started()
	if err != nil || !running {
		return errors.Trace(err)
	}
	config, related, err := c.load()
	if err != nil {
		return errors.Trace(err)
	}
	if len(mergeHosts(config.ElasticsearchHosts, related)) == 0 {
		return errors.Trace(c.hook.StatusSet(status.NewBlocked(NeedRelationMessage)))
	}
	return errors.Trace(c.reportRunning())
}

func (c *Charm) relationChanged() error {
	unit := c.hook.RemoteUnit()
	if unit == "" {
		return errors.NotValidf("%s hook without remote unit", c.RelationChangedHook())
	}
	settings, err := c.hook.RelationGet(c.hook.RelationID(), unit)
	if err != nil {
		return errors.Trace(err)
	}
	related, err := c.relationHosts()
	if err != nil {
		return errors.Trace(err)
	}
	hosts := HostsFromSettings(settings)
	if len(hosts) == 0 {
		logger.Infof("%s has not published its address yet", unit)
		delete(related, unit)
	} else {
		related[unit] = hosts
	}
	if err := c.saveRelationHosts(related); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.configureIfStarted())
}

func (c *Charm) relationDeparted() error {
	unit := c.hook.RemoteUnit()
	if unit == "" {
		return errors.NotValidf("%s hook without remote unit", c.RelationDepartedHook())
	}
	related, err := c.relationHosts()
	if err != nil {
		return errors.Trace(err)
	}
	if _, ok := related[unit]; ok {
		delete(related, unit)
		if err := c.saveRelationHosts(related); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(c.configureIfStarted())
}

func (c *Charm) started() (bool, error) {
	lifecycle, err := c.hook.StateGet(lifecycleKey)
	if err != nil {
		return false, errors.Trace(err)
	}
	return lifecycle == lifecycleRunning, nil
}

func (c *Charm) configureIfStarted() error {
	running, err := c.started()
	if err != nil {
		return errors.Trace(err)
	}
	if !running {
		logger.Infof("%s not started yet, deferring configuration", c.name)
		return nil
	}
	return errors.Trace(c.configure())
}

// configure renders the workload configuration from the charm config and
// the relation hosts, and restarts the workload.
func (c *Charm) configure() error {
	config, related, err := c.load()
	if err != nil {
		return errors.Trace(err)
	}
	hosts := mergeHosts(config.ElasticsearchHosts, related)
	if len(hosts) == 0 {
		return errors.Trace(c.hook.StatusSet(status.NewBlocked(NeedRelationMessage)))
	}
	unit, err := c.hook.UnitName()
	if err != nil {
		return errors.Trace(err)
	}
	if err := c.hook.StatusSet(status.NewMaintenance("configuring " + c.name)); err != nil {
		return errors.Trace(err)
	}
	ctx := workload.RenderContext{
		"elasticsearch_hosts": hosts,
		"logpath":             config.LogPaths,
		"service_name":        c.name,
		"unit_name":           unit,
	}
	if err := c.workload.RenderConfigAndRestart(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := c.updatePort(config.BeatsPort); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.reportRunning())
}

func (c *Charm) reportRunning() error {
	running, err := c.workload.Running()
	if err != nil {
		logger.Warningf("cannot query %s state: %v", c.name, err)
		running = true
	}
	info := status.NewActive(c.name + " started")
	if !running {
		info = status.NewWaiting("waiting for " + c.name + " to start")
	}
	return errors.Trace(c.hook.StatusSet(info))
}

// updatePort opens the configured beats port, closing the one opened
// before if it changed.
func (c *Charm) updatePort(port int) error {
	previous, err := c.hook.StateGet(beatsPortKey)
	if err != nil {
		return errors.Trace(err)
	}
	current := ""
	if port > 0 {
		current = strconv.Itoa(port)
	}
	if previous == current {
		return nil
	}
	if previous != "" {
		old, err := strconv.Atoi(previous)
		if err != nil {
			return errors.Annotatef(err, "parsing stored %s", beatsPortKey)
		}
		ports, err := hookenv.NewPortRange(old, 0, "tcp")
		if err != nil {
			return errors.Annotatef(err, "stored %s", beatsPortKey)
		}
		if err := c.hook.ClosePort(ports); err != nil {
			return errors.Trace(err)
		}
	}
	if current != "" {
		ports, err := hookenv.NewPortRange(port, 0, "tcp")
		if err != nil {
			return errors.Trace(err)
		}
		if err := c.hook.OpenPort(ports); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(c.hook.StateSet(map[string]string{beatsPortKey: current}))
}

func (c *Charm) load() (Config, RelationHosts, error) {
	settings, err := c.hook.ConfigGet()
	if err != nil {
		return Config{}, nil, errors.Trace(err)
	}
	config, err := ParseConfig(settings)
	if err != nil {
		return Config{}, nil, errors.Trace(err)
	}
	related, err := c.relationHosts()
	if err != nil {
		return Config{}, nil, errors.Trace(err)
	}
	return config, related, nil
}

func (c *Charm) relationHosts() (RelationHosts, error) {
	data, err := c.hook.StateGet(relationHostsKey)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return ParseRelationHosts(data)
}

func (c *Charm) saveRelationHosts(hosts RelationHosts) error {
	data, err := hosts.Serialize()
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.hook.StateSet(map[string]string{relationHostsKey: data}))
}
