// Package beckn implements the Beckn protocol network module: a typed
// client for search/select/init/confirm/status on the deg:* domains,
// catalog extraction into domain records, and an offline mock mode.
package beckn

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/voltmesh/solarbot/internal/core"
	"github.com/voltmesh/solarbot/internal/telemetry"
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Starter      = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)

// Module wires the Beckn client into the app and registers it as the
// "network.beckn" service.
type Module struct {
	config Config
	client *Client
	logger *slog.Logger
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "network.beckn",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("beckn: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger

	var metrics *telemetry.Metrics
	if svc, ok := ctx.Service("telemetry.metrics"); ok {
		metrics, _ = svc.(*telemetry.Metrics)
	}

	m.client = NewClient(m.config, ctx.Logger, metrics)
	ctx.RegisterService("network.beckn", m.client)
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	return m.config.validate()
}

// Start implements core.Starter.
func (m *Module) Start() error {
	if m.config.MockMode {
		m.logger.Info("beckn network in mock mode, serving canned catalogs")
		return nil
	}
	m.logger.Info("beckn network ready",
		"base_url", m.config.BaseURL,
		"bap_id", m.config.BAPID,
		"bpp_id", m.config.BPPID,
	)
	return nil
}

// Stop implements core.Stopper.
func (m *Module) Stop(context.Context) error {
	if m.client != nil {
		m.client.http.CloseIdleConnections()
	}
	return nil
}
