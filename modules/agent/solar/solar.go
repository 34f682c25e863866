// Package solar implements the agent.solar module: the rooftop solar
// onboarding conversation. It walks a household from address and bill
// through subsidies, installers, products, ROI, and rooftop photo analysis,
// placing orders on the Beckn network along the way.
package solar

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/voltmesh/solarbot/internal/core"
	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/modules/network/beckn"
)

func init() {
	core.RegisterModule(&Flow{})
}

// Compile-time interface guards.
var (
	_ core.Module       = (*Flow)(nil)
	_ core.Configurable = (*Flow)(nil)
	_ core.Provisioner  = (*Flow)(nil)
)

// Fulfillment ids the sandbox network expects per journey.
const (
	fulfillmentSubsidy      = "615"
	fulfillmentInstallation = "617"
	fulfillmentDelivery     = "618"
)

// RoofAnalyzer judges rooftop photos. The analyzer.rooftop module provides it.
type RoofAnalyzer interface {
	Analyze(ctx context.Context, ref string, image []byte, mimeType string) energy.RoofAnalysis
}

// FileFetcher downloads channel media by reference. The Telegram channel
// provides it; without one, photo analysis falls back to the reference alone.
type FileFetcher interface {
	FetchFile(ctx context.Context, ref string) (path string, data []byte, mimeType string, err error)
}

// Config holds the configuration for the solar onboarding flow.
type Config struct {
	// CatalogLimit caps how many subsidies/installers/products one screen
	// lists. Defaults to 3.
	CatalogLimit int `yaml:"catalog_limit"`
}

// Flow drives the solar onboarding conversation.
type Flow struct {
	config   Config
	logger   *slog.Logger
	net      *beckn.Client
	analyzer RoofAnalyzer
	files    FileFetcher
}

// ModuleInfo implements core.Module.
func (f *Flow) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "agent.solar",
		New: func() core.Module { return &Flow{} },
	}
}

// Configure implements core.Configurable.
func (f *Flow) Configure(node *yaml.Node) error {
	return node.Decode(&f.config)
}

// Provision implements core.Provisioner.
func (f *Flow) Provision(ctx *core.AppContext) error {
	f.logger = ctx.Logger
	if f.config.CatalogLimit <= 0 {
		f.config.CatalogLimit = 3
	}

	svc, ok := ctx.Service("network.beckn")
	if !ok {
		return fmt.Errorf("agent.solar: network.beckn service not available")
	}
	client, ok := svc.(*beckn.Client)
	if !ok {
		return fmt.Errorf("agent.solar: unexpected network.beckn service type %T", svc)
	}
	f.net = client

	if svc, ok := ctx.Service("analyzer.rooftop"); ok {
		f.analyzer, _ = svc.(RoofAnalyzer)
	}
	if svc, ok := ctx.Service("channel.telegram"); ok {
		f.files, _ = svc.(FileFetcher)
	}

	ctx.RegisterService("agent.solar", f)
	return nil
}

// Prefix implements engine.Flow.
func (f *Flow) Prefix() string {
	return "solar_onboarding"
}
