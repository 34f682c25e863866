// Package rooftop implements the analyzer.rooftop module, which judges how
// well a rooftop photo suits a solar installation. By default it produces a
// deterministic mock verdict; with mock disabled it consults the vision
// provider and falls back to the mock when the model is unavailable.
package rooftop

import (
	"context"
	"log/slog"

	"github.com/voltmesh/solarbot/internal/core"
	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/internal/provider"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Analyzer{})
}

// Compile-time interface guards.
var (
	_ core.Module       = (*Analyzer)(nil)
	_ core.Configurable = (*Analyzer)(nil)
	_ core.Provisioner  = (*Analyzer)(nil)
)

// Config holds the configuration for the rooftop analyzer module.
type Config struct {
	// Mock selects the deterministic offline analysis. Defaults to true,
	// mirroring MOCK_IMAGE_ANALYSIS.
	Mock *bool `yaml:"mock"`
}

// Analyzer analyzes rooftop photos for solar suitability.
type Analyzer struct {
	config Config
	logger *slog.Logger
	chain  *provider.Chain
}

// ModuleInfo implements core.Module.
func (a *Analyzer) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "analyzer.rooftop",
		New: func() core.Module { return &Analyzer{} },
	}
}

// Configure implements core.Configurable.
func (a *Analyzer) Configure(node *yaml.Node) error {
	return node.Decode(&a.config)
}

// Provision implements core.Provisioner.
func (a *Analyzer) Provision(ctx *core.AppContext) error {
	a.logger = ctx.Logger

	// The provider chain is optional; without it the analyzer runs in
	// mock mode regardless of config.
	if svc, ok := ctx.Service("provider.chain"); ok {
		if chain, ok := svc.(*provider.Chain); ok {
			a.chain = chain
		}
	}

	ctx.RegisterService("analyzer.rooftop", a)
	return nil
}

// mockEnabled reports whether the deterministic mock path is in effect.
func (a *Analyzer) mockEnabled() bool {
	if a.config.Mock != nil {
		return *a.config.Mock
	}
	return true
}

// Analyze judges the rooftop in the given photo. The ref identifies the
// image (a Telegram file path) and seeds the mock verdict; image bytes and
// MIME type feed the vision provider when mock is off. Vision failures
// degrade to the mock verdict rather than failing the conversation turn.
func (a *Analyzer) Analyze(ctx context.Context, ref string, image []byte, mimeType string) energy.RoofAnalysis {
	if a.mockEnabled() || a.chain == nil || len(image) == 0 {
		return mockAnalysis(ref)
	}

	result, err := a.visionAnalysis(ctx, image, mimeType)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("vision analysis failed, using mock verdict", "error", err)
		}
		return mockAnalysis(ref)
	}
	return result
}
