// Package prosumer implements the agent.prosumer module: the energy
// services conversation for households with an installed system. It covers
// selling excess production, P2P sharing, production tracking, the stats
// dashboard, NFT tokenization, and AI-assisted auto-trading.
package prosumer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/voltmesh/solarbot/internal/core"
	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/internal/provider"
	"github.com/voltmesh/solarbot/internal/telemetry"
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

// Decider answers the trading prompt. The provider chain supplies it; without
// one, trading decisions fall back to the built-in rules.
type Decider interface {
	Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error)
}

// Config holds the configuration for the energy services flow.
type Config struct {
	// DecisionMaxTokens caps the LLM reply for trading decisions.
	// Defaults to 256; the prompt asks for a number and one sentence.
	DecisionMaxTokens int `yaml:"decision_max_tokens"`
}

// Flow drives the energy services conversation.
type Flow struct {
	config  Config
	logger  *slog.Logger
	net     *beckn.Client
	llm     Decider
	metrics *telemetry.Metrics

	sim    *energy.Simulator
	now    func() time.Time
	chance func() float64
}

// ModuleInfo implements core.Module.
func (f *Flow) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "agent.prosumer",
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
	if f.config.DecisionMaxTokens <= 0 {
		f.config.DecisionMaxTokens = 256
	}
	f.sim = energy.NewSimulator()
	f.now = time.Now
	f.chance = rand.Float64

	svc, ok := ctx.Service("network.beckn")
	if !ok {
		return fmt.Errorf("agent.prosumer: network.beckn service not available")
	}
	client, ok := svc.(*beckn.Client)
	if !ok {
		return fmt.Errorf("agent.prosumer: unexpected network.beckn service type %T", svc)
	}
	f.net = client

	if svc, ok := ctx.Service("provider.chain"); ok {
		f.llm, _ = svc.(Decider)
	}
	if svc, ok := ctx.Service("telemetry.metrics"); ok {
		f.metrics, _ = svc.(*telemetry.Metrics)
	}

	ctx.RegisterService("agent.prosumer", f)
	return nil
}

// Prefix implements engine.Flow.
func (f *Flow) Prefix() string {
	return "energy_services"
}
