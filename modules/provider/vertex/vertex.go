// Package vertex implements the provider.vertex module, calling the
// Vertex AI generateContent REST API with text and inline-image input.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/voltmesh/solarbot/internal/core"
	"github.com/voltmesh/solarbot/internal/provider"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Provider{})
}

// Compile-time interface guards.
var (
	_ provider.Provider      = (*Provider)(nil)
	_ provider.VisionCapable = (*Provider)(nil)
	_ provider.HealthChecker = (*Provider)(nil)
	_ core.Module            = (*Provider)(nil)
	_ core.Configurable      = (*Provider)(nil)
	_ core.Provisioner       = (*Provider)(nil)
	_ core.Validator         = (*Provider)(nil)
	_ core.Starter           = (*Provider)(nil)
	_ core.Stopper           = (*Provider)(nil)
)

// cloudPlatformScope is the OAuth scope required by the Vertex AI API.
const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Provider implements the Vertex AI generateContent API as a provider module.
type Provider struct {
	config        Config
	logger        *slog.Logger
	client        *http.Client
	tokenSource   oauth2.TokenSource
	modelURL      string
	contextWindow int
	chain         *provider.Chain
}

// ModuleInfo implements core.Module.
func (p *Provider) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.vertex",
		New: func() core.Module { return &Provider{} },
	}
}

// Configure implements core.Configurable.
func (p *Provider) Configure(node *yaml.Node) error {
	if err := node.Decode(&p.config); err != nil {
		return err
	}
	p.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (p *Provider) Provision(ctx *core.AppContext) error {
	p.logger = ctx.Logger
	p.client = &http.Client{
		Timeout: p.config.parsedTimeout(),
	}
	p.modelURL = p.config.modelURL()

	// Resolve context window: explicit config > known model map > 0.
	if p.config.ContextWindow > 0 {
		p.contextWindow = p.config.ContextWindow
	} else if size, ok := knownContextWindows[p.config.Model]; ok {
		p.contextWindow = size
	}

	// API keys bypass OAuth entirely. Otherwise resolve credentials from
	// the configured key file or Application Default Credentials
	// (GOOGLE_APPLICATION_CREDENTIALS and friends).
	if p.config.APIKey == "" && p.tokenSource == nil {
		ts, err := p.resolveTokenSource(context.Background())
		if err != nil {
			return fmt.Errorf("provider.vertex: credentials: %w", err)
		}
		p.tokenSource = ts
	}

	ctx.RegisterService("provider.vertex", p)

	// Build the failover chain with this provider as primary. A loaded
	// provider.openai module becomes the fallback; flows resolve the chain
	// rather than a concrete provider.
	entries := []provider.ChainEntry{
		{Name: "vertex", Provider: p, Role: provider.RolePrimary},
	}
	if svc, ok := ctx.Service("provider.openai"); ok {
		if fallback, ok := svc.(provider.Provider); ok {
			entries = append(entries, provider.ChainEntry{
				Name:     "openai",
				Provider: fallback,
				Role:     provider.RoleFallback,
			})
		}
	}
	chain, err := provider.NewChain(entries, provider.WithLogger(p.logger))
	if err != nil {
		return fmt.Errorf("provider.vertex: chain: %w", err)
	}
	p.chain = chain
	ctx.RegisterService("provider.chain", chain)

	return nil
}

// Start implements core.Starter. It launches the chain's health probes.
func (p *Provider) Start() error {
	p.chain.Start(context.Background())
	return nil
}

// Stop implements core.Stopper.
func (p *Provider) Stop(context.Context) error {
	p.chain.Stop()
	return nil
}

// resolveTokenSource builds an OAuth token source from the configured
// service-account key file, or falls back to Application Default Credentials.
func (p *Provider) resolveTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if p.config.CredentialsFile != "" {
		data, err := os.ReadFile(p.config.CredentialsFile)
		if err != nil {
			return nil, err
		}
		creds, err := google.CredentialsFromJSON(ctx, data, cloudPlatformScope)
		if err != nil {
			return nil, err
		}
		return creds.TokenSource, nil
	}
	creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
	if err != nil {
		return nil, err
	}
	return creds.TokenSource, nil
}

// Validate implements core.Validator.
func (p *Provider) Validate() error {
	if p.config.Model == "" {
		return errors.New("provider.vertex: model is required")
	}
	if p.config.Endpoint == "" && p.config.ProjectID == "" {
		return errors.New("provider.vertex: project_id is required")
	}
	if p.contextWindow <= 0 {
		return errors.New("provider.vertex: context_window must be set for unknown models")
	}
	if err := p.config.validateTimeout(); err != nil {
		return err
	}
	return nil
}

// SupportsVision reports whether the configured model accepts inline images.
func (p *Provider) SupportsVision() bool {
	if p.config.Vision != nil {
		return *p.config.Vision
	}
	return knownVisionModels(p.config.Model)
}

// ContextWindowSize returns the maximum context window in tokens.
func (p *Provider) ContextWindowSize() int {
	return p.contextWindow
}

// ModelName returns the configured model identifier.
func (p *Provider) ModelName() string {
	return p.config.Model
}
