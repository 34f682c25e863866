package provider

import "context"

// Provider is the interface for communicating with an LLM.
// Concrete implementations live in separate packages (e.g., provider.vertex)
// and typically also implement core.Module for lifecycle management.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ContextWindowSize returns the maximum context window in tokens.
	ContextWindowSize() int

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}

// VisionCapable is implemented by providers whose model accepts inline
// images alongside text. The rooftop analyzer requires it.
type VisionCapable interface {
	// SupportsVision reports whether the configured model accepts images.
	SupportsVision() bool
}

// HealthChecker is an optional interface that providers may implement
// to support active health probing. When a provider is in cooldown,
// the health tracker will call HealthCheck periodically to determine
// if the provider has recovered.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
