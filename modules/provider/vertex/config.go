package vertex

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the configuration for the Vertex AI provider module.
type Config struct {
	ProjectID string `yaml:"project_id"`
	Location  string `yaml:"location"`
	Model     string `yaml:"model"`

	// CredentialsFile points at a service-account JSON key. When empty and
	// no api_key is set, Application Default Credentials are used.
	CredentialsFile string `yaml:"credentials_file"`
	APIKey          string `yaml:"api_key"`

	// Endpoint overrides the full model URL (without the :generateContent
	// suffix). Used for regional endpoints and tests.
	Endpoint string `yaml:"endpoint"`

	MaxTokens     int      `yaml:"max_tokens"`
	Temperature   *float64 `yaml:"temperature"`
	TopP          *float64 `yaml:"top_p"`
	Timeout       string   `yaml:"timeout"`
	ContextWindow int      `yaml:"context_window"`

	// Vision forces the vision capability on or off regardless of model name.
	Vision *bool `yaml:"vision"`
}

// defaults fills zero-valued fields with sensible defaults.
func (c *Config) defaults() {
	if c.Location == "" {
		c.Location = "us-central1"
	}
	if c.Model == "" {
		c.Model = "text-bison"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

// modelURL returns the base URL for the configured model, without the
// :generateContent action suffix.
func (c *Config) modelURL() string {
	if c.Endpoint != "" {
		return strings.TrimRight(c.Endpoint, "/")
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s",
		c.Location, c.ProjectID, c.Location, c.Model)
}

// parsedTimeout returns the timeout as a time.Duration.
// Assumes the value has been validated by validateTimeout.
func (c *Config) parsedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// validateTimeout checks that the timeout string is a valid Go duration.
func (c *Config) validateTimeout() error {
	_, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("provider.vertex: invalid timeout %q: %w", c.Timeout, err)
	}
	return nil
}

// knownContextWindows maps model names to their maximum context window size
// in tokens. Used when context_window is not explicitly set in config.
var knownContextWindows = map[string]int{
	"text-bison":            8192,
	"text-bison-32k":        32768,
	"chat-bison":            8192,
	"chat-bison-32k":        32768,
	"gemini-1.0-pro":        32768,
	"gemini-1.0-pro-vision": 16384,
	"gemini-1.5-pro":        2097152,
	"gemini-1.5-flash":      1048576,
	"gemini-2.0-flash":      1048576,
	"gemini-2.0-flash-lite": 1048576,
}

// knownVisionModels reports whether a model is known to accept image input.
func knownVisionModels(model string) bool {
	if strings.Contains(model, "vision") {
		return true
	}
	return strings.HasPrefix(model, "gemini-1.5") || strings.HasPrefix(model, "gemini-2")
}
