package vertex

import (
	"strings"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	c := Config{ProjectID: "deg-project"}
	c.defaults()

	if c.Location != "us-central1" {
		t.Errorf("location = %q, want us-central1", c.Location)
	}
	if c.Model != "text-bison" {
		t.Errorf("model = %q, want text-bison", c.Model)
	}
	if c.Timeout != "30s" {
		t.Errorf("timeout = %q, want 30s", c.Timeout)
	}
}

func TestConfigModelURL(t *testing.T) {
	c := Config{ProjectID: "deg-project"}
	c.defaults()

	want := "https://us-central1-aiplatform.googleapis.com/v1/projects/deg-project/locations/us-central1/publishers/google/models/text-bison"
	if got := c.modelURL(); got != want {
		t.Errorf("modelURL() = %q, want %q", got, want)
	}
}

func TestConfigModelURLEndpointOverride(t *testing.T) {
	c := Config{Endpoint: "http://127.0.0.1:9999/v1/models/test/"}
	if got := c.modelURL(); strings.HasSuffix(got, "/") {
		t.Errorf("modelURL() = %q, want trailing slash stripped", got)
	}
}

func TestKnownVisionModels(t *testing.T) {
	cases := []struct {
		model string
		want  bool
	}{
		{"text-bison", false},
		{"chat-bison", false},
		{"gemini-1.0-pro", false},
		{"gemini-1.0-pro-vision", true},
		{"gemini-1.5-flash", true},
		{"gemini-2.0-flash", true},
	}
	for _, tc := range cases {
		if got := knownVisionModels(tc.model); got != tc.want {
			t.Errorf("knownVisionModels(%q) = %v, want %v", tc.model, got, tc.want)
		}
	}
}

func TestSupportsVisionConfigOverride(t *testing.T) {
	on := true
	p := &Provider{config: Config{Model: "text-bison", Vision: &on}}
	if !p.SupportsVision() {
		t.Error("SupportsVision() = false, want config override to win")
	}

	p = &Provider{config: Config{Model: "gemini-1.5-flash"}}
	if !p.SupportsVision() {
		t.Error("SupportsVision() = false for gemini-1.5-flash")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		config  Config
		window  int
		wantErr string
	}{
		{
			name:    "missing model",
			config:  Config{ProjectID: "p", Timeout: "30s"},
			window:  8192,
			wantErr: "model is required",
		},
		{
			name:    "missing project",
			config:  Config{Model: "text-bison", Timeout: "30s"},
			window:  8192,
			wantErr: "project_id is required",
		},
		{
			name:    "unknown model without window",
			config:  Config{ProjectID: "p", Model: "custom-tuned", Timeout: "30s"},
			wantErr: "context_window",
		},
		{
			name:    "bad timeout",
			config:  Config{ProjectID: "p", Model: "text-bison", Timeout: "soon"},
			window:  8192,
			wantErr: "invalid timeout",
		},
		{
			name:   "valid",
			config: Config{ProjectID: "p", Model: "text-bison", Timeout: "30s"},
			window: 8192,
		},
		{
			name:   "endpoint override without project",
			config: Config{Model: "text-bison", Endpoint: "http://localhost:1234", Timeout: "30s"},
			window: 8192,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Provider{config: tc.config, contextWindow: tc.window}
			err := p.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}
