package beckn

import (
	"fmt"
	"net/url"
	"time"
)

// Sandbox defaults, used when no network settings are configured.
const (
	defaultBaseURL = "https://bap-ps-client-deg-team8.becknprotocol.io"
	defaultBAPID   = "bap-ps-network-deg-team8.becknprotocol.io"
	defaultBAPURI  = "https://bap-ps-network-deg-team8.becknprotocol.io"
	defaultBPPID   = "bpp-ps-network-deg-team8.becknprotocol.io"
	defaultBPPURI  = "https://bpp-ps-network-deg-team8.becknprotocol.io"

	defaultCountryCode = "USA"
	defaultCityCode    = "NANP:628"

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
)

// Config holds the Beckn network module configuration.
type Config struct {
	// BaseURL is the BAP client endpoint requests are POSTed to.
	BaseURL string `yaml:"base_url"`

	// BAPID/BAPURI identify this application platform on the network.
	BAPID  string `yaml:"bap_id"`
	BAPURI string `yaml:"bap_uri"`

	// BPPID/BPPURI identify the provider platform requests target.
	BPPID  string `yaml:"bpp_id"`
	BPPURI string `yaml:"bpp_uri"`

	// CountryCode and CityCode scope every request context.
	CountryCode string `yaml:"country_code"`
	CityCode    string `yaml:"city_code"`

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is how many times a failed call is retried on 429/5xx
	// or network errors.
	MaxRetries int `yaml:"max_retries"`

	// MockMode serves canned catalogs instead of calling the network,
	// keeping every journey usable offline.
	MockMode bool `yaml:"mock_mode"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.BAPID == "" {
		c.BAPID = defaultBAPID
	}
	if c.BAPURI == "" {
		c.BAPURI = defaultBAPURI
	}
	if c.BPPID == "" {
		c.BPPID = defaultBPPID
	}
	if c.BPPURI == "" {
		c.BPPURI = defaultBPPURI
	}
	if c.CountryCode == "" {
		c.CountryCode = defaultCountryCode
	}
	if c.CityCode == "" {
		c.CityCode = defaultCityCode
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("beckn: invalid base_url %q: %w", c.BaseURL, err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("beckn: timeout must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("beckn: max_retries must be non-negative")
	}
	return nil
}
