package config

import (
	"slices"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestResolve_ProvisioningOrder(t *testing.T) {
	cfg := &Config{
		Version: "1",
		Modules: map[string]yaml.Node{
			"agent.solar":      {},
			"agent.prosumer":   {},
			"gateway.http":     {},
			"channel.telegram": {},
			"provider.vertex":  {},
			"provider.openai":  {},
			"network.beckn":    {},
			"analyzer.rooftop": {},
			"store.sessions":   {},
		},
	}

	got := Resolve(cfg)
	want := []string{
		"store.sessions",
		"provider.openai",
		"provider.vertex",
		"network.beckn",
		"analyzer.rooftop",
		"channel.telegram",
		"agent.prosumer",
		"agent.solar",
		"gateway.http",
	}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_UnknownNamespaceSortsLast(t *testing.T) {
	cfg := &Config{
		Version: "1",
		Modules: map[string]yaml.Node{
			"zz.custom":      {},
			"store.sessions": {},
			"aa.custom":      {},
		},
	}

	got := Resolve(cfg)
	want := []string{"store.sessions", "aa.custom", "zz.custom"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve_Empty(t *testing.T) {
	got := Resolve(&Config{Version: "1"})
	if len(got) != 0 {
		t.Errorf("expected no modules, got %v", got)
	}
}
