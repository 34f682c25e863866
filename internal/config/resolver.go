package config

import (
	"slices"
	"strings"
)

// namespaceRank orders module namespaces so that service providers are
// provisioned before their consumers: the session store and LLM providers
// come first, the agents that resolve them come last, and the gateway
// mounts after everything it exposes exists. Unlisted namespaces sort
// after the known ones.
var namespaceRank = map[string]int{
	"store":    0,
	"provider": 1,
	"network":  2,
	"analyzer": 3,
	"channel":  4,
	"agent":    5,
	"gateway":  6,
}

// Resolve returns the module IDs from the configuration in provisioning
// order: by namespace rank, then lexicographically within a namespace.
// The deterministic order ensures consistent module loading.
func Resolve(cfg *Config) []string {
	ids := make([]string, 0, len(cfg.Modules))
	for id := range cfg.Modules {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	return ids
}

func rank(id string) int {
	ns, _, _ := strings.Cut(id, ".")
	if r, ok := namespaceRank[ns]; ok {
		return r
	}
	return len(namespaceRank)
}
