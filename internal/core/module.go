package core

// ModuleID uniquely identifies a module, namespaced by dots
// (e.g., "channel.telegram", "agent.solar", "provider.vertex").
type ModuleID string

// Namespace returns the portion of the ID before the last dot,
// or the whole ID if it has no dot.
func (id ModuleID) Namespace() string {
	s := string(id)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return s[:i]
		}
	}
	return s
}

// Name returns the portion of the ID after the last dot.
func (id ModuleID) Name() string {
	s := string(id)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return s[i+1:]
		}
	}
	return s
}

// ModuleInfo describes a registered module.
type ModuleInfo struct {
	// ID is the unique, namespaced identifier of the module.
	ID ModuleID

	// New returns a fresh, unconfigured instance of the module.
	New func() Module
}

// Module is the minimal interface every module implements.
// Optional lifecycle behavior is added by implementing Configurable,
// Provisioner, Validator, Starter, or Stopper.
type Module interface {
	ModuleInfo() ModuleInfo
}
