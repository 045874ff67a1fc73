// Package rules manages registration of rewriting rules.
package rules

import (
	"fmt"
	"slices"

	"github.com/donaldgifford/jrefactor/internal/refactor"
)

var registered []refactor.Rule

// Register adds a rule to the registry. Rules run in the order they are
// registered. Registering a name twice panics.
func Register(r refactor.Rule) {
	if _, ok := Lookup(r.Name()); ok {
		panic(fmt.Sprintf("rules: %q registered twice", r.Name()))
	}
	registered = append(registered, r)
}

// All returns all registered rules in execution order.
func All() []refactor.Rule {
	return slices.Clone(registered)
}

// Names returns the names of all registered rules in execution order.
func Names() []string {
	names := make([]string, len(registered))
	for i, r := range registered {
		names[i] = r.Name()
	}
	return names
}

// Lookup returns the registered rule called name.
func Lookup(name string) (refactor.Rule, bool) {
	for _, r := range registered {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// Select returns the registered rules that are enabled, in execution
// order. A rule is enabled unless enabled maps its name to false. A
// non-empty only further restricts the result to the rules it names.
// Unknown names in either argument are an error.
func Select(enabled map[string]bool, only []string) ([]refactor.Rule, error) {
	for name := range enabled {
		if _, ok := Lookup(name); !ok {
			return nil, fmt.Errorf("unknown rule %q in config", name)
		}
	}
	for _, name := range only {
		if _, ok := Lookup(name); !ok {
			return nil, fmt.Errorf("unknown rule %q", name)
		}
	}

	var out []refactor.Rule
	for _, r := range registered {
		if on, ok := enabled[r.Name()]; ok && !on {
			continue
		}
		if len(only) > 0 && !slices.Contains(only, r.Name()) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
