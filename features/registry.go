package features

import (
	"fmt"

	"prompt_page_studio/pageconfig"
)

// Registry is the fixed set of modules hosted on a page.
type Registry struct {
	modules []Module
	byKey   map[Key]Module
}

// NewRegistry builds a registry. Keys must be unique.
func NewRegistry(mods ...Module) (*Registry, error) {
	r := &Registry{byKey: make(map[Key]Module, len(mods))}
	for _, m := range mods {
		if _, dup := r.byKey[m.Key()]; dup {
			return nil, fmt.Errorf("feature %s registered twice", m.Key())
		}
		r.byKey[m.Key()] = m
		r.modules = append(r.modules, m)
	}
	return r, nil
}

// Standard returns the registry of every built-in module.
func Standard() *Registry {
	r, err := NewRegistry(
		Note{}, Sentiment{}, FallingAnimation{}, AIAssist{},
		Offer{}, Platforms{}, Kickstarters{},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Module looks a module up by key.
func (r *Registry) Module(k Key) (Module, bool) {
	m, ok := r.byKey[k]
	return m, ok
}

// Modules returns the modules in registration order.
func (r *Registry) Modules() []Module {
	return append([]Module(nil), r.modules...)
}

// Conflicts returns the keys of other enabled modules sharing m's group.
func (r *Registry) Conflicts(cfg *pageconfig.Config, m Module) []Key {
	g := m.Group()
	if g == "" {
		return nil
	}
	var out []Key
	for _, other := range r.modules {
		if other.Key() == m.Key() || other.Group() != g {
			continue
		}
		if other.Enabled(cfg) {
			out = append(out, other.Key())
		}
	}
	return out
}

// Validate runs every module's checks in registration order.
func (r *Registry) Validate(cfg *pageconfig.Config, env Env) []Violation {
	var out []Violation
	for _, m := range r.modules {
		out = append(out, m.Validate(cfg, env)...)
	}
	for _, g := range r.groups() {
		var on []Key
		for _, m := range r.modules {
			if m.Group() == g && m.Enabled(cfg) {
				on = append(on, m.Key())
			}
		}
		if len(on) > 1 {
			out = append(out, Violation{Feature: on[0], Message: fmt.Sprintf("only one of %v may be enabled", on)})
		}
	}
	return out
}

func (r *Registry) groups() []Group {
	var out []Group
	seen := map[Group]bool{}
	for _, m := range r.modules {
		if g := m.Group(); g != "" && !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}
