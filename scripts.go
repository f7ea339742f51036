package optcg

import "fmt"

// ScriptFunc is a named, executable card behavior. Scripts receive the same
// copy-on-write contract as resolvers and may push chained effects through
// the context.
type ScriptFunc func(ctx *ResolutionContext, effect *EffectInstance, state *GameState) (*GameState, error)

// ScriptRegistry decouples card data from executable behavior: content
// tooling registers named scripts at startup and definitions refer to them
// purely by string id.
type ScriptRegistry struct {
	scripts map[string]ScriptFunc
}

func NewScriptRegistry() *ScriptRegistry {
	return &ScriptRegistry{scripts: make(map[string]ScriptFunc)}
}

// Register wires a script under a name. Duplicate names are rejected so a
// later registration can never silently shadow an earlier one.
func (r *ScriptRegistry) Register(name string, fn ScriptFunc) error {
	if _, ok := r.scripts[name]; ok {
		return fmt.Errorf("script %q already registered", name)
	}
	r.scripts[name] = fn
	return nil
}

// Lookup finds a script by id.
func (r *ScriptRegistry) Lookup(name string) (ScriptFunc, bool) {
	fn, ok := r.scripts[name]
	return fn, ok
}

// Names lists the registered script ids, for tooling.
func (r *ScriptRegistry) Names() []string {
	out := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		out = append(out, name)
	}
	return out
}
