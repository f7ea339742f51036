package optcg

import (
	"fmt"
	"log/slog"
)

// Resolver performs the state transition for one effect type. Resolve must
// return a fresh state sharing only untouched branches with its input.
type Resolver interface {
	CanResolve(effect *EffectInstance, state *GameState) bool
	Resolve(effect *EffectInstance, state *GameState) (*GameState, error)
}

// ResolverRegistry is the dispatch table from effect type to resolver. It is
// built by the host application at startup and passed by reference; there is
// no package-level instance.
type ResolverRegistry struct {
	resolvers map[EffectType]Resolver
	logger    *slog.Logger
}

func NewResolverRegistry(logger *slog.Logger) *ResolverRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolverRegistry{
		resolvers: make(map[EffectType]Resolver),
		logger:    logger,
	}
}

// Register wires a resolver for a type. A second registration for the same
// type is a wiring bug and is rejected; the original stays active.
func (r *ResolverRegistry) Register(t EffectType, resolver Resolver) error {
	if _, ok := r.resolvers[t]; ok {
		return fmt.Errorf("resolver for %s already registered", t)
	}
	r.resolvers[t] = resolver
	return nil
}

// Lookup returns the resolver for a type, if registered.
func (r *ResolverRegistry) Lookup(t EffectType) (Resolver, bool) {
	res, ok := r.resolvers[t]
	return res, ok
}

// Resolve dispatches to the matching resolver. Missing resolver and failed
// validation are hard errors; the orchestrator is the one that contains them.
func (r *ResolverRegistry) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	t := effect.Definition.EffectType
	resolver, ok := r.resolvers[t]
	if !ok {
		return state, &MissingResolverError{EffectType: t}
	}
	if !resolver.CanResolve(effect, state) {
		return state, &ValidationError{EffectType: t, Reason: "canResolve returned false"}
	}
	next, err := resolver.Resolve(effect, state)
	if err != nil {
		return state, err
	}
	r.logger.Debug("effect resolved", "type", t.String(), "instance", effect.ID)
	return next, nil
}

// NewDefaultRegistry wires every built-in resolver. Hosts that need custom
// behavior build their own registry instead.
func NewDefaultRegistry(logger *slog.Logger) *ResolverRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	r := NewResolverRegistry(logger)
	builtins := map[EffectType]Resolver{
		PowerModification: &PowerModificationResolver{logger: logger},
		GrantKeyword:      &GrantKeywordResolver{logger: logger},
		KOCharacter:       &KOCharacterResolver{logger: logger},
		BounceCharacter:   &BounceCharacterResolver{logger: logger},
		RestCharacter:     &RestCharacterResolver{logger: logger},
		ActivateCharacter: &ActivateCharacterResolver{logger: logger},
		DealDamage:        &DealDamageResolver{logger: logger},
		SearchDeck:        &SearchDeckResolver{logger: logger},
		DrawCards:         &DrawResolver{logger: logger},
		DiscardCards:      &DiscardResolver{logger: logger},
		TrashFromDeck:     &TrashResolver{logger: logger},
		AttachDon:         &AttachDonResolver{logger: logger},
	}
	for t, res := range builtins {
		// Fresh map, duplicates impossible.
		_ = r.Register(t, res)
	}
	return r
}
