package optcg

import (
	"errors"
	"fmt"
)

// ErrNotLegal is what the activation boundary reports to the decision-making
// layer: the requested activation cannot be taken, nothing happened.
var ErrNotLegal = errors.New("action not legal")

// ValidationError means a resolver's CanResolve rejected the instance.
type ValidationError struct {
	EffectType EffectType
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("effect %s failed validation: %s", e.EffectType, e.Reason)
}

// CostError means an affordability check failed. It is raised strictly before
// any state mutation.
type CostError struct {
	Cost      CostExpr
	Available int
}

func (e *CostError) Error() string {
	return fmt.Sprintf("cannot pay %s: %d available", e.Cost, e.Available)
}

// MissingResolverError means no resolver is registered for an effect type.
// This is a wiring mistake, not a gameplay outcome.
type MissingResolverError struct {
	EffectType EffectType
}

func (e *MissingResolverError) Error() string {
	return fmt.Sprintf("no resolver registered for effect type %s", e.EffectType)
}

// MissingScriptError means a definition names a script id nobody registered.
type MissingScriptError struct {
	ScriptID string
}

func (e *MissingScriptError) Error() string {
	return fmt.Sprintf("no script registered for id %q", e.ScriptID)
}
