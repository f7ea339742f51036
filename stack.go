package optcg

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// StackEntry is one pending activation with its scheduling data.
type StackEntry struct {
	Instance *EffectInstance
	Priority int
	AddedAt  time.Time
	seq      int
}

// EffectStack is the orchestrator: it owns the pending-effect collection and
// is the single place where throwing failures become contained, logged
// outcomes. Execution is strictly synchronous; resolving one entry may push
// more, and the drain continues until the collection is genuinely empty.
type EffectStack struct {
	entries      []StackEntry
	seq          int
	gate         *CostGate
	replacements *ReplacementHandler
	registry     *ResolverRegistry
	scripts      *ScriptRegistry
	logger       *slog.Logger
}

func NewEffectStack(gate *CostGate, replacements *ReplacementHandler, registry *ResolverRegistry, scripts *ScriptRegistry, logger *slog.Logger) *EffectStack {
	if logger == nil {
		logger = slog.Default()
	}
	return &EffectStack{
		gate:         gate,
		replacements: replacements,
		registry:     registry,
		scripts:      scripts,
		logger:       logger,
	}
}

// Push appends a pending instance.
func (s *EffectStack) Push(instance *EffectInstance, priority int) {
	s.seq++
	instance.Priority = priority
	s.entries = append(s.entries, StackEntry{
		Instance: instance,
		Priority: priority,
		AddedAt:  time.Now(),
		seq:      s.seq,
	})
	s.logger.Debug("effect pushed", "instance", instance.ID, "type", instance.Definition.EffectType.String(), "priority", priority)
}

// Entries returns a read-only snapshot of the pending entries.
func (s *EffectStack) Entries() []StackEntry {
	return append([]StackEntry(nil), s.entries...)
}

// Len is the number of pending entries.
func (s *EffectStack) Len() int { return len(s.entries) }

// Clear discards all pending entries without resolving them.
func (s *EffectStack) Clear() {
	s.entries = nil
}

// pop removes and returns the next entry: highest priority first, oldest
// push first within a priority band.
func (s *EffectStack) pop() StackEntry {
	best := 0
	for i := 1; i < len(s.entries); i++ {
		e := s.entries[i]
		if e.Priority > s.entries[best].Priority ||
			(e.Priority == s.entries[best].Priority && e.seq < s.entries[best].seq) {
			best = i
		}
	}
	entry := s.entries[best]
	s.entries = append(s.entries[:best], s.entries[best+1:]...)
	return entry
}

// Activate is the activation boundary. It rejects an illegal activation
// before anything is pushed: a spent once-per-turn ability or an
// unaffordable cost surfaces as ErrNotLegal, never as a crash, and the state
// is untouched. On success the built instance is pushed and returned, and a
// once-per-turn definition is marked used; the turn driver clears
// UsedThisTurn at turn boundaries.
func (s *EffectStack) Activate(state *GameState, def *EffectDefinition, controller string, targets []Target, values map[string]int, priority int) (*EffectInstance, error) {
	if def.OncePerTurn && def.UsedThisTurn {
		return nil, fmt.Errorf("%w: %s already used this turn", ErrNotLegal, def.ID)
	}
	if !s.gate.CanPay(state, controller, def.Cost) {
		return nil, fmt.Errorf("%w: cannot pay %s", ErrNotLegal, def.Cost)
	}
	instance := NewEffectInstance(def, controller, targets, values)
	s.Push(instance, priority)
	if def.OncePerTurn {
		def.UsedThisTurn = true
	}
	return instance, nil
}

// ResolveAll drains the stack against the given state and returns the final
// state. Each entry is processed completely before the next; any failure in
// one entry is contained and logged, never re-thrown, so the stack is empty
// on return under every mix of successes and failures. A cost already paid
// for a failed entry stays paid: processEntry hands back the post-debit
// state on body-stage failures and the untouched input only when the
// payment itself failed.
func (s *EffectStack) ResolveAll(state *GameState) *GameState {
	for len(s.entries) > 0 {
		entry := s.pop()
		next, err := s.processEntry(entry, state)
		if err != nil {
			s.logger.Error("effect failed during resolution",
				"instance", entry.Instance.ID,
				"type", entry.Instance.Definition.EffectType.String(),
				"error", err)
		}
		state = next
	}
	return state
}

// processEntry runs the full per-instance sequence: cost replacement, cost
// payment, body replacement, condition gate, dispatch. Panics from scripts
// or resolvers are converted to errors so one bad entry cannot take down the
// drain. On error the returned state carries everything already committed,
// the paid cost included; only a failed payment returns the input unchanged.
func (s *EffectStack) processEntry(entry StackEntry, state *GameState) (next *GameState, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = state, fmt.Errorf("effect panicked: %v", r)
		}
	}()

	instance := entry.Instance
	def := instance.Definition

	var source *CardInstance
	if c, _, _, ok := state.FindCard(instance.SourceCardID); ok {
		source = c
	}
	ctx := &ResolutionContext{
		Controller: instance.Controller,
		Source:     source,
		Stack:      s,
	}

	cost := def.Cost
	if s.replacements != nil {
		cost = s.replacements.ApplyCostReplacements(cost, state, ctx)
	}
	if cost != nil {
		paid, payErr := s.gate.Pay(state, instance.Controller, cost)
		if payErr != nil {
			return state, payErr
		}
		state = paid
	}

	if s.replacements != nil {
		instance = s.replacements.ApplyBodyReplacements(instance, state, ctx)
		def = instance.Definition
	}

	if def.Condition != nil {
		evalCtx := &EvalContext{Source: source, Controller: instance.Controller, State: state}
		if !Evaluate(def.Condition, evalCtx) {
			s.logger.Debug("condition not met, effect skipped", "instance", instance.ID)
			return state, nil
		}
	}

	if def.ScriptID != "" {
		fn, ok := s.scripts.Lookup(def.ScriptID)
		if !ok {
			return state, &MissingScriptError{ScriptID: def.ScriptID}
		}
		next, err = fn(ctx, instance, state)
	} else {
		next, err = s.registry.Resolve(instance, state)
	}
	if err != nil {
		return state, err
	}
	instance.Resolved = true
	return next, nil
}

// IsSoftFailure reports whether an error is a legality outcome rather than a
// wiring bug; callers surfacing rejections to the decision layer use this.
func IsSoftFailure(err error) bool {
	var costErr *CostError
	var valErr *ValidationError
	return errors.Is(err, ErrNotLegal) || errors.As(err, &costErr) || errors.As(err, &valErr)
}
