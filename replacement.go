package optcg

import (
	"log/slog"
	"sort"
)

// ResolutionContext is handed to replacement functions and scripts while one
// instance is being processed. Push lets a resolving effect queue chained
// effects onto the same stack.
type ResolutionContext struct {
	Controller string
	Source     *CardInstance
	Stack      *EffectStack
}

// Push queues a chained effect; it resolves within the same drain.
func (ctx *ResolutionContext) Push(instance *EffectInstance, priority int) {
	if ctx.Stack != nil {
		ctx.Stack.Push(instance, priority)
	}
}

// CostReplacementFunc transforms a cost before the gate sees it. A nil result
// removes the cost entirely.
type CostReplacementFunc func(cost *CostExpr, ctx *ResolutionContext) *CostExpr

// BodyReplacementFunc transforms the instance before resolution.
type BodyReplacementFunc func(instance *EffectInstance, ctx *ResolutionContext) *EffectInstance

// ReplacementEntry is one registered interception, keyed by the card and
// effect that granted it.
type ReplacementEntry struct {
	CardID   string
	EffectID string
	Priority int
	CostFn   CostReplacementFunc
	BodyFn   BodyReplacementFunc
}

// ReplacementHandler applies active replacement effects in ascending priority
// order. Validity is a live-state predicate, re-checked on every application:
// an entry only fires while its source card is still on the field.
type ReplacementHandler struct {
	entries []ReplacementEntry
	logger  *slog.Logger
}

func NewReplacementHandler(logger *slog.Logger) *ReplacementHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReplacementHandler{logger: logger}
}

// Register adds an entry. Both functions are optional.
func (h *ReplacementHandler) Register(cardID, effectID string, priority int, costFn CostReplacementFunc, bodyFn BodyReplacementFunc) {
	h.entries = append(h.entries, ReplacementEntry{
		CardID:   cardID,
		EffectID: effectID,
		Priority: priority,
		CostFn:   costFn,
		BodyFn:   bodyFn,
	})
	sort.SliceStable(h.entries, func(i, j int) bool {
		return h.entries[i].Priority < h.entries[j].Priority
	})
}

// Unregister removes the entry for (cardID, effectID), if any.
func (h *ReplacementHandler) Unregister(cardID, effectID string) {
	for i, e := range h.entries {
		if e.CardID == cardID && e.EffectID == effectID {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// ClearFromCard drops every entry granted by one card.
func (h *ReplacementHandler) ClearFromCard(cardID string) {
	kept := h.entries[:0]
	for _, e := range h.entries {
		if e.CardID != cardID {
			kept = append(kept, e)
		}
	}
	h.entries = kept
}

// ClearAll drops every entry.
func (h *ReplacementHandler) ClearAll() {
	h.entries = nil
}

// Entries returns a snapshot of the registered entries in priority order.
func (h *ReplacementHandler) Entries() []ReplacementEntry {
	return append([]ReplacementEntry(nil), h.entries...)
}

// ApplyCostReplacements chains every currently valid cost function, lowest
// priority first, each output feeding the next input. With no valid entries
// the cost passes through untouched.
func (h *ReplacementHandler) ApplyCostReplacements(cost *CostExpr, state *GameState, ctx *ResolutionContext) *CostExpr {
	for _, e := range h.entries {
		if e.CostFn == nil || !state.OnField(e.CardID) {
			continue
		}
		cost = e.CostFn(cost, ctx)
		h.logger.Debug("cost replacement applied", "card", e.CardID, "effect", e.EffectID, "priority", e.Priority)
	}
	return cost
}

// ApplyBodyReplacements chains every currently valid body function in the
// same priority order.
func (h *ReplacementHandler) ApplyBodyReplacements(instance *EffectInstance, state *GameState, ctx *ResolutionContext) *EffectInstance {
	for _, e := range h.entries {
		if e.BodyFn == nil || !state.OnField(e.CardID) {
			continue
		}
		instance = e.BodyFn(instance, ctx)
		h.logger.Debug("body replacement applied", "card", e.CardID, "effect", e.EffectID, "priority", e.Priority)
	}
	return instance
}
