package optcg

import (
	"log/slog"
	"strings"
)

// effectCount is the working number for count-shaped effects: an explicit
// chosen value wins over the parsed parameter.
func effectCount(effect *EffectInstance) int {
	if n, ok := effect.Values["amount"]; ok {
		return n
	}
	return effect.Definition.Parameters.CardCount
}

// PowerModificationResolver appends a POWER modifier to every CARD target.
type PowerModificationResolver struct {
	logger *slog.Logger
}

func (r *PowerModificationResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return effect.Definition.Parameters.PowerChange != nil
}

func (r *PowerModificationResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	params := effect.Definition.Parameters
	if params.PowerChange == nil {
		return state, &ValidationError{EffectType: PowerModification, Reason: "missing powerChange parameter"}
	}
	for _, t := range effect.CardTargets() {
		next, ok := state.updateCard(t.CardID, func(c *CardInstance) {
			c.Modifiers = append(c.Modifiers, newPowerModifier(*params.PowerChange, params.Duration, effect.SourceCardID))
		})
		if !ok {
			r.logger.Warn("power modification target not on field", "card", t.CardID, "source", effect.SourceCardID)
			continue
		}
		state = next
	}
	return state, nil
}

// GrantKeywordResolver appends a KEYWORD modifier to every CARD target.
// Multiple grants accumulate as independent modifiers.
type GrantKeywordResolver struct {
	logger *slog.Logger
}

func (r *GrantKeywordResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return strings.TrimSpace(effect.Definition.Parameters.Keyword) != ""
}

func (r *GrantKeywordResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	params := effect.Definition.Parameters
	if strings.TrimSpace(params.Keyword) == "" {
		return state, &ValidationError{EffectType: GrantKeyword, Reason: "empty keyword"}
	}
	for _, t := range effect.CardTargets() {
		next, ok := state.updateCard(t.CardID, func(c *CardInstance) {
			c.Modifiers = append(c.Modifiers, newKeywordModifier(params.Keyword, params.Duration, effect.SourceCardID))
		})
		if !ok {
			r.logger.Warn("keyword grant target not on field", "card", t.CardID, "source", effect.SourceCardID)
			continue
		}
		state = next
	}
	return state, nil
}

// KOCharacterResolver moves CARD targets from the character area to their
// owner's trash. Vanished or non-character targets are skipped with a
// warning; targets can legitimately disappear between selection and
// resolution.
type KOCharacterResolver struct {
	logger *slog.Logger
}

func (r *KOCharacterResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return true
}

func (r *KOCharacterResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	for _, t := range effect.CardTargets() {
		card, owner, zone, found := state.FindCard(t.CardID)
		if !found || zone != ZoneCharacterArea || card.Category != CategoryCharacter {
			r.logger.Warn("K.O. target is not a character on the field", "card", t.CardID)
			continue
		}
		state = state.withPlayer(owner.ID, func(cp *PlayerState) {
			if c := cp.removeCharacter(t.CardID); c != nil {
				cp.Trash = append(cp.Trash, c)
			}
		})
	}
	return state, nil
}

// BounceCharacterResolver returns CARD targets from the character area to
// their owner's hand, with the same soft-failure shape as K.O.
type BounceCharacterResolver struct {
	logger *slog.Logger
}

func (r *BounceCharacterResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return true
}

func (r *BounceCharacterResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	for _, t := range effect.CardTargets() {
		card, owner, zone, found := state.FindCard(t.CardID)
		if !found || zone != ZoneCharacterArea || card.Category != CategoryCharacter {
			r.logger.Warn("bounce target is not a character on the field", "card", t.CardID)
			continue
		}
		state = state.withPlayer(owner.ID, func(cp *PlayerState) {
			if c := cp.removeCharacter(t.CardID); c != nil {
				cp.Hand = append(cp.Hand, c)
			}
		})
	}
	return state, nil
}

// RestCharacterResolver rests characters in the character area. Leaders,
// missing cards and already-rested targets are silently skipped, so repeat
// application is idempotent and partial success is fine.
type RestCharacterResolver struct {
	logger *slog.Logger
}

func (r *RestCharacterResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return true
}

func (r *RestCharacterResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	return flipCharacters(state, effect, true), nil
}

// ActivateCharacterResolver is the inverse flip, with identical skipping.
type ActivateCharacterResolver struct {
	logger *slog.Logger
}

func (r *ActivateCharacterResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return true
}

func (r *ActivateCharacterResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	return flipCharacters(state, effect, false), nil
}

func flipCharacters(state *GameState, effect *EffectInstance, rested bool) *GameState {
	for _, t := range effect.CardTargets() {
		card, _, zone, found := state.FindCard(t.CardID)
		if !found || zone != ZoneCharacterArea || card.Category != CategoryCharacter {
			continue
		}
		if card.Rested == rested {
			continue
		}
		next, ok := state.updateCard(t.CardID, func(c *CardInstance) {
			c.Rested = rested
		})
		if ok {
			state = next
		}
	}
	return state
}

// DealDamageResolver moves up to the chosen amount of life cards off a PLAYER
// target. Cards carrying the Trigger keyword go to the trash, everything else
// to hand. Over-damage just empties the life zone.
type DealDamageResolver struct {
	logger *slog.Logger
}

func (r *DealDamageResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return true
}

func (r *DealDamageResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	amount := effectCount(effect)
	if amount <= 0 {
		return state, nil
	}
	for _, t := range effect.PlayerTargets() {
		p := state.Player(t.Player)
		if p == nil || p.Leader == nil {
			r.logger.Warn("damage target is not a valid player", "player", t.Player)
			continue
		}
		state = state.withPlayer(t.Player, func(cp *PlayerState) {
			n := amount
			if n > len(cp.Life) {
				n = len(cp.Life)
			}
			taken := cp.Life[:n]
			cp.Life = append([]*CardInstance(nil), cp.Life[n:]...)
			for _, c := range taken {
				if c.HasKeyword("Trigger") {
					cp.Trash = append(cp.Trash, c)
				} else {
					cp.Hand = append(cp.Hand, c)
				}
			}
		})
	}
	return state, nil
}

// DrawResolver moves up to N cards from the controller's deck to hand.
type DrawResolver struct {
	logger *slog.Logger
}

func (r *DrawResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return effectCount(effect) > 0
}

func (r *DrawResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	n := effectCount(effect)
	if n <= 0 {
		return state, &ValidationError{EffectType: DrawCards, Reason: "non-positive card count"}
	}
	return state.withPlayer(effect.Controller, func(cp *PlayerState) {
		if n > len(cp.Deck) {
			n = len(cp.Deck)
		}
		drawn := cp.Deck[:n]
		cp.Deck = append([]*CardInstance(nil), cp.Deck[n:]...)
		cp.Hand = append(cp.Hand, drawn...)
	}), nil
}

// DiscardResolver moves up to N cards from hand to trash. A PLAYER target
// redirects the discard; default is the controller.
type DiscardResolver struct {
	logger *slog.Logger
}

func (r *DiscardResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return effectCount(effect) > 0
}

func (r *DiscardResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	n := effectCount(effect)
	if n <= 0 {
		return state, &ValidationError{EffectType: DiscardCards, Reason: "non-positive card count"}
	}
	who := effect.Controller
	if players := effect.PlayerTargets(); len(players) > 0 {
		who = players[0].Player
	}
	if state.Player(who) == nil {
		r.logger.Warn("discard target is not a valid player", "player", who)
		return state, nil
	}
	return state.withPlayer(who, func(cp *PlayerState) {
		if n > len(cp.Hand) {
			n = len(cp.Hand)
		}
		moved := cp.Hand[:n]
		cp.Hand = append([]*CardInstance(nil), cp.Hand[n:]...)
		cp.Trash = append(cp.Trash, moved...)
	}), nil
}

// TrashResolver mills up to N cards from the top of the controller's deck.
type TrashResolver struct {
	logger *slog.Logger
}

func (r *TrashResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return effectCount(effect) > 0
}

func (r *TrashResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	n := effectCount(effect)
	if n <= 0 {
		return state, &ValidationError{EffectType: TrashFromDeck, Reason: "non-positive card count"}
	}
	return state.withPlayer(effect.Controller, func(cp *PlayerState) {
		if n > len(cp.Deck) {
			n = len(cp.Deck)
		}
		moved := cp.Deck[:n]
		cp.Deck = append([]*CardInstance(nil), cp.Deck[n:]...)
		cp.Trash = append(cp.Trash, moved...)
	}), nil
}

// SearchDeckResolver looks at the top N cards of the controller's deck, moves
// cards matching the target filter to hand (bounded by MaxTargets) and puts
// the rest on the bottom in their looked-at order.
type SearchDeckResolver struct {
	logger *slog.Logger
}

func (r *SearchDeckResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return effectCount(effect) > 0
}

func (r *SearchDeckResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	params := effect.Definition.Parameters
	n := effectCount(effect)
	if n <= 0 {
		return state, &ValidationError{EffectType: SearchDeck, Reason: "non-positive card count"}
	}
	take := params.MaxTargets
	if take <= 0 {
		take = 1
	}
	return state.withPlayer(effect.Controller, func(cp *PlayerState) {
		if n > len(cp.Deck) {
			n = len(cp.Deck)
		}
		looked := cp.Deck[:n]
		rest := append([]*CardInstance(nil), cp.Deck[n:]...)
		taken := 0
		var bottom []*CardInstance
		for _, c := range looked {
			if taken < take && params.Filter.Matches(c, false) {
				cp.Hand = append(cp.Hand, c)
				taken++
			} else {
				bottom = append(bottom, c)
			}
		}
		cp.Deck = append(rest, bottom...)
	}), nil
}

// AttachDonResolver moves up to N active DON!! cards from the controller's
// cost area onto a CARD target on the field.
type AttachDonResolver struct {
	logger *slog.Logger
}

func (r *AttachDonResolver) CanResolve(effect *EffectInstance, state *GameState) bool {
	return effectCount(effect) > 0
}

func (r *AttachDonResolver) Resolve(effect *EffectInstance, state *GameState) (*GameState, error) {
	n := effectCount(effect)
	if n <= 0 {
		return state, &ValidationError{EffectType: AttachDon, Reason: "non-positive DON!! count"}
	}
	controller := state.Player(effect.Controller)
	if controller == nil {
		return state, &ValidationError{EffectType: AttachDon, Reason: "unknown controller"}
	}
	if n > controller.ActiveDonCount() {
		n = controller.ActiveDonCount()
	}
	if n == 0 {
		return state, nil
	}
	for _, t := range effect.CardTargets() {
		if !state.OnField(t.CardID) {
			r.logger.Warn("DON!! attach target not on field", "card", t.CardID)
			continue
		}
		state = state.withPlayer(effect.Controller, func(cp *PlayerState) {
			removed := 0
			kept := make([]*DonCard, 0, len(cp.CostArea))
			for _, d := range cp.CostArea {
				if removed < n && !d.Rested {
					removed++
					continue
				}
				kept = append(kept, d)
			}
			cp.CostArea = kept
		})
		next, ok := state.updateCard(t.CardID, func(c *CardInstance) {
			c.AttachedDon += n
		})
		if ok {
			state = next
		}
		break // a single attach target per activation
	}
	return state, nil
}
