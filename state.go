package optcg

import "strings"

// CardInstance is a physical card somewhere in a zone. Engine code never
// mutates a card reachable from an input state; mutation goes through the
// clone-and-replace helpers below so callers keep their snapshot intact.
type CardInstance struct {
	ID          string
	Code        string
	Name        string
	Category    CardCategory
	Cost        int
	BasePower   int
	Color       string
	Rested      bool
	AttachedDon int
	Traits      []string
	Keywords    []string
	Modifiers   []Modifier
}

// HasTrait checks the card's printed type line, case-insensitively.
func (c *CardInstance) HasTrait(trait string) bool {
	for _, t := range c.Traits {
		if strings.EqualFold(t, trait) {
			return true
		}
	}
	return false
}

// HasKeyword checks printed keywords and granted KEYWORD modifiers.
func (c *CardInstance) HasKeyword(k string) bool {
	for _, kw := range c.Keywords {
		if kw == k {
			return true
		}
	}
	for _, m := range c.Modifiers {
		if m.Type == ModKeyword && m.Keyword == k {
			return true
		}
	}
	return false
}

// CurrentPower is base power plus all POWER modifiers.
func (c *CardInstance) CurrentPower() int {
	power := c.BasePower
	for _, m := range c.Modifiers {
		if m.Type == ModPower {
			power += m.Value
		}
	}
	return power
}

func (c *CardInstance) clone() *CardInstance {
	out := *c
	out.Traits = append([]string(nil), c.Traits...)
	out.Keywords = append([]string(nil), c.Keywords...)
	out.Modifiers = append([]Modifier(nil), c.Modifiers...)
	return &out
}

// DonCard is one DON!! card in a cost area.
type DonCard struct {
	ID     string
	Rested bool
}

// PlayerState holds one player's zones. Slice order is zone order: index 0 of
// Deck and Life is the top card.
type PlayerState struct {
	ID         string
	Leader     *CardInstance
	Characters []*CardInstance
	Stage      *CardInstance
	Hand       []*CardInstance
	Deck       []*CardInstance
	Trash      []*CardInstance
	Life       []*CardInstance
	CostArea   []*DonCard
}

func (p *PlayerState) clone() *PlayerState {
	out := *p
	out.Characters = append([]*CardInstance(nil), p.Characters...)
	out.Hand = append([]*CardInstance(nil), p.Hand...)
	out.Deck = append([]*CardInstance(nil), p.Deck...)
	out.Trash = append([]*CardInstance(nil), p.Trash...)
	out.Life = append([]*CardInstance(nil), p.Life...)
	out.CostArea = append([]*DonCard(nil), p.CostArea...)
	return &out
}

// ActiveDonCount is the number of non-rested DON!! cards in the cost area.
func (p *PlayerState) ActiveDonCount() int {
	n := 0
	for _, d := range p.CostArea {
		if !d.Rested {
			n++
		}
	}
	return n
}

// GameState is the authoritative game value the engine consumes and returns.
// It is treated as immutable: every transition produces a new state that
// shares untouched branches with its predecessor.
type GameState struct {
	Players []*PlayerState
	Turn    int
}

// Player returns the player with the given id, or nil.
func (s *GameState) Player(id string) *PlayerState {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the first player whose id differs, or nil.
func (s *GameState) Opponent(id string) *PlayerState {
	for _, p := range s.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

// FindCard locates a card by id across every zone of every player.
func (s *GameState) FindCard(cardID string) (*CardInstance, *PlayerState, Zone, bool) {
	for _, p := range s.Players {
		if p.Leader != nil && p.Leader.ID == cardID {
			return p.Leader, p, ZoneLeaderArea, true
		}
		if p.Stage != nil && p.Stage.ID == cardID {
			return p.Stage, p, ZoneStageArea, true
		}
		zones := []struct {
			zone  Zone
			cards []*CardInstance
		}{
			{ZoneCharacterArea, p.Characters},
			{ZoneHand, p.Hand},
			{ZoneDeck, p.Deck},
			{ZoneTrash, p.Trash},
			{ZoneLife, p.Life},
		}
		for _, z := range zones {
			for _, c := range z.cards {
				if c.ID == cardID {
					return c, p, z.zone, true
				}
			}
		}
	}
	return nil, nil, ZoneDeck, false
}

// OnField reports whether a card is physically present in the leader,
// character or stage area of the current state.
func (s *GameState) OnField(cardID string) bool {
	_, _, zone, ok := s.FindCard(cardID)
	if !ok {
		return false
	}
	return zone == ZoneLeaderArea || zone == ZoneCharacterArea || zone == ZoneStageArea
}

func (s *GameState) clone() *GameState {
	out := *s
	out.Players = append([]*PlayerState(nil), s.Players...)
	return &out
}

// withPlayer clones the state and the named player, applies fn to the cloned
// player, and returns the new state. The input state is untouched.
func (s *GameState) withPlayer(id string, fn func(*PlayerState)) *GameState {
	next := s.clone()
	for i, p := range next.Players {
		if p.ID == id {
			cp := p.clone()
			fn(cp)
			next.Players[i] = cp
			return next
		}
	}
	return next
}

// updateCard clones the path down to a card in the leader, character or stage
// area, applies fn to the cloned card, and returns the new state. The second
// result is false when the card is not on the field.
func (s *GameState) updateCard(cardID string, fn func(*CardInstance)) (*GameState, bool) {
	for _, p := range s.Players {
		if p.Leader != nil && p.Leader.ID == cardID {
			next := s.withPlayer(p.ID, func(cp *PlayerState) {
				leader := cp.Leader.clone()
				fn(leader)
				cp.Leader = leader
			})
			return next, true
		}
		if p.Stage != nil && p.Stage.ID == cardID {
			next := s.withPlayer(p.ID, func(cp *PlayerState) {
				stage := cp.Stage.clone()
				fn(stage)
				cp.Stage = stage
			})
			return next, true
		}
		for i, c := range p.Characters {
			if c.ID == cardID {
				idx := i
				next := s.withPlayer(p.ID, func(cp *PlayerState) {
					card := cp.Characters[idx].clone()
					fn(card)
					cp.Characters[idx] = card
				})
				return next, true
			}
		}
	}
	return s, false
}

// removeCharacter takes a card out of a cloned player's character area.
// Returns nil when the card is not there.
func (p *PlayerState) removeCharacter(cardID string) *CardInstance {
	for i, c := range p.Characters {
		if c.ID == cardID {
			p.Characters = append(p.Characters[:i:i], p.Characters[i+1:]...)
			return c
		}
	}
	return nil
}
