package optcg

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCard(id, name string, category CardCategory, cost, power int) *CardInstance {
	return &CardInstance{
		ID:        id,
		Code:      id,
		Name:      name,
		Category:  category,
		Cost:      cost,
		BasePower: power,
	}
}

func testDon(n int) []*DonCard {
	out := make([]*DonCard, n)
	for i := range out {
		out[i] = &DonCard{ID: ulid.Make().String()}
	}
	return out
}

func testDeck(prefix string, n int) []*CardInstance {
	out := make([]*CardInstance, n)
	for i := range out {
		out[i] = testCard(fmt.Sprintf("%s-%d", prefix, i), "Deck Card", CategoryCharacter, 2, 3000)
	}
	return out
}

// testState builds a two-player board: each player has a leader, an empty
// character area, a 10 card deck and 10 DON!! in the cost area.
func testState() *GameState {
	return &GameState{
		Players: []*PlayerState{
			{
				ID:       "p1",
				Leader:   testCard("p1-leader", "Leader One", CategoryLeader, 0, 5000),
				Deck:     testDeck("p1-deck", 10),
				CostArea: testDon(10),
			},
			{
				ID:       "p2",
				Leader:   testCard("p2-leader", "Leader Two", CategoryLeader, 0, 5000),
				Deck:     testDeck("p2-deck", 10),
				CostArea: testDon(10),
			},
		},
		Turn: 1,
	}
}

func withCharacter(s *GameState, player string, c *CardInstance) *GameState {
	return s.withPlayer(player, func(cp *PlayerState) {
		cp.Characters = append(cp.Characters, c)
	})
}

func defOf(t EffectType, params Parameters) *EffectDefinition {
	return &EffectDefinition{
		ID:           "test-fx1",
		SourceCardID: "test-source",
		EffectType:   t,
		Parameters:   params,
	}
}

func instanceOf(def *EffectDefinition, controller string, targets ...Target) *EffectInstance {
	return NewEffectInstance(def, controller, targets, nil)
}

func newTestEngine() (*EffectStack, *ScriptRegistry) {
	logger := testLogger()
	scripts := NewScriptRegistry()
	stack := NewEffectStack(
		NewCostGate(logger),
		NewReplacementHandler(logger),
		NewDefaultRegistry(logger),
		scripts,
		logger,
	)
	return stack, scripts
}
