package optcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCardAcrossZones(t *testing.T) {
	state := testState()
	state = withCharacter(state, "p1", testCard("c1", "Zoro", CategoryCharacter, 3, 5000))

	card, owner, zone, ok := state.FindCard("c1")
	require.True(t, ok)
	assert.Equal(t, "Zoro", card.Name)
	assert.Equal(t, "p1", owner.ID)
	assert.Equal(t, ZoneCharacterArea, zone)

	_, _, zone, ok = state.FindCard("p2-leader")
	require.True(t, ok)
	assert.Equal(t, ZoneLeaderArea, zone)

	_, _, _, ok = state.FindCard("missing")
	assert.False(t, ok)
}

func TestOnField(t *testing.T) {
	state := testState()
	state = withCharacter(state, "p1", testCard("c1", "Zoro", CategoryCharacter, 3, 5000))

	assert.True(t, state.OnField("c1"))
	assert.True(t, state.OnField("p1-leader"))
	assert.False(t, state.OnField("p1-deck-0"), "deck cards are not on the field")
	assert.False(t, state.OnField("missing"))
}

func TestUpdateCardCopiesOnlyTouchedBranch(t *testing.T) {
	state := testState()
	state = withCharacter(state, "p1", testCard("c1", "Zoro", CategoryCharacter, 3, 5000))

	next, ok := state.updateCard("c1", func(c *CardInstance) {
		c.Modifiers = append(c.Modifiers, newPowerModifier(1000, DurationUntilEndOfTurn, "src"))
	})
	require.True(t, ok)

	oldCard, _, _, _ := state.FindCard("c1")
	newCard, _, _, _ := next.FindCard("c1")
	assert.Empty(t, oldCard.Modifiers, "input state must not observe the append")
	assert.Len(t, newCard.Modifiers, 1)
	assert.Equal(t, 6000, newCard.CurrentPower())
	assert.Equal(t, 5000, oldCard.CurrentPower())

	// Untouched player shares structure.
	assert.Same(t, state.Player("p2"), next.Player("p2"))
}

func TestUpdateCardMissing(t *testing.T) {
	state := testState()
	next, ok := state.updateCard("missing", func(c *CardInstance) {})
	assert.False(t, ok)
	assert.Same(t, state, next)
}

func TestCurrentPowerSumsModifiers(t *testing.T) {
	c := testCard("c1", "Zoro", CategoryCharacter, 3, 5000)
	c.Modifiers = append(c.Modifiers, newPowerModifier(1000, DurationUntilEndOfTurn, "a"))
	c.Modifiers = append(c.Modifiers, newPowerModifier(-2000, DurationUntilEndOfBattle, "b"))
	c.Modifiers = append(c.Modifiers, newKeywordModifier("Rush", DurationPermanent, "c"))

	assert.Equal(t, 4000, c.CurrentPower())
}

func TestTargetFilterMatches(t *testing.T) {
	c := testCard("c1", "Zoro", CategoryCharacter, 4, 5000)
	c.Traits = []string{"Straw Hat Crew"}
	c.Color = "red"

	filter := &TargetFilter{
		Controller: OpponentController,
		Category:   categoryPtr(CategoryCharacter),
		MaxCost:    4,
	}
	assert.True(t, filter.Matches(c, true))
	assert.False(t, filter.Matches(c, false), "controller filter must reject own cards")

	filter.MaxCost = 3
	assert.False(t, filter.Matches(c, true))

	assert.True(t, (&TargetFilter{Trait: "straw hat crew"}).Matches(c, false))
	assert.False(t, (&TargetFilter{Trait: "Navy"}).Matches(c, false))
	assert.True(t, (*TargetFilter)(nil).Matches(c, true))
}
