package optcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOnPlayDraw(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("[On Play] Draw 2 cards.", "OP01-001")
	require.Len(t, defs, 1)

	d := defs[0]
	assert.Equal(t, TimingAuto, d.Timing)
	assert.Equal(t, TriggerOnPlay, d.TriggerTiming)
	assert.Equal(t, DrawCards, d.EffectType)
	assert.Equal(t, 2, d.Parameters.CardCount)
	assert.Equal(t, "OP01-001", d.SourceCardID)
	assert.False(t, d.OncePerTurn)
}

func TestParseActivateKO(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("[Activate: Main] K.O. up to 1 of your opponent's Characters with cost 4 or less.", "OP01-024")
	require.Len(t, defs, 1)

	d := defs[0]
	assert.Equal(t, TimingActivate, d.Timing)
	assert.Equal(t, TriggerNone, d.TriggerTiming)
	assert.Equal(t, KOCharacter, d.EffectType)
	assert.Equal(t, 4, d.Parameters.MaxCost)
	assert.Equal(t, 0, d.Parameters.MinTargets)
	assert.Equal(t, 1, d.Parameters.MaxTargets)
	require.NotNil(t, d.Parameters.Filter)
	assert.Equal(t, OpponentController, d.Parameters.Filter.Controller)
	require.NotNil(t, d.Parameters.Filter.Category)
	assert.Equal(t, CategoryCharacter, *d.Parameters.Filter.Category)
	assert.Equal(t, 4, d.Parameters.Filter.MaxCost)
}

func TestParseEmptyText(t *testing.T) {
	p := NewEffectParser(testLogger())

	assert.Empty(t, p.ParseEffectText("", "OP01-001"))
	assert.Empty(t, p.ParseEffectText("   \n\t ", "OP01-001"))
}

func TestParseKeywordOnlyLabels(t *testing.T) {
	p := NewEffectParser(testLogger())

	for _, text := range []string{"[Rush]", "[Blocker]", "[Double Attack]", "[Banish]"} {
		assert.Empty(t, p.ParseEffectText(text, "OP01-001"), "label %s must not produce a definition", text)
	}
}

func TestParseOncePerTurnAfterTimingLabel(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("[Activate: Main] [Once Per Turn] Give this Leader +1000 power during this turn.", "ST01-002")
	require.Len(t, defs, 1)

	d := defs[0]
	assert.Equal(t, TimingActivate, d.Timing)
	assert.True(t, d.OncePerTurn)
	assert.Equal(t, PowerModification, d.EffectType)
	require.NotNil(t, d.Parameters.PowerChange)
	assert.Equal(t, 1000, *d.Parameters.PowerChange)
	assert.Equal(t, DurationUntilEndOfTurn, d.Parameters.Duration)
}

func TestParseDonLabelBecomesCondition(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("[DON!! x2] [When Attacking] Give up to 1 of your opponent's Characters -2000 power during this turn.", "OP01-003")
	require.Len(t, defs, 1)

	d := defs[0]
	assert.Equal(t, TriggerWhenAttacking, d.TriggerTiming)
	require.NotNil(t, d.Condition)
	assert.Equal(t, CondCompare, d.Condition.Op)
	assert.Equal(t, OperandAttachedDon, d.Condition.Left.Kind)
	assert.Equal(t, CmpGTE, d.Condition.Compare)
	assert.Equal(t, 2, d.Condition.Right.Value)

	require.NotNil(t, d.Parameters.PowerChange)
	assert.Equal(t, -2000, *d.Parameters.PowerChange)
	require.NotNil(t, d.Parameters.Filter)
	assert.Equal(t, OpponentController, d.Parameters.Filter.Controller)
}

func TestParseMultipleSegments(t *testing.T) {
	p := NewEffectParser(testLogger())

	text := "[Blocker] [On Play] Draw 1 card. [When Attacking] Give this Leader +1000 power during this turn."
	defs := p.ParseEffectText(text, "OP02-013")
	require.Len(t, defs, 2)

	assert.Equal(t, TriggerOnPlay, defs[0].TriggerTiming)
	assert.Equal(t, DrawCards, defs[0].EffectType)
	assert.Equal(t, 1, defs[0].Parameters.CardCount)

	assert.Equal(t, TriggerWhenAttacking, defs[1].TriggerTiming)
	assert.Equal(t, PowerModification, defs[1].EffectType)
}

func TestParseUnknownLabelSkipped(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("[Mystery Phase] Do the impossible.", "OP01-099")
	assert.Empty(t, defs)
}

func TestParseUnmatchedBodyDefaultsToPowerModification(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("[On Play] Contemplate the sea.", "OP01-050")
	require.Len(t, defs, 1)
	assert.Equal(t, PowerModification, defs[0].EffectType)
	assert.Nil(t, defs[0].Parameters.PowerChange)
}

func TestParseSearchWithTrait(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("[On Play] Look at 5 cards from the top of your deck; reveal up to 1 {Straw Hat Crew} type card and add it to your hand.", "ST01-007")
	require.Len(t, defs, 1)

	d := defs[0]
	assert.Equal(t, SearchDeck, d.EffectType)
	assert.Equal(t, 5, d.Parameters.CardCount)
	assert.Equal(t, 1, d.Parameters.MaxTargets)
	require.NotNil(t, d.Parameters.Filter)
	assert.Equal(t, "Straw Hat Crew", d.Parameters.Filter.Trait)
}

func TestParseClassifierOrder(t *testing.T) {
	p := NewEffectParser(testLogger())

	// "power" appears before "k.o." in the tie-break order, so ambiguous
	// text mentioning both classifies as a power modification.
	defs := p.ParseEffectText("[When Attacking] Give this Leader +2000 power during this turn. Then, K.O. something.", "OP03-001")
	require.Len(t, defs, 1)
	assert.Equal(t, PowerModification, defs[0].EffectType)
}

func TestParseDealDamage(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("[On Play] Deal 2 damage to your opponent's Leader.", "OP05-060")
	require.Len(t, defs, 1)
	assert.Equal(t, DealDamage, defs[0].EffectType)
	assert.Equal(t, 2, defs[0].Parameters.CardCount)
}

func TestParseGrantKeyword(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("[Activate: Main] Up to 1 of your Characters gains [Rush] during this turn.", "OP02-005")
	require.Len(t, defs, 1)
	assert.Equal(t, GrantKeyword, defs[0].EffectType)
	assert.Equal(t, "Rush", defs[0].Parameters.Keyword)
	assert.Equal(t, DurationUntilEndOfTurn, defs[0].Parameters.Duration)
}

func TestParseCacheReturnsIndependentCopies(t *testing.T) {
	p := NewEffectParser(testLogger())

	first := p.ParseEffectText("[On Play] Draw 2 cards.", "OP01-001")
	require.Len(t, first, 1)
	first[0].UsedThisTurn = true

	second := p.ParseEffectText("[On Play] Draw 2 cards.", "OP01-001")
	require.Len(t, second, 1)
	assert.False(t, second[0].UsedThisTurn, "cached definitions must not share mutable state")
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestParseLeadingTextAttachesToFirstSegment(t *testing.T) {
	p := NewEffectParser(testLogger())

	defs := p.ParseEffectText("This card is special. [On Play] Draw 1 card.", "OP01-070")
	require.Len(t, defs, 1)
	assert.Equal(t, DrawCards, defs[0].EffectType)
}
