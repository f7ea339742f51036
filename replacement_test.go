package optcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacementCostChainAscendingPriority(t *testing.T) {
	h := NewReplacementHandler(testLogger())
	state := testState()
	state = withCharacter(state, "p1", testCard("c1", "Nami", CategoryCharacter, 1, 1000))
	state = withCharacter(state, "p1", testCard("c2", "Usopp", CategoryCharacter, 2, 2000))
	ctx := &ResolutionContext{Controller: "p1"}

	// Registered out of order on purpose; application must still run 5 then 10.
	h.Register("c2", "fx-b", 10, func(cost *CostExpr, _ *ResolutionContext) *CostExpr {
		require.NotNil(t, cost)
		return &CostExpr{Kind: cost.Kind, Amount: cost.Amount * 2}
	}, nil)
	h.Register("c1", "fx-a", 5, func(cost *CostExpr, _ *ResolutionContext) *CostExpr {
		require.NotNil(t, cost)
		return &CostExpr{Kind: cost.Kind, Amount: cost.Amount + 1}
	}, nil)

	got := h.ApplyCostReplacements(RestDon(3), state, ctx)
	require.NotNil(t, got)
	// (3+1)*2, not (3*2)+1.
	assert.Equal(t, 8, got.Amount)
}

func TestReplacementCostRemoval(t *testing.T) {
	h := NewReplacementHandler(testLogger())
	state := testState()
	state = withCharacter(state, "p1", testCard("c1", "Nami", CategoryCharacter, 1, 1000))

	h.Register("c1", "fx-free", 0, func(*CostExpr, *ResolutionContext) *CostExpr {
		return nil
	}, nil)

	got := h.ApplyCostReplacements(RestDon(2), state, &ResolutionContext{Controller: "p1"})
	assert.Nil(t, got)
}

func TestReplacementSkipsOffFieldSources(t *testing.T) {
	h := NewReplacementHandler(testLogger())
	state := testState()

	// "c1" never enters the field, so its entry must not fire.
	h.Register("c1", "fx-a", 0, func(cost *CostExpr, _ *ResolutionContext) *CostExpr {
		return nil
	}, nil)

	got := h.ApplyCostReplacements(RestDon(2), state, &ResolutionContext{Controller: "p1"})
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Amount)
}

func TestReplacementBodyChain(t *testing.T) {
	h := NewReplacementHandler(testLogger())
	state := testState()
	state = withCharacter(state, "p1", testCard("c1", "Nami", CategoryCharacter, 1, 1000))

	h.Register("c1", "fx-redirect", 0, nil, func(in *EffectInstance, _ *ResolutionContext) *EffectInstance {
		out := *in
		out.Targets = []Target{CardTarget("other")}
		return &out
	})

	original := instanceOf(defOf(KOCharacter, Parameters{}), "p1", CardTarget("c1"))
	got := h.ApplyBodyReplacements(original, state, &ResolutionContext{Controller: "p1"})
	require.Len(t, got.CardTargets(), 1)
	assert.Equal(t, "other", got.CardTargets()[0].CardID)
	// The input instance is untouched.
	assert.Equal(t, "c1", original.CardTargets()[0].CardID)
}

func TestReplacementPassThroughWithNoEntries(t *testing.T) {
	h := NewReplacementHandler(testLogger())
	state := testState()
	ctx := &ResolutionContext{Controller: "p1"}

	cost := RestDon(1)
	assert.Same(t, cost, h.ApplyCostReplacements(cost, state, ctx))

	instance := instanceOf(defOf(DrawCards, Parameters{CardCount: 1}), "p1")
	assert.Same(t, instance, h.ApplyBodyReplacements(instance, state, ctx))
}

func TestReplacementRegistryMaintenance(t *testing.T) {
	h := NewReplacementHandler(testLogger())
	noop := func(cost *CostExpr, _ *ResolutionContext) *CostExpr { return cost }

	h.Register("c1", "fx-a", 2, noop, nil)
	h.Register("c1", "fx-b", 1, noop, nil)
	h.Register("c2", "fx-c", 3, noop, nil)

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "fx-b", entries[0].EffectID, "snapshot is in priority order")

	h.Unregister("c1", "fx-a")
	assert.Len(t, h.Entries(), 2)

	h.ClearFromCard("c1")
	entries = h.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "c2", entries[0].CardID)

	h.ClearAll()
	assert.Empty(t, h.Entries())
}
