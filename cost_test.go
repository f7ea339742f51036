package optcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostGateNilCost(t *testing.T) {
	gate := NewCostGate(testLogger())
	state := testState()

	assert.True(t, gate.CanPay(state, "p1", nil))
	next, err := gate.Pay(state, "p1", nil)
	require.NoError(t, err)
	assert.Same(t, state, next)
}

func TestCostGateUnaffordableLeavesStateUntouched(t *testing.T) {
	gate := NewCostGate(testLogger())
	state := testState()
	state = state.withPlayer("p1", func(p *PlayerState) {
		p.CostArea = testDon(2)
	})

	assert.False(t, gate.CanPay(state, "p1", RestDon(3)))

	next, err := gate.Pay(state, "p1", RestDon(3))
	var costErr *CostError
	require.ErrorAs(t, err, &costErr)
	assert.Equal(t, 2, costErr.Available)
	assert.Same(t, state, next)
	assert.Equal(t, 2, state.Player("p1").ActiveDonCount())
}

func TestCostGateDebitsExactly(t *testing.T) {
	gate := NewCostGate(testLogger())
	state := testState()

	next, err := gate.Pay(state, "p1", RestDon(3))
	require.NoError(t, err)

	assert.Equal(t, 7, next.Player("p1").ActiveDonCount())
	assert.Len(t, next.Player("p1").CostArea, 10)
	// Copy-on-write: the input state still shows the pre-debit pool.
	assert.Equal(t, 10, state.Player("p1").ActiveDonCount())
	// The other player's branch is shared untouched.
	assert.Same(t, state.Player("p2"), next.Player("p2"))
}

func TestCostGateTrashFromHand(t *testing.T) {
	gate := NewCostGate(testLogger())
	state := testState()
	state = state.withPlayer("p1", func(p *PlayerState) {
		p.Hand = testDeck("p1-hand", 3)
	})

	next, err := gate.Pay(state, "p1", &CostExpr{Kind: CostTrashFromHand, Amount: 2})
	require.NoError(t, err)
	assert.Len(t, next.Player("p1").Hand, 1)
	assert.Len(t, next.Player("p1").Trash, 2)
	assert.Len(t, state.Player("p1").Hand, 3)

	_, err = gate.Pay(next, "p1", &CostExpr{Kind: CostTrashFromHand, Amount: 2})
	var costErr *CostError
	require.ErrorAs(t, err, &costErr)
}

func TestCostGateUnknownController(t *testing.T) {
	gate := NewCostGate(testLogger())
	state := testState()

	assert.False(t, gate.CanPay(state, "nobody", RestDon(1)))
	_, err := gate.Pay(state, "nobody", RestDon(1))
	assert.Error(t, err)
}
