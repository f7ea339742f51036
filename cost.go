package optcg

import "log/slog"

// CostGate validates and commits cost payments. The debit lands on a fresh
// state strictly before any effect-body logic runs, so everything downstream
// observes the already-paid resource pool.
type CostGate struct {
	logger *slog.Logger
}

func NewCostGate(logger *slog.Logger) *CostGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &CostGate{logger: logger}
}

// CanPay checks affordability without touching the state.
func (g *CostGate) CanPay(state *GameState, controller string, cost *CostExpr) bool {
	if cost == nil {
		return true
	}
	p := state.Player(controller)
	if p == nil {
		return false
	}
	switch cost.Kind {
	case CostRestDon:
		return p.ActiveDonCount() >= cost.Amount
	case CostTrashFromHand:
		return len(p.Hand) >= cost.Amount
	}
	return false
}

// Pay commits the debit. A nil cost returns the input state unchanged. An
// unaffordable cost returns the input state and a *CostError; the caller is
// guaranteed zero mutation in that case.
func (g *CostGate) Pay(state *GameState, controller string, cost *CostExpr) (*GameState, error) {
	if cost == nil {
		return state, nil
	}
	p := state.Player(controller)
	if p == nil {
		return state, &CostError{Cost: *cost}
	}
	switch cost.Kind {
	case CostRestDon:
		if p.ActiveDonCount() < cost.Amount {
			return state, &CostError{Cost: *cost, Available: p.ActiveDonCount()}
		}
		next := state.withPlayer(controller, func(cp *PlayerState) {
			rested := 0
			for i, d := range cp.CostArea {
				if rested == cost.Amount {
					break
				}
				if !d.Rested {
					don := *d
					don.Rested = true
					cp.CostArea[i] = &don
					rested++
				}
			}
		})
		g.logger.Debug("cost paid", "controller", controller, "cost", cost.String())
		return next, nil
	case CostTrashFromHand:
		if len(p.Hand) < cost.Amount {
			return state, &CostError{Cost: *cost, Available: len(p.Hand)}
		}
		next := state.withPlayer(controller, func(cp *PlayerState) {
			moved := cp.Hand[:cost.Amount]
			cp.Hand = append([]*CardInstance(nil), cp.Hand[cost.Amount:]...)
			cp.Trash = append(cp.Trash, moved...)
		})
		g.logger.Debug("cost paid", "controller", controller, "cost", cost.String())
		return next, nil
	}
	return state, &CostError{Cost: *cost}
}
