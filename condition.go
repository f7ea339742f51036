package optcg

// EvalContext is everything a condition may read: the effect's source card,
// its controller and the live state. Conditions never write.
type EvalContext struct {
	Source     *CardInstance
	Controller string
	State      *GameState
}

func (ctx *EvalContext) player(f ControllerFilter) *PlayerState {
	if f == OpponentController {
		return ctx.State.Opponent(ctx.Controller)
	}
	return ctx.State.Player(ctx.Controller)
}

func (ctx *EvalContext) operandValue(o Operand) int {
	switch o.Kind {
	case OperandAttachedDon:
		if ctx.Source == nil {
			return 0
		}
		return ctx.Source.AttachedDon
	case OperandHandCount:
		if p := ctx.player(o.Controller); p != nil {
			return len(p.Hand)
		}
		return 0
	case OperandCharacterCount:
		if p := ctx.player(o.Controller); p != nil {
			return len(p.Characters)
		}
		return 0
	case OperandLifeCount:
		if p := ctx.player(o.Controller); p != nil {
			return len(p.Life)
		}
		return 0
	case OperandActiveDonCount:
		if p := ctx.player(o.Controller); p != nil {
			return p.ActiveDonCount()
		}
		return 0
	}
	return o.Value
}

// Evaluate walks a condition tree. A nil expression is vacuously true. AND
// and OR short-circuit left to right; operands are pure so the order is
// unobservable.
func Evaluate(expr *ConditionExpr, ctx *EvalContext) bool {
	if expr == nil {
		return true
	}
	switch expr.Op {
	case CondAnd:
		for _, op := range expr.Operands {
			if !Evaluate(op, ctx) {
				return false
			}
		}
		return true
	case CondOr:
		for _, op := range expr.Operands {
			if Evaluate(op, ctx) {
				return true
			}
		}
		return false
	case CondNot:
		if len(expr.Operands) != 1 {
			return false
		}
		return !Evaluate(expr.Operands[0], ctx)
	case CondCompare:
		left := ctx.operandValue(expr.Left)
		right := ctx.operandValue(expr.Right)
		switch expr.Compare {
		case CmpEQ:
			return left == right
		case CmpNEQ:
			return left != right
		case CmpGT:
			return left > right
		case CmpLT:
			return left < right
		case CmpGTE:
			return left >= right
		case CmpLTE:
			return left <= right
		}
		return false
	case CondHasKeyword:
		return ctx.Source != nil && ctx.Source.HasKeyword(expr.Keyword)
	}
	return false
}
