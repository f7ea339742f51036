package optcg

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ConditionOp tags a node in a condition tree.
type ConditionOp int

const (
	CondAnd ConditionOp = iota
	CondOr
	CondNot
	CondCompare
	CondHasKeyword
)

// CompareOp is the comparison used by CondCompare nodes.
type CompareOp int

const (
	CmpEQ CompareOp = iota
	CmpNEQ
	CmpGT
	CmpLT
	CmpGTE
	CmpLTE
)

// OperandKind selects where a CondCompare operand reads its value from.
type OperandKind int

const (
	OperandLiteral OperandKind = iota
	OperandAttachedDon
	OperandHandCount
	OperandCharacterCount
	OperandLifeCount
	OperandActiveDonCount
)

// Operand is one side of a comparison. Non-literal kinds read the resolution
// context; Controller picks whose zones are counted.
type Operand struct {
	Kind       OperandKind
	Value      int
	Controller ControllerFilter
}

// Lit builds a literal operand.
func Lit(n int) Operand { return Operand{Kind: OperandLiteral, Value: n} }

// ConditionExpr is a pure predicate tree over a resolution context.
type ConditionExpr struct {
	Op       ConditionOp
	Operands []*ConditionExpr // AND, OR, NOT
	Left     Operand          // COMPARE
	Right    Operand
	Compare  CompareOp
	Keyword  string // HAS_KEYWORD
}

func And(ops ...*ConditionExpr) *ConditionExpr {
	return &ConditionExpr{Op: CondAnd, Operands: ops}
}

func Or(ops ...*ConditionExpr) *ConditionExpr {
	return &ConditionExpr{Op: CondOr, Operands: ops}
}

func Not(op *ConditionExpr) *ConditionExpr {
	return &ConditionExpr{Op: CondNot, Operands: []*ConditionExpr{op}}
}

func Compare(left Operand, op CompareOp, right Operand) *ConditionExpr {
	return &ConditionExpr{Op: CondCompare, Left: left, Compare: op, Right: right}
}

func HasKeyword(keyword string) *ConditionExpr {
	return &ConditionExpr{Op: CondHasKeyword, Keyword: keyword}
}

// CostExpr is a tagged payment requirement.
type CostExpr struct {
	Kind   CostKind
	Amount int
}

// RestDon is the common activation cost: rest n active DON!! cards.
func RestDon(n int) *CostExpr { return &CostExpr{Kind: CostRestDon, Amount: n} }

func (c CostExpr) String() string { return fmt.Sprintf("%s(%d)", c.Kind, c.Amount) }

// Target is a chosen subject for one activation.
type Target struct {
	Kind   TargetKind
	CardID string
	Player string
	Zone   Zone
	Value  int
}

func CardTarget(id string) Target   { return Target{Kind: TargetCard, CardID: id} }
func PlayerTarget(id string) Target { return Target{Kind: TargetPlayer, Player: id} }
func ZoneTarget(z Zone) Target      { return Target{Kind: TargetZone, Zone: z} }
func ValueTarget(n int) Target      { return Target{Kind: TargetValue, Value: n} }

// TargetFilter is the declarative legality constraint for targets.
type TargetFilter struct {
	Controller ControllerFilter
	Category   *CardCategory
	Zone       *Zone
	MaxCost    int // 0 = unbounded
	MaxPower   int // 0 = unbounded
	Color      string
	Trait      string
	Keyword    string
}

// Matches reports whether a card under the given controller relation satisfies
// the filter. Zone membership is the caller's concern.
func (f *TargetFilter) Matches(c *CardInstance, isOpponent bool) bool {
	if f == nil {
		return true
	}
	if f.Controller == SelfController && isOpponent {
		return false
	}
	if f.Controller == OpponentController && !isOpponent {
		return false
	}
	if f.Category != nil && c.Category != *f.Category {
		return false
	}
	if f.MaxCost > 0 && c.Cost > f.MaxCost {
		return false
	}
	if f.MaxPower > 0 && c.CurrentPower() > f.MaxPower {
		return false
	}
	if f.Color != "" && c.Color != f.Color {
		return false
	}
	if f.Trait != "" && !c.HasTrait(f.Trait) {
		return false
	}
	if f.Keyword != "" && !c.HasKeyword(f.Keyword) {
		return false
	}
	return true
}

// Parameters is the per-effect-type variant bag. Which fields are meaningful
// depends on the owning definition's EffectType.
type Parameters struct {
	PowerChange *int
	MaxCost     int
	MaxPower    int
	CardCount   int
	Keyword     string
	Duration    Duration
	Filter      *TargetFilter
	MinTargets  int
	MaxTargets  int
}

// EffectDefinition is the immutable template of one card ability. Only
// UsedThisTurn is ever mutated: the activation boundary sets it on use and
// the turn driver clears it at turn boundaries.
type EffectDefinition struct {
	ID            string
	SourceCardID  string
	Label         string
	Timing        TimingType
	TriggerTiming TriggerTiming
	Condition     *ConditionExpr
	Cost          *CostExpr
	EffectType    EffectType
	Parameters    Parameters
	ScriptID      string
	OncePerTurn   bool
	UsedThisTurn  bool

	// hasBody tracks whether the parser already attached effect text, so a
	// trailing modifier label knows where its body belongs.
	hasBody bool
}

// EffectInstance is one runtime activation of a definition. It lives exactly
// from push to resolution and never outlasts the stack entry that carries it.
type EffectInstance struct {
	ID           string
	Definition   *EffectDefinition
	SourceCardID string
	Controller   string
	Targets      []Target
	Values       map[string]int
	Timestamp    time.Time
	Resolved     bool
	Priority     int
}

// NewEffectInstance binds chosen targets and values to a definition. The
// caller (turn driver or AI collaborator) has already made all choices.
func NewEffectInstance(def *EffectDefinition, controller string, targets []Target, values map[string]int) *EffectInstance {
	return &EffectInstance{
		ID:           ulid.Make().String(),
		Definition:   def,
		SourceCardID: def.SourceCardID,
		Controller:   controller,
		Targets:      targets,
		Values:       values,
		Timestamp:    time.Now(),
	}
}

// CardTargets returns the CARD targets in push order.
func (e *EffectInstance) CardTargets() []Target {
	out := make([]Target, 0, len(e.Targets))
	for _, t := range e.Targets {
		if t.Kind == TargetCard {
			out = append(out, t)
		}
	}
	return out
}

// PlayerTargets returns the PLAYER targets in push order.
func (e *EffectInstance) PlayerTargets() []Target {
	out := make([]Target, 0, len(e.Targets))
	for _, t := range e.Targets {
		if t.Kind == TargetPlayer {
			out = append(out, t)
		}
	}
	return out
}

// Modifier is a timed, sourced adjustment appended to a card. Modifiers are
// never edited in place; expiry filtering happens in the turn driver's sweep.
type Modifier struct {
	ID        string
	Type      ModifierType
	Value     int
	Keyword   string
	Duration  Duration
	Source    string
	Timestamp time.Time
}

func newPowerModifier(value int, duration Duration, source string) Modifier {
	return Modifier{
		ID:        ulid.Make().String(),
		Type:      ModPower,
		Value:     value,
		Duration:  duration,
		Source:    source,
		Timestamp: time.Now(),
	}
}

func newKeywordModifier(keyword string, duration Duration, source string) Modifier {
	return Modifier{
		ID:        ulid.Make().String(),
		Type:      ModKeyword,
		Keyword:   keyword,
		Duration:  duration,
		Source:    source,
		Timestamp: time.Now(),
	}
}
