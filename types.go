package optcg

import "strings"

// TimingType classifies how an effect definition enters play.
type TimingType int

const (
	TimingAuto TimingType = iota
	TimingActivate
	TimingPermanent
	TimingReplacement
)

func (t TimingType) String() string {
	switch t {
	case TimingAuto:
		return "AUTO"
	case TimingActivate:
		return "ACTIVATE"
	case TimingPermanent:
		return "PERMANENT"
	case TimingReplacement:
		return "REPLACEMENT"
	}
	return "UNKNOWN"
}

// TriggerTiming is only meaningful for TimingAuto definitions.
type TriggerTiming int

const (
	TriggerNone TriggerTiming = iota
	TriggerOnPlay
	TriggerWhenAttacking
	TriggerOnKO
	TriggerOnBlock
	TriggerEndOfYourTurn
	TriggerFromLife
	TriggerCounter
)

func (t TriggerTiming) String() string {
	switch t {
	case TriggerOnPlay:
		return "ON_PLAY"
	case TriggerWhenAttacking:
		return "WHEN_ATTACKING"
	case TriggerOnKO:
		return "ON_KO"
	case TriggerOnBlock:
		return "ON_BLOCK"
	case TriggerEndOfYourTurn:
		return "END_OF_YOUR_TURN"
	case TriggerFromLife:
		return "TRIGGER"
	case TriggerCounter:
		return "COUNTER"
	}
	return "NONE"
}

// EffectType is the closed set of state transitions the engine knows how to resolve.
type EffectType int

const (
	PowerModification EffectType = iota
	KOCharacter
	BounceCharacter
	SearchDeck
	DrawCards
	DiscardCards
	TrashFromDeck
	RestCharacter
	ActivateCharacter
	AttachDon
	DealDamage
	GrantKeyword
)

func (t EffectType) String() string {
	switch t {
	case PowerModification:
		return "POWER_MODIFICATION"
	case KOCharacter:
		return "KO_CHARACTER"
	case BounceCharacter:
		return "BOUNCE_CHARACTER"
	case SearchDeck:
		return "SEARCH_DECK"
	case DrawCards:
		return "DRAW_CARDS"
	case DiscardCards:
		return "DISCARD_CARDS"
	case TrashFromDeck:
		return "TRASH_FROM_DECK"
	case RestCharacter:
		return "REST_CHARACTER"
	case ActivateCharacter:
		return "ACTIVATE_CHARACTER"
	case AttachDon:
		return "ATTACH_DON"
	case DealDamage:
		return "DEAL_DAMAGE"
	case GrantKeyword:
		return "GRANT_KEYWORD"
	}
	return "UNKNOWN"
}

// CardCategory distinguishes the physical card kinds on the board.
type CardCategory int

const (
	CategoryLeader CardCategory = iota
	CategoryCharacter
	CategoryEvent
	CategoryStage
)

func (c CardCategory) String() string {
	switch c {
	case CategoryLeader:
		return "LEADER"
	case CategoryCharacter:
		return "CHARACTER"
	case CategoryEvent:
		return "EVENT"
	case CategoryStage:
		return "STAGE"
	}
	return "UNKNOWN"
}

// ParseCategory maps a card-list string to a category. Matching is
// case-insensitive; unknown strings report false.
func ParseCategory(s string) (CardCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "leader":
		return CategoryLeader, true
	case "character":
		return CategoryCharacter, true
	case "event":
		return CategoryEvent, true
	case "stage":
		return CategoryStage, true
	}
	return CategoryCharacter, false
}

// Zone names the places a card can physically be.
type Zone int

const (
	ZoneDeck Zone = iota
	ZoneHand
	ZoneTrash
	ZoneLife
	ZoneCharacterArea
	ZoneLeaderArea
	ZoneStageArea
	ZoneCostArea
)

func (z Zone) String() string {
	switch z {
	case ZoneDeck:
		return "DECK"
	case ZoneHand:
		return "HAND"
	case ZoneTrash:
		return "TRASH"
	case ZoneLife:
		return "LIFE"
	case ZoneCharacterArea:
		return "CHARACTER_AREA"
	case ZoneLeaderArea:
		return "LEADER_AREA"
	case ZoneStageArea:
		return "STAGE_AREA"
	case ZoneCostArea:
		return "COST_AREA"
	}
	return "UNKNOWN"
}

// ModifierType is what aspect of a card a modifier adjusts.
type ModifierType int

const (
	ModPower ModifierType = iota
	ModKeyword
	ModCost
)

func (m ModifierType) String() string {
	switch m {
	case ModPower:
		return "POWER"
	case ModKeyword:
		return "KEYWORD"
	case ModCost:
		return "COST"
	}
	return "UNKNOWN"
}

// Duration bounds a modifier's lifetime. Expiry sweeps happen outside the engine.
type Duration int

const (
	DurationPermanent Duration = iota
	DurationUntilEndOfTurn
	DurationUntilEndOfBattle
)

func (d Duration) String() string {
	switch d {
	case DurationUntilEndOfTurn:
		return "UNTIL_END_OF_TURN"
	case DurationUntilEndOfBattle:
		return "UNTIL_END_OF_BATTLE"
	}
	return "PERMANENT"
}

// CostKind tags a payment requirement.
type CostKind int

const (
	CostRestDon CostKind = iota
	CostTrashFromHand
)

func (c CostKind) String() string {
	if c == CostTrashFromHand {
		return "TRASH_FROM_HAND"
	}
	return "REST_DON"
}

// TargetKind discriminates Target values.
type TargetKind int

const (
	TargetCard TargetKind = iota
	TargetPlayer
	TargetZone
	TargetValue
)

// ControllerFilter narrows targets by which player controls them.
type ControllerFilter int

const (
	AnyController ControllerFilter = iota
	SelfController
	OpponentController
)

func (c ControllerFilter) String() string {
	switch c {
	case SelfController:
		return "self"
	case OpponentController:
		return "opponent"
	}
	return "any"
}
