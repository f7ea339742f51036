package optcg

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Labels that describe card keywords rather than effects. They never produce
// a definition; the card loader models them as card flags.
var keywordOnlyLabels = map[string]bool{
	"rush":          true,
	"blocker":       true,
	"double attack": true,
	"banish":        true,
}

// Trigger labels map 1:1 onto trigger timings.
var triggerLabels = map[string]TriggerTiming{
	"on play":          TriggerOnPlay,
	"when attacking":   TriggerWhenAttacking,
	"on k.o.":          TriggerOnKO,
	"on block":         TriggerOnBlock,
	"end of your turn": TriggerEndOfYourTurn,
	"trigger":          TriggerFromLife,
	"counter":          TriggerCounter,
}

// Permanent labels describe standing effects while the card is on the field.
var permanentLabels = map[string]bool{
	"your turn":       true,
	"opponent's turn": true,
}

var (
	labelRe    = regexp.MustCompile(`\[[^\[\]]+\]`)
	donLabelRe = regexp.MustCompile(`^don!!\s*[x×](\d+)$`)

	powerValueRe  = regexp.MustCompile(`([+-]\d+)\s*power`)
	costLimitRe   = regexp.MustCompile(`cost (?:of )?(\d+) or less`)
	powerLimitRe  = regexp.MustCompile(`(\d+) power or less`)
	upToRe        = regexp.MustCompile(`up to (\d+)`)
	drawCountRe   = regexp.MustCompile(`draws? (\d+)`)
	countCardsRe  = regexp.MustCompile(`(\d+) (?:of your |of your opponent's )?cards?`)
	topDeckRe     = regexp.MustCompile(`top (\d+)`)
	lookCountRe   = regexp.MustCompile(`look at (\d+)`)
	damageCountRe = regexp.MustCompile(`deals? (\d+) damage`)
	plainCountRe  = regexp.MustCompile(`(\d+)`)
	traitRe       = regexp.MustCompile(`\{([^{}]+)\}`)
	grantedKwRe   = regexp.MustCompile(`\[(rush|blocker|double attack|banish)\]`)

	// The grammatical target clause, e.g. "up to 1 of your opponent's
	// characters with a cost of 4 or less". Extracted first, then handed to
	// the participle grammar below.
	clauseRe = regexp.MustCompile(`(?:up to \d+ (?:of )?)?(?:\d+ of )?(?:(?:your|the) )?(?:opponent's )?(?:leaders?(?: or characters?)?|characters?)(?:\s+with (?:a )?cost (?:of )?\d+ or less)?(?:\s+with \d+ power or less)?`)
)

// filterClause is the participle grammar for a quantified target phrase.
type filterClause struct {
	UpTo     bool          `( @("up" "to") )?`
	Count    *int          `( @Int ("of")? )?`
	Your     bool          `( @"your" | "the" )?`
	Opponent bool          `( @"opponent's" )?`
	Leader   bool          `( @("leader"|"leaders")`
	OrChars  bool          `  ( "or" @("character"|"characters") )?`
	Chars    bool          `| @("character"|"characters") )`
	Limits   []filterLimit `@@*`
}

type filterLimit struct {
	MaxCost  *int `"with" ( ("a")? "cost" ("of")? @Int "or" "less"`
	MaxPower *int `| @Int "power" "or" "less" )`
}

// EffectParser turns raw card-effect text into effect definitions. Parsing
// is total: bad text yields warnings and a shorter list, never an error.
type EffectParser struct {
	clause *participle.Parser[filterClause]
	cache  *lru.Cache[string, []*EffectDefinition]
	logger *slog.Logger
}

func NewEffectParser(logger *slog.Logger) *EffectParser {
	if logger == nil {
		logger = slog.Default()
	}
	clause := participle.MustBuild[filterClause](
		participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
			{Name: "whitespace", Pattern: `\s+`},
			{Name: "Int", Pattern: `\d+`},
			{Name: "Word", Pattern: `[a-z!'.]+`},
		})),
		participle.UseLookahead(3),
	)
	cache, _ := lru.New[string, []*EffectDefinition](512)
	return &EffectParser{clause: clause, cache: cache, logger: logger}
}

// ParseEffectText produces the ordered definitions for one card's effect
// text. Empty or whitespace-only text yields an empty list; segments that
// cannot be understood are skipped with a diagnostic.
func (p *EffectParser) ParseEffectText(text, cardID string) []*EffectDefinition {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	key := cardID + "\x00" + text
	if cached, ok := p.cache.Get(key); ok {
		return copyDefinitions(cached)
	}
	defs := p.parse(text, cardID)
	p.cache.Add(key, defs)
	return copyDefinitions(defs)
}

// Definitions are immutable templates except for the UsedThisTurn flag, so
// cached entries are handed out as shallow copies.
func copyDefinitions(defs []*EffectDefinition) []*EffectDefinition {
	out := make([]*EffectDefinition, len(defs))
	for i, d := range defs {
		cp := *d
		out[i] = &cp
	}
	return out
}

type segment struct {
	label string // inner label text, lowercased
	raw   string // label as printed
	body  string
}

func (p *EffectParser) parse(text, cardID string) []*EffectDefinition {
	segments := splitSegments(text)
	var defs []*EffectDefinition
	var pendingOnce bool
	var pendingCond *ConditionExpr
	var pendingBody string

	attach := func(d *EffectDefinition) {
		if pendingOnce {
			d.OncePerTurn = true
			pendingOnce = false
		}
		if pendingCond != nil {
			d.Condition = pendingCond
			pendingCond = nil
		}
	}

	// A timing label may be separated from its body by a modifier label
	// ([Once Per Turn], [DON!! xN]), so an empty-bodied definition is kept
	// pending and dropped only if nothing ever fills it.
	emit := func(seg segment, configure func(*EffectDefinition)) {
		body := joinBody(pendingBody, seg.body)
		pendingBody = ""
		d := p.newDefinition(cardID, seg.raw, len(defs))
		configure(d)
		attach(d)
		if strings.TrimSpace(body) != "" {
			p.fill(d, body)
		}
		defs = append(defs, d)
	}

	for _, seg := range segments {
		switch {
		case keywordOnlyLabels[seg.label]:
			continue

		case seg.label == "once per turn":
			// In "[Activate: Main] [Once Per Turn] body" the modifier and
			// the trailing body both belong to the preceding timing label
			// when that label came without a body of its own.
			if n := len(defs); n > 0 && !defs[n-1].hasBody {
				defs[n-1].OncePerTurn = true
				if strings.TrimSpace(seg.body) != "" {
					p.fill(defs[n-1], seg.body)
				}
			} else {
				pendingOnce = true
				pendingBody = joinBody(pendingBody, seg.body)
			}

		case donLabelRe.MatchString(seg.label):
			m := donLabelRe.FindStringSubmatch(seg.label)
			n, _ := strconv.Atoi(m[1])
			cond := Compare(Operand{Kind: OperandAttachedDon}, CmpGTE, Lit(n))
			if last := len(defs); last > 0 && !defs[last-1].hasBody {
				defs[last-1].Condition = cond
				if strings.TrimSpace(seg.body) != "" {
					p.fill(defs[last-1], seg.body)
				}
			} else {
				pendingCond = cond
				pendingBody = joinBody(pendingBody, seg.body)
			}

		case seg.label == "activate: main":
			emit(seg, func(d *EffectDefinition) { d.Timing = TimingActivate })

		case permanentLabels[seg.label]:
			emit(seg, func(d *EffectDefinition) { d.Timing = TimingPermanent })

		default:
			timing, ok := triggerLabels[seg.label]
			if !ok {
				p.logger.Warn("unknown effect label, segment skipped", "card", cardID, "label", seg.raw)
				pendingBody = ""
				continue
			}
			emit(seg, func(d *EffectDefinition) {
				d.Timing = TimingAuto
				d.TriggerTiming = timing
			})
		}
	}
	if strings.TrimSpace(pendingBody) != "" {
		p.logger.Warn("effect text not attached to any label, dropped", "card", cardID, "text", pendingBody)
	}
	kept := defs[:0]
	for _, d := range defs {
		if !d.hasBody {
			p.logger.Warn("effect segment has no body, skipped", "card", cardID, "label", d.Label)
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func (p *EffectParser) newDefinition(cardID, label string, index int) *EffectDefinition {
	return &EffectDefinition{
		ID:           fmt.Sprintf("%s-fx%d", cardID, index+1),
		SourceCardID: cardID,
		Label:        label,
	}
}

func joinBody(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

// isBoundaryLabel decides whether a bracketed token starts a new segment.
// Keyword labels double as inline text ("gains [Rush]"), so they only open a
// segment when no body text precedes them; the same goes for unknown labels.
func isBoundaryLabel(inner string, precededByText bool) bool {
	if _, ok := triggerLabels[inner]; ok {
		return true
	}
	if permanentLabels[inner] || inner == "activate: main" || inner == "once per turn" {
		return true
	}
	if donLabelRe.MatchString(inner) {
		return true
	}
	return !precededByText
}

// splitSegments cuts the text at segment-starting label tokens. Text before
// the first label is attached to the first segment's body; trailing text
// belongs to the last segment by construction.
func splitSegments(text string) []segment {
	locs := labelRe.FindAllStringIndex(text, -1)
	var bounds [][]int
	segStart := 0
	for _, loc := range locs {
		inner := strings.ToLower(strings.TrimSpace(text[loc[0]+1 : loc[1]-1]))
		preceded := strings.TrimSpace(text[segStart:loc[0]]) != ""
		if isBoundaryLabel(inner, preceded) {
			bounds = append(bounds, loc)
			segStart = loc[1]
		}
	}
	if len(bounds) == 0 {
		return []segment{{label: "", raw: "", body: strings.TrimSpace(text)}}
	}
	var segs []segment
	for i, loc := range bounds {
		raw := text[loc[0]:loc[1]]
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		body := strings.TrimSpace(text[loc[1]:end])
		if i == 0 {
			if lead := strings.TrimSpace(text[:loc[0]]); lead != "" {
				body = joinBody(lead, body)
			}
		}
		segs = append(segs, segment{
			label: strings.ToLower(strings.TrimSpace(raw[1 : len(raw)-1])),
			raw:   raw,
			body:  body,
		})
	}
	return segs
}

// classifierRule pairs a body-text predicate with the builder that fills in
// the definition when the predicate fires. The table below is evaluated in
// order and the first match wins: several predicates can match ambiguous
// text, and the ordering is the tie-break policy.
type classifierRule struct {
	name  string
	match func(body string) bool
	build func(p *EffectParser, d *EffectDefinition, body, raw string)
}

var classifierTable = []classifierRule{
	{
		name: "power modification",
		match: func(b string) bool {
			return powerValueRe.MatchString(b) ||
				(strings.Contains(b, "give") && strings.Contains(b, "power"))
		},
		build: (*EffectParser).buildPower,
	},
	{
		name:  "K.O.",
		match: func(b string) bool { return strings.Contains(b, "k.o.") },
		build: (*EffectParser).buildKO,
	},
	{
		name: "bounce",
		match: func(b string) bool {
			return strings.Contains(b, "return") && strings.Contains(b, "hand")
		},
		build: (*EffectParser).buildBounce,
	},
	{
		name: "search",
		match: func(b string) bool {
			return strings.Contains(b, "search") ||
				(strings.Contains(b, "look at") && strings.Contains(b, "deck"))
		},
		build: (*EffectParser).buildSearch,
	},
	{
		name:  "draw",
		match: func(b string) bool { return strings.Contains(b, "draw") },
		build: (*EffectParser).buildDraw,
	},
	{
		name:  "discard",
		match: func(b string) bool { return strings.Contains(b, "discard") },
		build: (*EffectParser).buildDiscard,
	},
	{
		name:  "trash",
		match: func(b string) bool { return strings.Contains(b, "trash") },
		build: (*EffectParser).buildTrash,
	},
	{
		name: "rest",
		match: func(b string) bool {
			return strings.Contains(b, "rest") &&
				(strings.Contains(b, "character") || strings.Contains(b, "leader"))
		},
		build: (*EffectParser).buildRest,
	},
	{
		name: "activate character",
		match: func(b string) bool {
			return (strings.Contains(b, "set") && strings.Contains(b, "active")) ||
				(strings.Contains(b, "activate") && strings.Contains(b, "character"))
		},
		build: (*EffectParser).buildActivate,
	},
	{
		name:  "attach DON!!",
		match: func(b string) bool { return strings.Contains(b, "don!!") },
		build: (*EffectParser).buildAttachDon,
	},
	{
		name:  "deal damage",
		match: func(b string) bool { return strings.Contains(b, "deal") && strings.Contains(b, "damage") },
		build: (*EffectParser).buildDamage,
	},
	{
		name:  "grant keyword",
		match: func(b string) bool { return strings.Contains(b, "gain") && grantedKwRe.MatchString(b) },
		build: (*EffectParser).buildKeyword,
	},
}

// fill classifies the body and extracts parameters. No match is not an
// error: the definition defaults to POWER_MODIFICATION with empty
// parameters and a diagnostic is logged.
func (p *EffectParser) fill(d *EffectDefinition, body string) {
	d.hasBody = true
	lower := strings.ToLower(body)
	for _, rule := range classifierTable {
		if rule.match(lower) {
			rule.build(p, d, lower, body)
			return
		}
	}
	d.EffectType = PowerModification
	p.logger.Warn("no effect classifier matched, defaulting to power modification",
		"card", d.SourceCardID, "label", d.Label, "body", body)
}

func (p *EffectParser) buildPower(d *EffectDefinition, body, raw string) {
	d.EffectType = PowerModification
	if m := powerValueRe.FindStringSubmatch(body); m != nil {
		n, _ := strconv.Atoi(m[1])
		d.Parameters.PowerChange = &n
	}
	d.Parameters.Duration = extractDuration(body)
	p.applyTargeting(d, body)
}

func (p *EffectParser) buildKO(d *EffectDefinition, body, raw string) {
	d.EffectType = KOCharacter
	if m := costLimitRe.FindStringSubmatch(body); m != nil {
		d.Parameters.MaxCost, _ = strconv.Atoi(m[1])
	}
	p.applyTargeting(d, body)
}

func (p *EffectParser) buildBounce(d *EffectDefinition, body, raw string) {
	d.EffectType = BounceCharacter
	if m := costLimitRe.FindStringSubmatch(body); m != nil {
		d.Parameters.MaxCost, _ = strconv.Atoi(m[1])
	}
	if m := powerLimitRe.FindStringSubmatch(body); m != nil {
		d.Parameters.MaxPower, _ = strconv.Atoi(m[1])
	}
	p.applyTargeting(d, body)
}

func (p *EffectParser) buildSearch(d *EffectDefinition, body, raw string) {
	d.EffectType = SearchDeck
	d.Parameters.CardCount = 5
	if m := lookCountRe.FindStringSubmatch(body); m != nil {
		d.Parameters.CardCount, _ = strconv.Atoi(m[1])
	} else if m := topDeckRe.FindStringSubmatch(body); m != nil {
		d.Parameters.CardCount, _ = strconv.Atoi(m[1])
	}
	d.Parameters.MaxTargets = 1
	if m := upToRe.FindStringSubmatch(body); m != nil {
		d.Parameters.MaxTargets, _ = strconv.Atoi(m[1])
	}
	if m := traitRe.FindStringSubmatch(raw); m != nil {
		d.Parameters.Filter = &TargetFilter{Trait: strings.TrimSpace(m[1])}
	}
}

func (p *EffectParser) buildDraw(d *EffectDefinition, body, raw string) {
	d.EffectType = DrawCards
	d.Parameters.CardCount = 1
	if m := drawCountRe.FindStringSubmatch(body); m != nil {
		d.Parameters.CardCount, _ = strconv.Atoi(m[1])
	}
}

func (p *EffectParser) buildDiscard(d *EffectDefinition, body, raw string) {
	d.EffectType = DiscardCards
	d.Parameters.CardCount = 1
	if m := countCardsRe.FindStringSubmatch(body); m != nil {
		d.Parameters.CardCount, _ = strconv.Atoi(m[1])
	}
}

func (p *EffectParser) buildTrash(d *EffectDefinition, body, raw string) {
	d.EffectType = TrashFromDeck
	d.Parameters.CardCount = 1
	if m := countCardsRe.FindStringSubmatch(body); m != nil {
		d.Parameters.CardCount, _ = strconv.Atoi(m[1])
	} else if m := plainCountRe.FindStringSubmatch(body); m != nil {
		d.Parameters.CardCount, _ = strconv.Atoi(m[1])
	}
}

func (p *EffectParser) buildRest(d *EffectDefinition, body, raw string) {
	d.EffectType = RestCharacter
	p.applyTargeting(d, body)
}

func (p *EffectParser) buildActivate(d *EffectDefinition, body, raw string) {
	d.EffectType = ActivateCharacter
	p.applyTargeting(d, body)
}

func (p *EffectParser) buildAttachDon(d *EffectDefinition, body, raw string) {
	d.EffectType = AttachDon
	d.Parameters.CardCount = 1
	if m := upToRe.FindStringSubmatch(body); m != nil {
		d.Parameters.CardCount, _ = strconv.Atoi(m[1])
	}
	p.applyTargeting(d, body)
}

func (p *EffectParser) buildDamage(d *EffectDefinition, body, raw string) {
	d.EffectType = DealDamage
	d.Parameters.CardCount = 1
	if m := damageCountRe.FindStringSubmatch(body); m != nil {
		d.Parameters.CardCount, _ = strconv.Atoi(m[1])
	}
}

func (p *EffectParser) buildKeyword(d *EffectDefinition, body, raw string) {
	d.EffectType = GrantKeyword
	if m := grantedKwRe.FindStringSubmatch(body); m != nil {
		d.Parameters.Keyword = canonicalKeyword(m[1])
	}
	d.Parameters.Duration = extractDuration(body)
	p.applyTargeting(d, body)
}

func canonicalKeyword(k string) string {
	switch k {
	case "rush":
		return "Rush"
	case "blocker":
		return "Blocker"
	case "double attack":
		return "Double Attack"
	case "banish":
		return "Banish"
	}
	return k
}

func extractDuration(body string) Duration {
	if strings.Contains(body, "during this battle") || strings.Contains(body, "end of this battle") {
		return DurationUntilEndOfBattle
	}
	if strings.Contains(body, "during this turn") || strings.Contains(body, "end of this turn") ||
		strings.Contains(body, "until the end of your turn") {
		return DurationUntilEndOfTurn
	}
	return DurationPermanent
}

// applyTargeting extracts the quantified target clause with the participle
// grammar. Failure is soft: the clause regex or grammar not matching leaves
// the filter empty and logs a diagnostic.
func (p *EffectParser) applyTargeting(d *EffectDefinition, body string) {
	span := clauseRe.FindString(body)
	if span == "" || (!strings.Contains(span, "character") && !strings.Contains(span, "leader")) {
		return
	}
	clause, err := p.clause.ParseString("", span)
	if err != nil {
		p.logger.Warn("target clause did not parse", "card", d.SourceCardID, "clause", span, "error", err)
		return
	}
	filter := &TargetFilter{}
	switch {
	case clause.Opponent:
		filter.Controller = OpponentController
	case clause.Your:
		filter.Controller = SelfController
	}
	switch {
	case clause.Leader && (clause.OrChars || clause.Chars):
		// Mixed leader-or-character clause: category left open.
	case clause.Leader:
		filter.Category = categoryPtr(CategoryLeader)
	case clause.Chars:
		filter.Category = categoryPtr(CategoryCharacter)
	}
	for _, lim := range clause.Limits {
		if lim.MaxCost != nil {
			filter.MaxCost = *lim.MaxCost
			d.Parameters.MaxCost = *lim.MaxCost
		}
		if lim.MaxPower != nil {
			filter.MaxPower = *lim.MaxPower
			d.Parameters.MaxPower = *lim.MaxPower
		}
	}
	d.Parameters.Filter = filter
	if clause.Count != nil {
		d.Parameters.MaxTargets = *clause.Count
		if clause.UpTo {
			d.Parameters.MinTargets = 0
		} else {
			d.Parameters.MinTargets = *clause.Count
		}
	}
}

func categoryPtr(c CardCategory) *CardCategory { return &c }
