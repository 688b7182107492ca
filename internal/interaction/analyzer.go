// Package interaction compares two cards with a small set of combat rules.
//
// Missing stats count as 0 in the arithmetic but are reported as "unknown"
// in the narrative, so a card without health still loses a fight while the
// explanation makes clear the number was never known.
package interaction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
)

// ErrMissingCard is returned when either card is nil.
var ErrMissingCard = errors.New("both cards are required")

// Kind names the combat model applied to the pair.
type Kind string

const (
	KindMinionCombat    Kind = "minion_combat"
	KindWeaponPotential Kind = "weapon_potential"
	KindNotApplicable   Kind = "not_applicable"
)

// Outcome is the result of the combat model.
type Outcome string

const (
	OutcomeAWins             Outcome = "a_wins"
	OutcomeBWins             Outcome = "b_wins"
	OutcomeMutualDestruction Outcome = "mutual_destruction"
	OutcomeStalemate         Outcome = "stalemate"

	OutcomeAHigherPotential Outcome = "a_higher_potential"
	OutcomeBHigherPotential Outcome = "b_higher_potential"
	OutcomeEqualPotential   Outcome = "equal_potential"

	OutcomeNotApplicable Outcome = "not_applicable"
)

// CostOutcome is the result of the mana cost comparison.
type CostOutcome string

const (
	CostACheaper CostOutcome = "a_cheaper"
	CostBCheaper CostOutcome = "b_cheaper"
	CostSame     CostOutcome = "same_cost"
)

// Combat holds the minion-vs-minion facts.
type Combat struct {
	ASurvives bool `json:"aSurvives"`
	BSurvives bool `json:"bSurvives"`
}

// Potential holds weapon damage potential (attack * durability, 0 for
// non-weapons).
type Potential struct {
	A int64 `json:"a"`
	B int64 `json:"b"`
}

// CostComparison compares mana costs. Costs are nil when unknown.
type CostComparison struct {
	Outcome CostOutcome `json:"outcome"`
	A       *int64      `json:"a"`
	B       *int64      `json:"b"`
}

// KeywordReport lists the vocabulary keywords found in each card's text.
type KeywordReport struct {
	A         []string `json:"a"`
	B         []string `json:"b"`
	NoneFound bool     `json:"noneFound"`
}

// Result is the structured comparison of an ordered pair of cards.
type Result struct {
	Kind      Kind           `json:"kind"`
	Outcome   Outcome        `json:"outcome"`
	Combat    *Combat        `json:"combat,omitempty"`
	Potential *Potential     `json:"potential,omitempty"`
	Cost      CostComparison `json:"cost"`
	Keywords  KeywordReport  `json:"keywords"`
	Narrative []string       `json:"narrative"`
}

// Analyze compares a against b. It is deterministic and never fails for
// non-nil cards.
func Analyze(a, b *cards.Card) (*Result, error) {
	if a == nil || b == nil {
		return nil, ErrMissingCard
	}

	r := &Result{Narrative: []string{}}

	switch {
	case a.IsType(cards.TypeMinion) && b.IsType(cards.TypeMinion):
		minionCombat(r, a, b)
	case a.IsType(cards.TypeWeapon) || b.IsType(cards.TypeWeapon):
		weaponPotential(r, a, b)
	default:
		r.Kind = KindNotApplicable
		r.Outcome = OutcomeNotApplicable
		r.say("No combat model applies to %s (%s) and %s (%s).", name(a), typeLabel(a), name(b), typeLabel(b))
	}

	compareCost(r, a, b)
	scanKeywords(r, a, b)

	return r, nil
}

func minionCombat(r *Result, a, b *cards.Card) {
	attackA, healthA := value(a.Attack), value(a.Health)
	attackB, healthB := value(b.Attack), value(b.Health)

	// Damage equal to health is lethal.
	aSurvives := healthA > attackB
	bSurvives := healthB > attackA

	r.Kind = KindMinionCombat
	r.Combat = &Combat{ASurvives: aSurvives, BSurvives: bSurvives}

	r.say("%s (%s/%s) attacks %s (%s/%s).",
		name(a), stat(a.Attack), stat(a.Health), name(b), stat(b.Attack), stat(b.Health))

	switch {
	case aSurvives && !bSurvives:
		r.Outcome = OutcomeAWins
		r.say("%s destroys %s and survives with %d health.", name(a), name(b), healthA-attackB)
	case !aSurvives && bSurvives:
		r.Outcome = OutcomeBWins
		r.say("%s destroys %s and survives with %d health.", name(b), name(a), healthB-attackA)
	case !aSurvives && !bSurvives:
		r.Outcome = OutcomeMutualDestruction
		r.say("Both minions are destroyed.")
	default:
		r.Outcome = OutcomeStalemate
		r.say("Both minions survive the exchange.")
	}
}

func weaponPotential(r *Result, a, b *cards.Card) {
	p := &Potential{A: potential(a), B: potential(b)}

	r.Kind = KindWeaponPotential
	r.Potential = p

	for _, c := range []*cards.Card{a, b} {
		if c.IsType(cards.TypeWeapon) {
			r.say("%s can deal %d damage (%s attack x %s durability).",
				name(c), potential(c), stat(c.Attack), stat(c.Durability))
		} else {
			r.say("%s is not a weapon.", name(c))
		}
	}

	switch {
	case p.A > p.B:
		r.Outcome = OutcomeAHigherPotential
		r.say("%s has the higher damage potential.", name(a))
	case p.B > p.A:
		r.Outcome = OutcomeBHigherPotential
		r.say("%s has the higher damage potential.", name(b))
	default:
		r.Outcome = OutcomeEqualPotential
		r.say("Both cards have the same damage potential.")
	}
}

func potential(c *cards.Card) int64 {
	if !c.IsType(cards.TypeWeapon) {
		return 0
	}
	return value(c.Attack) * value(c.Durability)
}

func compareCost(r *Result, a, b *cards.Card) {
	costA, costB := value(a.Cost), value(b.Cost)
	r.Cost = CostComparison{A: a.Cost, B: b.Cost}

	switch {
	case costA < costB:
		r.Cost.Outcome = CostACheaper
		r.say("%s is cheaper (%s vs %s mana).", name(a), stat(a.Cost), stat(b.Cost))
	case costB < costA:
		r.Cost.Outcome = CostBCheaper
		r.say("%s is cheaper (%s vs %s mana).", name(b), stat(b.Cost), stat(a.Cost))
	default:
		r.Cost.Outcome = CostSame
		r.say("Both cards cost the same (%s vs %s mana).", stat(a.Cost), stat(b.Cost))
	}
}

func scanKeywords(r *Result, a, b *cards.Card) {
	r.Keywords = KeywordReport{A: ScanKeywords(a.Text), B: ScanKeywords(b.Text)}
	r.Keywords.NoneFound = len(r.Keywords.A) == 0 && len(r.Keywords.B) == 0

	if r.Keywords.NoneFound {
		r.say("No combat keywords found.")
		return
	}
	for _, side := range []struct {
		card     *cards.Card
		keywords []string
	}{{a, r.Keywords.A}, {b, r.Keywords.B}} {
		if len(side.keywords) > 0 {
			r.say("%s has %s.", name(side.card), strings.Join(side.keywords, ", "))
		}
	}
}

func (r *Result) say(format string, args ...any) {
	r.Narrative = append(r.Narrative, fmt.Sprintf(format, args...))
}

func value(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func stat(p *int64) string {
	if p == nil {
		return "unknown"
	}
	return strconv.FormatInt(*p, 10)
}

func name(c *cards.Card) string {
	if n := strings.TrimSpace(c.Name); n != "" {
		return n
	}
	if id := c.Identifier(); id != "" {
		return id
	}
	return "unnamed card"
}

func typeLabel(c *cards.Card) string {
	if t := strings.TrimSpace(c.Type); t != "" {
		return strings.ToUpper(t)
	}
	return "unknown type"
}
