// Package results turns raw search rows into the card list shown to users.
package results

import (
	"strings"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/query"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/graph"
)

// ExclusionRules describes cards that never reach the result list, whatever
// the server already filtered. Matching is case-insensitive.
type ExclusionRules struct {
	SetNames    []string
	SetPrefixes []string
	IDPrefixes  []string
}

// DefaultExclusionRules drops hero skins and placeholder sets.
func DefaultExclusionRules() ExclusionRules {
	return ExclusionRules{
		SetNames:    []string{"HERO_SKINS"},
		SetPrefixes: []string{"PLACEHOLDER"},
		IDPrefixes:  []string{"HERO_", "HERO-"},
	}
}

// ExcludesSet reports whether set is an excluded set name or has an excluded prefix.
func (r ExclusionRules) ExcludesSet(set string) bool {
	upper := strings.ToUpper(strings.TrimSpace(set))
	for _, name := range r.SetNames {
		if upper == strings.ToUpper(name) {
			return true
		}
	}
	for _, prefix := range r.SetPrefixes {
		if strings.HasPrefix(upper, strings.ToUpper(prefix)) {
			return true
		}
	}
	return false
}

// ExcludesID reports whether an identifier has an excluded prefix.
func (r ExclusionRules) ExcludesID(id string) bool {
	upper := strings.ToUpper(strings.TrimSpace(id))
	for _, prefix := range r.IDPrefixes {
		if strings.HasPrefix(upper, strings.ToUpper(prefix)) {
			return true
		}
	}
	return false
}

// Excludes applies the rules to a raw card property map. A nil record is
// always excluded. Only the first non-null identifier of id, cardId and
// dbfId is checked.
func (r ExclusionRules) Excludes(raw map[string]any) bool {
	if raw == nil {
		return true
	}
	for _, set := range cards.StringList(raw["set"]) {
		if r.ExcludesSet(set) {
			return true
		}
	}
	for _, key := range []string{"id", "cardId", "dbfId"} {
		if v, ok := raw[key]; ok && v != nil {
			return r.ExcludesID(cards.StringValue(v))
		}
	}
	return false
}

// Report counts the rows dropped by Process.
type Report struct {
	Excluded  int
	Malformed int
}

// Processor normalizes and filters result rows.
type Processor struct {
	rules ExclusionRules
}

// NewProcessor creates a processor with the given rules.
func NewProcessor(rules ExclusionRules) *Processor {
	return &Processor{rules: rules}
}

// Process converts rows into cards in query order. Numeric stats are
// normalized to int64 and nulls stay nil. A row whose card value is not a
// property map is dropped and counted as malformed.
func (p *Processor) Process(rows []graph.Row) ([]*cards.Card, Report) {
	var report Report
	out := make([]*cards.Card, 0, len(rows))

	for _, row := range rows {
		value := row[query.CardAlias]
		if value == nil {
			report.Excluded++
			continue
		}
		raw, ok := value.(map[string]any)
		if !ok {
			report.Malformed++
			continue
		}
		if p.rules.Excludes(raw) {
			report.Excluded++
			continue
		}
		out = append(out, cards.FromMap(raw))
	}

	return out, report
}

// Process applies the default exclusion rules.
func Process(rows []graph.Row) []*cards.Card {
	out, _ := NewProcessor(DefaultExclusionRules()).Process(rows)
	return out
}
