// Package query translates sparse filter criteria into one parameterized
// Cypher query. Every user value travels as a bound parameter; the query text
// only ever contains fixed fragments.
package query

import (
	"fmt"
	"strings"
)

// Graph schema names.
const (
	LabelCard      = "Card"
	LabelMechanic  = "Mechanic"
	RelHasMechanic = "HAS_MECHANIC"

	// CardAlias is the RETURN alias each result row exposes.
	CardAlias = "card"

	// DefaultLimit caps one search round trip.
	DefaultLimit = 100
)

// Query is an executable query plus its parameter bindings.
type Query struct {
	Text   string
	Params map[string]any

	// Ignored lists criteria fields dropped by a defined fallback, for example
	// a cost that is not an integer.
	Ignored []string
}

// Clause is one predicate builder's contribution to the query.
type Clause struct {
	// Pattern extends the MATCH path starting at the card node.
	Pattern string
	// Where is a boolean expression ANDed with the other clauses.
	Where  string
	Params map[string]any
	// Ignored names the criteria field when its value was unusable.
	Ignored string
}

// Predicate builds the clause for one criteria field. A zero Clause adds nothing.
type Predicate func(c Criteria) Clause

// Builder folds an ordered list of predicates into a single query.
type Builder struct {
	predicates []Predicate
	limit      int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLimit lowers the result cap. Non-positive values are ignored and values
// above DefaultLimit are clamped to it.
func WithLimit(limit int) Option {
	return func(b *Builder) {
		if limit > 0 {
			b.limit = min(limit, DefaultLimit)
		}
	}
}

// WithPredicates replaces the default predicate list.
func WithPredicates(predicates ...Predicate) Option {
	return func(b *Builder) {
		b.predicates = predicates
	}
}

// DefaultPredicates returns the search predicates in evaluation order.
func DefaultPredicates() []Predicate {
	return []Predicate{
		NameContains,
		HasMechanic,
		Equals("type", "type", func(c Criteria) string { return c.Type }),
		Equals("playerClass", "playerClass", func(c Criteria) string { return c.Class }),
		Equals("rarity", "rarity", func(c Criteria) string { return c.Rarity }),
		SetContains,
		Equals("race", "race", func(c Criteria) string { return c.Race }),
		CostEquals,
	}
}

// NewBuilder creates a builder with the default predicates and limit.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		predicates: DefaultPredicates(),
		limit:      DefaultLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Limit returns the result cap.
func (b *Builder) Limit() int {
	return b.limit
}

// Build produces the search query for c.
func (b *Builder) Build(c Criteria) Query {
	q := Query{Params: make(map[string]any)}

	var patterns, wheres []string
	for _, predicate := range b.predicates {
		clause := predicate(c)
		if clause.Ignored != "" {
			q.Ignored = append(q.Ignored, clause.Ignored)
		}
		if clause.Pattern != "" {
			patterns = append(patterns, clause.Pattern)
		}
		if clause.Where != "" {
			wheres = append(wheres, clause.Where)
		}
		for name, value := range clause.Params {
			q.Params[name] = value
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "MATCH (c:%s)", LabelCard)
	for _, p := range patterns {
		sb.WriteString(p)
	}
	sb.WriteString("\n")
	if len(wheres) > 0 {
		sb.WriteString("WHERE ")
		sb.WriteString(strings.Join(wheres, "\n  AND "))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "RETURN c {.*} AS %s\nLIMIT %d", CardAlias, b.limit)

	q.Text = sb.String()
	return q
}

// ByIdentifier builds the lookup for a single card by id, cardId or dbfId.
func ByIdentifier(id string) Query {
	text := fmt.Sprintf(
		"MATCH (c:%s)\nWHERE c.`id` = $id OR c.`cardId` = $id OR toString(c.`dbfId`) = $id\nRETURN c {.*} AS %s\nLIMIT 1",
		LabelCard, CardAlias,
	)
	return Query{
		Text:   text,
		Params: map[string]any{"id": strings.TrimSpace(id)},
	}
}

// property renders a quoted property access on the card node.
func property(field string) string {
	return "c.`" + field + "`"
}
