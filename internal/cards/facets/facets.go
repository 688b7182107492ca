// Package facets computes the distinct values offered by each filter control.
package facets

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/graph"
)

// Facet field names, shared with the JSON encoding of FacetSet.
const (
	FieldType        = "type"
	FieldPlayerClass = "playerClass"
	FieldRarity      = "rarity"
	FieldCost        = "cost"
	FieldSet         = "set"
	FieldRace        = "race"
	FieldMechanic    = "mechanic"
)

const (
	cardFacetsQuery = `MATCH (c:Card)
RETURN collect(DISTINCT c.type) AS type,
       collect(DISTINCT c.playerClass) AS playerClass,
       collect(DISTINCT c.rarity) AS rarity,
       collect(DISTINCT c.cost) AS cost,
       collect(DISTINCT c.set) AS set,
       collect(DISTINCT c.race) AS race`

	mechanicFacetsQuery = `MATCH (c:Card)-[:HAS_MECHANIC]->(m:Mechanic)
WHERE c.collectible = true OR c.collectible = "true"
RETURN collect(DISTINCT m.name) AS mechanic`
)

// FacetSet holds the sorted distinct values of every filterable field.
// Lists are never nil so they encode as [] rather than null.
type FacetSet struct {
	Type        []string `json:"type"`
	PlayerClass []string `json:"playerClass"`
	Rarity      []string `json:"rarity"`
	Cost        []int64  `json:"cost"`
	Set         []string `json:"set"`
	Race        []string `json:"race"`
	Mechanic    []string `json:"mechanic"`
}

// Clone returns a deep copy of fs.
func (fs *FacetSet) Clone() *FacetSet {
	if fs == nil {
		return nil
	}
	return &FacetSet{
		Type:        slices.Clone(fs.Type),
		PlayerClass: slices.Clone(fs.PlayerClass),
		Rarity:      slices.Clone(fs.Rarity),
		Cost:        slices.Clone(fs.Cost),
		Set:         slices.Clone(fs.Set),
		Race:        slices.Clone(fs.Race),
		Mechanic:    slices.Clone(fs.Mechanic),
	}
}

// Empty returns a FacetSet with every list allocated and empty.
func Empty() *FacetSet {
	return &FacetSet{
		Type:        []string{},
		PlayerClass: []string{},
		Rarity:      []string{},
		Cost:        []int64{},
		Set:         []string{},
		Race:        []string{},
		Mechanic:    []string{},
	}
}

// Source produces a FacetSet. Aggregator and Cache both implement it.
type Source interface {
	Aggregate(ctx context.Context) (*FacetSet, error)
}

// Aggregator queries the graph for facet values.
type Aggregator struct {
	exec graph.Executor
}

// NewAggregator creates an aggregator over exec.
func NewAggregator(exec graph.Executor) *Aggregator {
	return &Aggregator{exec: exec}
}

// Aggregate runs the card and mechanic facet queries concurrently. An empty
// catalog yields empty lists. The first executor failure is returned as a
// *graph.ExecutorError.
func (a *Aggregator) Aggregate(ctx context.Context) (*FacetSet, error) {
	ctx = graph.WithOperation(ctx, "facets")
	out := Empty()

	var cardRows, mechanicRows []graph.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.exec.Execute(gctx, cardFacetsQuery, nil)
		if err != nil {
			return graph.Wrap("facets", fmt.Errorf("card facets: %w", err))
		}
		cardRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := a.exec.Execute(gctx, mechanicFacetsQuery, nil)
		if err != nil {
			return graph.Wrap("facets", fmt.Errorf("mechanic facets: %w", err))
		}
		mechanicRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(cardRows) > 0 {
		row := cardRows[0]
		out.Type = distinctStrings(row[FieldType])
		out.PlayerClass = distinctStrings(row[FieldPlayerClass])
		out.Rarity = distinctStrings(row[FieldRarity])
		out.Cost = distinctInts(row[FieldCost])
		out.Set = distinctStrings(row[FieldSet])
		out.Race = distinctStrings(row[FieldRace])
	}
	if len(mechanicRows) > 0 {
		out.Mechanic = distinctStrings(mechanicRows[0][FieldMechanic])
	}

	return out, nil
}

// distinctStrings flattens nested lists (multi-set cards), drops empty and
// null values, deduplicates and sorts.
func distinctStrings(v any) []string {
	seen := make(map[string]struct{})
	var walk func(any)
	walk = func(v any) {
		switch val := v.(type) {
		case []any:
			for _, item := range val {
				walk(item)
			}
		case []string:
			for _, item := range val {
				walk(item)
			}
		default:
			for _, s := range cards.StringList(val) {
				if s = strings.TrimSpace(s); s != "" {
					seen[s] = struct{}{}
				}
			}
		}
	}
	walk(v)

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// distinctInts is distinctStrings for numeric values, sorted ascending.
// Values that are not numbers are skipped.
func distinctInts(v any) []int64 {
	seen := make(map[int64]struct{})
	var walk func(any)
	walk = func(v any) {
		if list, ok := v.([]any); ok {
			for _, item := range list {
				walk(item)
			}
			return
		}
		if n, ok := cards.Int64(v); ok {
			seen[n] = struct{}{}
		}
	}
	walk(v)

	out := make([]int64, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
