package query

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuild_EmptyCriteriaMatchesAll(t *testing.T) {
	q := NewBuilder().Build(Criteria{})

	want := "MATCH (c:Card)\n" +
		"WHERE ($searchTerm = \"\" OR toLower(c.`name`) CONTAINS $searchTerm)\n" +
		"RETURN c {.*} AS card\n" +
		"LIMIT 100"
	if diff := cmp.Diff(want, q.Text); diff != "" {
		t.Errorf("query text mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"searchTerm": ""}, q.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if len(q.Ignored) != 0 {
		t.Errorf("Expected no ignored fields, got %v", q.Ignored)
	}
}

func TestBuild_AllFields(t *testing.T) {
	q := NewBuilder().Build(Criteria{
		SearchTerm: "  Fire ",
		Type:       "SPELL",
		Class:      "MAGE",
		Rarity:     "COMMON",
		Cost:       "4",
		Set:        "CORE",
		Race:       "ELEMENTAL",
		Mechanic:   "FREEZE",
	})

	wantText := "MATCH (c:Card)-[:HAS_MECHANIC]->(:Mechanic {name: $mechanic})\n" +
		"WHERE ($searchTerm = \"\" OR toLower(c.`name`) CONTAINS $searchTerm)\n" +
		"  AND c.`type` = $type\n" +
		"  AND c.`playerClass` = $playerClass\n" +
		"  AND c.`rarity` = $rarity\n" +
		"  AND any(s IN CASE WHEN c.`set` IS :: LIST<ANY> THEN c.`set` ELSE [c.`set`] END WHERE s = $setName)\n" +
		"  AND c.`race` = $race\n" +
		"  AND toInteger(c.`cost`) = $cost\n" +
		"RETURN c {.*} AS card\n" +
		"LIMIT 100"
	if diff := cmp.Diff(wantText, q.Text); diff != "" {
		t.Errorf("query text mismatch (-want +got):\n%s", diff)
	}

	wantParams := map[string]any{
		"searchTerm":  "fire",
		"type":        "SPELL",
		"playerClass": "MAGE",
		"rarity":      "COMMON",
		"setName":     "CORE",
		"race":        "ELEMENTAL",
		"cost":        int64(4),
		"mechanic":    "FREEZE",
	}
	if diff := cmp.Diff(wantParams, q.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_MechanicTraversal(t *testing.T) {
	tests := []struct {
		name     string
		mechanic string
		want     bool
	}{
		{name: "set", mechanic: "TAUNT", want: true},
		{name: "empty", mechanic: "", want: false},
		{name: "whitespace only", mechanic: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewBuilder().Build(Criteria{Mechanic: tt.mechanic})

			got := strings.Contains(q.Text, "[:HAS_MECHANIC]")
			if got != tt.want {
				t.Errorf("traversal present = %v, want %v\n%s", got, tt.want, q.Text)
			}
			_, bound := q.Params["mechanic"]
			if bound != tt.want {
				t.Errorf("mechanic param bound = %v, want %v", bound, tt.want)
			}
		})
	}
}

func TestBuild_Cost(t *testing.T) {
	tests := []struct {
		name        string
		cost        string
		wantParam   any
		wantIgnored bool
	}{
		{name: "integer", cost: "7", wantParam: int64(7)},
		{name: "zero is a filter", cost: "0", wantParam: int64(0)},
		{name: "not a number", cost: "abc", wantIgnored: true},
		{name: "decimal", cost: "2.5", wantIgnored: true},
		{name: "empty", cost: ""},
	}

	noFilter := NewBuilder().Build(Criteria{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewBuilder().Build(Criteria{Cost: tt.cost})

			got, bound := q.Params["cost"]
			if tt.wantParam != nil {
				if !bound || got != tt.wantParam {
					t.Fatalf("cost param = %#v, want %#v", got, tt.wantParam)
				}
				if !strings.Contains(q.Text, "toInteger(c.`cost`) = $cost") {
					t.Errorf("Expected integer cost predicate in:\n%s", q.Text)
				}
				return
			}

			// Unusable or empty cost behaves exactly like no cost filter.
			if q.Text != noFilter.Text {
				t.Errorf("Expected unfiltered query text, got:\n%s", q.Text)
			}
			if diff := cmp.Diff(noFilter.Params, q.Params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
			if ignored := len(q.Ignored) == 1 && q.Ignored[0] == "cost"; ignored != tt.wantIgnored {
				t.Errorf("Ignored = %v, want cost ignored %v", q.Ignored, tt.wantIgnored)
			}
		})
	}
}

func TestBuild_ValuesNeverInterpolated(t *testing.T) {
	hostile := `MINION" OR 1=1 RETURN c //`
	q := NewBuilder().Build(Criteria{
		SearchTerm: hostile,
		Type:       hostile,
		Class:      hostile,
		Rarity:     hostile,
		Set:        hostile,
		Race:       hostile,
		Mechanic:   hostile,
	})

	if strings.Contains(q.Text, "1=1") {
		t.Fatalf("user input leaked into query text:\n%s", q.Text)
	}
	if q.Params["type"] != hostile {
		t.Errorf("Expected hostile value bound as parameter, got %v", q.Params["type"])
	}
}

func TestBuild_WithLimit(t *testing.T) {
	b := NewBuilder(WithLimit(25))
	if !strings.HasSuffix(b.Build(Criteria{}).Text, "LIMIT 25") {
		t.Error("Expected custom limit")
	}

	b = NewBuilder(WithLimit(-1))
	if b.Limit() != DefaultLimit {
		t.Errorf("Expected default limit for invalid option, got %d", b.Limit())
	}

	b = NewBuilder(WithLimit(5000))
	if b.Limit() != DefaultLimit {
		t.Errorf("Expected limit clamped to %d, got %d", DefaultLimit, b.Limit())
	}
	if !strings.HasSuffix(b.Build(Criteria{}).Text, "LIMIT 100") {
		t.Error("Expected clamped limit in query text")
	}
}

func TestPredicates_Independent(t *testing.T) {
	rarity := Equals("rarity", "rarity", func(c Criteria) string { return c.Rarity })

	if clause := rarity(Criteria{}); clause.Where != "" || clause.Params != nil {
		t.Errorf("Expected empty clause, got %+v", clause)
	}

	clause := rarity(Criteria{Rarity: "EPIC"})
	if clause.Where != "c.`rarity` = $rarity" {
		t.Errorf("Unexpected clause %q", clause.Where)
	}

	if clause := HasMechanic(Criteria{Mechanic: "RUSH"}); clause.Where != "" || clause.Pattern == "" {
		t.Errorf("Mechanic must be a join, not a property filter: %+v", clause)
	}
}

func TestSetContains_ListAware(t *testing.T) {
	if clause := SetContains(Criteria{Set: "  "}); clause.Where != "" || clause.Params != nil {
		t.Errorf("Expected empty clause, got %+v", clause)
	}

	clause := SetContains(Criteria{Set: " CORE "})
	want := "any(s IN CASE WHEN c.`set` IS :: LIST<ANY> THEN c.`set` ELSE [c.`set`] END WHERE s = $setName)"
	if clause.Where != want {
		t.Errorf("Unexpected clause %q", clause.Where)
	}
	if clause.Params["setName"] != "CORE" {
		t.Errorf("Expected trimmed set param, got %v", clause.Params["setName"])
	}
	if strings.Contains(clause.Where, "CORE") {
		t.Error("Set value must be bound, not interpolated")
	}
}

func TestByIdentifier(t *testing.T) {
	q := ByIdentifier(" EX1_116 ")

	if q.Params["id"] != "EX1_116" {
		t.Errorf("Expected trimmed id param, got %v", q.Params["id"])
	}
	if !strings.HasSuffix(q.Text, "LIMIT 1") {
		t.Errorf("Expected single row limit:\n%s", q.Text)
	}
}

func TestCriteriaFromValues_RoundTrip(t *testing.T) {
	values := url.Values{}
	values.Set("q", " leeroy ")
	values.Set("class", "NEUTRAL")
	values.Set("cost", "5")

	c := CriteriaFromValues(values)
	want := Criteria{SearchTerm: "leeroy", Class: "NEUTRAL", Cost: "5"}
	if c != want {
		t.Fatalf("CriteriaFromValues = %+v, want %+v", c, want)
	}

	if got := CriteriaFromValues(c.Values()); got != c {
		t.Errorf("Values round trip = %+v, want %+v", got, c)
	}
	if !(Criteria{}).IsEmpty() || c.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}
