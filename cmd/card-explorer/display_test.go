package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/browse"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/facets"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/interaction"
)

func TestCardSummary(t *testing.T) {
	tests := []struct {
		name string
		card *cards.Card
		want string
	}{
		{
			name: "minion",
			card: &cards.Card{Name: "Chillwind Yeti", Type: "MINION", Cost: i64(4), Attack: i64(4), Health: i64(5), PlayerClass: "NEUTRAL"},
			want: "Chillwind Yeti [4] MINION 4/5 - NEUTRAL",
		},
		{
			name: "weapon",
			card: &cards.Card{Name: "Fiery War Axe", Type: "WEAPON", Cost: i64(3), Attack: i64(3), Durability: i64(2)},
			want: "Fiery War Axe [3] WEAPON 3/2",
		},
		{
			name: "missing stats",
			card: &cards.Card{Name: "Mystery", Type: "MINION"},
			want: "Mystery [?] MINION ?/?",
		},
		{
			name: "spell without name",
			card: &cards.Card{Type: "SPELL", Cost: i64(0)},
			want: "(unnamed card) [0] SPELL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cardSummary(tt.card))
		})
	}
}

func TestDisplayPage_Empty(t *testing.T) {
	var buf bytes.Buffer
	displayPage(&buf, browse.New(20))
	assert.Equal(t, "No cards found.\n", buf.String())
}

func TestDisplayPage_Navigation(t *testing.T) {
	results := make([]*cards.Card, 0, 3)
	for _, name := range []string{"One", "Two", "Three"} {
		results = append(results, &cards.Card{Name: name})
	}
	s, err := browse.SetPageSize(browse.New(2), 2)
	assert.NoError(t, err)
	s = browse.GoToPage(browse.ApplyFilter(s, results), 2)

	var buf bytes.Buffer
	displayPage(&buf, s)

	out := buf.String()
	assert.Contains(t, out, "Cards 3-3 of 3 (page 2/2)")
	assert.Contains(t, out, "  1. Three")
	assert.Contains(t, out, "(prev)")
	assert.NotContains(t, out, "next")
}

func TestDisplayCard(t *testing.T) {
	race := "BEAST"
	card := &cards.Card{
		ID:        "EX1_543",
		Name:      "King Krush",
		Type:      "MINION",
		Rarity:    "LEGENDARY",
		Cost:      i64(9),
		Attack:    i64(8),
		Health:    i64(8),
		Race:      &race,
		Set:       []string{"EXPERT1"},
		Mechanics: []string{"CHARGE"},
		Text:      "<b>Charge</b>",
	}

	var buf bytes.Buffer
	displayCard(&buf, card, "https://art/EX1_543.png")

	out := buf.String()
	for _, want := range []string{"King Krush", "ID:       EX1_543", "Class:    -", "Race:     BEAST", "Mechanics: CHARGE", "Text:     Charge", "Image:    https://art/EX1_543.png"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Durability")
}

func TestDisplayComparison(t *testing.T) {
	a := &cards.Card{Name: "Yeti", Type: "MINION", Attack: i64(4), Health: i64(5), Cost: i64(4)}
	b := &cards.Card{Name: "Ogre", Type: "MINION", Attack: i64(6), Health: i64(3), Cost: i64(6), Text: "<b>Taunt</b>"}
	r, err := interaction.Analyze(a, b)
	assert.NoError(t, err)

	var buf bytes.Buffer
	displayComparison(&buf, a, b, r)

	out := buf.String()
	assert.Contains(t, out, "Yeti vs Ogre")
	assert.Contains(t, out, "Outcome: mutual destruction")
	assert.Contains(t, out, "Yeti survives: no")
	assert.Contains(t, out, "Cost:    a cheaper (4 vs 6)")
	assert.Contains(t, out, "Keywords: - | Taunt")
}

func TestDisplayFacets(t *testing.T) {
	var buf bytes.Buffer
	displayFacets(&buf, nil)
	assert.Contains(t, buf.String(), "Type:     (none)")

	fs := facets.Empty()
	fs.Cost = []int64{0, 1, 10}
	buf.Reset()
	displayFacets(&buf, fs)
	assert.Contains(t, buf.String(), "Cost:     0, 1, 10")
}
