package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/facets"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/query"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/catalog"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/interaction"
)

func i64(n int64) *int64 { return &n }

// fakeExplorer returns n numbered minions for an empty search term and only
// the cards whose name contains the term otherwise.
type fakeExplorer struct {
	all      []*cards.Card
	criteria []query.Criteria
	err      error
}

func newFakeExplorer(n int) *fakeExplorer {
	f := &fakeExplorer{}
	for i := 1; i <= n; i++ {
		f.all = append(f.all, &cards.Card{
			ID:     fmt.Sprintf("C%02d", i),
			Name:   fmt.Sprintf("Minion %02d", i),
			Type:   cards.TypeMinion,
			Attack: i64(int64(i % 7)),
			Health: i64(int64(i%5 + 1)),
			Cost:   i64(int64(i % 10)),
		})
	}
	return f
}

func (f *fakeExplorer) Search(_ context.Context, c query.Criteria) (*catalog.SearchResult, error) {
	f.criteria = append(f.criteria, c)
	if f.err != nil {
		return nil, f.err
	}
	res := &catalog.SearchResult{Cards: []catalog.CardView{}}
	for _, card := range f.all {
		if c.SearchTerm == "" || strings.Contains(strings.ToLower(card.Name), strings.ToLower(c.SearchTerm)) {
			res.Cards = append(res.Cards, catalog.CardView{Card: card})
		}
	}
	return res, nil
}

func (f *fakeExplorer) Facets(context.Context) (*facets.FacetSet, error) {
	fs := facets.Empty()
	fs.Type = []string{"MINION"}
	fs.Cost = []int64{1, 2}
	return fs, nil
}

func (f *fakeExplorer) Compare(a, b *cards.Card) (*interaction.Result, error) {
	return interaction.Analyze(a, b)
}

func (f *fakeExplorer) ImageURL(card *cards.Card) (string, bool) {
	return "https://art.example/" + card.ID + ".png", true
}

func newTestSession(n int) (*session, *fakeExplorer, *bytes.Buffer) {
	f := newFakeExplorer(n)
	out := &bytes.Buffer{}
	s := newSession(context.Background(), f, out, 20)
	return s, f, out
}

func TestSession_Pagination(t *testing.T) {
	s, _, out := newTestSession(45)
	require.NoError(t, s.search())

	assert.Contains(t, out.String(), "Cards 1-20 of 45 (page 1/3)")

	require.NoError(t, s.execute("next"))
	require.NoError(t, s.execute("next"))
	assert.Equal(t, 3, s.state.CurrentPage)
	assert.Len(t, s.state.Visible(), 5)
	assert.Contains(t, out.String(), "Cards 41-45 of 45 (page 3/3)")

	// Past the last page stays on the last page.
	require.NoError(t, s.execute("next"))
	assert.Equal(t, 3, s.state.CurrentPage)

	require.NoError(t, s.execute("page 1"))
	require.NoError(t, s.execute("prev"))
	assert.Equal(t, 1, s.state.CurrentPage)

	require.NoError(t, s.execute("size 10"))
	assert.Equal(t, 5, s.state.TotalPages())
	assert.Error(t, s.execute("size 0"))
	assert.Equal(t, 10, s.state.PageSize)
}

func TestSession_FilterClampsPage(t *testing.T) {
	s, f, _ := newTestSession(45)
	require.NoError(t, s.search())
	require.NoError(t, s.execute("page 3"))

	require.NoError(t, s.execute("search minion 1"))

	assert.Equal(t, "minion 1", f.criteria[len(f.criteria)-1].SearchTerm)
	assert.Equal(t, 1, s.state.CurrentPage)
	assert.Len(t, s.state.Results, 10)
}

func TestSession_Filters(t *testing.T) {
	s, f, _ := newTestSession(3)

	require.NoError(t, s.execute("filter class MAGE"))
	require.NoError(t, s.execute("filter cost 3"))
	require.NoError(t, s.execute("filter mechanic DIVINE SHIELD"))

	last := f.criteria[len(f.criteria)-1]
	assert.Equal(t, query.Criteria{Class: "MAGE", Cost: "3", Mechanic: "DIVINE SHIELD"}, last)

	require.NoError(t, s.execute("filter class"))
	assert.Empty(t, f.criteria[len(f.criteria)-1].Class)

	require.NoError(t, s.execute("reset"))
	assert.Equal(t, query.Criteria{}, f.criteria[len(f.criteria)-1])

	assert.Error(t, s.execute("filter colour red"))
	assert.Error(t, s.execute("filter"))
}

func TestSession_SelectAndCompare(t *testing.T) {
	s, _, out := newTestSession(5)
	require.NoError(t, s.search())

	assert.EqualError(t, s.execute("compare"), "select a card into both slots first")

	require.NoError(t, s.execute("select a 1"))
	require.NoError(t, s.execute("select b 2"))
	assert.Equal(t, "C01", s.state.Selection.A.ID)
	assert.Equal(t, "C02", s.state.Selection.B.ID)

	out.Reset()
	require.NoError(t, s.execute("compare"))
	assert.Contains(t, out.String(), "Minion 01 vs Minion 02")
	assert.Contains(t, out.String(), "Outcome:")

	// Selection survives a new search.
	require.NoError(t, s.execute("search 03"))
	assert.True(t, s.state.Selection.Ready())

	require.NoError(t, s.execute("clear a"))
	assert.Nil(t, s.state.Selection.A)
	assert.NotNil(t, s.state.Selection.B)

	require.NoError(t, s.execute("clear"))
	assert.False(t, s.state.Selection.Ready())
	assert.Nil(t, s.state.Selection.B)

	assert.Error(t, s.execute("select c 1"))
	assert.Error(t, s.execute("select a 9"))
	assert.Error(t, s.execute("select a"))
}

func TestSession_ShowAndFacets(t *testing.T) {
	s, _, out := newTestSession(2)
	require.NoError(t, s.search())

	out.Reset()
	require.NoError(t, s.execute("show 2"))
	assert.Contains(t, out.String(), "Minion 02")
	assert.Contains(t, out.String(), "https://art.example/C02.png")

	out.Reset()
	require.NoError(t, s.execute("facets"))
	assert.Contains(t, out.String(), "MINION")
	assert.Contains(t, out.String(), "1, 2")
}

func TestSession_Errors(t *testing.T) {
	s, f, _ := newTestSession(2)

	assert.Error(t, s.execute("dance"))
	assert.Error(t, s.execute("page two"))
	assert.NoError(t, s.execute("   "))
	assert.ErrorIs(t, s.execute("quit"), errQuit)

	f.err = errors.New("graph down")
	assert.EqualError(t, s.execute("search yeti"), "graph down")
}

func TestSession_Run(t *testing.T) {
	s, _, out := newTestSession(25)

	input := strings.NewReader("next\nselect a 1\nbogus\nquit\nnext\n")
	require.NoError(t, s.run(input))

	assert.Equal(t, 2, s.state.CurrentPage)
	assert.Equal(t, "C21", s.state.Selection.A.ID)
	assert.Contains(t, out.String(), `Error: unknown command "bogus"`)
}

func TestSession_RunEOF(t *testing.T) {
	s, _, _ := newTestSession(1)
	assert.NoError(t, s.run(strings.NewReader("list\n")))
}
