// Package browse holds the per-session browsing state: the current result
// list, the visible page and the two comparison slots. All transitions are
// pure functions that take a state value and return the next one.
package browse

import (
	"errors"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
)

// DefaultPageSize is the page size of a new session.
const DefaultPageSize = 20

// ErrInvalidPageSize is returned for a page size below 1.
var ErrInvalidPageSize = errors.New("page size must be positive")

// PageState is the paginated view over one result list.
// CurrentPage is always within [1, TotalPages()].
type PageState struct {
	CurrentPage int           `json:"currentPage"`
	PageSize    int           `json:"pageSize"`
	Results     []*cards.Card `json:"results"`
	Selection   Selection     `json:"selection"`
}

// New returns an empty state. A non-positive pageSize uses DefaultPageSize.
func New(pageSize int) PageState {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return PageState{CurrentPage: 1, PageSize: pageSize, Results: []*cards.Card{}}
}

// TotalPages returns max(1, ceil(len(results)/pageSize)).
func (s PageState) TotalPages() int {
	if s.PageSize < 1 || len(s.Results) == 0 {
		return 1
	}
	return (len(s.Results) + s.PageSize - 1) / s.PageSize
}

// Visible returns results[(page-1)*size : page*size], clipped to the list.
func (s PageState) Visible() []*cards.Card {
	if s.PageSize < 1 {
		return nil
	}
	start := (s.CurrentPage - 1) * s.PageSize
	if start < 0 || start >= len(s.Results) {
		return []*cards.Card{}
	}
	end := start + s.PageSize
	if end > len(s.Results) {
		end = len(s.Results)
	}
	return s.Results[start:end]
}

// HasNext reports whether a later page exists.
func (s PageState) HasNext() bool {
	return s.CurrentPage < s.TotalPages()
}

// HasPrev reports whether an earlier page exists.
func (s PageState) HasPrev() bool {
	return s.CurrentPage > 1
}

// ApplyFilter replaces the results. The current page is kept when still in
// range and clamped to the last page otherwise.
func ApplyFilter(s PageState, results []*cards.Card) PageState {
	if results == nil {
		results = []*cards.Card{}
	}
	s.Results = results
	s.CurrentPage = clamp(s.CurrentPage, s.TotalPages())
	return s
}

// NextPage advances one page, stopping at the last.
func NextPage(s PageState) PageState {
	return GoToPage(s, s.CurrentPage+1)
}

// PrevPage goes back one page, stopping at the first.
func PrevPage(s PageState) PageState {
	return GoToPage(s, s.CurrentPage-1)
}

// GoToPage moves to page, clamped to [1, TotalPages()].
func GoToPage(s PageState, page int) PageState {
	s.CurrentPage = clamp(page, s.TotalPages())
	return s
}

// SetPageSize changes the page size and returns to page 1. An invalid size
// leaves the state unchanged.
func SetPageSize(s PageState, size int) (PageState, error) {
	if size < 1 {
		return s, ErrInvalidPageSize
	}
	s.PageSize = size
	s.CurrentPage = 1
	return s, nil
}

func clamp(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}
