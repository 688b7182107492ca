package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/browse"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/facets"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/query"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/catalog"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/interaction"
)

// explorer is the part of catalog.Service the terminal client uses.
type explorer interface {
	Search(ctx context.Context, c query.Criteria) (*catalog.SearchResult, error)
	Facets(ctx context.Context) (*facets.FacetSet, error)
	Compare(a, b *cards.Card) (*interaction.Result, error)
	ImageURL(card *cards.Card) (string, bool)
}

var errQuit = errors.New("quit")

// session is one interactive browse session. It owns its PageState; every
// command replaces it with the result of a browse transition.
type session struct {
	ctx      context.Context
	catalog  explorer
	out      io.Writer
	criteria query.Criteria
	state    browse.PageState
}

func newSession(ctx context.Context, c explorer, out io.Writer, pageSize int) *session {
	return &session{ctx: ctx, catalog: c, out: out, state: browse.New(pageSize)}
}

// run reads commands from in until quit or end of input.
func (s *session) run(in io.Reader) error {
	fmt.Fprintln(s.out, "Card Explorer - type 'help' for commands")
	if err := s.search(); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		err := s.execute(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		if s.ctx.Err() != nil {
			return s.ctx.Err()
		}
	}
}

// execute runs one command line.
func (s *session) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "search", "s":
		s.criteria.SearchTerm = strings.Join(args, " ")
		return s.search()

	case "filter", "f":
		if len(args) == 0 {
			return errors.New("usage: filter <type|class|rarity|cost|set|race|mechanic> [value]")
		}
		if err := setCriterion(&s.criteria, args[0], strings.Join(args[1:], " ")); err != nil {
			return err
		}
		return s.search()

	case "reset":
		s.criteria = query.Criteria{}
		return s.search()

	case "next", "n":
		s.state = browse.NextPage(s.state)
		displayPage(s.out, s.state)

	case "prev", "p":
		s.state = browse.PrevPage(s.state)
		displayPage(s.out, s.state)

	case "page":
		n, err := intArg(args, "page <number>")
		if err != nil {
			return err
		}
		s.state = browse.GoToPage(s.state, n)
		displayPage(s.out, s.state)

	case "size":
		n, err := intArg(args, "size <cards per page>")
		if err != nil {
			return err
		}
		next, err := browse.SetPageSize(s.state, n)
		if err != nil {
			return err
		}
		s.state = next
		displayPage(s.out, s.state)

	case "list", "ls":
		displayPage(s.out, s.state)

	case "show":
		card, err := s.visibleCard(args, "show <number>")
		if err != nil {
			return err
		}
		url, _ := s.catalog.ImageURL(card)
		displayCard(s.out, card, url)

	case "select", "sel":
		if len(args) != 2 {
			return errors.New("usage: select <a|b> <number>")
		}
		slot, err := browse.ParseSlot(args[0])
		if err != nil {
			return err
		}
		card, err := s.visibleCard(args[1:], "select <a|b> <number>")
		if err != nil {
			return err
		}
		s.state = browse.SelectCard(s.state, slot, card)
		displaySelection(s.out, s.state.Selection)

	case "clear":
		slots := make([]browse.Slot, 0, len(args))
		for _, arg := range args {
			slot, err := browse.ParseSlot(arg)
			if err != nil {
				return err
			}
			slots = append(slots, slot)
		}
		s.state = browse.ClearSelection(s.state, slots...)
		displaySelection(s.out, s.state.Selection)

	case "selection":
		displaySelection(s.out, s.state.Selection)

	case "compare", "cmp":
		sel := s.state.Selection
		if !sel.Ready() {
			return errors.New("select a card into both slots first")
		}
		result, err := s.catalog.Compare(sel.A, sel.B)
		if err != nil {
			return err
		}
		displayComparison(s.out, sel.A, sel.B, result)

	case "facets", "params":
		fs, err := s.catalog.Facets(s.ctx)
		if err != nil {
			return err
		}
		displayFacets(s.out, fs)

	case "help", "?":
		printSessionHelp(s.out)

	case "quit", "exit", "q":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return nil
}

// search runs the current criteria and replaces the result list. The current
// page is clamped, not reset.
func (s *session) search() error {
	res, err := s.catalog.Search(s.ctx, s.criteria)
	if err != nil {
		return err
	}
	s.state = browse.ApplyFilter(s.state, cardsOf(res))
	if len(res.Ignored) > 0 {
		fmt.Fprintf(s.out, "Ignored filters: %s\n", strings.Join(res.Ignored, ", "))
	}
	displayPage(s.out, s.state)
	return nil
}

// visibleCard returns the card at a 1-based position of the visible page.
func (s *session) visibleCard(args []string, usage string) (*cards.Card, error) {
	n, err := intArg(args, usage)
	if err != nil {
		return nil, err
	}
	visible := s.state.Visible()
	if n < 1 || n > len(visible) {
		return nil, fmt.Errorf("no card %d on this page", n)
	}
	return visible[n-1], nil
}

func cardsOf(res *catalog.SearchResult) []*cards.Card {
	out := make([]*cards.Card, 0, len(res.Cards))
	for _, v := range res.Cards {
		out = append(out, v.Card)
	}
	return out
}

// setCriterion sets one filter field. An empty value clears it.
func setCriterion(c *query.Criteria, field, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(field) {
	case "q", "search":
		c.SearchTerm = value
	case "type":
		c.Type = value
	case "class":
		c.Class = value
	case "rarity":
		c.Rarity = value
	case "cost":
		c.Cost = value
	case "set":
		c.Set = value
	case "race":
		c.Race = value
	case "mechanic":
		c.Mechanic = value
	default:
		return fmt.Errorf("unknown filter %q", field)
	}
	return nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	return n, nil
}

func printSessionHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  search <text>            Search card names and text")
	fmt.Fprintln(w, "  filter <field> [value]   Set or clear type, class, rarity, cost, set, race, mechanic")
	fmt.Fprintln(w, "  reset                    Clear all filters")
	fmt.Fprintln(w, "  next | prev | page <n>   Move between pages")
	fmt.Fprintln(w, "  size <n>                 Change cards per page")
	fmt.Fprintln(w, "  list                     Show the current page")
	fmt.Fprintln(w, "  show <n>                 Show card details")
	fmt.Fprintln(w, "  select <a|b> <n>         Put a card into a comparison slot")
	fmt.Fprintln(w, "  clear [a|b]              Empty comparison slots")
	fmt.Fprintln(w, "  compare                  Compare the selected cards")
	fmt.Fprintln(w, "  facets                   List filter values")
	fmt.Fprintln(w, "  quit                     Leave")
}
