package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/browse"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/interaction"
)

// displayPage prints the visible page of a browse state as a numbered list.
func displayPage(w io.Writer, s browse.PageState) {
	if len(s.Results) == 0 {
		fmt.Fprintln(w, "No cards found.")
		return
	}

	visible := s.Visible()
	first := (s.CurrentPage-1)*s.PageSize + 1
	fmt.Fprintf(w, "Cards %d-%d of %d (page %d/%d)\n",
		first, first+len(visible)-1, len(s.Results), s.CurrentPage, s.TotalPages())
	fmt.Fprintln(w, strings.Repeat("=", 40))

	for i, card := range visible {
		fmt.Fprintf(w, "%3d. %s\n", i+1, cardSummary(card))
	}

	var nav []string
	if s.HasPrev() {
		nav = append(nav, "prev")
	}
	if s.HasNext() {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		fmt.Fprintf(w, "\n(%s)\n", strings.Join(nav, " | "))
	}
}

// cardSummary formats a card on one line: name, cost, type and stats.
func cardSummary(card *cards.Card) string {
	var b strings.Builder
	b.WriteString(displayName(card))
	fmt.Fprintf(&b, " [%s]", stat(card.Cost))
	if card.Type != "" {
		fmt.Fprintf(&b, " %s", card.Type)
	}

	switch {
	case card.IsType(cards.TypeMinion):
		fmt.Fprintf(&b, " %s/%s", stat(card.Attack), stat(card.Health))
	case card.IsType(cards.TypeWeapon):
		fmt.Fprintf(&b, " %s/%s", stat(card.Attack), stat(card.Durability))
	}

	if card.PlayerClass != "" {
		fmt.Fprintf(&b, " - %s", card.PlayerClass)
	}
	return b.String()
}

// displayCard prints every known field of a card.
func displayCard(w io.Writer, card *cards.Card, imageURL string) {
	if card == nil {
		return
	}

	fmt.Fprintln(w, displayName(card))
	fmt.Fprintln(w, strings.Repeat("-", len(displayName(card))))
	if id := card.Identifier(); id != "" {
		fmt.Fprintf(w, "  ID:       %s\n", id)
	}
	fmt.Fprintf(w, "  Type:     %s\n", orDash(card.Type))
	fmt.Fprintf(w, "  Class:    %s\n", orDash(card.PlayerClass))
	fmt.Fprintf(w, "  Rarity:   %s\n", orDash(card.Rarity))
	fmt.Fprintf(w, "  Cost:     %s\n", stat(card.Cost))
	if card.Attack != nil {
		fmt.Fprintf(w, "  Attack:   %d\n", *card.Attack)
	}
	if card.Health != nil {
		fmt.Fprintf(w, "  Health:   %d\n", *card.Health)
	}
	if card.Durability != nil {
		fmt.Fprintf(w, "  Durability: %d\n", *card.Durability)
	}
	if card.Race != nil && *card.Race != "" {
		fmt.Fprintf(w, "  Race:     %s\n", *card.Race)
	}
	if len(card.Set) > 0 {
		fmt.Fprintf(w, "  Set:      %s\n", strings.Join(card.Set, ", "))
	}
	if len(card.Mechanics) > 0 {
		fmt.Fprintf(w, "  Mechanics: %s\n", strings.Join(card.Mechanics, ", "))
	}
	if text := interaction.StripMarkup(card.Text); text != "" {
		fmt.Fprintf(w, "  Text:     %s\n", text)
	}
	if imageURL != "" {
		fmt.Fprintf(w, "  Image:    %s\n", imageURL)
	}
}

// displaySelection prints the two comparison slots.
func displaySelection(w io.Writer, sel browse.Selection) {
	for _, slot := range []browse.Slot{browse.SlotA, browse.SlotB} {
		card := sel.Get(slot)
		if card == nil {
			fmt.Fprintf(w, "  %s: (empty)\n", slot)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", slot, cardSummary(card))
	}
}

func displayName(card *cards.Card) string {
	if card.Name == "" {
		return "(unnamed card)"
	}
	return card.Name
}

func stat(v *int64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
