package browse

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
)

// Slot names one of the two comparison slots.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

func (s Slot) String() string {
	switch s {
	case SlotA:
		return "A"
	case SlotB:
		return "B"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// ParseSlot accepts "a", "b", "1" or "2".
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "1":
		return SlotA, nil
	case "b", "2":
		return SlotB, nil
	default:
		return 0, fmt.Errorf("unknown slot %q", s)
	}
}

// Selection holds the cards picked for comparison.
type Selection struct {
	A *cards.Card `json:"a"`
	B *cards.Card `json:"b"`
}

// Ready reports whether both slots are filled.
func (sel Selection) Ready() bool {
	return sel.A != nil && sel.B != nil
}

// Get returns the card in slot, or nil.
func (sel Selection) Get(slot Slot) *cards.Card {
	if slot == SlotB {
		return sel.B
	}
	return sel.A
}

// SelectCard places card into slot, replacing any previous card there.
func SelectCard(s PageState, slot Slot, card *cards.Card) PageState {
	switch slot {
	case SlotA:
		s.Selection.A = card
	case SlotB:
		s.Selection.B = card
	}
	return s
}

// ClearSelection empties the given slots, or both when none are given.
func ClearSelection(s PageState, slots ...Slot) PageState {
	if len(slots) == 0 {
		s.Selection = Selection{}
		return s
	}
	for _, slot := range slots {
		s = SelectCard(s, slot, nil)
	}
	return s
}
