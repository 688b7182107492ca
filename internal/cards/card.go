// Package cards defines the card record projected from the catalog graph and
// the normalization rules applied to raw graph values.
package cards

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Card types that drive the interaction rules.
const (
	TypeMinion = "MINION"
	TypeWeapon = "WEAPON"
	TypeSpell  = "SPELL"
	TypeHero   = "HERO"
)

// Card is a read-only projection of a Card node.
type Card struct {
	// Identifier candidates, checked in this order by Identifier.
	ID     string `json:"id,omitempty"`
	CardID string `json:"cardId,omitempty"`
	DbfID  string `json:"dbfId,omitempty"`

	Name        string `json:"name"`
	Type        string `json:"type"`
	PlayerClass string `json:"playerClass"`
	Rarity      string `json:"rarity"`

	// Stats are nil when the source has no value. They are never zero-filled.
	Cost       *int64 `json:"cost"`
	Attack     *int64 `json:"attack"`
	Health     *int64 `json:"health"`
	Durability *int64 `json:"durability"`

	Race        *string  `json:"race"`
	Set         []string `json:"set"`
	Mechanics   []string `json:"mechanics"`
	Text        string   `json:"text"`
	Collectible bool     `json:"collectible"`
}

// Identifier returns the first non-empty identifier among id, cardId and dbfId.
func (c *Card) Identifier() string {
	switch {
	case c.ID != "":
		return c.ID
	case c.CardID != "":
		return c.CardID
	default:
		return c.DbfID
	}
}

// IsType reports whether the card has the given type, ignoring case.
func (c *Card) IsType(t string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Type), t)
}

// HasSet reports whether any of the card's sets matches fn.
func (c *Card) HasSet(fn func(set string) bool) bool {
	for _, s := range c.Set {
		if fn(s) {
			return true
		}
	}
	return false
}

// String returns a short human readable label.
func (c *Card) String() string {
	if c.Identifier() == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Identifier())
}

// UnmarshalJSON accepts both the normalized shape produced by json.Marshal and
// the raw graph shape (string sets, wide integers, "true" flags).
func (c *Card) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode card: %w", err)
	}
	if raw == nil {
		return ErrNilRecord
	}

	*c = *FromMap(raw)
	return nil
}
