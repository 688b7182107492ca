package query

import (
	"net/url"
	"strings"
)

// Criteria is the sparse set of user-supplied filters for one search.
// An empty field means "no constraint on this field".
type Criteria struct {
	SearchTerm string `json:"searchTerm,omitempty" validate:"max=100"`
	Type       string `json:"type,omitempty" validate:"max=40"`
	Class      string `json:"class,omitempty" validate:"max=40"`
	Rarity     string `json:"rarity,omitempty" validate:"max=40"`
	// Cost is kept as entered: "" is no filter, "0" filters on zero.
	Cost     string `json:"cost,omitempty" validate:"max=10"`
	Set      string `json:"set,omitempty" validate:"max=60"`
	Race     string `json:"race,omitempty" validate:"max=40"`
	Mechanic string `json:"mechanic,omitempty" validate:"max=60"`
}

// CriteriaFromValues reads criteria from URL query parameters
// (q, type, class, rarity, cost, set, race, mechanic).
func CriteriaFromValues(v url.Values) Criteria {
	return Criteria{
		SearchTerm: strings.TrimSpace(v.Get("q")),
		Type:       strings.TrimSpace(v.Get("type")),
		Class:      strings.TrimSpace(v.Get("class")),
		Rarity:     strings.TrimSpace(v.Get("rarity")),
		Cost:       strings.TrimSpace(v.Get("cost")),
		Set:        strings.TrimSpace(v.Get("set")),
		Race:       strings.TrimSpace(v.Get("race")),
		Mechanic:   strings.TrimSpace(v.Get("mechanic")),
	}
}

// Values encodes the criteria as URL query parameters, omitting empty fields.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("q", c.SearchTerm)
	set("type", c.Type)
	set("class", c.Class)
	set("rarity", c.Rarity)
	set("cost", c.Cost)
	set("set", c.Set)
	set("race", c.Race)
	set("mechanic", c.Mechanic)
	return v
}

// IsEmpty reports whether no field constrains the search.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}
