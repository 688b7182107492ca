package cards

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNilRecord is returned when a card record is null or absent.
var ErrNilRecord = errors.New("card record is null")

// FromMap builds a Card from the property map returned by the graph.
// Returns nil for a nil map.
func FromMap(m map[string]any) *Card {
	if m == nil {
		return nil
	}

	card := &Card{
		ID:          stringValue(m["id"]),
		CardID:      stringValue(m["cardId"]),
		DbfID:       stringValue(m["dbfId"]),
		Name:        stringValue(m["name"]),
		Type:        stringValue(m["type"]),
		PlayerClass: stringValue(m["playerClass"]),
		Rarity:      stringValue(m["rarity"]),
		Cost:        Int64Ptr(m["cost"]),
		Attack:      Int64Ptr(m["attack"]),
		Health:      Int64Ptr(m["health"]),
		Durability:  Int64Ptr(m["durability"]),
		Set:         StringList(m["set"]),
		Mechanics:   StringList(m["mechanics"]),
		Text:        stringValue(m["text"]),
		Collectible: IsTrue(m["collectible"]),
	}

	if race, ok := m["race"]; ok && race != nil {
		if s := stringValue(race); s != "" {
			card.Race = &s
		}
	}

	return card
}

// Int64 converts a raw graph value to an int64.
//
// Accepted encodings: Go integer and float kinds, json.Number, numeric
// strings, and the {low, high} wide-integer map emitted by some drivers.
func Int64(v any) (int64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case map[string]any:
		return wideInt64(n)
	default:
		return 0, false
	}
}

// Int64Ptr is Int64 returning nil when the value is absent or not numeric.
func Int64Ptr(v any) *int64 {
	n, ok := Int64(v)
	if !ok {
		return nil
	}
	return &n
}

// wideInt64 decodes {low, high} 32-bit halves into one integer.
func wideInt64(m map[string]any) (int64, bool) {
	lowRaw, okLow := m["low"]
	highRaw, okHigh := m["high"]
	if !okLow || !okHigh {
		return 0, false
	}
	low, ok := Int64(lowRaw)
	if !ok {
		return 0, false
	}
	high, ok := Int64(highRaw)
	if !ok {
		return 0, false
	}
	return high<<32 | int64(uint32(low)), true
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// StringList normalizes a string-or-list value into a list of non-empty strings.
func StringList(v any) []string {
	out := []string{}
	switch s := v.(type) {
	case nil:
	case string:
		if s != "" {
			out = append(out, s)
		}
	case []string:
		for _, item := range s {
			if item != "" {
				out = append(out, item)
			}
		}
	case []any:
		for _, item := range s {
			if str := stringValue(item); str != "" {
				out = append(out, str)
			}
		}
	default:
		if str := stringValue(s); str != "" {
			out = append(out, str)
		}
	}
	return out
}

// IsTrue reports whether a collectible-style flag is set. Both boolean true
// and the string "true" are accepted because upstream typing is inconsistent.
func IsTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}

// StringValue renders a scalar graph value as a string. Numbers, including
// wide integers, are formatted as integers; lists and nil yield "".
func StringValue(v any) string {
	return stringValue(v)
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case map[string]any:
		if n, ok := wideInt64(s); ok {
			return strconv.FormatInt(n, 10)
		}
		return ""
	case []any, []string:
		return ""
	default:
		if n, ok := Int64(s); ok {
			return strconv.FormatInt(n, 10)
		}
		return fmt.Sprint(s)
	}
}
