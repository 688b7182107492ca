package query

import (
	"fmt"
	"strconv"
	"strings"
)

// NameContains is always present. With an empty term it reduces to true.
func NameContains(c Criteria) Clause {
	return Clause{
		Where:  fmt.Sprintf(`($searchTerm = "" OR toLower(%s) CONTAINS $searchTerm)`, property("name")),
		Params: map[string]any{"searchTerm": strings.ToLower(strings.TrimSpace(c.SearchTerm))},
	}
}

// Equals builds an equality predicate on field, bound to param, active when
// get returns a non-empty value.
func Equals(field, param string, get func(Criteria) string) Predicate {
	return func(c Criteria) Clause {
		value := strings.TrimSpace(get(c))
		if value == "" {
			return Clause{}
		}
		return Clause{
			Where:  fmt.Sprintf("%s = $%s", property(field), param),
			Params: map[string]any{param: value},
		}
	}
}

// SetContains matches the set name whether the card stores one set or a list
// of sets.
func SetContains(c Criteria) Clause {
	set := strings.TrimSpace(c.Set)
	if set == "" {
		return Clause{}
	}
	field := property("set")
	return Clause{
		Where:  fmt.Sprintf("any(s IN CASE WHEN %s IS :: LIST<ANY> THEN %s ELSE [%s] END WHERE s = $setName)", field, field, field),
		Params: map[string]any{"setName": set},
	}
}

// CostEquals filters on an integer cost. The stored value is coerced with
// toInteger because it is not always stored as an integer. A cost that does
// not parse is ignored rather than rejected.
func CostEquals(c Criteria) Clause {
	raw := strings.TrimSpace(c.Cost)
	if raw == "" {
		return Clause{}
	}
	cost, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Clause{Ignored: "cost"}
	}
	return Clause{
		Where:  fmt.Sprintf("toInteger(%s) = $cost", property("cost")),
		Params: map[string]any{"cost": cost},
	}
}

// HasMechanic joins the card to the named mechanic node.
func HasMechanic(c Criteria) Clause {
	mechanic := strings.TrimSpace(c.Mechanic)
	if mechanic == "" {
		return Clause{}
	}
	return Clause{
		Pattern: fmt.Sprintf("-[:%s]->(:%s {name: $mechanic})", RelHasMechanic, LabelMechanic),
		Params:  map[string]any{"mechanic": mechanic},
	}
}
