package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/facets"
)

// displayFacets prints the distinct values of every filter.
func displayFacets(w io.Writer, fs *facets.FacetSet) {
	if fs == nil {
		fs = facets.Empty()
	}

	costs := make([]string, 0, len(fs.Cost))
	for _, c := range fs.Cost {
		costs = append(costs, strconv.FormatInt(c, 10))
	}

	rows := []struct {
		label  string
		values []string
	}{
		{"Type", fs.Type},
		{"Class", fs.PlayerClass},
		{"Rarity", fs.Rarity},
		{"Cost", costs},
		{"Set", fs.Set},
		{"Race", fs.Race},
		{"Mechanic", fs.Mechanic},
	}

	fmt.Fprintln(w, "Filter Values")
	fmt.Fprintln(w, "=============")
	for _, row := range rows {
		values := "(none)"
		if len(row.values) > 0 {
			values = strings.Join(row.values, ", ")
		}
		fmt.Fprintf(w, "  %-9s %s\n", row.label+":", values)
	}
}
