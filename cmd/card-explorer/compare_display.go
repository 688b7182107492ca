package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/interaction"
)

// displayComparison prints an interaction result for cards a and b.
func displayComparison(w io.Writer, a, b *cards.Card, r *interaction.Result) {
	if r == nil {
		return
	}

	title := fmt.Sprintf("%s vs %s", displayName(a), displayName(b))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Outcome: %s\n", outcomeLabel(r.Outcome))

	if r.Combat != nil {
		fmt.Fprintf(w, "  %s survives: %s\n", displayName(a), yesNo(r.Combat.ASurvives))
		fmt.Fprintf(w, "  %s survives: %s\n", displayName(b), yesNo(r.Combat.BSurvives))
	}
	if r.Potential != nil {
		fmt.Fprintf(w, "  Damage potential: %d vs %d\n", r.Potential.A, r.Potential.B)
	}

	fmt.Fprintf(w, "Cost:    %s (%s vs %s)\n", strings.ReplaceAll(string(r.Cost.Outcome), "_", " "), stat(r.Cost.A), stat(r.Cost.B))

	if r.Keywords.NoneFound {
		fmt.Fprintln(w, "Keywords: none")
	} else {
		fmt.Fprintf(w, "Keywords: %s | %s\n", keywordList(r.Keywords.A), keywordList(r.Keywords.B))
	}

	if len(r.Narrative) > 0 {
		fmt.Fprintln(w)
		for _, line := range r.Narrative {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
}

func outcomeLabel(o interaction.Outcome) string {
	switch o {
	case interaction.OutcomeAWins:
		return "first card wins"
	case interaction.OutcomeBWins:
		return "second card wins"
	case interaction.OutcomeMutualDestruction:
		return "mutual destruction"
	case interaction.OutcomeStalemate:
		return "both survive"
	case interaction.OutcomeAHigherPotential:
		return "first weapon has higher potential"
	case interaction.OutcomeBHigherPotential:
		return "second weapon has higher potential"
	case interaction.OutcomeEqualPotential:
		return "equal weapon potential"
	default:
		return "no direct interaction"
	}
}

func keywordList(kw []string) string {
	if len(kw) == 0 {
		return "-"
	}
	return strings.Join(kw, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
