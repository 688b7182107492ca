package interaction

import (
	"regexp"
	"strings"
)

// Keywords is the combat-relevant vocabulary scanned in rules text, in
// report order.
var Keywords = []string{
	"Divine Shield",
	"Poisonous",
	"Rush",
	"Charge",
	"Taunt",
	"Lifesteal",
	"Windfury",
	"Battlecry",
	"Deathrattle",
	"Stealth",
	"Reborn",
	"Freeze",
}

var (
	keywordPatterns = compileKeywords(Keywords)

	markupTag   = regexp.MustCompile(`<[^>]*>`)
	placeholder = regexp.MustCompile(`[$#](\d+)`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Keywords match at a word start so "Rush" does not hit "brush" while
// "Freeze" still finds "Freezes".
func compileKeywords(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w))
	}
	return out
}

// StripMarkup removes formatting tags and damage placeholders from rules
// text, e.g. "<b>Taunt</b>. Deal $3 damage." becomes "Taunt. Deal 3 damage.".
func StripMarkup(text string) string {
	text = strings.ReplaceAll(text, "[x]", "")
	text = markupTag.ReplaceAllString(text, "")
	text = placeholder.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "_", " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// ScanKeywords returns the vocabulary keywords present in text. The result
// is never nil.
func ScanKeywords(text string) []string {
	plain := StripMarkup(text)
	found := []string{}
	for i, re := range keywordPatterns {
		if re.MatchString(plain) {
			found = append(found, Keywords[i])
		}
	}
	return found
}
