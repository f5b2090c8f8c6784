// Package match resolves a spoken free-text reference to a stored item
// without exact identifiers. Matching is two-phase: a case-insensitive
// substring pass, then a token-alternation pass that produces ranked
// suggestions when nothing matched directly.
package match

import (
	"regexp"
	"strings"
)

// MaxSuggestions caps the suggestion list from the token phase.
const MaxSuggestions = 3

// Candidate is one stored item offered to the resolver: its record id and
// the title/text field matching runs against.
type Candidate struct {
	ID   string
	Text string
}

// Result is the resolver outcome. Match is nil when the substring phase
// found nothing; Suggestions then carries up to MaxSuggestions token-overlap
// hits, possibly empty.
type Result struct {
	Match       *Candidate
	Suggestions []Candidate
}

// Resolve finds the first candidate whose text contains the spoken fragment,
// ignoring case. When no candidate qualifies, it falls back to matching any
// single token of the fragment and returns those hits as suggestions.
// Resolve never fails: empty input or an empty candidate set yields an empty
// Result.
func Resolve(fragment string, items []Candidate) Result {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || len(items) == 0 {
		return Result{}
	}

	lowerFragment := strings.ToLower(fragment)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Text), lowerFragment) {
			found := item
			return Result{Match: &found}
		}
	}

	pattern := tokenAlternation(fragment)
	if pattern == nil {
		return Result{}
	}

	var suggestions []Candidate
	for _, item := range items {
		if pattern.MatchString(item.Text) {
			suggestions = append(suggestions, item)
			if len(suggestions) == MaxSuggestions {
				break
			}
		}
	}
	return Result{Suggestions: suggestions}
}

// tokenAlternation builds a case-insensitive token1|token2|... pattern from
// the fragment's whitespace-delimited tokens.
func tokenAlternation(fragment string) *regexp.Regexp {
	tokens := strings.Fields(fragment)
	if len(tokens) == 0 {
		return nil
	}
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = regexp.QuoteMeta(tok)
	}
	re, err := regexp.Compile("(?i)" + strings.Join(quoted, "|"))
	if err != nil {
		return nil
	}
	return re
}
