package match

import "sort"

// Suggestion is one ranked alternative for an unresolved name.
type Suggestion struct {
	Name  string
	Score float64 // normalized similarity (0-1)
}

// SuggestionList is a list of suggestions with ranking functionality.
type SuggestionList []Suggestion

// Len implements sort.Interface.
func (s SuggestionList) Len() int { return len(s) }

// Swap implements sort.Interface.
func (s SuggestionList) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (s SuggestionList) Less(i, j int) bool {
	if s[i].Score != s[j].Score {
		return s[i].Score > s[j].Score
	}

	return s[i].Name < s[j].Name
}

// Top returns the top n suggestions.
func (s SuggestionList) Top(n int) SuggestionList {
	if n >= len(s) {
		return s
	}

	return s[:n]
}

// Names returns just the suggestion names, in rank order.
func (s SuggestionList) Names() []string {
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = sg.Name
	}

	return out
}

const (
	// SuggestThreshold is the minimum similarity for a candidate to be
	// offered as an alternative.
	SuggestThreshold = 0.5
	// SuggestMax is the default number of alternatives offered.
	SuggestMax = 3
)

// Rank scores every candidate against the unresolved name and returns
// the list sorted best-first, with candidates below the threshold
// dropped. Comparison is on normalized identifiers, so casing and
// separators do not count against a candidate.
func Rank(name string, candidates []string) SuggestionList {
	norm := NormalizeIdent(name)

	var ranked SuggestionList
	for _, candidate := range candidates {
		score := LevenshteinNormalized(norm, NormalizeIdent(candidate))
		if score < SuggestThreshold {
			continue
		}

		ranked = append(ranked, Suggestion{Name: candidate, Score: score})
	}

	sort.Sort(ranked)

	return ranked
}

// Suggest returns up to SuggestMax candidate names similar to the
// unresolved one, best match first. Empty when nothing is close.
func Suggest(name string, candidates []string) []string {
	return Rank(name, candidates).Top(SuggestMax).Names()
}
