package analyzer

import "strings"

// TokenSet extracts the distinct tokens of text: the text is lowercased
// and split into maximal runs of [a-z0-9_]. Order and multiplicity are
// irrelevant to the similarity metric, so the result is a set.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	var current strings.Builder

	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			set[current.String()] = struct{}{}
			current.Reset()
		}
	}
	if current.Len() > 0 {
		set[current.String()] = struct{}{}
	}

	return set
}
