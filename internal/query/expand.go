package query

import "strings"

// Expand tokenizes text on whitespace and, for each token with entries in
// the synonym dictionary, replaces it with {original} ∪ synonyms. The
// result is the Cartesian product of per-token options, each flattened to a
// lowercased single-space string, with duplicates removed. Expansion feeds debug/log output only: the embedding is
// always taken from the preprocessed original query, never from an
// expansion.
func Expand(text string) []string {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return nil
	}

	options := make([][]string, len(tokens))
	for i, tok := range tokens {
		opts := append([]string{tok}, synonymDict[tok]...)
		options[i] = opts
	}

	var combos []string
	seen := make(map[string]struct{})
	var build func(i int, acc []string)
	build = func(i int, acc []string) {
		if i == len(options) {
			combo := strings.Join(acc, " ")
			if _, dup := seen[combo]; !dup {
				seen[combo] = struct{}{}
				combos = append(combos, combo)
			}
			return
		}
		for _, opt := range options[i] {
			build(i+1, append(acc, opt))
		}
	}
	build(0, make([]string, 0, len(tokens)))
	return combos
}
