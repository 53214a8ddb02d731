// Package query implements the Query Engine (C12): preprocessing, synonym
// expansion, embedding, hybrid vector+graph retrieval, context assembly and
// an LRU result cache.
package query

import (
	"regexp"
	"strings"
)

// Preprocessor normalizes text before it is embedded. The same preprocessor
// runs over both documents (before embedding) and queries, so the two
// share a representation.
type Preprocessor struct {
	// RemoveStopwords mirrors preprocess_text's remove_stopwords_flag,
	// off by default matching the original's default.
	RemoveStopwords bool
	// Stopwords overrides DefaultStopwords when non-nil.
	Stopwords map[string]struct{}
}

// Go's regexp (RE2) has no backreferences, so the original's single
// ("""|''')(.*?)(\1) pattern is split into two non-backreferenced
// alternatives, one per delimiter.
var (
	doubleTripleQuotedPattern = regexp.MustCompile(`(?s)"""(.*?)"""`)
	singleTripleQuotedPattern = regexp.MustCompile(`(?s)'''(.*?)'''`)
	hashCommentPattern        = regexp.MustCompile(`#.*`)
	blockCommentPattern       = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentPattern        = regexp.MustCompile(`//.*`)
	whitespacePattern         = regexp.MustCompile(`\s+`)
)

// DefaultStopwords mirrors DEFAULT_STOPWORDS.
var DefaultStopwords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "which": {}, "on": {}, "and": {}, "a": {},
	"an": {}, "in": {}, "to": {}, "of": {}, "for": {}, "with": {}, "as": {},
	"by": {}, "that": {}, "this": {}, "it": {}, "from": {}, "or": {}, "be": {},
	"are": {}, "was": {}, "were": {}, "has": {}, "have": {}, "had": {},
	"but": {}, "not": {}, "can": {}, "will": {}, "would": {}, "should": {},
	"could": {},
}

// Process runs the full pipeline: lowercase, strip markdown (a no-op
// passthrough in the original), strip comments/docstrings, collapse
// whitespace, then optionally drop stopwords.
func (p Preprocessor) Process(text string) string {
	text = strings.ToLower(text)
	text = stripMarkdown(text)
	text = stripCommentsAndDocstrings(text)
	text = normalizeWhitespace(text)
	if p.RemoveStopwords {
		text = p.removeStopwords(text)
	}
	return text
}

// stripMarkdown is a deliberate passthrough: markdown structure is
// preserved.
func stripMarkdown(text string) string {
	return text
}

func stripCommentsAndDocstrings(text string) string {
	text = doubleTripleQuotedPattern.ReplaceAllString(text, "")
	text = singleTripleQuotedPattern.ReplaceAllString(text, "")
	text = hashCommentPattern.ReplaceAllString(text, "")
	text = blockCommentPattern.ReplaceAllString(text, "")
	text = lineCommentPattern.ReplaceAllString(text, "")
	return text
}

func normalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

func (p Preprocessor) removeStopwords(text string) string {
	stopwords := p.Stopwords
	if stopwords == nil {
		stopwords = DefaultStopwords
	}
	tokens := strings.Fields(text)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
