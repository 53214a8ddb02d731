package query

import (
	"fmt"
	"sort"
	"strings"
)

// assembleContext builds the final context string an LLM prompt embeds.
// Results are emitted in score order; once appending the next result would
// exceed maxContextSize, assembly stops and a truncation note is appended.
func assembleContext(queryText string, results []EnrichedResult, maxContextSize int, includeMetadata bool) (string, bool, int) {
	ordered := make([]EnrichedResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })

	var b strings.Builder
	b.WriteString("Query: ")
	b.WriteString(queryText)
	b.WriteString("\n\nRelevant code:\n\n")

	truncated := false
	truncatedCount := 0
	for i, r := range ordered {
		block := formatResultBlock(r, includeMetadata)
		if maxContextSize > 0 && b.Len()+len(block) > maxContextSize {
			truncated = true
			truncatedCount = len(ordered) - i
			break
		}
		b.WriteString(block)
	}
	if truncated {
		fmt.Fprintf(&b, "... (truncated %d more results)", truncatedCount)
	}

	return b.String(), truncated, truncatedCount
}

func formatResultBlock(r EnrichedResult, includeMetadata bool) string {
	var b strings.Builder
	filePath := r.Metadata["file_path"]
	fmt.Fprintf(&b, "--- %s ---\n%s\n\n", filePath, r.Text)

	if includeMetadata {
		fmt.Fprintf(&b, "Name: %s\n", r.Metadata["name"])
		fmt.Fprintf(&b, "Type: %s\n", r.Metadata["node_type"])
		fmt.Fprintf(&b, "Docstring: %s\n", r.Metadata["docstring"])
		fmt.Fprintf(&b, "Imports: %s\n", r.Metadata["imports"])
		fmt.Fprintf(&b, "Related files: %s\n\n", strings.Join(r.RelatedFiles, ", "))
	}
	return b.String()
}
