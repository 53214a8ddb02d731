package query

import (
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
)

// relatedFilesDoc is the document shape indexed into the ephemeral bleve
// index: just enough to map a hit back to the file it came from.
type relatedFilesDoc struct {
	Content string `json:"content"`
}

// relatedFiles implements a legacy related-files heuristic: collect each
// result's imports/references, search chunk text for each reference, and
// gather distinct file paths other than origin.
//
// Grounded on Aman-CERP-amanmcp's internal/store/bm25.go BleveBM25Index
// (bleve.NewMemOnly + NewMatchQuery), stripped of its on-disk persistence
// and corruption-recovery machinery since this index is rebuilt fresh for
// every call rather than kept resident — the heuristic explicitly trades
// precision for simplicity (SPEC_FULL.md's Open Question decisions).
func relatedFiles(chunks []chunkDoc, refs []string, originFilePath string) ([]string, error) {
	if len(refs) == 0 || len(chunks) == 0 {
		return nil, nil
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	defer index.Close()

	batch := index.NewBatch()
	filePathByID := make(map[string]string, len(chunks))
	for _, c := range chunks {
		if err := batch.Index(c.id, relatedFilesDoc{Content: c.text}); err != nil {
			return nil, err
		}
		filePathByID[c.id] = c.filePath
	}
	if err := index.Batch(batch); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{originFilePath: {}}
	var found []string
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		q := bleve.NewMatchQuery(ref)
		q.SetField("content")
		req := bleve.NewSearchRequest(q)
		req.Size = 10

		result, err := index.Search(req)
		if err != nil {
			return nil, err
		}
		for _, hit := range result.Hits {
			fp := filePathByID[hit.ID]
			if fp == "" {
				continue
			}
			if _, dup := seen[fp]; dup {
				continue
			}
			seen[fp] = struct{}{}
			found = append(found, fp)
		}
	}
	sort.Strings(found)
	return found, nil
}

// chunkDoc is the minimal projection of a stored chunk relatedFiles needs.
type chunkDoc struct {
	id       string
	filePath string
	text     string
}

// parseReferenceList splits the comma-joined "imports"/"references" metadata
// strings chunking.Flatten writes back into individual reference targets,
// stripping the "type:" prefix references carry.
func parseReferenceList(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if idx := strings.Index(p, ":"); idx >= 0 {
			p = p[idx+1:]
		}
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
