package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/maypok86/otter"
)

// resultCache is a weight-bounded LRU over assembled query responses, keyed
// on (query_text, n_results, min_score, filters), built as an
// otter.Cache via MustBuilder.Cost(...).Build(); cost is a flat 1 per
// entry since responses are bounded by max_context_size already.
type resultCache struct {
	cache otter.Cache[string, *Response]
}

func newResultCache(capacity int) (*resultCache, error) {
	if capacity <= 0 {
		capacity = 100
	}
	c, err := otter.MustBuilder[string, *Response](capacity).
		Cost(func(key string, value *Response) uint32 { return 1 }).
		Build()
	if err != nil {
		return nil, fmt.Errorf("query: build result cache: %w", err)
	}
	return &resultCache{cache: c}, nil
}

func (rc *resultCache) get(key string) (*Response, bool) {
	return rc.cache.Get(key)
}

func (rc *resultCache) set(key string, resp *Response) {
	rc.cache.Set(key, resp)
}

// clear drops every cached entry.
func (rc *resultCache) clear() {
	rc.cache.Clear()
}

func (rc *resultCache) close() {
	rc.cache.Close()
}

// cacheKey builds a deterministic string key from a query's parameters.
// Filters are sorted by key so map iteration order never affects the key.
func cacheKey(queryText string, nResults int, minScore float32, where map[string]string, fileName string) string {
	var b strings.Builder
	b.WriteString(queryText)
	b.WriteByte('\x1f')
	b.WriteString(strconv.Itoa(nResults))
	b.WriteByte('\x1f')
	b.WriteString(strconv.FormatFloat(float64(minScore), 'f', -1, 32))
	b.WriteByte('\x1f')
	b.WriteString(fileName)

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte('\x1f')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(where[k])
	}
	return b.String()
}
