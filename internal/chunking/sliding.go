package chunking

import (
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
)

// SlidingWindow implements the sliding-window strategy: each chunk ends at
// a line boundary at or past max_chunk_size characters;
// chunks under min_chunk_size are dropped unless they are the final chunk;
// the next window starts at end-overlap, force-advancing by one window if
// that would not move the start forward (termination guarantee).
func SlidingWindow(filePath, language string, source []byte, opts Options) []model.CodeChunk {
	lines := strings.Split(string(source), "\n")
	total := len(lines)
	if total == 0 {
		return nil
	}

	var windows []struct{ start, end int }
	start := 1
	for start <= total {
		end := windowEnd(lines, start, opts.MaxChunkSize)
		windows = append(windows, struct{ start, end int }{start, end})
		if end >= total {
			break
		}

		next := backOffByChars(lines, end, opts.Overlap)
		if next <= start {
			next = end + 1 // force advance: guarantees termination
		}
		start = next
	}

	var chunks []model.CodeChunk
	for i, w := range windows {
		text := sliceLines(lines, w.start, w.end)
		final := i == len(windows)-1
		if len(text) < opts.MinChunkSize && !final {
			continue
		}
		id := ChunkID(filePath, "", model.NodeSlidingWindow, w.start, w.end)
		chunks = append(chunks, model.CodeChunk{
			ID:        id,
			Text:      text,
			FilePath:  filePath,
			StartLine: w.start,
			EndLine:   w.end,
			Language:  language,
			NodeType:  model.NodeSlidingWindow,
		})
	}
	return chunks
}

// windowEnd returns the last line (1-indexed, inclusive) such that the text
// from start to that line is at least maxSize characters, or the last line
// of the file if the window never reaches maxSize.
func windowEnd(lines []string, start, maxSize int) int {
	size := 0
	for i := start; i <= len(lines); i++ {
		size += len(lines[i-1]) + 1 // +1 for the newline joining it back in
		if size >= maxSize {
			return i
		}
	}
	return len(lines)
}

// backOffByChars walks backward from line end until it has consumed at
// least overlap characters, returning the line the next window should
// start at.
func backOffByChars(lines []string, end, overlap int) int {
	if overlap <= 0 {
		return end + 1
	}
	size := 0
	for i := end; i >= 1; i-- {
		size += len(lines[i-1]) + 1
		if size >= overlap {
			return i
		}
	}
	return 1
}
