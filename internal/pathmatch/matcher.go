// Package pathmatch implements the Path & Ignore Matcher: normalizing
// candidate paths relative to a project root and evaluating
// gitwildmatch-style ignore patterns built from global config plus a
// per-project ignore file, compiled with github.com/gobwas/glob.
package pathmatch

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// AlwaysIgnored is the always-on pattern protecting the project's internal
// directory.
const AlwaysIgnored = "**/.augmentorium/**"

// Matcher evaluates whether a path should be ignored for a project.
type Matcher struct {
	patterns []glob.Glob
	raw      []string
}

// Compile builds a Matcher from the deduplicated union of globalPatterns and
// projectPatterns, always including AlwaysIgnored.
func Compile(globalPatterns, projectPatterns []string) (*Matcher, error) {
	seen := make(map[string]struct{})
	var union []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		union = append(union, p)
	}
	add(AlwaysIgnored)
	for _, p := range globalPatterns {
		add(p)
	}
	for _, p := range projectPatterns {
		add(p)
	}

	m := &Matcher{raw: union}
	for _, p := range union {
		// A leading "**/" also matches zero directories, and a pattern not
		// ending in "/**" also matches as a directory prefix.
		variants := []string{p}
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			variants = append(variants, rest)
		}
		if !strings.HasSuffix(p, "/**") {
			variants = append(variants, p+"/**")
		}
		for _, v := range variants {
			compiled, err := compilePattern(v)
			if err != nil {
				return nil, err
			}
			m.patterns = append(m.patterns, compiled)
		}
	}
	return m, nil
}

// compilePattern compiles one glob with '/' as the separator. Compile calls
// it once per variant of a gitwildmatch-style line (a bare pattern like
// "node_modules" is also compiled as "node_modules/**").
func compilePattern(pattern string) (glob.Glob, error) {
	return glob.Compile(pattern, '/')
}

// Patterns returns the raw deduplicated pattern list that was compiled,
// for display/debugging (e.g. "why is this file ignored").
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.raw))
	copy(out, m.raw)
	return out
}

// ShouldIgnore reports whether candidate (an absolute or root-relative path)
// should be ignored for a project rooted at root. Paths are compared
// relative to root with forward-slash separators.
func (m *Matcher) ShouldIgnore(root, candidate string) bool {
	rel := ToRelSlash(root, candidate)
	return m.ShouldIgnoreRel(rel)
}

// ShouldIgnoreRel evaluates an already root-relative, slash-normalized path.
func (m *Matcher) ShouldIgnoreRel(rel string) bool {
	if rel == "" {
		return false
	}
	for _, p := range m.patterns {
		if p.Match(rel) {
			return true
		}
	}
	// A directory-only pattern like "node_modules/**" should also ignore
	// the directory entry itself so directory-level pruning can skip
	// walking into it before seeing any of its children.
	suffixed := rel + "/**"
	for _, p := range m.patterns {
		if p.Match(suffixed) {
			return true
		}
	}
	return false
}

// ToRelSlash normalizes candidate to a forward-slash path relative to root.
// If candidate cannot be made relative (different volume, etc.) it is
// returned slash-normalized as-is.
func ToRelSlash(root, candidate string) string {
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return filepath.ToSlash(candidate)
	}
	return filepath.ToSlash(rel)
}

// LoadIgnoreFile parses a per-project ignore file: one pattern per line,
// blank lines and lines starting with '#' are skipped.
func LoadIgnoreFile(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}
