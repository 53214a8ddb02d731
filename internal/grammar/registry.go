// Package grammar implements the Grammar Registry (C3): a static
// extension -> language-id map, and a dynamic language-id -> parser-handle
// map. Parser handles are opaque *sitter.Language capability values; once a
// language fails to load it stays unavailable for the process lifetime.
package grammar

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tsjava "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tsphp "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tspython "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tsruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tsrust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language is a stable identifier for a programming/markup language, shared
// across the grammar registry, parser, chunker, and relationship extractor.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Java       Language = "java"
	C          Language = "c"
	Cpp        Language = "cpp"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Rust       Language = "rust"
	Unknown    Language = ""
)

// defaultExtensions is the static extension -> language id map. Extensions
// are matched case-sensitively on the lowercased suffix including the
// leading dot.
var defaultExtensions = map[string]Language{
	".py":   Python,
	".pyi":  Python,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".ts":   TypeScript,
	".tsx":  TSX,
	".java": Java,
	".c":    C,
	".h":    C,
	".cpp":  Cpp,
	".cc":   Cpp,
	".hpp":  Cpp,
	".php":  PHP,
	".rb":   Ruby,
	".rs":   Rust,
}

// loaders map a Language to a factory producing its *sitter.Language. cpp
// reuses the C grammar's bindings (tree-sitter-c does not ship a separate
// C++ grammar here; C structural detection covers the subset of C++
// structure extraction needs — imports only).
var loaders = map[Language]func() *sitter.Language{
	Python:     func() *sitter.Language { return sitter.NewLanguage(tspython.Language()) },
	JavaScript: func() *sitter.Language { return sitter.NewLanguage(tstypescript.LanguageTSX()) },
	TypeScript: func() *sitter.Language { return sitter.NewLanguage(tstypescript.LanguageTypescript()) },
	TSX:        func() *sitter.Language { return sitter.NewLanguage(tstypescript.LanguageTSX()) },
	Java:       func() *sitter.Language { return sitter.NewLanguage(tsjava.Language()) },
	C:          func() *sitter.Language { return sitter.NewLanguage(tsc.Language()) },
	Cpp:        func() *sitter.Language { return sitter.NewLanguage(tsc.Language()) },
	PHP:        func() *sitter.Language { return sitter.NewLanguage(tsphp.LanguagePHP()) },
	Ruby:       func() *sitter.Language { return sitter.NewLanguage(tsruby.Language()) },
	Rust:       func() *sitter.Language { return sitter.NewLanguage(tsrust.Language()) },
}

// ErrUnavailable is reported when a language id has no parser available,
// either because it was never in loaders or because it failed to load once.
type ErrUnavailable struct {
	Language Language
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("grammar: parser unavailable for language %q", e.Language)
}

// Registry maps file extensions to language ids and lazily loads (and
// memoizes, including permanent failures) parser handles.
type Registry struct {
	mu         sync.Mutex
	extensions map[string]Language
	loaded     map[Language]*sitter.Language
	failed     map[Language]struct{}
}

// NewRegistry builds a Registry seeded with the default extension map, plus
// any additional per-language-config overrides (extension -> language id).
func NewRegistry(overrides map[string]Language) *Registry {
	ext := make(map[string]Language, len(defaultExtensions)+len(overrides))
	for k, v := range defaultExtensions {
		ext[k] = v
	}
	for k, v := range overrides {
		ext[strings.ToLower(k)] = v
	}
	return &Registry{
		extensions: ext,
		loaded:     make(map[Language]*sitter.Language),
		failed:     make(map[Language]struct{}),
	}
}

// Detect returns the language id for path's extension, or Unknown (empty
// string) if none is configured.
func (r *Registry) Detect(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := r.extensions[ext]; ok {
		return lang
	}
	return Unknown
}

// Load returns the parser handle for lang, or ErrUnavailable. Failures are
// permanent for the Registry's lifetime.
func (r *Registry) Load(lang Language) (*sitter.Language, error) {
	if lang == Unknown {
		return nil, &ErrUnavailable{Language: lang}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.loaded[lang]; ok {
		return h, nil
	}
	if _, failed := r.failed[lang]; failed {
		return nil, &ErrUnavailable{Language: lang}
	}

	factory, ok := loaders[lang]
	if !ok {
		r.failed[lang] = struct{}{}
		return nil, &ErrUnavailable{Language: lang}
	}

	handle := factory()
	if handle == nil {
		r.failed[lang] = struct{}{}
		return nil, &ErrUnavailable{Language: lang}
	}
	r.loaded[lang] = handle
	return handle, nil
}

// Available reports whether lang currently has (or can load) a parser —
// used for read-only status reporting. It goes through Load, so a load
// failure it triggers is memoized like any other.
func (r *Registry) Available(lang Language) bool {
	_, err := r.Load(lang)
	return err == nil
}
