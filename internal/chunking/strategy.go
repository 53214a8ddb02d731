package chunking

import (
	"path/filepath"
	"strings"

	"github.com/augmentorium/augmentorium/internal/model"
)

// Strategy names one of the polymorphic chunking strategies.
type Strategy string

const (
	StrategyAST             Strategy = "ast"
	StrategySlidingWindow   Strategy = "sliding_window"
	StrategyJSONObject      Strategy = "json_object"
	StrategyYAMLDocument    Strategy = "yaml_document"
	StrategyMarkdownSection Strategy = "markdown_section"
	StrategyPlaintext       Strategy = "plaintext"
)

// formatExtensions maps a file extension to its format-specific strategy,
// used when no per-language config override applies and AST extraction is
// unavailable.
var formatExtensions = map[string]Strategy{
	".json":     StrategyJSONObject,
	".yaml":     StrategyYAMLDocument,
	".yml":      StrategyYAMLDocument,
	".md":       StrategyMarkdownSection,
	".markdown": StrategyMarkdownSection,
}

// Select picks the chunking strategy for path: an explicit per-extension
// override wins, otherwise AST if a parsed structure is available,
// otherwise a format-specific strategy by extension, otherwise
// sliding-window.
func Select(path string, hasStructure bool, override Strategy) Strategy {
	if override != "" {
		return override
	}
	if hasStructure {
		return StrategyAST
	}
	ext := strings.ToLower(filepath.Ext(path))
	if s, ok := formatExtensions[ext]; ok {
		return s
	}
	return StrategySlidingWindow
}

// ChunkFile runs strategy over source and returns the resulting chunks.
// structure is only consulted for StrategyAST and may be nil otherwise.
func ChunkFile(strategy Strategy, filePath, language string, source []byte, structure *model.CodeStructure, opts Options) []model.CodeChunk {
	switch strategy {
	case StrategyAST:
		if structure == nil {
			return SlidingWindow(filePath, language, source, opts)
		}
		return AST(filePath, language, source, structure)
	case StrategyJSONObject:
		return JSONObject(filePath, language, source)
	case StrategyYAMLDocument:
		return YAMLDocument(filePath, language, source)
	case StrategyMarkdownSection:
		return MarkdownSection(filePath, language, source)
	case StrategyPlaintext:
		return Plaintext(filePath, language, source)
	default:
		return SlidingWindow(filePath, language, source, opts)
	}
}
