package jsast

import (
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
)

// Language identifies one of the supported tree-sitter grammars.
type Language string

// Supported languages.
const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
)

// languageFuncs maps language names to their tree-sitter GetLanguage functions.
var languageFuncs = map[Language]func() unsafe.Pointer{
	JavaScript: javascript.GetLanguage,
	TypeScript: typescript.GetLanguage,
	TSX:        tsx.GetLanguage,
}

// extensionLanguages maps lower-case file extensions to grammars.
// JSX is part of the javascript grammar.
var extensionLanguages = map[string]Language{
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
}

// enryLanguages maps linguist language names reported by enry to grammars.
var enryLanguages = map[string]Language{
	"JavaScript": JavaScript,
	"JSX":        JavaScript,
	"TypeScript": TypeScript,
	"TSX":        TSX,
}

var languageCache sync.Map

// Languages returns the supported languages in a stable order.
func Languages() []Language {
	return []Language{JavaScript, TypeScript, TSX}
}

// DefaultExtensions returns the file extensions recognized without content sniffing.
func DefaultExtensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}
}

// LanguageFor returns the grammar for the given filename based on its extension.
func LanguageFor(filename string) (Language, bool) {
	lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(filename))]

	return lang, ok
}

// DetectLanguage resolves the grammar by extension first and falls back to
// linguist detection on the content (shebang scripts, unusual extensions).
func DetectLanguage(filename string, content []byte) (Language, bool) {
	if lang, ok := LanguageFor(filename); ok {
		return lang, true
	}

	detected := enry.GetLanguage(filepath.Base(filename), content)
	if detected == "" {
		return "", false
	}

	lang, ok := enryLanguages[detected]

	return lang, ok
}

// grammar returns the tree-sitter Language for the given name, or nil if not supported.
func grammar(lang Language) *sitter.Language {
	if cached, ok := languageCache.Load(lang); ok {
		tsLang, castOK := cached.(*sitter.Language)
		if castOK {
			return tsLang
		}
	}

	fn, ok := languageFuncs[lang]
	if !ok {
		return nil
	}

	tsLang := sitter.NewLanguage(fn())
	languageCache.Store(lang, tsLang)

	return tsLang
}
