// Package jsast parses JavaScript and TypeScript sources with tree-sitter and
// exposes the import-related syntax (import declarations and call
// expressions) as a small, grammar-independent model.
package jsast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for parser operations.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	errNoRootNode          = errors.New("jsast: no root node")
	errPoolType            = errors.New("jsast: pool returned unexpected type")
)

// Parser parses source files into trees. A Parser is safe for concurrent use;
// tree-sitter parsers are pooled per language.
type Parser struct {
	pools map[Language]*sync.Pool
}

// NewParser creates a parser for all supported languages.
func NewParser() *Parser {
	pools := make(map[Language]*sync.Pool, len(languageFuncs))

	for _, lang := range Languages() {
		tsLang := grammar(lang)

		pools[lang] = &sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(tsLang)

				return tsParser
			},
		}
	}

	return &Parser{pools: pools}
}

// Parse parses content using the grammar selected for filename.
// The returned tree must be closed by the caller.
func (p *Parser) Parse(ctx context.Context, filename string, content []byte) (*Tree, error) {
	lang, ok := DetectLanguage(filename, content)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filename)
	}

	return p.ParseLanguage(ctx, lang, content)
}

// ParseLanguage parses content with an explicit grammar.
func (p *Parser) ParseLanguage(ctx context.Context, lang Language, content []byte) (*Tree, error) {
	pool, ok := p.pools[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", lang, err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		tree.Close()

		return nil, errNoRootNode
	}

	return &Tree{tree: tree, source: content, lang: lang}, nil
}

// Tree is a parsed source file.
type Tree struct {
	tree   *sitter.Tree
	source []byte
	lang   Language
}

// Language returns the grammar the tree was parsed with.
func (t *Tree) Language() Language {
	return t.lang
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}
