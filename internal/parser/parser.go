package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"pni/internal/core/errors"
)

// Parser owns the Python grammar and produces syntax trees for analysis.
// A tree is only valid inside the WithTree callback; it is released when the
// callback returns.
type Parser struct {
	language *sitter.Language
}

func New() *Parser {
	return &Parser{language: sitter.NewLanguage(tree_sitter_python.Language())}
}

func (p *Parser) WithTree(content []byte, fn func(root *sitter.Node) error) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return errors.New(errors.CodeInternal, "parse failed")
	}
	defer tree.Close()

	return fn(tree.RootNode())
}

// IsSupportedPath reports whether path names a Python source file.
func (p *Parser) IsSupportedPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyi":
		return true
	}
	return false
}
