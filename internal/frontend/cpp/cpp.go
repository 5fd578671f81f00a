// Package cpp is the native C++ front end: it parses a single header with
// Tree-sitter's C++ grammar and exposes the result through the frontend
// cursor contract.
package cpp

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/jerer/cythonwrapper/internal/frontend"
)

// Frontend parses C++ headers. IncludeDirs and ExtraFlags are accepted for
// front-end compatibility and passed through opaquely; the Tree-sitter
// grammar parses a single file without preprocessing includes.
type Frontend struct {
	IncludeDirs []string
	ExtraFlags  []string
}

func New() *Frontend {
	return &Frontend{}
}

// Parse reads and parses the file at path.
func (f *Frontend) Parse(ctx context.Context, path string) (*frontend.TranslationUnit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return f.ParseBytes(ctx, path, content)
}

// ParseBytes parses in-memory content attributed to path. The whole parse
// tree is materialized into cursors before the translation unit is returned.
func (f *Frontend) ParseBytes(ctx context.Context, path string, content []byte) (*frontend.TranslationUnit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	defer tree.Close()

	conv := &converter{src: content, file: path}
	root := &cursor{
		kind:     frontend.KindTranslationUnit,
		spelling: path,
		file:     path,
		children: conv.convertSiblings(tree.RootNode(), frontend.AccessPublic, "", false),
	}

	diags := collectDiagnostics(tree.RootNode(), content)

	return &frontend.TranslationUnit{Root: root, Diagnostics: diags}, nil
}

// collectDiagnostics turns grammar error and missing nodes into diagnostics
// of error severity.
func collectDiagnostics(n *sitter.Node, src []byte) []frontend.Diagnostic {
	if !n.HasError() {
		return nil
	}

	var diags []frontend.Diagnostic
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node.IsError() || node.IsMissing() {
			excerpt := node.Content(src)
			if len(excerpt) > 40 {
				excerpt = excerpt[:40]
			}
			diags = append(diags, frontend.Diagnostic{
				Severity: frontend.SeverityError,
				Message: fmt.Sprintf("syntax error at line %d near %q",
					node.StartPoint().Row+1, excerpt),
			})
			return
		}
		if !node.HasError() {
			return
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(n)
	return diags
}
