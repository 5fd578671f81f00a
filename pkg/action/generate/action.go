// Package generate runs one full wrapper pass: parse the header, expand the
// registered template specializations and write the exported artifacts.
package generate

import (
	"context"
	"fmt"

	"github.com/jerer/cythonwrapper/internal/export"
	"github.com/jerer/cythonwrapper/internal/frontend/cpp"
	"github.com/jerer/cythonwrapper/internal/parser"
	"github.com/jerer/cythonwrapper/internal/specialize"
	"github.com/jerer/cythonwrapper/pkg/config"
)

// Result reports what the pass produced: the written files and the exported
// document, which callers use for summaries and diffing.
type Result struct {
	Files    []string
	Document *export.Document
	Warnings []string
}

// Run parses cfg.Header, expands specializations and writes the artifacts
// into cfg.OutDir.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	cfg.Normalize()
	if cfg.Header == "" {
		return nil, fmt.Errorf("no header to wrap")
	}

	fe := cpp.New()
	fe.IncludeDirs = cfg.IncludeDirs
	fe.ExtraFlags = cfg.ExtraFlags

	p := parser.New(cfg.Header,
		parser.WithFrontend(fe),
		parser.WithSpecializations(cfg.Specializations),
	)
	res, err := p.Parse(ctx)
	if err != nil {
		return nil, err
	}

	specialize.Expand(res.Tree, cfg.Specializations, p.Reporter())
	res.Warnings = p.Reporter().Warnings()

	doc := export.NewDocument(cfg.ModuleName, res)
	files, err := export.Write(cfg.OutDir, doc)
	if err != nil {
		return nil, err
	}

	return &Result{Files: files, Document: doc, Warnings: res.Warnings}, nil
}
