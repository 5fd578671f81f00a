// Package parser builds the language-agnostic declaration tree from a parsed
// C++ header. The native front end produces the parse tree and diagnostics;
// the builder converts it depth-first into the declaration model.
package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerer/cythonwrapper/internal/diag"
	"github.com/jerer/cythonwrapper/internal/frontend"
	"github.com/jerer/cythonwrapper/internal/model"
	"github.com/jerer/cythonwrapper/internal/types"
	"github.com/jerer/cythonwrapper/pkg/config"
)

// Frontend is the native compiler front end producing the parse tree.
type Frontend interface {
	Parse(ctx context.Context, path string) (*frontend.TranslationUnit, error)
}

// DiagnosticError aggregates every critical front-end diagnostic of a failed
// parse.
type DiagnosticError struct {
	Diagnostics []frontend.Diagnostic
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	b.WriteString("could not parse file correctly:")
	for _, d := range e.Diagnostics {
		b.WriteString("\n")
		b.WriteString(d.Message)
	}
	return b.String()
}

// Parser holds the state of one parse run. Each Parser gets freshly
// constructed requirement and type-table state unless the caller explicitly
// passes shared instances; nothing is accumulated across parses by default.
type Parser struct {
	includeFile string
	fe          Frontend
	includes    *types.Includes
	typeInfo    *types.TypeInfo
	specs       config.SpecializationTable
	rep         *diag.Reporter
}

// Result is everything the parse produced: the declaration tree, the
// accumulated requirement set and type table, and the ordered warnings.
type Result struct {
	Tree     *model.Tree
	Includes *types.Includes
	TypeInfo *types.TypeInfo
	Warnings []string
}

type Option func(*Parser)

// WithFrontend swaps the native front end, e.g. for tests.
func WithFrontend(fe Frontend) Option { return func(p *Parser) { p.fe = fe } }

// WithIncludes shares a requirement set across parses. Intentional opt-in:
// by default every parse accumulates into its own instance.
func WithIncludes(inc *types.Includes) Option { return func(p *Parser) { p.includes = inc } }

// WithTypeInfo shares a type table across parses.
func WithTypeInfo(ti *types.TypeInfo) Option { return func(p *Parser) { p.typeInfo = ti } }

// WithSpecializations registers the specialization table consulted for eager
// type-name registration and by the specialization pass.
func WithSpecializations(t config.SpecializationTable) Option {
	return func(p *Parser) { p.specs = t }
}

// WithReporter shares a warning reporter, letting callers collect parse and
// specialization warnings in one ordered list.
func WithReporter(rep *diag.Reporter) Option { return func(p *Parser) { p.rep = rep } }

func New(includeFile string, opts ...Option) *Parser {
	p := &Parser{
		includeFile: includeFile,
		includes:    types.NewIncludes(),
		typeInfo:    types.NewTypeInfo(),
		specs:       config.SpecializationTable{},
	}
	for _, fn := range opts {
		fn(p)
	}
	if p.rep == nil {
		p.rep = diag.NewReporter()
	}
	return p
}

// Reporter returns the warning reporter used by this parser.
func (p *Parser) Reporter() *diag.Reporter { return p.rep }

// Parse runs the front end, checks its diagnostics and converts the parse
// tree. Any diagnostic above warning severity makes the whole parse fatal;
// everything else is reported through the warning channel and processing
// continues.
func (p *Parser) Parse(ctx context.Context) (*Result, error) {
	if p.fe == nil {
		return nil, fmt.Errorf("no front end configured")
	}

	tu, err := p.fe.Parse(ctx, p.includeFile)
	if err != nil {
		return nil, err
	}
	if err := p.checkDiagnostics(tu.Diagnostics); err != nil {
		return nil, err
	}

	b := newBuilder(p.includeFile, types.NewNormalizer(p.includes), p.typeInfo, p.specs, p.rep)
	tree, err := b.build(tu.Root)
	if err != nil {
		return nil, err
	}

	// Multiple public constructors are detected by the model; reported here,
	// all constructors stay attached.
	for _, cls := range tree.Classes() {
		if cls.HasMultipleConstructors() {
			p.rep.Warnf("class %q has more than one constructor", cls.Name)
		}
	}

	return &Result{
		Tree:     tree,
		Includes: p.includes,
		TypeInfo: p.typeInfo,
		Warnings: p.rep.Warnings(),
	}, nil
}

func (p *Parser) checkDiagnostics(diags []frontend.Diagnostic) error {
	var critical []frontend.Diagnostic
	for _, d := range diags {
		if d.IsCritical() {
			critical = append(critical, d)
		} else if d.Message != "" {
			p.rep.Warnf("diagnostic: %s", d.Message)
		}
	}
	if len(critical) > 0 {
		return &DiagnosticError{Diagnostics: critical}
	}
	return nil
}
