// Package export serializes the final declaration tree and the import sets
// for the external renderer: a JSON dump of every declaration plus the
// declarations-only and full-implementation cimport headers.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jerer/cythonwrapper/internal/model"
	"github.com/jerer/cythonwrapper/internal/parser"
)

// Document is the renderer-facing view of one parse: ordered declarations,
// import sets, the type table and the ordered warnings.
type Document struct {
	Header                string            `json:"header"`
	Module                string            `json:"module"`
	Declarations          []Decl            `json:"declarations"`
	DeclarationsImport    string            `json:"declarations_import"`
	ImplementationsImport string            `json:"implementations_import"`
	Typedefs              map[string]string `json:"typedefs,omitempty"`
	Warnings              []string          `json:"warnings,omitempty"`
}

// Decl is one declaration, tagged by kind. Only the fields meaningful for
// the kind are set.
type Decl struct {
	Kind          string            `json:"kind"`
	Name          string            `json:"name"`
	Namespace     string            `json:"namespace,omitempty"`
	Comment       string            `json:"comment,omitempty"`
	Base          string            `json:"base,omitempty"`
	ResultType    string            `json:"result_type,omitempty"`
	Underlying    string            `json:"underlying,omitempty"`
	CppName       string            `json:"cpp_name,omitempty"`
	ClassName     string            `json:"class_name,omitempty"`
	Type          string            `json:"type,omitempty"`
	TemplateTypes []string          `json:"template_types,omitempty"`
	Substitutions map[string]string `json:"substitutions,omitempty"`
	Constants     []string          `json:"constants,omitempty"`
	Ignored       bool              `json:"ignored,omitempty"`
	Members       []Decl            `json:"members,omitempty"`
	Params        []ParamDecl       `json:"params,omitempty"`
}

type ParamDecl struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default,omitempty"`
}

// NewDocument converts a parse result into its renderer-facing view.
func NewDocument(module string, res *parser.Result) *Document {
	doc := &Document{
		Header:                res.Tree.Filename,
		Module:                module,
		DeclarationsImport:    res.Includes.DeclarationsImport(),
		ImplementationsImport: res.Includes.ImplementationsImport(),
		Typedefs:              res.TypeInfo.Typedefs,
		Warnings:              res.Warnings,
	}
	for _, n := range res.Tree.Nodes {
		doc.Declarations = append(doc.Declarations, nodeDecl(n))
	}
	return doc
}

func nodeDecl(n model.Node) Decl {
	switch d := n.(type) {
	case *model.Class:
		return classDeclOf("class", d)
	case *model.TemplateClass:
		out := classDeclOf("template class", &d.Class)
		out.TemplateTypes = d.Types
		out.Ignored = d.Ignored
		return out
	case *model.TemplateClassSpecialization:
		out := classDeclOf("class specialization", &d.Class)
		out.CppName = d.CppName
		out.Substitutions = d.Substitutions
		return out
	case *model.Function:
		return Decl{
			Kind:       "function",
			Name:       d.Name,
			Namespace:  d.Namespace,
			Comment:    d.Comment,
			ResultType: d.ResultType,
			Params:     paramDecls(d.Params()),
		}
	case *model.TemplateFunction:
		return Decl{
			Kind:          "template function",
			Name:          d.Name,
			Namespace:     d.Namespace,
			Comment:       d.Comment,
			ResultType:    d.ResultType,
			TemplateTypes: d.Types,
			Ignored:       d.Ignored,
			Params:        paramDecls(d.Params()),
		}
	case *model.Enum:
		return Decl{
			Kind:      "enum",
			Name:      d.Name,
			Namespace: d.Namespace,
			Comment:   d.Comment,
			Constants: d.Constants,
		}
	case *model.Typedef:
		return Decl{
			Kind:       "typedef",
			Name:       d.Name,
			Namespace:  d.Namespace,
			Underlying: d.Underlying,
		}
	}
	return Decl{Kind: "unknown"}
}

func classDeclOf(kind string, c *model.Class) Decl {
	out := Decl{
		Kind:      kind,
		Name:      c.Name,
		Namespace: c.Namespace,
		Comment:   c.Comment,
		Base:      c.Base,
	}
	for _, m := range c.Members {
		out.Members = append(out.Members, memberDecl(m))
	}
	return out
}

func memberDecl(m model.Member) Decl {
	switch d := m.(type) {
	case *model.Constructor:
		return Decl{
			Kind:      "constructor",
			Name:      d.ClassName,
			ClassName: d.ClassName,
			Comment:   d.Comment,
			Params:    paramDecls(d.Params()),
		}
	case *model.Method:
		return Decl{
			Kind:       "method",
			Name:       d.Name,
			ClassName:  d.ClassName,
			Comment:    d.Comment,
			ResultType: d.ResultType,
			Params:     paramDecls(d.Params()),
		}
	case *model.TemplateMethod:
		return Decl{
			Kind:          "template method",
			Name:          d.Name,
			ClassName:     d.ClassName,
			Comment:       d.Comment,
			ResultType:    d.ResultType,
			TemplateTypes: d.Types,
			Ignored:       d.Ignored,
			Params:        paramDecls(d.Params()),
		}
	case *model.Field:
		return Decl{
			Kind:      "field",
			Name:      d.Name,
			ClassName: d.ClassName,
			Comment:   d.Comment,
			Type:      d.Type,
		}
	}
	return Decl{Kind: "unknown"}
}

func paramDecls(params []*model.Param) []ParamDecl {
	out := make([]ParamDecl, 0, len(params))
	for _, p := range params {
		pd := ParamDecl{Name: p.Name, Type: p.Type}
		if p.HasDefault {
			pd.Default = p.DefaultValue
		}
		out = append(out, pd)
	}
	return out
}

// Write serializes the document into outDir: the JSON tree dump plus the two
// import headers. It returns the paths written, in write order.
func Write(outDir string, doc *Document) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string

	treePath := filepath.Join(outDir, doc.Module+".json")
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal declaration tree: %w", err)
	}
	if err := os.WriteFile(treePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write declaration tree: %w", err)
	}
	written = append(written, treePath)

	declPath := filepath.Join(outDir, "_declarations_imports.pxd")
	if err := os.WriteFile(declPath, []byte(doc.DeclarationsImport), 0o644); err != nil {
		return nil, fmt.Errorf("write declarations imports: %w", err)
	}
	written = append(written, declPath)

	implPath := filepath.Join(outDir, doc.Module+"_imports.pyx")
	if err := os.WriteFile(implPath, []byte(doc.ImplementationsImport), 0o644); err != nil {
		return nil, fmt.Errorf("write implementation imports: %w", err)
	}
	written = append(written, implPath)

	return written, nil
}
