package cpp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jerer/cythonwrapper/internal/frontend"
)

// converter materializes frontend cursors from a Tree-sitter C++ parse tree.
type converter struct {
	src  []byte
	file string
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.src)
}

// convertSiblings converts the named children of a container node
// (translation unit, namespace body, class body, preprocessor branch).
// Inside class bodies trackAccess is set and access_specifier nodes switch
// the access applied to the following members.
func (c *converter) convertSiblings(n *sitter.Node, access frontend.Access, className string, trackAccess bool) []frontend.Cursor {
	var out []frontend.Cursor
	comment := ""
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "comment":
			comment = c.text(child)
			continue
		case "access_specifier":
			if trackAccess {
				access = accessFromText(strings.TrimSuffix(c.text(child), ":"))
			}
			comment = ""
			continue
		}
		out = append(out, c.convertDecl(child, access, className, comment)...)
		comment = ""
	}
	return out
}

func accessFromText(t string) frontend.Access {
	switch strings.TrimSpace(t) {
	case "public":
		return frontend.AccessPublic
	case "protected":
		return frontend.AccessProtected
	case "private":
		return frontend.AccessPrivate
	}
	return frontend.AccessInvalid
}

// convertDecl converts one declaration node. It returns a slice because a
// typedef of an anonymous struct materializes as two cursors, mirroring how
// the declaration and the alias appear as siblings in a compiler AST.
func (c *converter) convertDecl(n *sitter.Node, access frontend.Access, className, comment string) []frontend.Cursor {
	switch n.Type() {
	case "namespace_definition":
		ns := &cursor{
			kind:     frontend.KindNamespace,
			spelling: c.text(n.ChildByFieldName("name")),
			access:   access,
			file:     c.file,
			comment:  comment,
		}
		if body := n.ChildByFieldName("body"); body != nil {
			ns.children = c.convertSiblings(body, frontend.AccessPublic, "", false)
		}
		return []frontend.Cursor{ns}

	case "class_specifier":
		return []frontend.Cursor{c.convertClass(n, frontend.KindClassDecl, access, comment)}

	case "struct_specifier":
		return []frontend.Cursor{c.convertClass(n, frontend.KindStructDecl, access, comment)}

	case "enum_specifier":
		return []frontend.Cursor{c.convertEnum(n, access, comment)}

	case "template_declaration":
		return c.convertTemplate(n, access, className, comment)

	case "type_definition":
		return c.convertTypedef(n, access, comment)

	case "function_definition", "declaration", "field_declaration":
		return c.convertDeclaration(n, access, className, comment)

	case "preproc_ifdef", "preproc_if", "preproc_else", "linkage_specification":
		var out []frontend.Cursor
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "identifier", "preproc_defined", "binary_expression", "number_literal":
				continue
			case "declaration_list", "field_declaration_list":
				out = append(out, c.convertSiblings(child, access, className, className != "")...)
			default:
				out = append(out, c.convertDecl(child, access, className, "")...)
			}
		}
		return out

	case "preproc_include", "preproc_def", "preproc_function_def", "preproc_call":
		return nil

	case "expression_statement", "using_declaration", "alias_declaration",
		"static_assert_declaration", "friend_declaration":
		return []frontend.Cursor{&cursor{
			kind:     frontend.KindUnexposedDecl,
			spelling: n.Type(),
			access:   access,
			file:     c.file,
		}}

	default:
		return []frontend.Cursor{&cursor{
			kind:     frontend.KindUnknown,
			spelling: n.Type(),
			display:  n.Type(),
			access:   access,
			file:     c.file,
		}}
	}
}

func (c *converter) convertClass(n *sitter.Node, kind frontend.Kind, access frontend.Access, comment string) *cursor {
	name := c.text(n.ChildByFieldName("name"))
	cur := &cursor{
		kind:     kind,
		spelling: name,
		access:   access,
		file:     c.file,
		comment:  comment,
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "base_class_clause" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			base := child.NamedChild(j)
			switch base.Type() {
			case "access_specifier", "comment":
				continue
			}
			cur.children = append(cur.children, &cursor{
				kind:         frontend.KindBaseSpecifier,
				spelling:     c.text(base),
				typeSpelling: c.text(base),
				access:       frontend.AccessPublic,
				file:         c.file,
			})
		}
	}

	defaultAccess := frontend.AccessPrivate
	if kind == frontend.KindStructDecl {
		defaultAccess = frontend.AccessPublic
	}
	if body := n.ChildByFieldName("body"); body != nil {
		cur.children = append(cur.children, c.convertSiblings(body, defaultAccess, name, true)...)
	}
	return cur
}

func (c *converter) convertEnum(n *sitter.Node, access frontend.Access, comment string) *cursor {
	cur := &cursor{
		kind:     frontend.KindEnumDecl,
		spelling: c.text(n.ChildByFieldName("name")),
		access:   access,
		file:     c.file,
		comment:  comment,
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(i)
			if child.Type() != "enumerator" {
				continue
			}
			cur.children = append(cur.children, &cursor{
				kind:     frontend.KindEnumConstantDecl,
				spelling: c.text(child.ChildByFieldName("name")),
				access:   access,
				file:     c.file,
			})
		}
	}
	return cur
}

// convertDeclaration handles function_definition, declaration and
// field_declaration nodes: methods, constructors, free functions, fields and
// plain variables.
func (c *converter) convertDeclaration(n *sitter.Node, access frontend.Access, className, comment string) []frontend.Cursor {
	decl := n.ChildByFieldName("declarator")
	if decl == nil {
		return nil
	}

	fn, prefix := unwrapDeclarator(decl)
	if fn == nil {
		if n.Type() == "field_declaration" {
			return []frontend.Cursor{c.convertField(n, access, comment)}
		}
		return []frontend.Cursor{&cursor{
			kind:     frontend.KindVarDecl,
			spelling: declaratorName(decl, c.src),
			access:   access,
			file:     c.file,
		}}
	}

	name := declaratorName(fn.ChildByFieldName("declarator"), c.src)
	if strings.HasPrefix(name, "~") {
		return []frontend.Cursor{&cursor{
			kind:     frontend.KindDestructor,
			spelling: name,
			access:   access,
			file:     c.file,
		}}
	}

	resultType := c.text(n.ChildByFieldName("type"))
	if resultType != "" && prefix != "" {
		resultType += prefix
	}

	kind := frontend.KindFunctionDecl
	switch {
	case className != "" && (name == className || resultType == ""):
		kind = frontend.KindConstructor
	case className != "":
		kind = frontend.KindMethod
	}

	cur := &cursor{
		kind:       kind,
		spelling:   name,
		resultType: resultType,
		access:     access,
		static:     hasStorageClass(n, "static", c.src),
		file:       c.file,
		comment:    comment,
	}
	cur.children = c.convertParams(fn)
	return []frontend.Cursor{cur}
}

func (c *converter) convertParams(fn *sitter.Node) []frontend.Cursor {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []frontend.Cursor
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "parameter_declaration", "optional_parameter_declaration":
		default:
			continue
		}
		cur := &cursor{
			kind:         frontend.KindParmDecl,
			spelling:     declaratorName(p.ChildByFieldName("declarator"), c.src),
			typeSpelling: c.typeWithDeclarator(p),
			access:       frontend.AccessPublic,
			file:         c.file,
		}
		if dv := p.ChildByFieldName("default_value"); dv != nil {
			if lit := c.literalCursor(dv); lit != nil {
				cur.children = append(cur.children, lit)
			}
		}
		out = append(out, cur)
	}
	return out
}

func (c *converter) convertField(n *sitter.Node, access frontend.Access, comment string) frontend.Cursor {
	return &cursor{
		kind:         frontend.KindFieldDecl,
		spelling:     declaratorName(n.ChildByFieldName("declarator"), c.src),
		typeSpelling: c.typeWithDeclarator(n),
		access:       access,
		file:         c.file,
		comment:      comment,
	}
}

func (c *converter) convertTypedef(n *sitter.Node, access frontend.Access, comment string) []frontend.Cursor {
	typ := n.ChildByFieldName("type")
	alias := declaratorName(n.ChildByFieldName("declarator"), c.src)
	if typ == nil || alias == "" {
		return nil
	}

	td := &cursor{
		kind:     frontend.KindTypedefDecl,
		spelling: alias,
		display:  alias,
		access:   access,
		file:     c.file,
		comment:  comment,
	}

	switch typ.Type() {
	case "struct_specifier", "class_specifier":
		if typ.ChildByFieldName("body") != nil {
			// The declaration itself surfaces as a sibling cursor; the
			// typedef's underlying spelling names it the way a compiler
			// front end spells an elaborated type.
			structName := c.text(typ.ChildByFieldName("name"))
			kind := frontend.KindStructDecl
			if typ.Type() == "class_specifier" {
				kind = frontend.KindClassDecl
			}
			sc := c.convertClass(typ, kind, access, "")
			if structName == "" {
				td.underlying = "struct " + alias
			} else {
				td.underlying = "struct " + structName
			}
			return []frontend.Cursor{sc, td}
		}
		td.underlying = c.text(typ)
	default:
		td.underlying = c.text(typ)
	}
	return []frontend.Cursor{td}
}

func (c *converter) convertTemplate(n *sitter.Node, access frontend.Access, className, comment string) []frontend.Cursor {
	var typeParams []frontend.Cursor
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			switch p.Type() {
			case "type_parameter_declaration", "optional_type_parameter_declaration",
				"variadic_type_parameter_declaration":
				name := c.text(p.ChildByFieldName("name"))
				if name == "" && p.NamedChildCount() > 0 {
					name = c.text(p.NamedChild(0))
				}
				typeParams = append(typeParams, &cursor{
					kind:     frontend.KindTemplateTypeParameter,
					spelling: name,
					access:   frontend.AccessPublic,
					file:     c.file,
				})
			case "parameter_declaration", "optional_parameter_declaration":
				typeParams = append(typeParams, &cursor{
					kind:     frontend.KindTemplateNonTypeParameter,
					spelling: declaratorName(p.ChildByFieldName("declarator"), c.src),
					access:   frontend.AccessPublic,
					file:     c.file,
				})
			}
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "class_specifier", "struct_specifier":
			kind := frontend.KindClassDecl
			if child.Type() == "struct_specifier" {
				kind = frontend.KindStructDecl
			}
			cc := c.convertClass(child, kind, access, comment)
			cc.kind = frontend.KindClassTemplate
			cc.children = append(typeParams, cc.children...)
			return []frontend.Cursor{cc}

		case "function_definition", "declaration", "field_declaration":
			decls := c.convertDeclaration(child, access, className, comment)
			if len(decls) == 1 {
				if fc, ok := decls[0].(*cursor); ok &&
					(fc.kind == frontend.KindFunctionDecl || fc.kind == frontend.KindMethod) {
					fc.kind = frontend.KindFunctionTemplate
					fc.children = append(typeParams, fc.children...)
				}
			}
			return decls
		}
	}
	return nil
}

// literalCursor classifies a default-value node into a literal cursor, or nil
// when the expression is not a plain literal.
func (c *converter) literalCursor(n *sitter.Node) frontend.Cursor {
	text := c.text(n)
	switch n.Type() {
	case "number_literal":
		kind := frontend.KindIntegerLiteral
		if isFloatLiteral(text) {
			kind = frontend.KindFloatingLiteral
		}
		return &cursor{kind: kind, spelling: text, file: c.file, tokens: []string{text}}
	case "true", "false":
		return &cursor{kind: frontend.KindBoolLiteral, spelling: text, file: c.file, tokens: []string{text}}
	case "string_literal":
		inner := strings.Trim(text, `"`)
		return &cursor{kind: frontend.KindStringLiteral, spelling: inner, display: inner, file: c.file, tokens: []string{inner}}
	}
	return nil
}

func isFloatLiteral(text string) bool {
	t := strings.ToLower(text)
	if strings.HasPrefix(t, "0x") {
		return false
	}
	return strings.ContainsAny(t, ".ef")
}

// typeWithDeclarator assembles the declared type spelling of a field or
// parameter from its type node and the pointer/reference/array markers on the
// declarator chain.
func (c *converter) typeWithDeclarator(n *sitter.Node) string {
	qual := ""
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "type_qualifier" {
			qual = c.text(child) + " "
			break
		}
	}

	base := qual + c.text(n.ChildByFieldName("type"))
	d := n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Type() {
		case "pointer_declarator", "abstract_pointer_declarator":
			base += " *"
		case "reference_declarator", "abstract_reference_declarator":
			if strings.HasPrefix(c.text(d), "&&") {
				base += " &&"
			} else {
				base += " &"
			}
		case "array_declarator", "abstract_array_declarator":
			base += " [" + c.text(d.ChildByFieldName("size")) + "]"
		default:
			return base
		}
		d = d.ChildByFieldName("declarator")
	}
	return base
}

// unwrapDeclarator walks a declarator chain down to a function_declarator,
// collecting pointer/reference markers that belong to the result type.
// It returns nil when the chain never reaches a function declarator.
func unwrapDeclarator(d *sitter.Node) (fn *sitter.Node, prefix string) {
	for d != nil {
		switch d.Type() {
		case "function_declarator":
			return d, prefix
		case "pointer_declarator":
			prefix += " *"
		case "reference_declarator":
			prefix += " &"
		default:
			return nil, ""
		}
		d = d.ChildByFieldName("declarator")
	}
	return nil, ""
}

// declaratorName descends a declarator chain to its innermost name.
func declaratorName(d *sitter.Node, src []byte) string {
	for d != nil {
		switch d.Type() {
		case "identifier", "field_identifier", "type_identifier",
			"qualified_identifier", "destructor_name", "operator_name":
			return d.Content(src)
		}
		inner := d.ChildByFieldName("declarator")
		if inner == nil {
			// reference_declarator keeps its inner declarator as an
			// unnamed child.
			if d.NamedChildCount() > 0 {
				inner = d.NamedChild(0)
			} else {
				return ""
			}
		}
		d = inner
	}
	return ""
}

func hasStorageClass(n *sitter.Node, storage string, src []byte) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "storage_class_specifier" && child.Content(src) == storage {
			return true
		}
	}
	return false
}
