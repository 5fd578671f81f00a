// Package frontend defines the contract the tree builder consumes from the
// native C++ parser: cursors over a fully materialized parse tree plus the
// diagnostics the parse produced. Implementations live in subpackages.
package frontend

// Kind identifies what a cursor declares or represents.
type Kind int

const (
	KindUnknown Kind = iota

	KindTranslationUnit

	// Structural declarations
	KindNamespace
	KindClassDecl
	KindStructDecl
	KindClassTemplate
	KindFunctionDecl
	KindFunctionTemplate
	KindMethod
	KindConstructor
	KindFieldDecl
	KindParmDecl
	KindTypedefDecl
	KindEnumDecl
	KindEnumConstantDecl
	KindBaseSpecifier
	KindTemplateTypeParameter
	KindTemplateNonTypeParameter

	// Literals (parameter default values)
	KindIntegerLiteral
	KindFloatingLiteral
	KindBoolLiteral
	KindStringLiteral

	// Recognized but semantically inert for the declaration tree
	KindCompoundStmt
	KindAccessSpecDecl
	KindCallExpr
	KindDeclRefExpr
	KindMemberRef
	KindNamespaceRef
	KindTemplateRef
	KindTypeRef
	KindUnexposedExpr
	KindUnexposedDecl
	KindDestructor
	KindVarDecl
	KindNewExpr
)

var kindNames = map[Kind]string{
	KindUnknown:                  "Unknown",
	KindTranslationUnit:          "TranslationUnit",
	KindNamespace:                "Namespace",
	KindClassDecl:                "ClassDecl",
	KindStructDecl:               "StructDecl",
	KindClassTemplate:            "ClassTemplate",
	KindFunctionDecl:             "FunctionDecl",
	KindFunctionTemplate:         "FunctionTemplate",
	KindMethod:                   "Method",
	KindConstructor:              "Constructor",
	KindFieldDecl:                "FieldDecl",
	KindParmDecl:                 "ParmDecl",
	KindTypedefDecl:              "TypedefDecl",
	KindEnumDecl:                 "EnumDecl",
	KindEnumConstantDecl:         "EnumConstantDecl",
	KindBaseSpecifier:            "BaseSpecifier",
	KindTemplateTypeParameter:    "TemplateTypeParameter",
	KindTemplateNonTypeParameter: "TemplateNonTypeParameter",
	KindIntegerLiteral:           "IntegerLiteral",
	KindFloatingLiteral:          "FloatingLiteral",
	KindBoolLiteral:              "BoolLiteral",
	KindStringLiteral:            "StringLiteral",
	KindCompoundStmt:             "CompoundStmt",
	KindAccessSpecDecl:           "AccessSpecDecl",
	KindCallExpr:                 "CallExpr",
	KindDeclRefExpr:              "DeclRefExpr",
	KindMemberRef:                "MemberRef",
	KindNamespaceRef:             "NamespaceRef",
	KindTemplateRef:              "TemplateRef",
	KindTypeRef:                  "TypeRef",
	KindUnexposedExpr:            "UnexposedExpr",
	KindUnexposedDecl:            "UnexposedDecl",
	KindDestructor:               "Destructor",
	KindVarDecl:                  "VarDecl",
	KindNewExpr:                  "NewExpr",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Access is a member's access specifier.
type Access int

const (
	AccessInvalid Access = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// Severity of a front-end diagnostic. Anything strictly above
// SeverityWarning makes the parse fatal.
type Severity int

const (
	SeverityIgnored Severity = iota
	SeverityNote
	SeverityWarning
	SeverityError
	SeverityFatal
)

// Diagnostic is one message produced while the front end parsed the input.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// IsCritical reports whether this diagnostic must abort the whole parse.
func (d Diagnostic) IsCritical() bool {
	return d.Severity > SeverityWarning
}

// Cursor is one node of the native parse tree. The tree is fully materialized
// before traversal begins; Children never blocks on I/O.
type Cursor interface {
	Kind() Kind
	// Spelling is the bare declared name.
	Spelling() string
	// DisplayName may include template arguments, e.g. "Vec<T>".
	DisplayName() string
	// TypeSpelling is the declared type of fields, parameters and typedefs,
	// and the base type of base specifiers.
	TypeSpelling() string
	// ResultTypeSpelling is the declared result type of function-like cursors.
	ResultTypeSpelling() string
	// UnderlyingTypedefType is the aliased type of typedef cursors.
	UnderlyingTypedefType() string
	Access() Access
	IsStatic() bool
	// File is the source file this cursor is attributed to.
	File() string
	// RawComment is the doc comment attached to the declaration, passed
	// through as an opaque string.
	RawComment() string
	Children() []Cursor
	// Tokens returns the literal tokens of literal cursors.
	Tokens() []string
}

// TranslationUnit is the front end's result for one input file.
type TranslationUnit struct {
	Root        Cursor
	Diagnostics []Diagnostic
}
