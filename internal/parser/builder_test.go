package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jerer/cythonwrapper/internal/diag"
	"github.com/jerer/cythonwrapper/internal/frontend"
	"github.com/jerer/cythonwrapper/internal/model"
	"github.com/jerer/cythonwrapper/internal/types"
	"github.com/jerer/cythonwrapper/pkg/config"
)

const testFile = "test.h"

// fakeCursor materializes a hand-built parse tree for builder tests, keeping
// them independent of the native grammar.
type fakeCursor struct {
	kind       frontend.Kind
	spelling   string
	display    string
	typ        string
	result     string
	underlying string
	access     frontend.Access
	static     bool
	file       string
	comment    string
	tokens     []string
	children   []frontend.Cursor
}

func (c *fakeCursor) Kind() frontend.Kind { return c.kind }
func (c *fakeCursor) Spelling() string    { return c.spelling }
func (c *fakeCursor) DisplayName() string {
	if c.display != "" {
		return c.display
	}
	return c.spelling
}
func (c *fakeCursor) TypeSpelling() string          { return c.typ }
func (c *fakeCursor) ResultTypeSpelling() string    { return c.result }
func (c *fakeCursor) UnderlyingTypedefType() string { return c.underlying }
func (c *fakeCursor) Access() frontend.Access       { return c.access }
func (c *fakeCursor) IsStatic() bool                { return c.static }
func (c *fakeCursor) File() string                  { return c.file }
func (c *fakeCursor) RawComment() string            { return c.comment }
func (c *fakeCursor) Children() []frontend.Cursor   { return c.children }
func (c *fakeCursor) Tokens() []string              { return c.tokens }

func fake(kind frontend.Kind, spelling string, children ...frontend.Cursor) *fakeCursor {
	return &fakeCursor{kind: kind, spelling: spelling, file: testFile, children: children}
}

func unit(children ...frontend.Cursor) frontend.Cursor {
	return &fakeCursor{kind: frontend.KindTranslationUnit, file: testFile, children: children}
}

func newTestBuilder(specs config.SpecializationTable) (*builder, *types.Includes, *types.TypeInfo, *diag.Reporter) {
	inc := types.NewIncludes()
	ti := types.NewTypeInfo()
	rep := diag.NewReporter()
	b := newBuilder(testFile, types.NewNormalizer(inc), ti, specs, rep)
	return b, inc, ti, rep
}

func TestBuildClass(t *testing.T) {
	base := fake(frontend.KindBaseSpecifier, "")
	base.typ = "Base"

	ctorParam := fake(frontend.KindParmDecl, "name")
	ctorParam.typ = "const std::string &"
	ctor := fake(frontend.KindConstructor, "A", ctorParam)
	ctor.access = frontend.AccessPublic

	size := fake(frontend.KindMethod, "size")
	size.access = frontend.AccessPublic
	size.result = "int"

	hidden := fake(frontend.KindMethod, "hidden")
	hidden.access = frontend.AccessPrivate

	data := fake(frontend.KindFieldDecl, "data")
	data.access = frontend.AccessPublic
	data.typ = "std::vector<double>"

	secret := fake(frontend.KindFieldDecl, "secret")
	secret.access = frontend.AccessProtected
	secret.typ = "int"

	cls := fake(frontend.KindClassDecl, "A", base, ctor, size, hidden, data, secret)
	cls.comment = "// a class"

	b, inc, ti, _ := newTestBuilder(nil)
	tree, err := b.build(unit(cls))
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 1)

	got, ok := tree.Nodes[0].(*model.Class)
	require.True(t, ok)
	require.Equal(t, "A", got.Name)
	require.Equal(t, "Base", got.Base)
	require.Equal(t, "// a class", got.Comment)
	require.Len(t, got.Members, 3)

	gotCtor, ok := got.Members[0].(*model.Constructor)
	require.True(t, ok)
	require.Len(t, gotCtor.Params(), 1)
	require.Equal(t, "name", gotCtor.Params()[0].Name)
	require.Equal(t, "string", gotCtor.Params()[0].Type)

	gotMethod, ok := got.Members[1].(*model.Method)
	require.True(t, ok)
	require.Equal(t, "size", gotMethod.Name)
	require.Equal(t, "int", gotMethod.ResultType)
	require.Equal(t, "A", gotMethod.ClassName)

	gotField, ok := got.Members[2].(*model.Field)
	require.True(t, ok)
	require.Equal(t, "data", gotField.Name)
	require.Equal(t, "vector[double]", gotField.Type)

	require.True(t, ti.IsClass("A"))
	require.True(t, inc.Has("vector"))
	require.True(t, inc.Has("string"))
	require.True(t, inc.NeedsDeref())
}

func TestSecondBaseClassIsIgnored(t *testing.T) {
	first := fake(frontend.KindBaseSpecifier, "")
	first.typ = "First"
	second := fake(frontend.KindBaseSpecifier, "")
	second.typ = "Second"

	b, _, _, rep := newTestBuilder(nil)
	tree, err := b.build(unit(fake(frontend.KindClassDecl, "A", first, second)))
	require.NoError(t, err)

	got := tree.Nodes[0].(*model.Class)
	require.Equal(t, "First", got.Base)
	require.Len(t, rep.Warnings(), 1)
	require.Contains(t, rep.Warnings()[0], "already has a base class")
}

func TestNestedNamespaces(t *testing.T) {
	inner := fake(frontend.KindNamespace, "inner", fake(frontend.KindFunctionDecl, "f"))
	outer := fake(frontend.KindNamespace, "outer", inner, fake(frontend.KindFunctionDecl, "g"))

	b, _, _, _ := newTestBuilder(nil)
	tree, err := b.build(unit(outer, fake(frontend.KindFunctionDecl, "h")))
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 3)

	require.Equal(t, "outer::inner", tree.Nodes[0].(*model.Function).Namespace)
	require.Equal(t, "outer", tree.Nodes[1].(*model.Function).Namespace)
	require.Equal(t, "", tree.Nodes[2].(*model.Function).Namespace)
}

func TestOtherFileIsSkipped(t *testing.T) {
	included := fake(frontend.KindClassDecl, "FromElsewhere")
	included.file = "other.h"

	b, _, ti, _ := newTestBuilder(nil)
	tree, err := b.build(unit(included, fake(frontend.KindClassDecl, "Local")))
	require.NoError(t, err)

	require.Len(t, tree.Nodes, 1)
	require.Equal(t, "Local", tree.Nodes[0].(*model.Class).Name)
	require.False(t, ti.IsClass("FromElsewhere"))
}

func TestParamOutsideFunctionIsDropped(t *testing.T) {
	stray := fake(frontend.KindParmDecl, "x")
	stray.typ = "int"

	b, _, _, rep := newTestBuilder(nil)
	tree, err := b.build(unit(stray))
	require.NoError(t, err)
	require.Empty(t, tree.Nodes)
	require.Len(t, rep.Warnings(), 1)
	require.Contains(t, rep.Warnings()[0], "no function in current context")
}

func TestMethodOutsideClassIsSkipped(t *testing.T) {
	m := fake(frontend.KindMethod, "orphan")
	m.access = frontend.AccessPublic

	b, _, _, rep := newTestBuilder(nil)
	tree, err := b.build(unit(m))
	require.NoError(t, err)
	require.Empty(t, tree.Nodes)
	require.Len(t, rep.Warnings(), 1)
	require.Contains(t, rep.Warnings()[0], "outside any class")
}

func TestLiteralDefaults(t *testing.T) {
	intLit := fake(frontend.KindIntegerLiteral, "")
	intLit.tokens = []string{"42"}
	a := fake(frontend.KindParmDecl, "a", intLit)
	a.typ = "int"

	floatLit := fake(frontend.KindFloatingLiteral, "")
	floatLit.tokens = []string{"3.14"}
	b2 := fake(frontend.KindParmDecl, "b", floatLit)
	b2.typ = "double"

	boolLit := fake(frontend.KindBoolLiteral, "")
	boolLit.tokens = []string{"true"}
	c := fake(frontend.KindParmDecl, "c", boolLit)
	c.typ = "bool"

	strLit := fake(frontend.KindStringLiteral, "hello")
	d := fake(frontend.KindParmDecl, "d", strLit)
	d.typ = "std::string"

	// A floating literal on an int parameter is not a valid default.
	mismatch := fake(frontend.KindFloatingLiteral, "")
	mismatch.tokens = []string{"2.5"}
	e := fake(frontend.KindParmDecl, "e", mismatch)
	e.typ = "int"

	fn := fake(frontend.KindFunctionDecl, "f", a, b2, c, d, e)

	b, _, _, _ := newTestBuilder(nil)
	tree, err := b.build(unit(fn))
	require.NoError(t, err)

	params := tree.Nodes[0].(*model.Function).Params()
	require.Len(t, params, 5)

	require.True(t, params[0].HasDefault)
	require.Equal(t, int64(42), params[0].DefaultValue)

	require.True(t, params[1].HasDefault)
	require.Equal(t, 3.14, params[1].DefaultValue)

	require.True(t, params[2].HasDefault)
	require.Equal(t, true, params[2].DefaultValue)

	require.True(t, params[3].HasDefault)
	require.Equal(t, "hello", params[3].DefaultValue)

	require.False(t, params[4].HasDefault)
}

func TestUnnamedStructTypedef(t *testing.T) {
	x := fake(frontend.KindFieldDecl, "x")
	x.access = frontend.AccessPublic
	x.typ = "double"
	y := fake(frontend.KindFieldDecl, "y")
	y.access = frontend.AccessPublic
	y.typ = "double"

	anon := fake(frontend.KindStructDecl, "", x, y)

	alias := fake(frontend.KindTypedefDecl, "Point")
	alias.underlying = "struct Point"

	b, _, ti, _ := newTestBuilder(nil)
	tree, err := b.build(unit(anon, alias))
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 1)

	got := tree.Nodes[0].(*model.Class)
	require.Equal(t, "Point", got.Name)
	require.Len(t, got.Members, 2)
	for _, m := range got.Members {
		require.Equal(t, "Point", m.(*model.Field).ClassName)
	}
	require.True(t, ti.IsClass("Point"))
}

func TestTypedefWithoutUnnamedStructFails(t *testing.T) {
	alias := fake(frontend.KindTypedefDecl, "Point")
	alias.underlying = "struct Point"

	b, _, _, _ := newTestBuilder(nil)
	_, err := b.build(unit(alias))
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not match any unnamed struct")
}

func TestOrdinaryTypedef(t *testing.T) {
	alias := fake(frontend.KindTypedefDecl, "Scalar")
	alias.underlying = "double"

	b, _, ti, _ := newTestBuilder(nil)
	tree, err := b.build(unit(alias))
	require.NoError(t, err)

	got := tree.Nodes[0].(*model.Typedef)
	require.Equal(t, "Scalar", got.Name)
	require.Equal(t, "double", got.Underlying)
	require.Equal(t, "double", ti.UnderlyingType("Scalar"))
}

func TestTemplateClass(t *testing.T) {
	tparam := fake(frontend.KindTemplateTypeParameter, "T")
	get := fake(frontend.KindMethod, "get")
	get.access = frontend.AccessPublic
	get.result = "T"

	tc := fake(frontend.KindClassTemplate, "Vec", tparam, get)
	tc.display = "Vec<T>"

	specs := config.SpecializationTable{
		"Vec": {{Name: "VecD", Substitutions: map[string]string{"T": "double"}}},
	}
	b, _, ti, _ := newTestBuilder(specs)
	tree, err := b.build(unit(tc))
	require.NoError(t, err)

	got := tree.Nodes[0].(*model.TemplateClass)
	require.Equal(t, "Vec", got.Name)
	require.Equal(t, []string{"T"}, got.Types)
	require.Len(t, got.Members, 1)

	// Configured concrete names are registered eagerly.
	require.True(t, ti.IsClass("Vec"))
	require.True(t, ti.IsClass("VecD"))
}

func TestTemplateMethod(t *testing.T) {
	tparam := fake(frontend.KindTemplateTypeParameter, "T")
	tm := fake(frontend.KindFunctionTemplate, "convert", tparam)
	tm.result = "T"

	cls := fake(frontend.KindClassDecl, "A", tm)

	b, _, _, _ := newTestBuilder(nil)
	tree, err := b.build(unit(cls))
	require.NoError(t, err)

	got := tree.Nodes[0].(*model.Class)
	require.Len(t, got.Members, 1)
	method := got.Members[0].(*model.TemplateMethod)
	require.Equal(t, "convert", method.Name)
	require.Equal(t, "A", method.ClassName)
	require.Equal(t, []string{"T"}, method.Types)
}

func TestFreeTemplateFunction(t *testing.T) {
	tparam := fake(frontend.KindTemplateTypeParameter, "T")
	p := fake(frontend.KindParmDecl, "value")
	p.typ = "T"
	tf := fake(frontend.KindFunctionTemplate, "identity", tparam, p)
	tf.result = "T"

	b, _, _, _ := newTestBuilder(nil)
	tree, err := b.build(unit(tf))
	require.NoError(t, err)

	got := tree.Nodes[0].(*model.TemplateFunction)
	require.Equal(t, "identity", got.Name)
	require.Equal(t, []string{"T"}, got.Types)
	require.Len(t, got.Params(), 1)
}

func TestTemplateNonTypeParameterWarns(t *testing.T) {
	ntp := fake(frontend.KindTemplateNonTypeParameter, "N")
	tc := fake(frontend.KindClassTemplate, "Arr", ntp)
	tc.display = "Arr<N>"

	b, _, _, rep := newTestBuilder(nil)
	_, err := b.build(unit(tc))
	require.NoError(t, err)
	require.Len(t, rep.Warnings(), 1)
	require.Contains(t, rep.Warnings()[0], "non-type parameters are not supported")
}

func TestTemplateTypeParameterOutsideTemplateWarns(t *testing.T) {
	b, _, _, rep := newTestBuilder(nil)
	_, err := b.build(unit(fake(frontend.KindTemplateTypeParameter, "T")))
	require.NoError(t, err)
	require.Len(t, rep.Warnings(), 1)
	require.Contains(t, rep.Warnings()[0], "outside any template")
}

func TestStaticMethodBecomesFunction(t *testing.T) {
	mk := fake(frontend.KindMethod, "make")
	mk.access = frontend.AccessPublic
	mk.static = true
	mk.result = "A"

	cls := fake(frontend.KindClassDecl, "A", mk)
	ns := fake(frontend.KindNamespace, "n", cls)

	b, _, _, _ := newTestBuilder(nil)
	tree, err := b.build(unit(ns))
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 2)

	got := tree.Nodes[1].(*model.Function)
	require.Equal(t, "make", got.Name)
	require.Equal(t, "n::A", got.Namespace)

	require.Empty(t, tree.Nodes[0].(*model.Class).Members)
}

func TestEnum(t *testing.T) {
	e := fake(frontend.KindEnumDecl, "Color",
		fake(frontend.KindEnumConstantDecl, "RED"),
		fake(frontend.KindEnumConstantDecl, "GREEN"),
	)

	b, _, _, _ := newTestBuilder(nil)
	tree, err := b.build(unit(e))
	require.NoError(t, err)

	got := tree.Nodes[0].(*model.Enum)
	require.Equal(t, "Color", got.Name)
	require.Equal(t, []string{"RED", "GREEN"}, got.Constants)
}
