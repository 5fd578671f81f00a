package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jerer/cythonwrapper/internal/diag"
	"github.com/jerer/cythonwrapper/internal/frontend"
	"github.com/jerer/cythonwrapper/internal/model"
	"github.com/jerer/cythonwrapper/internal/types"
	"github.com/jerer/cythonwrapper/pkg/config"
)

// ErrUnsupported marks a construct the builder recognizes but cannot express
// in the declaration tree. It is reported as a warning and the subtree is
// skipped; it never aborts the parse.
var ErrUnsupported = errors.New("unsupported construct")

// visitContext carries the traversal state down the recursion. It is passed
// by value: every child sees the state its handler established, and siblings
// are isolated from each other's mutations. Only the pending unnamed-struct
// placeholder lives on the builder, because a typedef consumes it across
// sibling boundaries.
type visitContext struct {
	namespace string
	class     *model.Class
	function  model.FunctionLike
	template  model.Template
	enum      *model.Enum
	param     *model.Param
}

func (ctx visitContext) qualified(name string) string {
	if ctx.namespace == "" {
		return name
	}
	return ctx.namespace + "::" + name
}

// builder converts the native parse tree into the declaration model. One
// builder serves one translation unit and must not be shared.
type builder struct {
	filename string
	tree     *model.Tree
	norm     *types.Normalizer
	typeInfo *types.TypeInfo
	specs    config.SpecializationTable
	rep      *diag.Reporter

	// pending anonymous struct, attached by the matching typedef
	unnamed *model.Class
}

func newBuilder(filename string, norm *types.Normalizer, ti *types.TypeInfo, specs config.SpecializationTable, rep *diag.Reporter) *builder {
	return &builder{
		filename: filename,
		tree:     &model.Tree{Filename: filename},
		norm:     norm,
		typeInfo: ti,
		specs:    specs,
		rep:      rep,
	}
}

func (b *builder) build(root frontend.Cursor) (*model.Tree, error) {
	for _, child := range root.Children() {
		if err := b.visit(child, visitContext{}, 0); err != nil {
			return nil, err
		}
	}
	return b.tree, nil
}

func (b *builder) visit(cur frontend.Cursor, ctx visitContext, depth int) error {
	// Nodes attributed to other files (transitively included headers) are
	// skipped without recursion or state mutation.
	if cur.File() != b.filename {
		return nil
	}

	recurse := true
	var err error

	switch cur.Kind() {
	case frontend.KindNamespace:
		if ctx.namespace == "" {
			ctx.namespace = cur.Spelling()
		} else {
			ctx.namespace = ctx.namespace + "::" + cur.Spelling()
		}

	case frontend.KindParmDecl:
		ctx.param = b.addParam(cur, ctx)

	case frontend.KindFunctionDecl:
		ctx.function = b.addFunction(cur, ctx.namespace)

	case frontend.KindClassTemplate:
		name := strings.SplitN(cur.DisplayName(), "<", 2)[0]
		tc := b.addTemplateClass(name, cur, ctx)
		ctx.class = &tc.Class
		ctx.template = tc

	case frontend.KindFunctionTemplate:
		if ctx.class == nil {
			tf := &model.TemplateFunction{Function: model.Function{
				Filename:   b.filename,
				Namespace:  ctx.namespace,
				Name:       cur.Spelling(),
				ResultType: b.norm.Normalize(cur.ResultTypeSpelling()),
				Comment:    cur.RawComment(),
			}}
			b.tree.Append(tf)
			ctx.function = tf
			ctx.template = tf
		} else {
			tm := &model.TemplateMethod{Method: model.Method{
				Name:       cur.Spelling(),
				ResultType: b.norm.Normalize(cur.ResultTypeSpelling()),
				ClassName:  ctx.class.Name,
				Comment:    cur.RawComment(),
			}}
			ctx.class.AddMember(tm)
			ctx.function = tm
			ctx.template = tm
		}

	case frontend.KindTemplateTypeParameter:
		if ctx.template == nil {
			b.rep.Warnf("template type parameter %q outside any template", cur.DisplayName())
		} else {
			ctx.template.AddTemplateType(cur.DisplayName())
		}

	case frontend.KindTemplateNonTypeParameter:
		b.rep.Warnf("template non-type parameters are not supported; "+
			"the name of the parameter is %q", cur.DisplayName())

	case frontend.KindMethod:
		if cur.Access() != frontend.AccessPublic {
			recurse = false
			break
		}
		if ctx.class == nil {
			err = fmt.Errorf("%w: method %q outside any class", ErrUnsupported, cur.DisplayName())
			break
		}
		if cur.IsStatic() {
			// Static methods become free functions scoped under the
			// class's qualified name.
			ctx.function = b.addFunction(cur, ctx.qualified(ctx.class.Name))
		} else {
			m := &model.Method{
				Name:       cur.Spelling(),
				ResultType: b.norm.Normalize(cur.ResultTypeSpelling()),
				ClassName:  ctx.class.Name,
				Comment:    cur.RawComment(),
			}
			ctx.class.AddMember(m)
			ctx.function = m
		}

	case frontend.KindConstructor:
		if cur.Access() != frontend.AccessPublic {
			recurse = false
			break
		}
		if ctx.class == nil {
			err = fmt.Errorf("%w: constructor %q outside any class", ErrUnsupported, cur.DisplayName())
			break
		}
		ctor := &model.Constructor{ClassName: ctx.class.Name, Comment: cur.RawComment()}
		ctx.class.AddMember(ctor)
		ctx.function = ctor

	case frontend.KindClassDecl:
		ctx.class = b.addClass(cur.DisplayName(), cur, ctx)

	case frontend.KindBaseSpecifier:
		if ctx.class != nil {
			if ctx.class.Base != "" {
				b.rep.Warnf("class %q already has a base class: %q, ignoring %q",
					ctx.class.Name, ctx.class.Base, cur.TypeSpelling())
			} else {
				ctx.class.Base = cur.TypeSpelling()
			}
		}
		recurse = false

	case frontend.KindStructDecl:
		if cur.DisplayName() == "" && b.unnamed == nil {
			b.unnamed = &model.Class{
				Filename:  b.filename,
				Namespace: ctx.namespace,
				Comment:   cur.RawComment(),
			}
			ctx.class = b.unnamed
		} else {
			ctx.class = b.addClass(cur.DisplayName(), cur, ctx)
		}

	case frontend.KindFieldDecl:
		if cur.Access() != frontend.AccessPublic {
			recurse = false
			break
		}
		if ctx.class != nil {
			tname := b.norm.Normalize(cur.TypeSpelling())
			ctx.class.AddMember(&model.Field{
				Name:      cur.DisplayName(),
				Type:      tname,
				ClassName: ctx.class.Name,
				Comment:   cur.RawComment(),
			})
		}
		recurse = false

	case frontend.KindTypedefDecl:
		recurse, err = b.addTypedef(cur, ctx)

	case frontend.KindEnumDecl:
		ctx.enum = b.addEnum(cur, ctx)

	case frontend.KindEnumConstantDecl:
		if ctx.enum != nil {
			ctx.enum.Constants = append(ctx.enum.Constants, cur.DisplayName())
		}

	case frontend.KindCompoundStmt:
		recurse = false

	case frontend.KindIntegerLiteral:
		b.captureLiteral(cur, ctx, []string{"short", "int", "long"}, convertInt)

	case frontend.KindFloatingLiteral:
		b.captureLiteral(cur, ctx, []string{"float", "double"}, convertFloat)

	case frontend.KindBoolLiteral:
		b.captureLiteral(cur, ctx, []string{"bool"}, convertBool)

	case frontend.KindStringLiteral:
		if ctx.param != nil && ctx.param.Type == "string" {
			ctx.param.DefaultValue = cur.DisplayName()
			ctx.param.HasDefault = true
		}

	case frontend.KindAccessSpecDecl, frontend.KindCallExpr, frontend.KindDeclRefExpr,
		frontend.KindMemberRef, frontend.KindNamespaceRef, frontend.KindTemplateRef,
		frontend.KindTypeRef, frontend.KindUnexposedExpr, frontend.KindUnexposedDecl,
		frontend.KindDestructor, frontend.KindVarDecl, frontend.KindNewExpr:
		b.rep.Tracef("%signored node: %s, %s", indent(depth), cur.Kind(), cur.DisplayName())

	default:
		b.rep.Tracef("%sunknown node: %s, %s", indent(depth), cur.Kind(), cur.DisplayName())
	}

	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			b.rep.Warnf("%s; ignoring node %q", err.Error(), cur.DisplayName())
			return nil
		}
		return err
	}

	if recurse {
		for _, child := range cur.Children() {
			if err := b.visit(child, ctx, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) addClass(name string, cur frontend.Cursor, ctx visitContext) *model.Class {
	cls := &model.Class{
		Filename:  b.filename,
		Namespace: ctx.namespace,
		Name:      name,
		Comment:   cur.RawComment(),
	}
	b.tree.Append(cls)
	b.typeInfo.RegisterClass(name)
	return cls
}

func (b *builder) addTemplateClass(name string, cur frontend.Cursor, ctx visitContext) *model.TemplateClass {
	tc := &model.TemplateClass{Class: model.Class{
		Filename:  b.filename,
		Namespace: ctx.namespace,
		Name:      name,
		Comment:   cur.RawComment(),
	}}
	b.tree.Append(tc)
	b.typeInfo.RegisterClass(name)

	// Register configured concrete names eagerly so forward references to
	// specializations resolve before the specialization pass runs.
	if entries, ok := b.specs[name]; ok {
		for _, entry := range entries {
			b.typeInfo.RegisterClass(entry.Name)
		}
	}
	return tc
}

func (b *builder) addFunction(cur frontend.Cursor, namespace string) *model.Function {
	fn := &model.Function{
		Filename:   b.filename,
		Namespace:  namespace,
		Name:       cur.Spelling(),
		ResultType: b.norm.Normalize(cur.ResultTypeSpelling()),
		Comment:    cur.RawComment(),
	}
	b.tree.Append(fn)
	return fn
}

func (b *builder) addEnum(cur frontend.Cursor, ctx visitContext) *model.Enum {
	namespace := ctx.namespace
	if ctx.class != nil {
		namespace = ctx.qualified(ctx.class.Name)
	}
	e := &model.Enum{
		Filename:  b.filename,
		Namespace: namespace,
		Name:      cur.DisplayName(),
		Comment:   cur.RawComment(),
	}
	b.tree.Append(e)
	b.typeInfo.RegisterEnum(e.Name)
	return e
}

func (b *builder) addParam(cur frontend.Cursor, ctx visitContext) *model.Param {
	tname := b.norm.Normalize(cur.TypeSpelling())
	param := &model.Param{Name: cur.DisplayName(), Type: tname}
	if ctx.function == nil {
		b.rep.Warnf("ignored function parameter %q (type: %q), no function in current context",
			param.Name, param.Type)
	} else {
		ctx.function.AddParam(param)
	}
	return param
}

// addTypedef either consumes the pending unnamed-struct placeholder (when the
// underlying spelling is "struct <alias>") or records an ordinary typedef.
// A struct-attach with no pending placeholder is fatal.
func (b *builder) addTypedef(cur frontend.Cursor, ctx visitContext) (recurse bool, err error) {
	alias := cur.DisplayName()
	underlying := cur.UnderlyingTypedefType()

	if underlying == "struct "+alias {
		if b.unnamed == nil {
			return false, fmt.Errorf("typedef %q does not match any unnamed struct", alias)
		}
		b.unnamed.Name = alias
		for _, m := range b.unnamed.Members {
			switch member := m.(type) {
			case *model.Field:
				member.ClassName = alias
			case *model.Method:
				member.ClassName = alias
			case *model.TemplateMethod:
				member.ClassName = alias
			case *model.Constructor:
				member.ClassName = alias
			}
		}
		b.tree.Append(b.unnamed)
		b.typeInfo.RegisterClass(alias)
		b.unnamed = nil
		return false, nil
	}

	normalized := b.norm.Normalize(underlying)
	namespace := ctx.namespace
	if ctx.class != nil {
		namespace = ctx.qualified(ctx.class.Name)
	}
	b.tree.Append(&model.Typedef{
		Filename:   b.filename,
		Namespace:  namespace,
		Name:       alias,
		Underlying: normalized,
	})
	b.typeInfo.RegisterTypedef(alias, normalized)
	return true, nil
}

func (b *builder) captureLiteral(cur frontend.Cursor, ctx visitContext, accepted []string, convert func(string) (any, error)) {
	if ctx.param == nil {
		return
	}
	match := false
	for _, t := range accepted {
		if ctx.param.Type == t {
			match = true
			break
		}
	}
	if !match {
		return
	}
	tokens := cur.Tokens()
	if len(tokens) == 0 {
		return
	}
	value, err := convert(tokens[0])
	if err != nil {
		b.rep.Tracef("could not convert literal %q for parameter %q: %v",
			tokens[0], ctx.param.Name, err)
		return
	}
	ctx.param.DefaultValue = value
	ctx.param.HasDefault = true
}

func convertInt(tok string) (any, error) {
	v, err := strconv.ParseInt(strings.TrimRight(tok, "uUlL"), 0, 64)
	return v, err
}

func convertFloat(tok string) (any, error) {
	v, err := strconv.ParseFloat(strings.TrimRight(tok, "fFlL"), 64)
	return v, err
}

func convertBool(tok string) (any, error) {
	return tok == "true", nil
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
