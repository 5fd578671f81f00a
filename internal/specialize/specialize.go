// Package specialize expands generic entities (template classes, functions
// and methods) into concrete ones using the registered specialization table.
package specialize

import (
	"strings"

	"github.com/jerer/cythonwrapper/internal/diag"
	"github.com/jerer/cythonwrapper/internal/model"
	"github.com/jerer/cythonwrapper/internal/types"
	"github.com/jerer/cythonwrapper/pkg/config"
)

// Engine expands generics against one specialization table. Key derivation is
// the only thing that differs between entity kinds: classes and free
// functions use "namespace::name" (bare name when the namespace is empty),
// methods always use "class::method" regardless of namespace.
type Engine struct {
	table config.SpecializationTable
	rep   *diag.Reporter
}

func NewEngine(table config.SpecializationTable, rep *diag.Reporter) *Engine {
	return &Engine{table: table, rep: rep}
}

func qualifiedKey(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "::" + name
}

// lookup finds the entries registered for key. A missing key is non-fatal:
// one warning, and the caller marks the generic as excluded from emission.
func (e *Engine) lookup(key string, templateTypes []string) ([]config.Specialization, bool) {
	entries, ok := e.table[key]
	if !ok {
		e.rep.Warnf("no template specialization registered for template with key %q "+
			"with the following template types: %s", key, strings.Join(templateTypes, ", "))
		return nil, false
	}
	return entries, true
}

// Class expands a template class into zero or more concrete classes, one per
// table entry, in table order. Each result's native name embeds every
// substituted type argument in declared parameter order, so two entries
// sharing an exposed alias still get distinct native names. The substitution
// map rides along for member-type resolution at render time.
func (e *Engine) Class(general *model.TemplateClass) []*model.TemplateClassSpecialization {
	entries, ok := e.lookup(qualifiedKey(general.Namespace, general.Name), general.Types)
	if !ok {
		general.Ignored = true
		return nil
	}

	out := make([]*model.TemplateClassSpecialization, 0, len(entries))
	for _, entry := range entries {
		args := make([]string, len(general.Types))
		for i, t := range general.Types {
			args[i] = types.Substitute(t, entry.Substitutions)
		}
		spec := &model.TemplateClassSpecialization{
			Class: model.Class{
				Filename:  general.Filename,
				Namespace: general.Namespace,
				Name:      entry.Name,
				Comment:   general.Comment,
				Base:      general.Base,
				Members:   general.Members,
			},
			CppName:       general.Name + "[" + strings.Join(args, ", ") + "]",
			Substitutions: entry.Substitutions,
		}
		out = append(out, spec)
	}
	return out
}

// Function expands a free template function. Result and parameter types are
// rewritten by substitution; names absent from the map stay unchanged, so
// mixed generic/non-generic parameter lists work. Parameter order and names
// are preserved exactly.
func (e *Engine) Function(general *model.TemplateFunction) []*model.Function {
	entries, ok := e.lookup(qualifiedKey(general.Namespace, general.Name), general.Types)
	if !ok {
		general.Ignored = true
		return nil
	}

	out := make([]*model.Function, 0, len(entries))
	for _, entry := range entries {
		fn := &model.Function{
			Filename:   general.Filename,
			Namespace:  general.Namespace,
			Name:       entry.Name,
			ResultType: types.Substitute(general.ResultType, entry.Substitutions),
			Comment:    general.Comment,
		}
		copyParams(fn, general.Params(), entry.Substitutions)
		out = append(out, fn)
	}
	return out
}

// Method expands a template method. The key is always "class::method",
// independent of namespace.
func (e *Engine) Method(general *model.TemplateMethod) []*model.Method {
	entries, ok := e.lookup(general.ClassName+"::"+general.Name, general.Types)
	if !ok {
		general.Ignored = true
		return nil
	}

	out := make([]*model.Method, 0, len(entries))
	for _, entry := range entries {
		m := &model.Method{
			Name:       entry.Name,
			ResultType: types.Substitute(general.ResultType, entry.Substitutions),
			ClassName:  general.ClassName,
			Comment:    general.Comment,
		}
		copyParams(m, general.Params(), entry.Substitutions)
		out = append(out, m)
	}
	return out
}

func copyParams(dst model.FunctionLike, params []*model.Param, subs map[string]string) {
	for _, p := range params {
		dst.AddParam(&model.Param{
			Name:         p.Name,
			Type:         types.Substitute(p.Type, subs),
			DefaultValue: p.DefaultValue,
			HasDefault:   p.HasDefault,
		})
	}
}

// Expand runs the specialization pass over a whole tree: every generic node
// is expanded in place (concrete results inserted right after their generic),
// and generics without table entries stay in the tree marked as excluded.
func Expand(tree *model.Tree, table config.SpecializationTable, rep *diag.Reporter) {
	engine := NewEngine(table, rep)

	var nodes []model.Node
	for _, n := range tree.Nodes {
		nodes = append(nodes, n)
		switch g := n.(type) {
		case *model.TemplateClass:
			for _, spec := range engine.Class(g) {
				nodes = append(nodes, spec)
			}
		case *model.TemplateFunction:
			for _, fn := range engine.Function(g) {
				nodes = append(nodes, fn)
			}
		}
	}
	tree.Nodes = nodes

	// Template methods of concrete and generic classes are expanded here.
	// Members of synthesized specializations are left alone: their types
	// resolve through the attached substitution map at render time.
	for _, n := range tree.Nodes {
		var cls *model.Class
		switch c := n.(type) {
		case *model.Class:
			cls = c
		case *model.TemplateClass:
			cls = &c.Class
		default:
			continue
		}
		var members []model.Member
		for _, m := range cls.Members {
			members = append(members, m)
			if g, ok := m.(*model.TemplateMethod); ok {
				for _, method := range engine.Method(g) {
					members = append(members, method)
				}
			}
		}
		cls.Members = members
	}
}
