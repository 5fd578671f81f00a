package model

// Template is implemented by every generic entity that collects type
// parameters during traversal.
type Template interface {
	AddTemplateType(name string)
	TemplateTypes() []string
}

// TemplateClass is a class template. It is not directly emittable: it must be
// expanded by the specialization pass or marked Ignored.
type TemplateClass struct {
	Class
	Types   []string
	Ignored bool
}

func (t *TemplateClass) AddTemplateType(name string) { t.Types = append(t.Types, name) }
func (t *TemplateClass) TemplateTypes() []string     { return t.Types }

// TemplateClassSpecialization is a concrete class synthesized from a
// TemplateClass and one specialization entry. CppName embeds the substituted
// type arguments in declared parameter order (e.g. "Vec[double, 3]");
// Substitutions is kept for member-type resolution by the renderer.
type TemplateClassSpecialization struct {
	Class
	CppName       string
	Substitutions map[string]string
}

// TemplateFunction is a free function template.
type TemplateFunction struct {
	Function
	Types   []string
	Ignored bool
}

func (t *TemplateFunction) AddTemplateType(name string) { t.Types = append(t.Types, name) }
func (t *TemplateFunction) TemplateTypes() []string     { return t.Types }

// TemplateMethod is a method template owned by a class.
type TemplateMethod struct {
	Method
	Types   []string
	Ignored bool
}

func (t *TemplateMethod) AddTemplateType(name string) { t.Types = append(t.Types, name) }
func (t *TemplateMethod) TemplateTypes() []string     { return t.Types }
