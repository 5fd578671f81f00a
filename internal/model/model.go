package model

// Node is any declaration that may appear at the top level of a Tree.
type Node interface {
	node()
}

// Member is any declaration owned by a class: constructors, methods, fields.
type Member interface {
	member()
}

// FunctionLike is implemented by every declaration that owns parameters.
type FunctionLike interface {
	AddParam(p *Param)
	Params() []*Param
}

// Tree is the ordered list of top-level declarations built from one header.
// Insertion order is encounter order and is preserved into emission.
type Tree struct {
	Filename string
	Nodes    []Node
}

func (t *Tree) Append(n Node) {
	t.Nodes = append(t.Nodes, n)
}

// Classes returns every class-like top-level node, in encounter order.
func (t *Tree) Classes() []*Class {
	var out []*Class
	for _, n := range t.Nodes {
		switch c := n.(type) {
		case *Class:
			out = append(out, c)
		case *TemplateClass:
			out = append(out, &c.Class)
		case *TemplateClassSpecialization:
			out = append(out, &c.Class)
		}
	}
	return out
}

// Class is a C++ class or struct with public members in encounter order.
// At most one base class is supported; a second base specifier is rejected
// by the builder, never recorded here.
type Class struct {
	Filename  string
	Namespace string
	Name      string
	Comment   string
	Base      string // empty when the class has no base
	Members   []Member

	ctors int
}

func (c *Class) AddMember(m Member) {
	if _, ok := m.(*Constructor); ok {
		c.ctors++
	}
	c.Members = append(c.Members, m)
}

// HasMultipleConstructors reports whether more than one public constructor
// was recorded. All constructors stay attached; the caller decides how to
// surface the condition.
func (c *Class) HasMultipleConstructors() bool {
	return c.ctors > 1
}

func (c *Class) Constructors() []*Constructor {
	var out []*Constructor
	for _, m := range c.Members {
		if ctor, ok := m.(*Constructor); ok {
			out = append(out, ctor)
		}
	}
	return out
}

func (c *Class) node() {}

// Function is a free function, or a static method hoisted to a free function
// scoped under its class's qualified name.
type Function struct {
	Filename   string
	Namespace  string
	Name       string
	ResultType string
	Comment    string

	params []*Param
}

func (f *Function) AddParam(p *Param) { f.params = append(f.params, p) }
func (f *Function) Params() []*Param  { return f.params }
func (f *Function) node()             {}

// Constructor is owned by a class; its name is the owning class's name and it
// has no result type.
type Constructor struct {
	ClassName string
	Comment   string

	params []*Param
}

func (c *Constructor) AddParam(p *Param) { c.params = append(c.params, p) }
func (c *Constructor) Params() []*Param  { return c.params }
func (c *Constructor) member()           {}

// Method is an instance method owned by a class.
type Method struct {
	Name       string
	ResultType string
	ClassName  string
	Comment    string

	params []*Param
}

func (m *Method) AddParam(p *Param) { m.params = append(m.params, p) }
func (m *Method) Params() []*Param  { return m.params }
func (m *Method) member()           {}

// Param is one function parameter. DefaultValue is only meaningful when
// HasDefault is set; it holds the language-native conversion of the literal
// token (int64, float64, bool or string).
type Param struct {
	Name         string
	Type         string
	DefaultValue any
	HasDefault   bool
}

// Field is a public data member of a class.
type Field struct {
	Name      string
	Type      string
	ClassName string
	Comment   string
}

func (f *Field) member() {}

// Enum is a C++ enumeration with its constants in encounter order.
type Enum struct {
	Filename  string
	Namespace string
	Name      string
	Comment   string
	Constants []string
}

func (e *Enum) node() {}

// Typedef records an alias and its normalized underlying type.
type Typedef struct {
	Filename   string
	Namespace  string
	Name       string
	Underlying string
}

func (t *Typedef) node() {}
