package types

import "strings"

// stlContainers is the fixed set of libcpp containers the bindings can cimport,
// in emission order.
var stlContainers = []string{
	"vector", "string", "deque", "list", "map", "pair", "queue", "set", "stack",
}

// Includes is the monotonic requirement set accumulated while normalizing
// types: which STL containers the bindings cimport, whether numpy buffer
// support is needed and whether the pointer dereference helper is needed.
// Flags only ever turn on.
type Includes struct {
	stl   map[string]bool
	numpy bool
	deref bool
}

func NewIncludes() *Includes {
	return &Includes{stl: make(map[string]bool)}
}

// AddIncludeFor scans a normalized type spelling for container tokens. A token
// counts when it appears bare, as the outermost template name, or nested as a
// template argument inside <...> or [...] delimiters.
func (inc *Includes) AddIncludeFor(tname string) {
	for _, c := range stlContainers {
		if containsTypeToken(tname, c) {
			inc.stl[c] = true
		}
	}
}

func (inc *Includes) AddIncludeForNumpy() { inc.numpy = true }
func (inc *Includes) AddIncludeForDeref() { inc.deref = true }

// Has reports whether the named container has been required so far.
func (inc *Includes) Has(container string) bool { return inc.stl[container] }

func (inc *Includes) NeedsNumpy() bool { return inc.numpy }
func (inc *Includes) NeedsDeref() bool { return inc.deref }

// DeclarationsImport returns the cimport lines needed by the declarations-only
// output for everything recorded so far.
func (inc *Includes) DeclarationsImport() string {
	var b strings.Builder
	b.WriteString("from libcpp cimport bool\n")
	for _, c := range stlContainers {
		if inc.stl[c] {
			b.WriteString("from libcpp." + c + " cimport " + c + "\n")
		}
	}
	return b.String()
}

// ImplementationsImport returns the import lines needed by the full wrapper
// implementation; a superset of DeclarationsImport.
func (inc *Includes) ImplementationsImport() string {
	var b strings.Builder
	b.WriteString(inc.DeclarationsImport())
	if inc.numpy {
		b.WriteString("cimport numpy as np\n")
		b.WriteString("import numpy as np\n")
	}
	if inc.deref {
		b.WriteString("from cython.operator cimport dereference as deref\n")
	}
	b.WriteString("cimport _declarations as cpp\n")
	return b.String()
}

// containsTypeToken reports whether token occurs in tname as a whole
// identifier: the whole spelling, a prefix followed by a delimiter, or an
// occurrence bounded by template delimiters, commas or spaces.
func containsTypeToken(tname, token string) bool {
	for i := 0; ; {
		k := strings.Index(tname[i:], token)
		if k < 0 {
			return false
		}
		k += i
		end := k + len(token)
		beforeOK := k == 0 || !isIdentByte(tname[k-1])
		afterOK := end == len(tname) || !isIdentByte(tname[end])
		if beforeOK && afterOK {
			return true
		}
		i = k + 1
	}
}
