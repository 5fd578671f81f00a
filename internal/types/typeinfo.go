package types

// TypeInfo collects information about the custom types seen during one parse:
// known classes and enums, typedef aliases and, during the specialization
// pass, a temporarily attached substitution map. It is mutated only by the
// traversal and read-only afterwards.
type TypeInfo struct {
	Classes  []string
	Enums    []string
	Typedefs map[string]string

	spec map[string]string
}

func NewTypeInfo() *TypeInfo {
	return &TypeInfo{
		Typedefs: make(map[string]string),
		spec:     make(map[string]string),
	}
}

func (ti *TypeInfo) RegisterClass(name string) {
	ti.Classes = append(ti.Classes, name)
}

func (ti *TypeInfo) RegisterEnum(name string) {
	ti.Enums = append(ti.Enums, name)
}

func (ti *TypeInfo) RegisterTypedef(alias, underlying string) {
	ti.Typedefs[alias] = underlying
}

// AttachSpecialization installs the substitution map of the specialization
// currently being rendered. RemoveSpecialization clears it again.
func (ti *TypeInfo) AttachSpecialization(spec map[string]string) {
	ti.spec = spec
}

func (ti *TypeInfo) RemoveSpecialization() {
	ti.spec = map[string]string{}
}

// UnderlyingType walks typedef aliases and attached specialization overrides
// until the name is neither an alias nor overridden.
func (ti *TypeInfo) UnderlyingType(tname string) string {
	seen := map[string]bool{}
	for !seen[tname] {
		seen[tname] = true
		if u, ok := ti.Typedefs[tname]; ok {
			tname = u
			continue
		}
		if s, ok := ti.spec[tname]; ok {
			tname = s
			continue
		}
		break
	}
	return tname
}

// Specialization resolves a single specialization override, returning the
// name unchanged when none is attached for it.
func (ti *TypeInfo) Specialization(tname string) string {
	if s, ok := ti.spec[tname]; ok {
		return s
	}
	return tname
}

func (ti *TypeInfo) IsClass(name string) bool {
	for _, c := range ti.Classes {
		if c == name {
			return true
		}
	}
	return false
}
