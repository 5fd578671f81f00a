package types

import "strings"

var numericBases = []string{
	"float", "double", "int", "long", "short", "unsigned", "signed", "char",
}

// Normalizer maps raw C++ spellings to Cython spellings and records, as a
// side effect, every container/runtime requirement the spelling implies in
// its Includes set.
type Normalizer struct {
	includes *Includes
}

func NewNormalizer(inc *Includes) *Normalizer {
	return &Normalizer{includes: inc}
}

func (n *Normalizer) Includes() *Includes { return n.includes }

// Normalize converts a raw type spelling and records its requirements:
// container tokens in the normalized spelling, numpy support for fixed-size
// numeric buffers, and the dereference helper for pointer/reference types.
func (n *Normalizer) Normalize(raw string) string {
	normalized := FromCpp(raw)
	n.includes.AddIncludeFor(normalized)
	if isNumericBuffer(raw) {
		n.includes.AddIncludeForNumpy()
	}
	if strings.ContainsAny(raw, "*&") {
		n.includes.AddIncludeForDeref()
	}
	return normalized
}

// isNumericBuffer recognizes fixed-size array or raw-pointer spellings over a
// numeric element type, e.g. "double [3]" or "float *".
func isNumericBuffer(raw string) bool {
	t := strings.TrimSpace(strings.ReplaceAll(raw, "const ", ""))
	if !strings.ContainsAny(t, "*[") {
		return false
	}
	for _, base := range numericBases {
		if t == base || strings.HasPrefix(t, base+" ") || strings.HasPrefix(t, base+"*") {
			return true
		}
	}
	return false
}
