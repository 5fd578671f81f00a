// Package types normalizes C++ type spellings into the Cython vocabulary and
// tracks which container/runtime support the emitted bindings will need.
package types

import "strings"

// FromCpp maps a raw C++ type spelling to its Cython spelling. The mapping is
// deterministic and has no side effects: const and reference modifiers are
// dropped, namespace qualifiers are removed and template angle brackets become
// Cython's square brackets, e.g.
//
//	std::map<std::string, std::vector<int> >  →  map[string, vector[int]]
func FromCpp(tname string) string {
	t := strings.TrimSpace(tname)
	t = strings.ReplaceAll(t, "const ", "")
	t = strings.TrimSuffix(t, " const")
	t = strings.ReplaceAll(t, "&", "")
	t = removeNamespaces(t)
	t = strings.ReplaceAll(t, "<", "[")
	t = strings.ReplaceAll(t, ">", "]")
	t = strings.ReplaceAll(t, " ]", "]")
	t = strings.ReplaceAll(t, " [", "[")
	t = strings.ReplaceAll(t, ",", ", ")
	for strings.Contains(t, "  ") {
		t = strings.ReplaceAll(t, "  ", " ")
	}
	t = strings.ReplaceAll(t, ", ]", ",]")
	return strings.TrimSpace(t)
}

// removeNamespaces strips every "ident::" qualifier, at any nesting depth.
func removeNamespaces(t string) string {
	for {
		i := strings.Index(t, "::")
		if i < 0 {
			return t
		}
		j := i
		for j > 0 && isIdentByte(t[j-1]) {
			j--
		}
		t = t[:j] + t[i+2:]
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// Substitute performs textual token replacement of template type-parameter
// names inside a possibly composite type spelling. Only whole identifier
// tokens bounded by delimiters are replaced; names absent from subs stay
// unchanged.
func Substitute(tname string, subs map[string]string) string {
	if len(subs) == 0 {
		return tname
	}
	var b strings.Builder
	i := 0
	for i < len(tname) {
		if !isIdentByte(tname[i]) {
			b.WriteByte(tname[i])
			i++
			continue
		}
		j := i
		for j < len(tname) && isIdentByte(tname[j]) {
			j++
		}
		token := tname[i:j]
		if repl, ok := subs[token]; ok {
			b.WriteString(repl)
		} else {
			b.WriteString(token)
		}
		i = j
	}
	return b.String()
}
