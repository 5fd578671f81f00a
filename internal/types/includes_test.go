package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddIncludeFor(t *testing.T) {
	tests := []struct {
		name  string
		tname string
		want  []string
	}{
		{
			name:  "bare container",
			tname: "vector[int]",
			want:  []string{"vector"},
		},
		{
			name:  "nested containers",
			tname: "map[string, vector[int]]",
			want:  []string{"vector", "string", "map"},
		},
		{
			name:  "identifier containing a container name",
			tname: "myvector",
			want:  nil,
		},
		{
			name:  "no containers",
			tname: "double",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := NewIncludes()
			inc.AddIncludeFor(tt.tname)
			for _, c := range tt.want {
				require.True(t, inc.Has(c), "expected container %q", c)
			}
			for _, c := range stlContainers {
				wanted := false
				for _, w := range tt.want {
					if w == c {
						wanted = true
					}
				}
				require.Equal(t, wanted, inc.Has(c), "container %q", c)
			}
		})
	}
}

func TestIncludesAreMonotonic(t *testing.T) {
	inc := NewIncludes()
	inc.AddIncludeFor("vector[int]")
	inc.AddIncludeFor("double")
	inc.AddIncludeFor("int")
	require.True(t, inc.Has("vector"))
}

func TestDeclarationsImport(t *testing.T) {
	inc := NewIncludes()
	inc.AddIncludeFor("map[string, vector[int]]")

	got := inc.DeclarationsImport()
	require.True(t, strings.HasPrefix(got, "from libcpp cimport bool\n"))
	require.Contains(t, got, "from libcpp.vector cimport vector\n")
	require.Contains(t, got, "from libcpp.string cimport string\n")
	require.Contains(t, got, "from libcpp.map cimport map\n")
	require.NotContains(t, got, "libcpp.deque")
}

func TestImplementationsImport(t *testing.T) {
	inc := NewIncludes()
	inc.AddIncludeFor("vector[double]")
	inc.AddIncludeForNumpy()
	inc.AddIncludeForDeref()

	got := inc.ImplementationsImport()
	require.Contains(t, got, inc.DeclarationsImport())
	require.Contains(t, got, "cimport numpy as np\n")
	require.Contains(t, got, "import numpy as np\n")
	require.Contains(t, got, "from cython.operator cimport dereference as deref\n")
	require.True(t, strings.HasSuffix(got, "cimport _declarations as cpp\n"))
}

func TestNormalizer(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      string
		numpy     bool
		deref     bool
		container string
	}{
		{
			name:      "const vector reference",
			raw:       "const std::vector<double> &",
			want:      "vector[double]",
			deref:     true,
			container: "vector",
		},
		{
			name:  "fixed-size numeric buffer",
			raw:   "double [3]",
			want:  "double[3]",
			numpy: true,
		},
		{
			name:  "raw numeric pointer",
			raw:   "float *",
			want:  "float *",
			numpy: true,
			deref: true,
		},
		{
			name: "plain scalar",
			raw:  "int",
			want: "int",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(NewIncludes())
			got := n.Normalize(tt.raw)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.numpy, n.Includes().NeedsNumpy())
			require.Equal(t, tt.deref, n.Includes().NeedsDeref())
			if tt.container != "" {
				require.True(t, n.Includes().Has(tt.container))
			}
		})
	}
}
