package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFromCpp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain type",
			in:   "int",
			want: "int",
		},
		{
			name: "const reference",
			in:   "const std::string &",
			want: "string",
		},
		{
			name: "trailing const",
			in:   "double const",
			want: "double",
		},
		{
			name: "namespace stripped",
			in:   "std::vector<int>",
			want: "vector[int]",
		},
		{
			name: "nested namespaces",
			in:   "outer::inner::Thing",
			want: "Thing",
		},
		{
			name: "nested templates with old-style spacing",
			in:   "std::map<std::string, std::vector<int> >",
			want: "map[string, vector[int]]",
		},
		{
			name: "missing space after comma",
			in:   "std::pair<int,double>",
			want: "pair[int, double]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromCpp(tt.in)
			require.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}

func TestSubstitute(t *testing.T) {
	subs := map[string]string{"T": "double", "U": "int"}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare parameter",
			in:   "T",
			want: "double",
		},
		{
			name: "nested in container",
			in:   "vector[T]",
			want: "vector[double]",
		},
		{
			name: "two parameters",
			in:   "map[T, U]",
			want: "map[double, int]",
		},
		{
			name: "whole identifiers only",
			in:   "Tree[T]",
			want: "Tree[double]",
		},
		{
			name: "unknown names untouched",
			in:   "pair[T, V]",
			want: "pair[double, V]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Substitute(tt.in, subs))
		})
	}

	t.Run("empty substitution map", func(t *testing.T) {
		require.Equal(t, "vector[T]", Substitute("vector[T]", nil))
	})
}
