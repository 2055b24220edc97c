package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calebmonroe/penny/internal/match"
)

func TestSimilarity(t *testing.T) {
	type testCase struct {
		name string
		a    string
		b    string
		want float64
	}

	tests := []testCase{
		{name: "Identical", a: "Grocery Store", b: "Grocery Store", want: 1},
		{name: "BothEmpty", a: "", b: "", want: 1},
		{name: "OneEmpty", a: "", b: "abc", want: 0},
		{name: "CaseInsensitive", a: "COFFEE SHOP", b: "coffee shop", want: 1},
		{name: "Whitespace", a: "  rent  ", b: "rent", want: 1},
		{name: "OneEdit", a: "abcd", b: "abce", want: 0.75},
		{name: "Disjoint", a: "aaaa", b: "bbbb", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, match.Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Gas Station", "Gas Station ABC"},
		{"", "payment"},
		{"Mercado 123", "Mercado 124"},
		{"a", "xyz"},
	}

	for _, p := range pairs {
		assert.InDelta(t, match.Similarity(p[0], p[1]), match.Similarity(p[1], p[0]), 1e-9)
	}
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	for _, s := range []string{"", "x", "Grocery Store Purchase", "  spaced  ", "ümläut"} {
		assert.Equal(t, 1.0, match.Similarity(s, s))
	}
}
