package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestFindsTypoedName(t *testing.T) {
	idx := NewSuggestIndex([]string{
		"PIRELLI CINTURATO P7 205/55R16",
		"FIRESTONE F700 185/70R14",
		"FATE RANGE RUNNER 185/70R14",
	})

	i, sim, ok := idx.Suggest("PIRELI CINTURATO P7 205/55R16", 0.6)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Greater(t, sim, 0.9)
}

func TestSuggestWordOrderInsensitive(t *testing.T) {
	idx := NewSuggestIndex([]string{"PIRELLI CINTURATO P7 205/55R16"})

	i, _, ok := idx.Suggest("205/55R16 CINTURATO P7 PIRELLI", 0.9)
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestSuggestNothingAboveFloor(t *testing.T) {
	idx := NewSuggestIndex([]string{"PIRELLI CINTURATO P7 205/55R16"})

	_, _, ok := idx.Suggest("ACEITE MOTOR 10W40", 0.6)
	assert.False(t, ok)
}

func TestSuggestEmptyInput(t *testing.T) {
	idx := NewSuggestIndex([]string{"PIRELLI CINTURATO P7"})

	_, _, ok := idx.Suggest("   ", 0.5)
	assert.False(t, ok)
}

func TestDamerauLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "acb", 1}, // transposition
		{"abc", "axc", 1},
		{"abc", "ab", 1},
		{"pirelli", "pireli", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, damerauLevenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
