package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreFullMatch(t *testing.T) {
	r := Score(
		Candidate{Brand: "PIRELLI", Description: "205/55R16 CINTURATO P7"},
		Target{Brand: "PIRELLI", Name: "PIRELLI CINTURATO P7 205/55R16"},
	)

	assert.True(t, r.BrandMatched)
	assert.True(t, r.SizeMatched)
	assert.GreaterOrEqual(t, r.ModelWordOverlap, 1)
	assert.GreaterOrEqual(t, r.Score, 90)
	assert.True(t, r.Acceptable())
}

// A one-unit rim difference must be rejected no matter how well brand and
// model line up.
func TestScoreRimDiameterMismatchRejected(t *testing.T) {
	r := Score(
		Candidate{Brand: "PIRELLI", Description: "205/55R16 CINTURATO P7"},
		Target{Brand: "PIRELLI", Name: "PIRELLI CINTURATO P7 205/55R17"},
	)

	assert.True(t, r.BrandMatched)
	assert.False(t, r.SizeMatched)
	assert.Less(t, r.Score, AcceptThreshold)
	assert.False(t, r.Acceptable())
}

func TestScoreBrandSubstring(t *testing.T) {
	r := Score(
		Candidate{Brand: "FATE", Description: "185/70R14 RANGE RUNNER"},
		Target{Brand: "FATE S.A.", Name: "FATE RANGE RUNNER 185/70R14"},
	)

	assert.True(t, r.BrandMatched)
	assert.True(t, r.SizeMatched)
	assert.True(t, r.Acceptable())
}

func TestScoreNoSizeEitherSide(t *testing.T) {
	r := Score(
		Candidate{Brand: "PIRELLI", Description: "CAMARA MOTO 300-18"},
		Target{Brand: "PIRELLI", Name: "PIRELLI CINTURATO P7 205/55R16"},
	)

	assert.False(t, r.SizeMatched)
	// brand alone (40) must not clear the gate
	assert.Less(t, r.Score, AcceptThreshold)
}

// Repeated shared tokens score repeatedly; this pins the historical
// behavior the imported data was matched with.
func TestScoreRepeatedTokensAmplify(t *testing.T) {
	single := Score(
		Candidate{Description: "205/55R16 VERDE"},
		Target{Name: "205/55R16 VERDE"},
	)
	doubled := Score(
		Candidate{Description: "205/55R16 VERDE VERDE"},
		Target{Name: "205/55R16 VERDE"},
	)

	assert.Equal(t, single.ModelWordOverlap+1, doubled.ModelWordOverlap)
	assert.Equal(t, single.Score+10, doubled.Score)
}

func TestBestKeepsHighestFirstSeen(t *testing.T) {
	c := Candidate{Brand: "PIRELLI", Description: "205/55R16 CINTURATO P7"}
	targets := []Target{
		{Brand: "PIRELLI", Name: "PIRELLI SCORPION 265/70R16"},        // wrong size
		{Brand: "PIRELLI", Name: "PIRELLI CINTURATO P7 205/55R16"},    // full match
		{Brand: "PIRELLI", Name: "PIRELLI CINTURATO P1 205/55R16"},    // same size, weaker model
	}

	idx, best, ok := Best(c, targets)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.GreaterOrEqual(t, best.Score, 90)
}

func TestBestTieFirstSeenWins(t *testing.T) {
	c := Candidate{Brand: "PIRELLI", Description: "205/55R16 CINTURATO P7"}
	targets := []Target{
		{Brand: "PIRELLI", Name: "PIRELLI CINTURATO P7 205/55R16"},
		{Brand: "PIRELLI", Name: "PIRELLI CINTURATO P7 205/55R16"}, // identical twin
	}

	idx, _, ok := Best(c, targets)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestBestNoneAcceptable(t *testing.T) {
	c := Candidate{Brand: "MICHELIN", Description: "225/45R17 PRIMACY 4"}
	targets := []Target{
		{Brand: "PIRELLI", Name: "PIRELLI CINTURATO P7 205/55R16"},
	}

	_, _, ok := Best(c, targets)
	assert.False(t, ok)
}
