// Weighted product matching used by the reconcile flows to decide whether a
// supplier row and a catalog row refer to the same physical tire.
package match

import (
	"regexp"
	"strings"

	"fitment-service/internal/fitment/parser"
)

// Score weights. Size carries the most: a one-unit rim difference makes a
// tire non-interchangeable, so size gets no partial credit.
const (
	brandWeight = 40
	sizeWeight  = 50
	tokenWeight = 10

	// AcceptThreshold is the sole gate between an automatic match and
	// manual review; every reconcile flow depends on it being exactly 50.
	AcceptThreshold = 50
)

// Candidate is the supplier side of a comparison.
type Candidate struct {
	Description string
	Brand       string
}

// Target is the catalog side of a comparison.
type Target struct {
	Name  string
	Brand string
}

// Result mirrors model.MatchCandidate without importing it; the service
// layer converts. Kept separate so this package stays dependency-free.
type Result struct {
	Score            int
	SizeMatched      bool
	BrandMatched     bool
	ModelWordOverlap int
}

// Acceptable reports whether the score clears the automatic-match gate.
func (r Result) Acceptable() bool { return r.Score >= AcceptThreshold }

var reNonWord = regexp.MustCompile(`[^\w\s]`)

// normalizeBrand uppercases, trims and strips punctuation so brand
// comparison survives supplier typography.
func normalizeBrand(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = reNonWord.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// Score computes the weighted similarity of one candidate/target pair.
// Pure function, no I/O.
func Score(c Candidate, t Target) Result {
	var r Result

	cb, tb := normalizeBrand(c.Brand), normalizeBrand(t.Brand)
	if cb != "" && tb != "" && strings.Contains(tb, cb) {
		r.BrandMatched = true
		r.Score += brandWeight
	}

	cs := extractSizeKey(c.Description)
	ts := extractSizeKey(t.Name)
	sizeConflict := false
	if cs != "" && ts != "" {
		if cs == ts {
			r.SizeMatched = true
			r.Score += sizeWeight
		} else {
			// both sides declare a size and they disagree; a one-unit rim
			// difference makes the tire non-interchangeable, so no amount of
			// brand/model overlap may clear the gate
			sizeConflict = true
		}
	}

	// shared model tokens; repeated shared tokens score repeatedly, matching
	// the historical reconcile behavior the imported data was built with
	cTokens := modelTokens(c.Description, c.Brand)
	tTokens := make(map[string]bool)
	for _, w := range modelTokens(t.Name, t.Brand) {
		tTokens[w] = true
	}
	for _, w := range cTokens {
		if tTokens[w] {
			r.ModelWordOverlap++
			r.Score += tokenWeight
		}
	}

	if sizeConflict && r.Score >= AcceptThreshold {
		r.Score = AcceptThreshold - 1
	}

	return r
}

// extractSizeKey reduces a description to its canonical size string, or ""
// when no size pattern matches.
func extractSizeKey(s string) string {
	return parser.Extract(s).SizeKey()
}

// modelTokens tokenizes the model residual keeping tokens longer than two
// characters.
func modelTokens(s, brand string) []string {
	residual := strings.ToUpper(parser.CleanModel(s, brand))
	fields := strings.Fields(residual)
	out := fields[:0]
	for _, w := range fields {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

// Best scans targets in order and keeps the single highest-scoring one at
// or above the accept threshold; first seen wins on exact ties. Callers
// wanting run-to-run reproducibility must order targets deterministically.
func Best(c Candidate, targets []Target) (int, Result, bool) {
	bestIdx := -1
	var best Result
	for i, t := range targets {
		r := Score(c, t)
		if r.Score >= AcceptThreshold && r.Score > best.Score {
			best = r
			bestIdx = i
		}
	}
	return bestIdx, best, bestIdx >= 0
}
