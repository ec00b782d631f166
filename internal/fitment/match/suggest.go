// Closest-name suggestions for rows the weighted gate rejected. Purely
// advisory: suggestions never feed back into the accept decision, they only
// give the human reviewer a starting point.
package match

import (
	"sort"
	"strings"
)

// SuggestIndex is a trigram inverted index over catalog product names.
type SuggestIndex struct {
	names []string
	inv   map[string]map[int]struct{} // trigram -> set(name index)
}

// NewSuggestIndex builds the index once per reconcile run.
func NewSuggestIndex(names []string) *SuggestIndex {
	idx := &SuggestIndex{
		names: make([]string, len(names)),
		inv:   make(map[string]map[int]struct{}),
	}
	for i, n := range names {
		nn := normalizeName(n)
		idx.names[i] = nn
		for g := range trigramSet(nn) {
			bucket, ok := idx.inv[g]
			if !ok {
				bucket = make(map[int]struct{})
				idx.inv[g] = bucket
			}
			bucket[i] = struct{}{}
		}
	}
	return idx
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(strings.TrimSpace(s))), " ")
}

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	p := " " + s + " "
	r := []rune(p)
	if len(r) < 3 {
		m[p] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

// candidates returns the indices of names sharing at least one trigram,
// sorted for deterministic iteration.
func (idx *SuggestIndex) candidates(norm string) []int {
	seen := make(map[int]struct{})
	for g := range trigramSet(norm) {
		if bucket, ok := idx.inv[g]; ok {
			for i := range bucket {
				seen[i] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Suggest returns the catalog name most similar to the description and its
// similarity in [0..1], or ok=false when nothing clears minSim.
func (idx *SuggestIndex) Suggest(description string, minSim float64) (int, float64, bool) {
	norm := normalizeName(description)
	if norm == "" {
		return -1, 0, false
	}
	bestIdx := -1
	best := -1.0
	for _, i := range idx.candidates(norm) {
		if s := bestSimilarity(norm, idx.names[i]); s > best {
			best = s
			bestIdx = i
		}
	}
	if bestIdx < 0 || best < minSim {
		return -1, 0, false
	}
	return bestIdx, best, true
}

// similarity is normalized Damerau-Levenshtein in [0..1].
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	d := damerauLevenshtein(a, b)
	m := len([]rune(a))
	if mb := len([]rune(b)); mb > m {
		m = mb
	}
	if m == 0 {
		return 1
	}
	return 1 - float64(d)/float64(m)
}

// tokenSort makes the comparison stable against word order.
func tokenSort(s string) string {
	if s == "" {
		return s
	}
	t := strings.Fields(s)
	sort.Strings(t)
	return strings.Join(t, " ")
}

func bestSimilarity(a, b string) float64 {
	x := similarity(a, b)
	if y := similarity(tokenSort(a), tokenSort(b)); y > x {
		return y
	}
	return x
}
