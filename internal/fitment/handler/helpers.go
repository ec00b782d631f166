package handler

import (
	"regexp"
	"strconv"
	"strings"

	"fitment-service/internal/fitment/model"
	"fitment-service/internal/utils"
)

var reHeaderKey = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey normalizes a column name: lowercase, NBSP variants and
// punctuation to spaces, collapsed whitespace, accents left intact.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", " ", " ", " ").Replace(s)
	s = reHeaderKey.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the real map key for a wanted column name. Alternatives
// are supported via "|" (e.g. "DESCRIPCION|DETALLE"); falls back to
// normalized equality and then substring containment for composite headers
// like "precio contado lista 3".
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	nWantAll := make([]string, 0, len(alts))
	for _, a := range alts {
		nWantAll = append(nWantAll, normHeaderKey(a))
	}
	nWant := nWantAll[0]

	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nWantAll {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nWantAll {
			if strings.Contains(nk, n) || strings.Contains(n, nk) {
				score = max(score, len(n))
			}
		}
		// domain-specific nudges for the usual supplier headers
		if strings.Contains(nWant, "descrip") && strings.Contains(nk, "descrip") {
			score += 100
		}
		if strings.Contains(nWant, "precio") && strings.Contains(nk, "precio") {
			score += 100
		}
		if strings.Contains(nWant, "marca") && strings.Contains(nk, "marca") {
			score += 100
		}
		if score > bestScore {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

// looksLikeHeaderMap flags rows that are repeated header lines inside the
// data area, common in multi-section supplier sheets.
func looksLikeHeaderMap(m map[string]string) bool {
	cnt := 0
	for _, v := range m {
		s := strings.ToLower(strings.TrimSpace(v))
		if strings.Contains(s, "descrip") || strings.Contains(s, "codigo") ||
			strings.Contains(s, "precio") || strings.Contains(s, "marca") {
			cnt++
		}
	}
	return cnt >= 2
}

// toSupplierRows maps raw spreadsheet records into supplier rows, skipping
// header echoes and rows without a description.
func toSupplierRows(maps []map[string]string, m model.Mapping) []model.SupplierRow {
	rows := make([]model.SupplierRow, 0, len(maps))
	for _, rec := range maps {
		if looksLikeHeaderMap(rec) {
			continue
		}

		descKey := resolveKey(rec, m.DescKey)
		desc := strings.TrimSpace(rec[descKey])
		if desc == "" {
			continue
		}

		price, _ := utils.ParsePrice(rec[resolveKey(rec, m.PriceKey)])
		list, _ := utils.ParsePrice(rec[resolveKey(rec, m.ListKey)])

		rows = append(rows, model.SupplierRow{
			SKU:         strings.TrimSpace(rec[resolveKey(rec, m.SKUKey)]),
			Description: desc,
			Brand:       strings.TrimSpace(rec[resolveKey(rec, m.BrandKey)]),
			Price:       price,
			ListPrice:   list,
		})
	}
	return rows
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
