package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d.\-]`)

// ParsePrice parses supplier price cells like "$ 184.500,00", "1.234,50",
// "(1 200,00)" (negatives in parentheses) and plain "1234.5". Argentine
// exports use "." as thousands separator and "," as decimal.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	// strip currency signs and non-breaking space variants
	repl := strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "", "$", "", "ARS", "")
	s = repl.Replace(s)

	// "1.234,50" -> "1234.50"; a lone "." with no "," is already decimal
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}
