package parser

import (
	"regexp"
	"strings"
)

// Internal supplier codes that must never reach a customer-facing name.
var internalCodes = []*regexp.Regexp{
	regexp.MustCompile(`\(NB\)[XxSs]*`),   // (NB)x, (NB)XX, (NB)S
	regexp.MustCompile(`(?i)\(K1\)`),
	regexp.MustCompile(`(?i)\(KS\)`),
	regexp.MustCompile(`(?i)\(JP\)`),
	regexp.MustCompile(`(?i)\(RO[12]\)`),
	regexp.MustCompile(`(?i)\(VOL\)`),
	regexp.MustCompile(`(?i)\(SEAL\)`),
	regexp.MustCompile(`(?i)-@\s*[A-Z]{2}`),
	regexp.MustCompile(`(?i)\b[S-]?AS\+\d+`),
}

var (
	reShortCode   = regexp.MustCompile(`\(\s*[A-Za-z]{1,3}\s*\)`) // (MO), (AO), (N0) style
	reAsterisks   = regexp.MustCompile(`\(?\*+\)?`)
	reTrailingTok = regexp.MustCompile(`(?i)\s+(wl|ncs|elt|as)\s*$`)
	reSpaces      = regexp.MustCompile(`\s+`)
	reSpacePunct  = regexp.MustCompile(`\s+([.,;:)])`)
)

// Clean strips internal catalog codes and punctuation artifacts from a
// free-text description, producing a human-presentable string. Empty in,
// empty out. Idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if s == "" {
		return ""
	}
	out := strings.TrimSpace(s)
	for _, re := range internalCodes {
		out = re.ReplaceAllString(out, " ")
	}
	out = reShortCode.ReplaceAllString(out, " ")
	out = reAsterisks.ReplaceAllString(out, " ")
	// trailing suffix tokens may stack ("... xl wl"), strip until stable
	for {
		next := reTrailingTok.ReplaceAllString(out, "")
		if next == out {
			break
		}
		out = next
	}
	out = reSpaces.ReplaceAllString(out, " ")
	out = reSpacePunct.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

// Model-code variants seen in supplier files, canonicalized to the casing
// the catalog uses. Longer keys are applied first.
var modelCanon = []struct{ re *regexp.Regexp; out string }{
	{regexp.MustCompile(`(?i)\bP7[ -]?CNT\b`), "CINTURATO P7"},
	{regexp.MustCompile(`(?i)\bCINT\s*P7\b`), "CINTURATO P7"},
	{regexp.MustCompile(`(?i)\bP7\s*CINT\b`), "CINTURATO P7"},
	{regexp.MustCompile(`(?i)\bCINT\s*P1\b`), "CINTURATO P1"},
	{regexp.MustCompile(`(?i)\bP1\s*CINT\b`), "CINTURATO P1"},
	{regexp.MustCompile(`(?i)\bS-?A/?T\+`), "SCORPION ALL TERRAIN PLUS"},
	{regexp.MustCompile(`(?i)\bPWRGY\b`), "POWERGY"},
	{regexp.MustCompile(`(?i)\bSCORPN\b`), "SCORPION"},
	{regexp.MustCompile(`(?i)\bSCORP\b`), "SCORPION"},
	{regexp.MustCompile(`(?i)\bCINTUR\b`), "CINTURATO"},
	{regexp.MustCompile(`(?i)\bCINT\b`), "CINTURATO"},
	{regexp.MustCompile(`(?i)\bFORM\b`), "FORMULA"},
	{regexp.MustCompile(`(?i)\bP[-. ]?ZE?RRO\b`), "P ZERO"},
	{regexp.MustCompile(`(?i)\bP[-.]?ZERO\b`), "P ZERO"},
	{regexp.MustCompile(`(?i)\bP0\b`), "P ZERO"},
}

// Technical indicators that are not part of a model name.
var modelStrip = []*regexp.Regexp{
	reSizeMetric, reSizeSimple, reSizeInch,
	regexp.MustCompile(`\b\d{2,3}[A-Z]\b`),     // load/speed
	regexp.MustCompile(`(?i)\b[HSTVWYZ]\d{2,3}\b`), // reversed load/speed typo
	regexp.MustCompile(`(?i)\bXL\b`),
	regexp.MustCompile(`(?i)\bR-?F\b`),
	regexp.MustCompile(`(?i)\bS-?I\b`),
	regexp.MustCompile(`(?i)\bM\+S\b`),
	regexp.MustCompile(`(?i)\bTL\b`),
	regexp.MustCompile(`(?i)\bTT\b`),
	regexp.MustCompile(`\([^)]*\)`),
}

// CleanModel reduces a description to its model residual: size, load/speed
// and technical indicators removed, known model codes canonicalized, and a
// leading brand token dropped when it repeats the separately-stored brand.
func CleanModel(s, brand string) string {
	if s == "" {
		return ""
	}
	out := Clean(s)
	for _, m := range modelCanon {
		out = m.re.ReplaceAllString(out, m.out)
	}
	for _, re := range modelStrip {
		out = re.ReplaceAllString(out, " ")
	}
	out = strings.TrimSpace(reSpaces.ReplaceAllString(out, " "))
	if brand != "" {
		b := strings.ToUpper(strings.TrimSpace(brand))
		up := strings.ToUpper(out)
		if strings.HasPrefix(up, b+" ") {
			out = strings.TrimSpace(out[len(b):])
		} else if up == b {
			out = ""
		}
	}
	return out
}
