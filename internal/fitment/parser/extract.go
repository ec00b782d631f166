package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Top-level size patterns, tried in order; each requires a different
// delimiter shape so at most one can win.
var (
	// 205/55R16, 235/60 ZR17, 295/80R22.5
	reSizeMetric = regexp.MustCompile(`(?i)(\d{2,3})/(\d{2,3})[-\s]*Z?([RDB])\s*(\d{2}(?:\.\d)?)`)
	// 175R13 — no aspect ratio, older/agricultural nomenclature
	reSizeSimple = regexp.MustCompile(`(?i)\b(\d{3})Z?([RDB])(\d{2}(?:\.\d)?)\b`)
	// 31x10.5R15 — inch-diagonal
	reSizeInch = regexp.MustCompile(`(?i)\b(\d{2,3})X(\d{1,2}(?:\.\d{1,2})?)R(\d{2})\b`)
)

var (
	reLoadSpeed  = regexp.MustCompile(`\b(\d{2,3})([A-Z])\b`)
	reExtraLoad  = regexp.MustCompile(`(?i)\b(XL|EXTRA ?LOAD)\b`)
	reRunFlat    = regexp.MustCompile(`(?i)\b(R-?F|RFT|RUN[- ]?FLAT)\b`)
	reSealInside = regexp.MustCompile(`(?i)\b(S-?I|SEAL[- ]?INSIDE)\b`)
	reTubeType   = regexp.MustCompile(`(?i)\bTT\b`)
)

// OEM homologation codes worth keeping on the record.
var homologations = []struct {
	re    *regexp.Regexp
	brand string
}{
	{regexp.MustCompile(`\(\*\)`), "BMW"},
	{regexp.MustCompile(`(?i)\(MO1?\)`), "Mercedes"},
	{regexp.MustCompile(`(?i)\(AO\)`), "Audi"},
	{regexp.MustCompile(`\(N\d\)`), "Porsche"},
	{regexp.MustCompile(`(?i)\(J\)`), "Jaguar"},
	{regexp.MustCompile(`(?i)\(F\)`), "Ferrari"},
	{regexp.MustCompile(`(?i)\(VOL\)`), "Volvo"},
	{regexp.MustCompile(`(?i)\(K1\)`), "Ferrari"},
}

// Confidence contributions per extracted element.
const (
	confSizeMetric = 70
	confSizeInch   = 60
	confSizeSimple = 50
	confLoadSpeed  = 15
	confFlag       = 5
)

// Partial is the raw output of Extract before scoring: the extracted
// fields plus the running confidence contribution of each successful match.
type Partial struct {
	Width        *int
	AspectRatio  *int
	RimDiameter  *float64
	Construction string

	LoadIndex   *int
	SpeedRating string

	ExtraLoad  bool
	RunFlat    bool
	SealInside bool
	TubeType   bool

	Homologation string

	Confidence int
}

// SizeKey renders the extracted size as a comparable canonical string
// ("205/55R16", "175/-R13", "295/80R22.5"), or "" when no size matched.
// Matching compares these keys for exact equality only.
func (p Partial) SizeKey() string {
	if p.Width == nil || p.RimDiameter == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(*p.Width))
	b.WriteByte('/')
	if p.AspectRatio != nil {
		b.WriteString(strconv.Itoa(*p.AspectRatio))
	} else {
		b.WriteByte('-')
	}
	b.WriteString(p.Construction)
	b.WriteString(strconv.FormatFloat(*p.RimDiameter, 'f', -1, 64))
	return b.String()
}

// Extract applies the ordered size patterns and the independent token scans
// to a raw description. A description with no recognizable size is not an
// error: all size fields stay nil and the size contribution is 0.
func Extract(description string) Partial {
	var p Partial
	if strings.TrimSpace(description) == "" {
		return p
	}
	desc := strings.ToUpper(strings.TrimSpace(description))

	switch {
	case extractMetric(desc, &p):
		p.Confidence += confSizeMetric
	case extractInch(desc, &p):
		p.Confidence += confSizeInch
	case extractSimple(desc, &p):
		p.Confidence += confSizeSimple
	}

	if m := reLoadSpeed.FindAllStringSubmatch(stripSize(desc), -1); len(m) > 0 {
		li, _ := strconv.Atoi(m[0][1])
		p.LoadIndex = &li
		p.SpeedRating = m[0][2]
		p.Confidence += confLoadSpeed
	}

	if reExtraLoad.MatchString(desc) {
		p.ExtraLoad = true
		p.Confidence += confFlag
	}
	if reRunFlat.MatchString(desc) {
		p.RunFlat = true
		p.Confidence += confFlag
	}
	if reSealInside.MatchString(desc) {
		p.SealInside = true
		p.Confidence += confFlag
	}
	if reTubeType.MatchString(desc) {
		p.TubeType = true
		p.Confidence += confFlag
	}

	for _, h := range homologations {
		if m := h.re.FindString(description); m != "" {
			p.Homologation = m + " " + h.brand
			break
		}
	}

	return p
}

func extractMetric(desc string, p *Partial) bool {
	m := reSizeMetric.FindStringSubmatch(desc)
	if m == nil {
		return false
	}
	w, _ := strconv.Atoi(m[1])
	ar, _ := strconv.Atoi(m[2])
	rim, _ := strconv.ParseFloat(m[4], 64)
	p.Width = &w
	p.AspectRatio = &ar
	p.Construction = strings.ToUpper(m[3])
	p.RimDiameter = &rim
	return true
}

func extractSimple(desc string, p *Partial) bool {
	m := reSizeSimple.FindStringSubmatch(desc)
	if m == nil {
		return false
	}
	w, _ := strconv.Atoi(m[1])
	rim, _ := strconv.ParseFloat(m[3], 64)
	p.Width = &w
	p.Construction = strings.ToUpper(m[2])
	p.RimDiameter = &rim
	return true
}

// Inch-diagonal sizes carry width and section height in inches; the catalog
// stores millimeters, so convert and derive the aspect ratio.
func extractInch(desc string, p *Partial) bool {
	m := reSizeInch.FindStringSubmatch(desc)
	if m == nil {
		return false
	}
	inW, _ := strconv.ParseFloat(m[1], 64)
	inH, _ := strconv.ParseFloat(m[2], 64)
	rim, _ := strconv.ParseFloat(m[3], 64)
	w := int(math.Round(inW * 25.4))
	ar := int(math.Round(inH / inW * 100))
	p.Width = &w
	p.AspectRatio = &ar
	p.Construction = "R"
	p.RimDiameter = &rim
	return true
}

// stripSize removes the size span so the load/speed scan cannot pick up
// digits that belong to the size itself.
func stripSize(desc string) string {
	for _, re := range []*regexp.Regexp{reSizeMetric, reSizeInch, reSizeSimple} {
		if loc := re.FindStringIndex(desc); loc != nil {
			return desc[:loc[0]] + " " + desc[loc[1]:]
		}
	}
	return desc
}
