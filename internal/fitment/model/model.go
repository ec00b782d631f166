package model

import "fmt"

// Parse methods for a FitmentRecord.
const (
	MethodPattern = "pattern"
	MethodAI      = "ai"
)

// FitmentRecord is the structured result of parsing one free-text tire
// description. A re-parse produces a new record; OriginalDescription is
// never mutated after creation.
type FitmentRecord struct {
	Width       *int     `json:"width"`
	AspectRatio *int     `json:"aspect_ratio"`
	RimDiameter *float64 `json:"rim_diameter"` // inches, may be fractional (22.5)
	Construction string  `json:"construction,omitempty"` // R, D, B or -

	LoadIndex   *int   `json:"load_index"`
	SpeedRating string `json:"speed_rating,omitempty"`

	ExtraLoad  bool `json:"extra_load"`
	RunFlat    bool `json:"run_flat"`
	SealInside bool `json:"seal_inside"`
	// TubeType=true means the tire requires an inner tube. Absence of a TT
	// token is treated as tubeless, not unknown, for compatibility with
	// already-imported catalog data.
	TubeType bool `json:"tube_type"`

	Homologation string `json:"homologation,omitempty"`

	OriginalDescription string `json:"original_description"`
	DisplayName         string `json:"display_name"`

	ParseConfidence int      `json:"parse_confidence"` // 0..100
	ParseWarnings   []string `json:"parse_warnings"`
	ParseMethod     string   `json:"parse_method"` // pattern | ai
}

// SizeString reconstructs the canonical size ("205/55R16", "295/80R22.5")
// when width, aspect ratio and rim diameter are all present.
func (f *FitmentRecord) SizeString() string {
	if f.Width == nil || f.AspectRatio == nil || f.RimDiameter == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d%s%s", *f.Width, *f.AspectRatio, f.Construction, trimFloat(*f.RimDiameter))
}

func trimFloat(v float64) string {
	if v == float64(int(v)) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// MatchCandidate is the ephemeral score of one candidate/target pair.
// It is never persisted; the caller keeps only the best one per candidate.
type MatchCandidate struct {
	Score            int  `json:"score"` // weighted sum, not a probability
	SizeMatched      bool `json:"size_matched"`
	BrandMatched     bool `json:"brand_matched"`
	ModelWordOverlap int  `json:"model_word_overlap"`
}

// Acceptable reports whether the score clears the automatic-match gate.
// The threshold of 50 is load-bearing across every reconciliation flow.
func (m MatchCandidate) Acceptable() bool { return m.Score >= 50 }

// Product is one catalog row as the matching and reconcile flows see it.
type Product struct {
	ID        string  `json:"id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	ListPrice float64 `json:"list_price,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// Mapping tells the reconcile run which spreadsheet columns to read.
// Keys support alternatives separated by "|" (e.g. "DESCRIPCION|DETALLE").
type Mapping struct {
	DescKey   string // description column
	BrandKey  string // brand column (optional)
	SKUKey    string // supplier SKU column (optional)
	PriceKey  string // cash price column
	ListKey   string // list price column (optional)
	HeaderRow int    // header row (1-based)
}

// Options controls a parse/reconcile run.
type Options struct {
	ConfidenceThreshold int    // below this the AI fallback is consulted (default 80)
	UseAI               bool   // enable the AI fallback strategy
	AITier              string // "fast" or "precise"
}

// SupplierRow is one line of an uploaded price list after column mapping.
type SupplierRow struct {
	SKU         string  `json:"sku,omitempty"`
	Description string  `json:"description"`
	Brand       string  `json:"brand,omitempty"`
	Price       float64 `json:"price"`
	ListPrice   float64 `json:"list_price,omitempty"`
}

// ReconcileRow is one matched supplier row in a reconcile result.
type ReconcileRow struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	OldPrice   float64 `json:"old_price"`
	NewPrice   float64 `json:"new_price"`
	ListPrice  float64 `json:"list_price,omitempty"`
	SupplierSK string  `json:"supplier_sku,omitempty"`
	MatchScore int     `json:"match_score"`
	Method     string  `json:"method"` // pattern | ai
}

// UnmatchedRow is a supplier row that no catalog product cleared the gate
// for; these go to manual review.
type UnmatchedRow struct {
	SKU         string `json:"sku,omitempty"`
	Description string `json:"description"`
	Brand       string `json:"brand,omitempty"`
	Reason      string `json:"reason,omitempty"`
	// Suggestion is the closest catalog name by string similarity. Advisory
	// only; it never promotes a row past the match gate.
	Suggestion string `json:"suggestion,omitempty"`
}

// ReconcileResult is the full output of one reconcile run.
type ReconcileResult struct {
	Rows      []ReconcileRow `json:"rows"`
	Unmatched []UnmatchedRow `json:"unmatched"`
	Opts      Options        `json:"opts"`
	Map       Mapping        `json:"mapping"`
}
