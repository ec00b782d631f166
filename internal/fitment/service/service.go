// Package service orchestrates the parse pipeline (cleaner -> pattern
// matcher -> confidence scorer -> optional AI fallback) and the reconcile
// run over an uploaded supplier price list.
package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"fitment-service/internal/ai"
	"fitment-service/internal/fitment/match"
	"fitment-service/internal/fitment/model"
	"fitment-service/internal/fitment/parser"
)

const (
	defaultThreshold = 80

	// similarity floor for advisory closest-name suggestions on unmatched rows
	suggestMinSimilarity = 0.6
)

// AIParser is the fallback strategy boundary; *ai.Client satisfies it.
type AIParser interface {
	Parse(ctx context.Context, description, tier string) (*model.FitmentRecord, error)
}

type Service struct {
	ai     AIParser // nil when no provider is configured
	logger zerolog.Logger
}

func New(aiClient AIParser, logger zerolog.Logger) *Service {
	return &Service{ai: aiClient, logger: logger}
}

// Parse runs one description through the full pipeline. The pattern result
// is always computed; the AI strategy is consulted only when the pattern
// confidence falls under the threshold, to bound latency and cost. An AI
// failure never loses the pattern result: it degrades to it with a warning.
func (s *Service) Parse(ctx context.Context, description string, opt model.Options) *model.FitmentRecord {
	rec := PatternParse(description)

	threshold := opt.ConfidenceThreshold
	if threshold <= 0 {
		threshold = defaultThreshold
	}

	if rec.ParseConfidence >= threshold || !opt.UseAI || s.ai == nil {
		return rec
	}

	tier := opt.AITier
	if tier == "" {
		tier = ai.TierFast
	}
	aiRec, err := s.ai.Parse(ctx, description, tier)
	if err != nil {
		s.logger.Warn().Err(err).Str("description", description).Msg("ai fallback failed, keeping pattern result")
		rec.ParseWarnings = append(rec.ParseWarnings, "ai fallback failed: "+err.Error())
		return rec
	}
	aiRec.ParseConfidence = parser.Clamp(aiRec.ParseConfidence)
	return aiRec
}

// ParseBatch parses many descriptions; one bad row never aborts the batch.
func (s *Service) ParseBatch(ctx context.Context, descriptions []string, opt model.Options) []*model.FitmentRecord {
	out := make([]*model.FitmentRecord, 0, len(descriptions))
	for _, d := range descriptions {
		out = append(out, s.Parse(ctx, d, opt))
	}
	return out
}

// PatternParse is the synchronous, pure-pattern path: clean, extract,
// score. Extraction miss is a valid low-confidence result, not an error.
func PatternParse(description string) *model.FitmentRecord {
	p := parser.Extract(description)
	confidence, warnings := parser.Score(p, description)

	return &model.FitmentRecord{
		Width:               p.Width,
		AspectRatio:         p.AspectRatio,
		RimDiameter:         p.RimDiameter,
		Construction:        p.Construction,
		LoadIndex:           p.LoadIndex,
		SpeedRating:         p.SpeedRating,
		ExtraLoad:           p.ExtraLoad,
		RunFlat:             p.RunFlat,
		SealInside:          p.SealInside,
		TubeType:            p.TubeType,
		Homologation:        p.Homologation,
		OriginalDescription: description,
		DisplayName:         parser.Clean(description),
		ParseConfidence:     parser.Clamp(confidence),
		ParseWarnings:       warnings,
		ParseMethod:         model.MethodPattern,
	}
}

// Reconcile matches every supplier row against the catalog and reports
// price updates for accepted matches plus the unmatched remainder for
// manual review. Products must arrive in a deterministic order (the store
// lists by ID) so tie-breaks reproduce across runs.
func (s *Service) Reconcile(ctx context.Context, rows []model.SupplierRow, products []model.Product, opt model.Options) model.ReconcileResult {
	targets := make([]match.Target, len(products))
	names := make([]string, len(products))
	for i, p := range products {
		targets[i] = match.Target{Name: p.Name, Brand: p.Brand}
		names[i] = p.Name
	}
	suggestIdx := match.NewSuggestIndex(names)

	res := model.ReconcileResult{
		Rows:      make([]model.ReconcileRow, 0, len(rows)),
		Unmatched: make([]model.UnmatchedRow, 0),
		Opts:      opt,
	}

	for _, row := range rows {
		if row.Description == "" {
			continue
		}
		rec := s.Parse(ctx, row.Description, opt)

		idx, best, ok := match.Best(match.Candidate{Description: row.Description, Brand: row.Brand}, targets)
		if !ok {
			um := model.UnmatchedRow{
				SKU:         row.SKU,
				Description: row.Description,
				Brand:       row.Brand,
				Reason:      unmatchedReason(rec),
			}
			if i, _, found := suggestIdx.Suggest(row.Description, suggestMinSimilarity); found {
				um.Suggestion = products[i].Name
			}
			res.Unmatched = append(res.Unmatched, um)
			continue
		}

		prod := products[idx]
		res.Rows = append(res.Rows, model.ReconcileRow{
			ProductID:  prod.ID,
			Name:       prod.Name,
			Brand:      prod.Brand,
			OldPrice:   prod.Price,
			NewPrice:   row.Price,
			ListPrice:  row.ListPrice,
			SupplierSK: row.SKU,
			MatchScore: best.Score,
			Method:     rec.ParseMethod,
		})
	}

	s.logger.Info().
		Int("rows", len(rows)).
		Int("matched", len(res.Rows)).
		Int("unmatched", len(res.Unmatched)).
		Msg("reconcile done")
	return res
}

func unmatchedReason(rec *model.FitmentRecord) string {
	if rec.SizeString() == "" {
		return "size not recognized"
	}
	return "no catalog product above match threshold"
}

// Category derives the catalog category from the parsed width and the raw
// description keywords, per the import heuristics the catalog was built
// with.
func Category(description string, width *int) string {
	descUp := " " + strings.ToUpper(parser.Clean(description)) + " "

	switch {
	case containsAny(descUp, " M/C ", " MT 60 ", " SUPER CITY "):
		return "moto"
	case containsAny(descUp, " LT ", " CARRIER ", " CHRONO ") || strings.HasSuffix(descUp, "C "):
		return "camion"
	case (width != nil && *width >= 235) || containsAny(descUp, "SCORPION", " SUV ", " 4X4 ", " ATR ", " MTR "):
		return "camioneta"
	default:
		return "auto"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
