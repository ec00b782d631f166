// Chat-completions client for the AI fallback parsing strategy. One network
// round trip per call; retries, if any, belong to the caller.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"fitment-service/internal/fitment/model"
)

// Model tiers. The tier maps to a concrete model name in Config.
const (
	TierFast    = "fast"
	TierPrecise = "precise"
)

var (
	ErrMissingAPIKey = errors.New("ai: api key not configured")
	ErrEmptyInput    = errors.New("ai: empty description")
	ErrEmptyReply    = errors.New("ai: provider returned no content")
)

// Config carries everything the client needs; nothing is read from ambient
// process state.
type Config struct {
	APIKey       string
	BaseURL      string // chat-completions endpoint
	FastModel    string
	PreciseModel string
	Timeout      time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient validates the configuration eagerly so a missing credential
// fails at startup, not on the first low-confidence description.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("ai: base url not configured")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}}, nil
}

const systemPrompt = `Eres un experto técnico en nomenclatura de neumáticos.

PATRONES VÁLIDOS:
1. Métrico: 185/65 R15 88H
2. Pulgadas: 31x10.5 R15
3. Numérico: 7.50-16

REGLAS ESTRICTAS:
1. ANCHO: número (145-355 para métrico, o pulgadas)
2. PERFIL: porcentaje (30-100) o puede faltar en neumáticos antiguos
3. CONSTRUCCIÓN: R (radial), D (diagonal), B (bias belt), o - (antiguo)
4. DIÁMETRO: 10-24 pulgadas
5. ÍNDICE CARGA: 0-279 (tabla estándar)
6. VELOCIDAD: letras A-Z excepto I,O,X

CÓDIGOS ESPECIALES:
- XL/EXTRA LOAD: refuerzo extra
- RFT/RUN FLAT: neumático antipinchazos
- MOE: Mercedes Original Extended
- SSR: Self Supporting Runflat
- TL/TUBELESS: sin cámara
- TT/TUBE TYPE: con cámara
- Homologaciones: MO, N0, N1, AO, K1, J

IMPORTANTE:
- Si NO estás seguro, pon confidence < 80
- Si encuentras datos inconsistentes, explícalo en "reasoning"
- Si falta información, pon null (no inventes)
- El display_name debe ser limpio y legible para clientes

Responde SOLO con un JSON válido con esta estructura:
{
  "width": number | null,
  "aspect_ratio": number | null,
  "construction": "R" | "D" | "B" | "-" | null,
  "rim_diameter": number | null,
  "load_index": number | null,
  "speed_rating": string | null,
  "extra_load": boolean,
  "run_flat": boolean,
  "seal_inside": boolean,
  "tube_type": "TL" | "TT" | null,
  "homologation": string | null,
  "display_name": string,
  "confidence": number,
  "reasoning": string
}`

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// reply is the provider-side view of a FitmentRecord.
type reply struct {
	Width        *float64 `json:"width"`
	AspectRatio  *int     `json:"aspect_ratio"`
	Construction *string  `json:"construction"`
	RimDiameter  *float64 `json:"rim_diameter"`
	LoadIndex    *int     `json:"load_index"`
	SpeedRating  *string  `json:"speed_rating"`
	ExtraLoad    bool     `json:"extra_load"`
	RunFlat      bool     `json:"run_flat"`
	SealInside   bool     `json:"seal_inside"`
	TubeType     *string  `json:"tube_type"`
	Homologation *string  `json:"homologation"`
	DisplayName  string   `json:"display_name"`
	Confidence   int      `json:"confidence"`
	Reasoning    string   `json:"reasoning"`
}

func (c *Client) modelFor(tier string) string {
	if tier == TierPrecise && c.cfg.PreciseModel != "" {
		return c.cfg.PreciseModel
	}
	return c.cfg.FastModel
}

// Parse sends one description to the provider and maps the structured-JSON
// reply into a FitmentRecord. Network errors, non-2xx statuses and
// malformed replies all propagate: unlike a low-confidence pattern match,
// a failed AI call carries no partial result worth trusting.
func (c *Client) Parse(ctx context.Context, description, tier string) (*model.FitmentRecord, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyInput
	}

	body, err := json.Marshal(chatRequest{
		Model: c.modelFor(tier),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("DESCRIPCIÓN A ANALIZAR:\n%q", description)},
		},
		Temperature:    0.1,
		MaxTokens:      500,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ai: provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("ai: decode response: %w", err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("ai: provider error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyReply
	}

	var rep reply
	if err := json.Unmarshal([]byte(unfence(cr.Choices[0].Message.Content)), &rep); err != nil {
		return nil, fmt.Errorf("ai: malformed reply: %w", err)
	}

	return recordFrom(description, rep), nil
}

// unfence strips a markdown code fence some models wrap JSON in.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func recordFrom(description string, rep reply) *model.FitmentRecord {
	rec := &model.FitmentRecord{
		AspectRatio:         rep.AspectRatio,
		RimDiameter:         rep.RimDiameter,
		LoadIndex:           rep.LoadIndex,
		ExtraLoad:           rep.ExtraLoad,
		RunFlat:             rep.RunFlat,
		SealInside:          rep.SealInside,
		TubeType:            rep.TubeType != nil && *rep.TubeType == "TT",
		OriginalDescription: description,
		DisplayName:         description,
		ParseConfidence:     rep.Confidence,
		ParseMethod:         model.MethodAI,
	}
	if rep.Width != nil {
		w := int(math.Round(*rep.Width))
		rec.Width = &w
	}
	if rep.Construction != nil {
		rec.Construction = *rep.Construction
	}
	if rep.SpeedRating != nil {
		rec.SpeedRating = *rep.SpeedRating
	}
	if rep.Homologation != nil {
		rec.Homologation = *rep.Homologation
	}
	if rep.DisplayName != "" {
		rec.DisplayName = rep.DisplayName
	}
	if rec.ParseConfidence == 0 {
		rec.ParseConfidence = 85
	}
	if rec.ParseConfidence < 80 && rep.Reasoning != "" {
		rec.ParseWarnings = []string{rep.Reasoning}
	}
	return rec
}
