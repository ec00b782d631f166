package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"fitment-service/internal/config"
	"fitment-service/internal/fileio"
	"fitment-service/internal/fitment/model"
	"fitment-service/internal/fitment/service"
	"fitment-service/internal/store"
)

type parseRequest struct {
	Description  string   `json:"description"`
	Descriptions []string `json:"descriptions,omitempty"` // batch form
	UseAI        bool     `json:"use_ai"`
	Tier         string   `json:"tier,omitempty"` // fast | precise
}

// Parse returns an http.HandlerFunc for POST /parse: one description (or a
// batch) through the full pipeline.
func Parse(cfg config.Config, svc *service.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req parseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Description == "" && len(req.Descriptions) == 0 {
			http.Error(w, "description required", http.StatusBadRequest)
			return
		}

		opt := model.Options{
			ConfidenceThreshold: cfg.ConfidenceThreshold,
			UseAI:               req.UseAI && cfg.AIEnabled(),
			AITier:              req.Tier,
		}

		if len(req.Descriptions) > 0 {
			writeJSON(w, logger, svc.ParseBatch(r.Context(), req.Descriptions, opt))
			return
		}
		writeJSON(w, logger, svc.Parse(r.Context(), req.Description, opt))
	}
}

// Reconcile returns an http.HandlerFunc for POST /reconcile: an uploaded
// supplier price list (xlsx/xls/csv) matched against the catalog. With
// apply=1 the accepted price updates are persisted.
func Reconcile(cfg config.Config, svc *service.Service, st store.ProductStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log := logger
		if rid := r.Header.Get("X-Request-ID"); rid != "" {
			log = logger.With().Str("req_id", rid).Logger()
		}
		defer r.Body.Close()

		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		headerRow := atoi(r.FormValue("header_row"), 1)
		recs, err := fileio.ReadAnyMaps(file, header.Filename, headerRow)
		if err != nil {
			http.Error(w, "failed to read price list: "+err.Error(), http.StatusBadRequest)
			return
		}

		mapping := model.Mapping{
			DescKey:   defaultStr(r.FormValue("desc"), "DESCRIPCION|DETALLE"),
			BrandKey:  defaultStr(r.FormValue("brand"), "MARCA"),
			SKUKey:    defaultStr(r.FormValue("sku"), "CODIGO|SKU"),
			PriceKey:  defaultStr(r.FormValue("price"), "CONTADO|PRECIO"),
			ListKey:   defaultStr(r.FormValue("list"), "LISTA"),
			HeaderRow: headerRow,
		}
		opt := model.Options{
			ConfidenceThreshold: cfg.ConfidenceThreshold,
			UseAI:               toBool(r.FormValue("use_ai"), false) && cfg.AIEnabled(),
			AITier:              r.FormValue("tier"),
		}

		rows := toSupplierRows(recs, mapping)

		products, err := st.List(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list products")
			http.Error(w, "catalog unavailable", http.StatusInternalServerError)
			return
		}

		res := svc.Reconcile(r.Context(), rows, products, opt)
		res.Map = mapping

		if toBool(r.FormValue("apply"), false) {
			applied := 0
			for _, row := range res.Rows {
				if row.NewPrice <= 0 || row.NewPrice == row.OldPrice {
					continue
				}
				if err := st.UpdatePrice(r.Context(), row.ProductID, row.NewPrice, row.ListPrice); err != nil {
					log.Warn().Err(err).Str("product_id", row.ProductID).Msg("price update failed")
					continue
				}
				applied++
			}
			log.Info().Int("applied", applied).Msg("price updates applied")
		}

		writeJSON(w, log, res)

		log.Info().
			Int("rows", len(rows)).
			Int("matched", len(res.Rows)).
			Int("unmatched", len(res.Unmatched)).
			Dur("elapsed", time.Since(start)).
			Msg("reconcile request done")
	}
}

// Products handles GET (list) and POST (batch import) for the catalog.
// Imported products get their category derived from the parsed fitment.
func Products(st store.ProductStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			products, err := st.List(r.Context())
			if err != nil {
				http.Error(w, "catalog unavailable", http.StatusInternalServerError)
				return
			}
			writeJSON(w, logger, products)

		case http.MethodPost:
			defer r.Body.Close()
			var products []model.Product
			if err := json.NewDecoder(r.Body).Decode(&products); err != nil {
				http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
				return
			}
			for i := range products {
				if products[i].Category == "" {
					rec := service.PatternParse(products[i].Name)
					products[i].Category = service.Category(products[i].Name, rec.Width)
				}
			}
			if err := st.BatchInsert(r.Context(), products); err != nil {
				http.Error(w, "insert failed", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, logger, map[string]int{"inserted": len(products)})

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error().Err(err).Msg("write json")
	}
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
