package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"fitment-service/internal/config"
	fitHnd "fitment-service/internal/fitment/handler"
	"fitment-service/internal/fitment/service"
	"fitment-service/internal/middleware"
	"fitment-service/internal/store"
	"fitment-service/server/http/handlers"
)

func NewRouter(cfg config.Config, svc *service.Service, st store.ProductStore, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check
	r.Get("/health", handlers.Health)

	// parse pipeline
	r.Post("/parse", fitHnd.Parse(cfg, svc, logger))

	// price-list reconciliation
	r.Post("/reconcile", fitHnd.Reconcile(cfg, svc, st, logger))

	// catalog
	r.Get("/products", fitHnd.Products(st, logger))
	r.Post("/products", fitHnd.Products(st, logger))

	return r
}
