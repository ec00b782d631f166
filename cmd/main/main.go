package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "net/http/pprof"

	"fitment-service/internal/ai"
	"fitment-service/internal/config"
	"fitment-service/internal/fitment/service"
	"fitment-service/internal/store"
	serverhttp "fitment-service/server/http"
)

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	// missing AI credentials fail here, not on the first low-confidence row
	var aiParser service.AIParser
	if cfg.AIEnabled() {
		client, err := ai.NewClient(ai.Config{
			APIKey:       cfg.AIAPIKey,
			BaseURL:      cfg.AIBaseURL,
			FastModel:    cfg.AIFastModel,
			PreciseModel: cfg.AIPreciseModel,
			Timeout:      cfg.AITimeout,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("ai client")
		}
		aiParser = client
		logger.Info().Str("model", cfg.AIFastModel).Msg("ai fallback enabled")
	} else {
		logger.Info().Msg("ai fallback disabled, pattern parsing only")
	}

	svc := service.New(aiParser, logger)
	st := store.NewMemory()

	r := serverhttp.NewRouter(cfg, svc, st, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
