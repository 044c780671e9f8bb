package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tankfill-service/internal/cargo/dataset"
	"tankfill-service/internal/config"
	"tankfill-service/internal/notify"
	serverhttp "tankfill-service/server/http"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	store := dataset.NewStore(cfg.DatasetPath, cfg.DatasetHeaderRow, logger)
	if err := store.Reload(); err != nil {
		// lookups answer DatasetUnavailable until a reload succeeds
		logger.Warn().Err(err).Msg("starting without reference data")
	}

	mailer := notify.NewBrevo(cfg, logger)
	if !mailer.Enabled() {
		logger.Warn().Msg("BREVO_API_KEY not set, outbound delivery disabled")
	}

	r := serverhttp.NewRouter(cfg, logger, store, mailer)

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
