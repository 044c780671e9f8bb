package serverhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tankfill-service/internal/cargo/dataset"
	cargoHnd "tankfill-service/internal/cargo/handler"
	"tankfill-service/internal/config"
	"tankfill-service/internal/middleware"
	"tankfill-service/internal/notify"
	"tankfill-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, store *dataset.Store, mailer *notify.Brevo) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> metrics -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxBodyKB) * 1024))

	r.Get("/health", handlers.Health(store))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/calculate", cargoHnd.Calculate(cfg, logger, store))
	r.Post("/send-email", cargoHnd.SendEmail(cfg, logger, store, mailer))
	r.Post("/dataset/reload", handlers.ReloadDataset(logger, store))

	return r
}
