package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"payment-status-bot/internal/infra/logging"
)

// WebhookRegistrar is satisfied by the Telegram bot adapter.
type WebhookRegistrar interface {
	RegisterWebhook(ctx context.Context) error
	WebhookURL() string
}

type RouterConfig struct {
	WebhookPath    string
	Webhook        http.Handler
	Metrics        http.Handler
	Registrar      WebhookRegistrar // nil disables /setwebhook
	RequestTimeout time.Duration
}

// NewRouter mounts the webhook, health, metrics and webhook-registration routes.
func NewRouter(cfg RouterConfig, logger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(logger), Recover(logger))
	if cfg.RequestTimeout > 0 {
		r.Use(Timeout(cfg.RequestTimeout))
	}

	r.Post(cfg.WebhookPath, cfg.Webhook.ServeHTTP)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}
	if cfg.Registrar != nil {
		r.Get("/setwebhook", setWebhook(cfg.Registrar, logger))
	}
	return r
}

func setWebhook(reg WebhookRegistrar, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := reg.RegisterWebhook(r.Context()); err != nil {
			logging.With(r.Context(), logger).Error().Err(err).Msg("webhook registration failed")
			http.Error(w, "failed to set webhook", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Webhook set!"))
	}
}
