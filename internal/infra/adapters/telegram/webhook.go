package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"payment-status-bot/internal/infra/logging"
	"payment-status-bot/internal/infra/metrics"
	"payment-status-bot/internal/infra/worker"
)

const maxWebhookBody = 1 << 20

// Submitter is satisfied by *worker.Pool.
type Submitter interface {
	Submit(task worker.Task) error
}

// Ingestor normalizes updates and queues them for processing.
type Ingestor struct {
	proc EventProcessor
	pool Submitter
	log  *zerolog.Logger
}

func NewIngestor(proc EventProcessor, pool Submitter, logger *zerolog.Logger) *Ingestor {
	return &Ingestor{proc: proc, pool: pool, log: logger}
}

// Ingest queues the update. It reports false with a nil error for updates
// that carry nothing to handle, and the pool's error when it is saturated.
func (in *Ingestor) Ingest(ctx context.Context, up tgbotapi.Update) (bool, error) {
	ev, ok := Normalize(up)
	if !ok {
		return false, nil
	}
	traceID := logging.TraceID(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
	}
	updateID := up.UpdateID
	err := in.pool.Submit(func(ctx context.Context) error {
		ctx = logging.WithUpdateID(logging.WithTraceID(ctx, traceID), updateID)
		in.proc.Process(ctx, ev)
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// NewWebhookHandler accepts platform deliveries. Malformed bodies get 400,
// and a saturated pool gets 503 so the platform redelivers later.
func NewWebhookHandler(in *Ingestor, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.With(r.Context(), logger)

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			metrics.IncWebhookUpdate("malformed")
			log.Warn().Err(err).Msg("failed to read webhook body")
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		var up tgbotapi.Update
		if err := json.Unmarshal(body, &up); err != nil {
			metrics.IncWebhookUpdate("malformed")
			log.Warn().Err(err).Msg("failed to decode webhook update")
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		accepted, err := in.Ingest(r.Context(), up)
		switch {
		case err != nil:
			metrics.IncWebhookUpdate("rejected")
			log.Warn().Err(err).Int("update_id", up.UpdateID).Msg("webhook update rejected")
			http.Error(w, "busy", http.StatusServiceUnavailable)
		case !accepted:
			metrics.IncWebhookUpdate("empty")
			log.Debug().Int("update_id", up.UpdateID).Msg("ignoring update without text or button")
			w.WriteHeader(http.StatusOK)
		default:
			metrics.IncWebhookUpdate("accepted")
			w.WriteHeader(http.StatusOK)
		}
	}
}
