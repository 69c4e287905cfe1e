// File: internal/infra/adapters/upstream/client.go
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"payment-status-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeRejected = "rejected"
	outcomeError    = "error"

	// cap on bodies echoed back to chats or logs
	maxBodyBytes = 64 * 1024
	// cap on downloaded descriptor lists
	maxDescriptorBytes = 8 << 20
)

// base is shared by every client: one http.Client and one per-call deadline.
type base struct {
	name    string
	client  *http.Client
	timeout time.Duration
	log     *zerolog.Logger
}

func newBase(name string, hc *http.Client, timeout time.Duration, logger *zerolog.Logger) base {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	l := logger.With().Str("upstream", name).Logger()
	return base{name: name, client: hc, timeout: timeout, log: &l}
}

// withDeadline bounds one call; a timeout surfaces as an ordinary error.
func (b base) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

func (b base) observe(outcome string, start time.Time) {
	metrics.ObserveUpstreamCall(b.name, outcome, time.Since(start))
}

func readBody(resp *http.Response) (string, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	return string(data), err
}

// readFullBody reads the whole body and fails instead of truncating past limit.
func readFullBody(resp *http.Response, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("body exceeds %d bytes", limit)
	}
	return string(data), nil
}

func isSuccess(code int) bool { return code >= 200 && code < 300 }
