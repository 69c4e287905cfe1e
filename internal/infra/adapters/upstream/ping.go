package upstream

import (
	"context"
	"net/http"
	"time"

	"payment-status-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.ServerPinger = (*Pinger)(nil)

const (
	PingOperational = "*Services Operational*"
	PingOffline     = "*Server offline.* Contact Cyberplumber immediately to resolve."
	PingFailed      = "*Ping failed.* Please try again later."
)

// Pinger reports gateway health as a Markdown status line.
type Pinger struct {
	base
	url string
}

func NewPinger(url string, hc *http.Client, timeout time.Duration, logger *zerolog.Logger) *Pinger {
	return &Pinger{base: newBase("ping", hc, timeout, logger), url: url}
}

func (p *Pinger) Ping(ctx context.Context) string {
	start := time.Now()
	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.observe(outcomeError, start)
		p.log.Error().Err(err).Msg("build ping request")
		return PingFailed
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.observe(outcomeError, start)
		p.log.Error().Err(err).Msg("ping failed")
		return PingFailed
	}
	resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		p.observe(outcomeRejected, start)
		p.log.Warn().Int("status", resp.StatusCode).Msg("server reported offline")
		return PingOffline
	}
	p.observe(outcomeOK, start)
	return PingOperational
}
