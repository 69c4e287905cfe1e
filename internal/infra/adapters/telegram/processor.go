package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/domain/ports/adapter"
	"payment-status-bot/internal/infra/i18n"
	"payment-status-bot/internal/infra/logging"
	"payment-status-bot/internal/infra/metrics"
	"payment-status-bot/internal/usecase"
)

// RateLimiter is satisfied by the Redis per-chat limiter.
type RateLimiter interface {
	Allow(ctx context.Context, chatID int64) (bool, error)
}

// EventProcessor handles one normalized event end to end.
type EventProcessor interface {
	Process(ctx context.Context, ev model.InboundEvent)
}

// Processor runs an event through the optional rate limit, the dispatcher
// and the transport. Only events the dispatcher wants count against the
// limit, so ignored group chatter neither spends the budget nor draws a
// notice.
type Processor struct {
	dispatcher usecase.DispatcherUseCase
	out        adapter.Transport
	limiter    RateLimiter
	t          *i18n.Translator
	log        *zerolog.Logger
}

// NewProcessor wires the pipeline. limiter may be nil.
func NewProcessor(d usecase.DispatcherUseCase, out adapter.Transport, limiter RateLimiter, t *i18n.Translator, logger *zerolog.Logger) *Processor {
	return &Processor{dispatcher: d, out: out, limiter: limiter, t: t, log: logger}
}

func (p *Processor) Process(ctx context.Context, ev model.InboundEvent) {
	ctx = logging.WithChatID(ctx, ev.ChatID)
	if p.limiter != nil && p.dispatcher.Wants(ctx, ev) {
		allowed, err := p.limiter.Allow(ctx, ev.ChatID)
		switch {
		case err != nil:
			logging.With(ctx, p.log).Warn().Err(err).Msg("rate limiter unavailable, allowing event")
		case !allowed:
			metrics.IncRateLimitTriggered()
			p.out.Deliver(ctx, p.rateLimited(ev))
			return
		}
	}
	p.out.Deliver(ctx, p.dispatcher.Handle(ctx, ev))
}

func (p *Processor) rateLimited(ev model.InboundEvent) []model.OutboundAction {
	if ev.Kind == model.EventButtonPress {
		return []model.OutboundAction{model.AckButton(ev.CallbackAckID, p.t.T("rate_limited"))}
	}
	return []model.OutboundAction{model.SendText(ev.ChatID, p.t.T("rate_limited"), nil)}
}
