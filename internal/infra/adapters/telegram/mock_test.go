//go:build !integration

package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/infra/logging"
	"payment-status-bot/internal/infra/worker"
)

var errAPIDown = errors.New("api down")

// fakeAPI records every call made through botAPI.
type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
	reqErr   error
	updates  chan tgbotapi.Update
	stopped  bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 8)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if f.reqErr != nil {
		return nil, f.reqErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

// recordingProcessor stores processed events with their trace ids.
type recordingProcessor struct {
	mu     sync.Mutex
	events []model.InboundEvent
	traces []string
}

func (p *recordingProcessor) Process(ctx context.Context, ev model.InboundEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	p.traces = append(p.traces, logging.TraceID(ctx))
}

// inlineSubmitter runs tasks on Submit unless err is set.
type inlineSubmitter struct {
	err   error
	count int
}

func (s *inlineSubmitter) Submit(task worker.Task) error {
	if s.err != nil {
		return s.err
	}
	s.count++
	return task(context.Background())
}

type recordingTransport struct {
	delivered [][]model.OutboundAction
}

func (r *recordingTransport) Deliver(_ context.Context, actions []model.OutboundAction) {
	r.delivered = append(r.delivered, actions)
}

// stubDispatcher answers every wanted event with actions; unwanted
// events get nothing.
type stubDispatcher struct {
	calls   int
	actions []model.OutboundAction
	ignore  bool
}

func (s *stubDispatcher) Handle(context.Context, model.InboundEvent) []model.OutboundAction {
	s.calls++
	if s.ignore {
		return nil
	}
	return s.actions
}

func (s *stubDispatcher) Wants(context.Context, model.InboundEvent) bool { return !s.ignore }

type stubLimiter struct {
	allowed bool
	err     error
	calls   *int
}

func (s stubLimiter) Allow(context.Context, int64) (bool, error) {
	if s.calls != nil {
		*s.calls++
	}
	return s.allowed, s.err
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
