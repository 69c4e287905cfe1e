//go:build !integration

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"payment-status-bot/internal/infra/logging"
)

type fakeRegistrar struct {
	err   error
	calls int
}

func (f *fakeRegistrar) RegisterWebhook(context.Context) error {
	f.calls++
	return f.err
}

func (f *fakeRegistrar) WebhookURL() string { return "https://bot.example.com/api/bot" }

func newTestRouter(reg WebhookRegistrar, webhook http.Handler) http.Handler {
	logger := zerolog.Nop()
	return NewRouter(RouterConfig{
		WebhookPath: "/api/bot",
		Webhook:     webhook,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
		Registrar: reg,
	}, &logger)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	var gotTrace string
	webhook := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = logging.TraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := newTestRouter(&fakeRegistrar{}, webhook)

	if rec := serve(h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health: %d %q", rec.Code, rec.Body.String())
	}
	if rec := serve(h, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK || rec.Body.String() != "# metrics" {
		t.Errorf("metrics: %d %q", rec.Code, rec.Body.String())
	}
	rec := serve(h, http.MethodPost, "/api/bot", "{}")
	if rec.Code != http.StatusOK {
		t.Errorf("webhook: %d", rec.Code)
	}
	if gotTrace == "" || rec.Header().Get("X-Request-Id") != gotTrace {
		t.Errorf("expected trace id in context and response header, got %q / %q", gotTrace, rec.Header().Get("X-Request-Id"))
	}
	if rec := serve(h, http.MethodGet, "/api/bot", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET webhook: expected 405, got %d", rec.Code)
	}
}

func TestRouter_SetWebhook(t *testing.T) {
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	reg := &fakeRegistrar{}
	rec := serve(newTestRouter(reg, noop), http.MethodGet, "/setwebhook", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Webhook set!" || reg.calls != 1 {
		t.Errorf("unexpected response %d %q calls=%d", rec.Code, rec.Body.String(), reg.calls)
	}

	reg = &fakeRegistrar{err: errors.New("unauthorized")}
	if rec := serve(newTestRouter(reg, noop), http.MethodGet, "/setwebhook", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}

	if rec := serve(newTestRouter(nil, noop), http.MethodGet, "/setwebhook", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a registrar, got %d", rec.Code)
	}
}

func TestRecover(t *testing.T) {
	logger := zerolog.Nop()
	h := Recover(&logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	if rec := serve(h, http.MethodGet, "/", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestTraceID_KeepsCallerID(t *testing.T) {
	var got string
	h := TraceID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = logging.TraceID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "abc-123" {
		t.Errorf("expected caller id, got %q", got)
	}
}
