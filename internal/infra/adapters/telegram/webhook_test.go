//go:build !integration

package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"payment-status-bot/internal/infra/logging"
	"payment-status-bot/internal/infra/worker"
)

var zeroTime time.Time

const textUpdate = `{"update_id":11,"message":{"message_id":5,"date":1700000000,"chat":{"id":-100,"type":"group"},"text":"/help","some_new_field":{"x":1}}}`

func postWebhook(ctx context.Context, h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/bot", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_AcceptsUpdate(t *testing.T) {
	proc := &recordingProcessor{}
	pool := &inlineSubmitter{}
	h := NewWebhookHandler(NewIngestor(proc, pool, nopLogger()), nopLogger())

	ctx := logging.WithTraceID(context.Background(), "trace-1")
	rec := postWebhook(ctx, h, textUpdate)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(proc.events) != 1 || proc.events[0].ChatID != -100 || proc.events[0].Text != "/help" {
		t.Fatalf("unexpected events %+v", proc.events)
	}
	if proc.traces[0] != "trace-1" {
		t.Errorf("task should carry the request trace id, got %q", proc.traces[0])
	}
}

func TestWebhook_Responses(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		submitErr error
		want      int
		processed int
	}{
		{"malformed json", `{"update_id":`, nil, http.StatusBadRequest, 0},
		{"wrong type", `{"update_id":"abc"}`, nil, http.StatusBadRequest, 0},
		{"empty body", ``, nil, http.StatusBadRequest, 0},
		{"whitespace body", "  \n", nil, http.StatusBadRequest, 0},
		{"empty object", `{}`, nil, http.StatusOK, 0},
		{"update without text", `{"update_id":2,"edited_message":{"message_id":1,"date":1,"chat":{"id":1},"text":"x"}}`, nil, http.StatusOK, 0},
		{"pool saturated", textUpdate, worker.ErrQueueFull, http.StatusServiceUnavailable, 0},
		{"callback query", `{"update_id":3,"callback_query":{"id":"cb","from":{"id":9},"data":"help"}}`, nil, http.StatusOK, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proc := &recordingProcessor{}
			h := NewWebhookHandler(NewIngestor(proc, &inlineSubmitter{err: tc.submitErr}, nopLogger()), nopLogger())
			rec := postWebhook(context.Background(), h, tc.body)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
			if len(proc.events) != tc.processed {
				t.Errorf("expected %d processed events, got %d", tc.processed, len(proc.events))
			}
		})
	}
}

func TestIngest_GeneratesTraceID(t *testing.T) {
	proc := &recordingProcessor{}
	in := NewIngestor(proc, &inlineSubmitter{}, nopLogger())
	ok, err := in.Ingest(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "hi"}})
	if !ok || err != nil {
		t.Fatalf("unexpected result ok=%v err=%v", ok, err)
	}
	if proc.traces[0] == "" {
		t.Error("expected a generated trace id")
	}
}
