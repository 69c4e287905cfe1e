package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"payment-status-bot/internal/config"
	"payment-status-bot/internal/infra/metrics"
)

// AllowedUpdates are the update types the bot subscribes to.
var AllowedUpdates = []string{"message", "callback_query"}

// botAPI is the subset of *tgbotapi.BotAPI the adapter calls.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// RealTelegramBotAdapter owns the Bot API client: webhook registration,
// long polling and the outbound Transport.
type RealTelegramBotAdapter struct {
	api      botAPI
	cfg      *config.BotConfig
	username string
	log      *zerolog.Logger

	mu            sync.Mutex
	cancelPolling context.CancelFunc
	stopped       bool
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	username := cfg.Username
	if username == "" {
		username = bot.Self.UserName
	}
	return newAdapter(bot, cfg, username, logger), nil
}

func newAdapter(api botAPI, cfg *config.BotConfig, username string, logger *zerolog.Logger) *RealTelegramBotAdapter {
	l := logger.With().Str("component", "telegram").Logger()
	return &RealTelegramBotAdapter{api: api, cfg: cfg, username: username, log: &l}
}

// Username is the bot's @-less username, used for mention and command matching.
func (r *RealTelegramBotAdapter) Username() string { return r.username }

// Transport returns the outbound side backed by the same client.
func (r *RealTelegramBotAdapter) Transport() *Transport {
	return NewTransport(r.api, r.log)
}

// WebhookURL is the public URL the platform should deliver updates to.
func (r *RealTelegramBotAdapter) WebhookURL() string {
	return r.cfg.PublicURL + r.cfg.WebhookPath
}

// RegisterWebhook points the platform at WebhookURL.
func (r *RealTelegramBotAdapter) RegisterWebhook(ctx context.Context) error {
	if r.cfg.PublicURL == "" {
		return errors.New("bot.public_url is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	wh, err := tgbotapi.NewWebhook(r.WebhookURL())
	if err != nil {
		return fmt.Errorf("build webhook: %w", err)
	}
	wh.AllowedUpdates = AllowedUpdates
	if _, err := r.api.Request(wh); err != nil {
		metrics.IncTelegramCallFailure("setWebhook")
		return fmt.Errorf("set webhook: %w", err)
	}
	r.log.Info().Str("url", r.WebhookURL()).Msg("webhook registered")
	return nil
}

// StartPolling removes any webhook and long-polls updates into in until
// ctx is cancelled or StopPolling is called.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context, in *Ingestor) error {
	if _, err := r.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		metrics.IncTelegramCallFailure("deleteWebhook")
		return fmt.Errorf("delete webhook: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return context.Canceled
	}
	r.cancelPolling = cancel
	r.mu.Unlock()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = AllowedUpdates
	updates := r.api.GetUpdatesChan(u)

	r.log.Info().Msg("polling for updates")
	for {
		select {
		case <-ctx.Done():
			r.api.StopReceivingUpdates()
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			r.ingest(ctx, in, up)
		}
	}
}

// ingest waits for queue room instead of dropping: unlike a webhook
// delivery, a polled update is not redelivered.
func (r *RealTelegramBotAdapter) ingest(ctx context.Context, in *Ingestor, up tgbotapi.Update) {
	for {
		_, err := in.Ingest(ctx, up)
		if err == nil {
			return
		}
		r.log.Warn().Err(err).Int("update_id", up.UpdateID).Msg("worker pool busy, retrying update")
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// StopPolling ends a running StartPolling. Called first, it makes a later
// StartPolling return at once.
func (r *RealTelegramBotAdapter) StopPolling() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}
