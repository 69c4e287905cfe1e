// File: internal/usecase/dispatcher.go
package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"payment-status-bot/internal/domain"
	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/domain/ports/adapter"
	"payment-status-bot/internal/domain/ports/repository"
	"payment-status-bot/internal/infra/i18n"
	"payment-status-bot/internal/infra/logging"
	"payment-status-bot/internal/infra/metrics"
)

// Compile-time check
var _ DispatcherUseCase = (*Dispatcher)(nil)

// DispatcherUseCase turns one inbound event into the ordered outbound
// actions for it, updating conversation state on the way.
type DispatcherUseCase interface {
	Handle(ctx context.Context, ev model.InboundEvent) []model.OutboundAction
	Wants(ctx context.Context, ev model.InboundEvent) bool
}

// Upstreams groups the external clients the dispatcher calls.
type Upstreams struct {
	Payments    adapter.PaymentStatusClient
	Blacklist   adapter.BlacklistClient
	Descriptors adapter.DescriptorSource
	Pinger      adapter.ServerPinger
}

type Dispatcher struct {
	registry repository.Registry
	states   repository.ConversationStateStore
	up       Upstreams
	t        *i18n.Translator
	log      *zerolog.Logger

	botUsername string
	devMode     bool

	routes       map[string]buttonHandler
	prefixRoutes []prefixRoute
}

func NewDispatcher(
	registry repository.Registry,
	states repository.ConversationStateStore,
	up Upstreams,
	translator *i18n.Translator,
	botUsername string,
	logger *zerolog.Logger,
	devMode bool,
) *Dispatcher {
	d := &Dispatcher{
		registry:    registry,
		states:      states,
		up:          up,
		t:           translator,
		log:         logger,
		botUsername: strings.TrimPrefix(botUsername, "@"),
		devMode:     devMode,
	}
	d.routes = d.buttonRoutes()
	d.prefixRoutes = d.buttonPrefixRoutes()
	return d
}

// Handle applies the first matching rule: button presses, then text by
// awaiting mode, then idle commands. Anything else is a logged no-op.
func (d *Dispatcher) Handle(ctx context.Context, ev model.InboundEvent) []model.OutboundAction {
	ctx = logging.WithChatID(ctx, ev.ChatID)
	log := logging.With(ctx, d.log)
	defer logging.TraceDuration(log, "Dispatcher.Handle")()

	metrics.IncEvent(ev.Kind.String())
	switch ev.Kind {
	case model.EventButtonPress:
		return d.handleButton(ctx, log, ev)
	case model.EventTextMessage:
		return d.handleText(ctx, log, ev)
	default:
		log.Debug().Str("kind", ev.Kind.String()).Msg("ignoring event without text or button")
		return nil
	}
}

// Wants reports whether Handle would act on ev. Idle text that is neither a
// known command nor a mention of the bot is not wanted.
func (d *Dispatcher) Wants(ctx context.Context, ev model.InboundEvent) bool {
	switch ev.Kind {
	case model.EventButtonPress:
		return true
	case model.EventTextMessage:
	default:
		return false
	}
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return false
	}
	if !d.states.Get(ctx, ev.ChatID).IsIdle() {
		return true
	}
	return d.idleIntent(text) != ""
}

func (d *Dispatcher) handleText(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return nil
	}

	state := d.states.Get(ctx, ev.ChatID)
	switch state.Mode {
	case model.ModeAwaitingAccountID:
		return d.onAccountID(ctx, log, ev.ChatID, text)
	case model.ModeAwaitingOrderID:
		return d.onOrderID(ctx, log, ev.ChatID, state, text)
	case model.ModeAwaitingDescriptorSearch:
		return d.onDescriptorSearch(ctx, log, ev.ChatID, state, text)
	case model.ModeAwaitingBlacklistValue:
		return d.onBlacklistValue(ctx, log, ev.ChatID, state, text)
	default:
		return d.onIdle(ctx, log, ev.ChatID, text)
	}
}

// --- awaiting modes ---

func (d *Dispatcher) onAccountID(ctx context.Context, log *zerolog.Logger, chatID int64, text string) []model.OutboundAction {
	acc, err := model.NormalizeAccountID(text)
	if err != nil {
		log.Info().Str("account_id", logging.Redact(text, d.devMode)).Msg("rejected account id")
		return []model.OutboundAction{model.SendText(chatID, d.t.T("registration.invalid"), nil)}
	}
	if err := d.registry.Register(ctx, chatID, acc); err != nil {
		if errors.Is(err, domain.ErrInvalidAccountID) {
			return []model.OutboundAction{model.SendText(chatID, d.t.T("registration.invalid"), nil)}
		}
		log.Error().Err(err).Msg("registration failed")
		return []model.OutboundAction{model.SendText(chatID, d.t.T("registration.failed"), nil)}
	}
	d.transition(ctx, log, chatID, model.AwaitingAccountID(), model.AwaitingOrderID(acc))
	log.Info().Str("account_id", logging.Redact(acc, d.devMode)).Msg("chat registered")
	return []model.OutboundAction{model.SendText(chatID, d.t.T("registration.done", acc), nil)}
}

// onOrderID keeps the prompt open on anything but a found result so the
// same order can be retried or the flow cancelled.
func (d *Dispatcher) onOrderID(ctx context.Context, log *zerolog.Logger, chatID int64, state model.ConversationState, orderID string) []model.OutboundAction {
	res := d.up.Payments.QueryPaymentStatus(ctx, state.AccountID, orderID)
	if !res.Found {
		log.Info().Str("order", orderID).Msg("payment status not found")
		return []model.OutboundAction{model.SendText(chatID, res.Message, d.orderRetryMarkup())}
	}
	d.transition(ctx, log, chatID, state, model.Idle())
	return []model.OutboundAction{model.SendText(chatID, res.Message, nil)}
}

func (d *Dispatcher) onDescriptorSearch(ctx context.Context, log *zerolog.Logger, chatID int64, state model.ConversationState, keyword string) []model.OutboundAction {
	desc := d.up.Descriptors.FetchDescriptors(ctx)
	if !desc.Available {
		return []model.OutboundAction{model.SendText(chatID, desc.Text, nil)}
	}
	d.transition(ctx, log, chatID, state, model.Idle())

	matches := SearchDescriptors(desc.Text, keyword)
	log.Debug().Int("matches", len(matches)).Msg("descriptor search")
	return []model.OutboundAction{model.SendText(chatID, d.formatMatches(keyword, matches), nil)}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (d *Dispatcher) onBlacklistValue(ctx context.Context, log *zerolog.Logger, chatID int64, state model.ConversationState, value string) []model.OutboundAction {
	ft := state.FilterType
	if ft == model.FilterEmail && !emailPattern.MatchString(value) {
		return []model.OutboundAction{model.SendText(chatID, d.t.T("blacklist.invalid_email", value), d.emailRetryMarkup())}
	}

	res := d.up.Blacklist.SubmitBlacklist(ctx, value, ft, "")
	if !res.Submitted {
		log.Warn().Str("filter_type", ft.String()).Msg("blacklist submission did not go through")
		return []model.OutboundAction{model.SendText(chatID, res.Message, d.blacklistCancelMarkup())}
	}
	d.transition(ctx, log, chatID, state, model.Idle())
	return []model.OutboundAction{model.SendText(chatID, res.Message, nil)}
}

// --- idle commands ---

const intentMention = "mention"

// idleIntent picks the idle rule text matches, in priority order, or "".
func (d *Dispatcher) idleIntent(text string) string {
	cmd, isCmd := parseCommand(text, d.botUsername)
	switch {
	case isCmd && (cmd == cmdPaymentStatus || cmd == cmdHelp):
		return cmd
	case mentionsBot(text, d.botUsername):
		return intentMention
	case isCmd && (cmd == cmdStart || cmd == cmdMenu):
		return cmd
	default:
		return ""
	}
}

func (d *Dispatcher) onIdle(ctx context.Context, log *zerolog.Logger, chatID int64, text string) []model.OutboundAction {
	intent := d.idleIntent(text)
	if intent == "" {
		return nil
	}
	metrics.IncCommand(intent)
	switch intent {
	case cmdPaymentStatus:
		return d.startPaymentStatus(ctx, log, chatID)
	case cmdHelp:
		return []model.OutboundAction{d.helpAction(chatID)}
	case intentMention:
		if _, ok := d.registry.Lookup(ctx, chatID); ok {
			return []model.OutboundAction{d.mainMenuAction(chatID)}
		}
		return d.startPaymentStatus(ctx, log, chatID)
	default:
		return []model.OutboundAction{d.mainMenuAction(chatID)}
	}
}

// startPaymentStatus skips registration for chats that already have an account.
func (d *Dispatcher) startPaymentStatus(ctx context.Context, log *zerolog.Logger, chatID int64) []model.OutboundAction {
	prev := d.states.Get(ctx, chatID)
	if acc, ok := d.registry.Lookup(ctx, chatID); ok {
		d.transition(ctx, log, chatID, prev, model.AwaitingOrderID(acc))
		return []model.OutboundAction{model.SendText(chatID, d.t.T("prompt.order_id"), nil)}
	}
	d.transition(ctx, log, chatID, prev, model.AwaitingAccountID())
	return []model.OutboundAction{model.SendText(chatID, d.t.T("prompt.account_id"), nil)}
}

func (d *Dispatcher) helpAction(chatID int64) model.OutboundAction {
	name := d.botUsername
	if name == "" {
		name = "bot"
	}
	return model.SendMarkdown(chatID, d.t.T("help", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, name)), nil)
}

// transition writes next (Idle clears) and records it. States that fail
// validation are never stored.
func (d *Dispatcher) transition(ctx context.Context, log *zerolog.Logger, chatID int64, from, next model.ConversationState) {
	if err := next.Validate(); err != nil {
		log.Error().Err(err).Msg("refusing invalid state")
		return
	}
	if next.IsIdle() {
		d.states.Clear(ctx, chatID)
	} else {
		d.states.Set(ctx, chatID, next)
	}
	metrics.IncStateTransition(from.Label(), next.Label())
	log.Debug().Str("from", from.Label()).Str("to", next.Label()).Msg("state transition")
}
