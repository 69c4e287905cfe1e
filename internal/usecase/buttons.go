package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/infra/metrics"
)

// Button tokens carried in callback data.
const (
	TokenCheckStatus           = "check-status"
	TokenHelp                  = "help"
	TokenServerStatus          = "server-status"
	TokenRetryOrder            = "retry-order"
	TokenCancelOrder           = "cancel-order"
	TokenOpenBlacklistMenu     = "open-blacklist-menu"
	TokenSelectBlacklistFilter = "select-blacklist-filter:" // + filter type
	TokenRetryBlacklistEmail   = "retry-blacklist-email"
	TokenCancelBlacklist       = "cancel-blacklist"
	TokenOpenDescriptorsMenu   = "open-descriptors-menu"
	TokenDownloadDescriptors   = "download-descriptors"
	TokenSearchDescriptors     = "search-descriptors"
	TokenOpenMainMenu          = "open-main-menu"
)

// legacyTokens maps callback data sent by keyboards of the previous bot
// generation, which may still be on screen in old chats.
var legacyTokens = map[string]string{
	"checkstatus": TokenCheckStatus,
	"helpinfo":    TokenHelp,
}

type buttonHandler func(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction

type prefixRoute struct {
	Prefix string
	Fn     func(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent, arg string) []model.OutboundAction
}

// handleButton resolves the token (exact match first, then prefixes), runs
// its effect and always acknowledges the press last.
func (d *Dispatcher) handleButton(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	token := strings.TrimSpace(ev.Token)
	if alias, ok := legacyTokens[token]; ok {
		token = alias
	}

	var (
		actions []model.OutboundAction
		known   = true
		label   = token
	)
	if fn, ok := d.routes[token]; ok {
		actions = fn(ctx, log, ev)
	} else if pr, arg, ok := d.matchPrefix(token); ok {
		label = strings.TrimSuffix(pr.Prefix, ":")
		actions = pr.Fn(ctx, log, ev, arg)
	} else {
		known = false
		log.Warn().Str("token", truncate(token, 64)).Msg("unknown button token")
		actions = []model.OutboundAction{model.SendText(ev.ChatID, d.t.T("unknown_option"), nil)}
	}
	metrics.IncButtonPress(label, known)

	return append(actions, model.AckButton(ev.CallbackAckID, ""))
}

func (d *Dispatcher) matchPrefix(token string) (prefixRoute, string, bool) {
	for _, pr := range d.prefixRoutes {
		if strings.HasPrefix(token, pr.Prefix) {
			return pr, strings.TrimPrefix(token, pr.Prefix), true
		}
	}
	return prefixRoute{}, "", false
}

func (d *Dispatcher) buttonRoutes() map[string]buttonHandler {
	return map[string]buttonHandler{
		TokenCheckStatus: func(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
			return d.startPaymentStatus(ctx, log, ev.ChatID)
		},
		TokenHelp: func(_ context.Context, _ *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
			return []model.OutboundAction{d.helpAction(ev.ChatID)}
		},
		TokenServerStatus: func(ctx context.Context, _ *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
			return []model.OutboundAction{model.SendMarkdown(ev.ChatID, d.up.Pinger.Ping(ctx), nil)}
		},
		TokenRetryOrder:          d.retryOrder,
		TokenCancelOrder:         d.cancelOrder,
		TokenOpenBlacklistMenu:   d.openBlacklistMenu,
		TokenRetryBlacklistEmail: d.retryBlacklistEmail,
		TokenCancelBlacklist:     d.cancelBlacklist,
		TokenOpenDescriptorsMenu: d.openDescriptorsMenu,
		TokenDownloadDescriptors: d.downloadDescriptors,
		TokenSearchDescriptors:   d.searchDescriptors,
		TokenOpenMainMenu: func(_ context.Context, _ *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
			return []model.OutboundAction{d.navigate(ev, "menu.prompt", d.mainMenuMarkup())}
		},
	}
}

func (d *Dispatcher) buttonPrefixRoutes() []prefixRoute {
	return []prefixRoute{
		{Prefix: TokenSelectBlacklistFilter, Fn: d.selectBlacklistFilter},
	}
}

// --- order flow ---

// retryOrder reopens the order prompt for the account in the pending state,
// falling back to the registry.
func (d *Dispatcher) retryOrder(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	state := d.states.Get(ctx, ev.ChatID)
	acc := state.AccountID
	if state.Mode != model.ModeAwaitingOrderID || acc == "" {
		acc, _ = d.registry.Lookup(ctx, ev.ChatID)
	}
	if acc == "" {
		d.transition(ctx, log, ev.ChatID, state, model.Idle())
		return []model.OutboundAction{model.SendText(ev.ChatID, d.t.T("registration.missing"), nil)}
	}
	d.transition(ctx, log, ev.ChatID, state, model.AwaitingOrderID(acc))
	return []model.OutboundAction{model.SendText(ev.ChatID, d.t.T("prompt.order_id"), nil)}
}

func (d *Dispatcher) cancelOrder(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	d.transition(ctx, log, ev.ChatID, d.states.Get(ctx, ev.ChatID), model.Idle())
	return []model.OutboundAction{model.SendText(ev.ChatID, d.t.T("order.cancelled"), nil)}
}

// --- blacklist flow ---

func (d *Dispatcher) openBlacklistMenu(_ context.Context, _ *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	return []model.OutboundAction{d.navigate(ev, "blacklist.menu", d.blacklistMenuMarkup())}
}

func (d *Dispatcher) selectBlacklistFilter(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent, arg string) []model.OutboundAction {
	ft, err := model.ParseFilterType(arg)
	if err != nil {
		log.Warn().Err(err).Msg("unknown blacklist filter")
		return []model.OutboundAction{model.SendText(ev.ChatID, d.t.T("unknown_option"), nil)}
	}
	return d.promptBlacklistValue(ctx, log, ev.ChatID, ft)
}

func (d *Dispatcher) retryBlacklistEmail(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	return d.promptBlacklistValue(ctx, log, ev.ChatID, model.FilterEmail)
}

func (d *Dispatcher) promptBlacklistValue(ctx context.Context, log *zerolog.Logger, chatID int64, ft model.FilterType) []model.OutboundAction {
	d.transition(ctx, log, chatID, d.states.Get(ctx, chatID), model.AwaitingBlacklistValue(ft))
	return []model.OutboundAction{model.SendText(chatID, d.t.T("blacklist.prompt."+ft.String()), d.blacklistCancelMarkup())}
}

func (d *Dispatcher) cancelBlacklist(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	d.transition(ctx, log, ev.ChatID, d.states.Get(ctx, ev.ChatID), model.Idle())
	return []model.OutboundAction{model.SendText(ev.ChatID, d.t.T("blacklist.cancelled"), nil)}
}

// --- descriptors ---

func (d *Dispatcher) openDescriptorsMenu(_ context.Context, _ *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	return []model.OutboundAction{d.navigate(ev, "descriptors.menu", d.descriptorsMenuMarkup())}
}

func (d *Dispatcher) downloadDescriptors(ctx context.Context, _ *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	desc := d.up.Descriptors.FetchDescriptors(ctx)
	if desc.Available && strings.TrimSpace(desc.Text) == "" {
		return []model.OutboundAction{model.SendText(ev.ChatID, d.t.T("descriptors.empty"), nil)}
	}
	return []model.OutboundAction{model.SendText(ev.ChatID, desc.Text, nil)}
}

func (d *Dispatcher) searchDescriptors(ctx context.Context, log *zerolog.Logger, ev model.InboundEvent) []model.OutboundAction {
	d.transition(ctx, log, ev.ChatID, d.states.Get(ctx, ev.ChatID), model.AwaitingDescriptorSearch())
	return []model.OutboundAction{model.SendText(ev.ChatID, d.t.T("descriptors.prompt"), nil)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
