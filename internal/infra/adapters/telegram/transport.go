package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/domain/ports/adapter"
	"payment-status-bot/internal/infra/logging"
	"payment-status-bot/internal/infra/metrics"
)

var _ adapter.Transport = (*Transport)(nil)

// botSender is the outbound subset of botAPI.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Normalize maps a platform update onto an InboundEvent. Updates that carry
// neither text nor a button press are reported as not ok.
func Normalize(up tgbotapi.Update) (model.InboundEvent, bool) {
	if q := up.CallbackQuery; q != nil {
		var (
			chatID    int64
			messageID int
		)
		if q.Message != nil && q.Message.Chat != nil {
			chatID = q.Message.Chat.ID
			messageID = q.Message.MessageID
		} else if q.From != nil {
			chatID = q.From.ID
		}
		if chatID == 0 {
			return model.InboundEvent{}, false
		}
		return model.ButtonPress(chatID, q.Data, messageID, q.ID), true
	}
	if m := up.Message; m != nil && m.Chat != nil && m.Text != "" {
		return model.TextMessage(m.Chat.ID, m.Text, m.Time()), true
	}
	return model.InboundEvent{}, false
}

// Transport performs outbound actions with the Bot API.
type Transport struct {
	api botSender
	log *zerolog.Logger
}

func NewTransport(api botSender, logger *zerolog.Logger) *Transport {
	return &Transport{api: api, log: logger}
}

// Deliver runs actions in order. A failed call is logged and counted and the
// remaining actions still go out.
func (t *Transport) Deliver(ctx context.Context, actions []model.OutboundAction) {
	log := logging.With(ctx, t.log)
	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("pending", len(actions)-i).Msg("delivery aborted")
			return
		}
		if method, err := t.deliver(a); err != nil {
			metrics.IncTelegramCallFailure(method)
			log.Error().Err(err).Str("method", method).Int64("chat_id", a.ChatID).Msg("telegram call failed")
		}
	}
}

func (t *Transport) deliver(a model.OutboundAction) (string, error) {
	switch a.Kind {
	case model.ActionSendText:
		chunks := splitText(a.Text, MaxMessageLength)
		for i, chunk := range chunks {
			msg := tgbotapi.NewMessage(a.ChatID, chunk)
			msg.ParseMode = a.ParseMode
			if i == len(chunks)-1 && a.Markup != nil {
				msg.ReplyMarkup = inlineKeyboard(a.Markup)
			}
			if _, err := t.api.Send(msg); err != nil {
				return "sendMessage", err
			}
		}
		return "sendMessage", nil
	case model.ActionEditButtons:
		edit := tgbotapi.NewEditMessageReplyMarkup(a.ChatID, a.MessageID, inlineKeyboard(a.Markup))
		_, err := t.api.Request(edit)
		return "editMessageReplyMarkup", err
	case model.ActionAckButton:
		if a.CallbackAckID == "" {
			return "answerCallbackQuery", nil
		}
		_, err := t.api.Request(tgbotapi.NewCallback(a.CallbackAckID, a.Text))
		return "answerCallbackQuery", err
	default:
		return "unknown", errors.New("unknown action kind")
	}
}
