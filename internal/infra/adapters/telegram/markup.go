package telegram

import (
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"payment-status-bot/internal/domain/model"
)

// MaxMessageLength is the platform's limit for one message text.
const MaxMessageLength = 4096

// inlineKeyboard converts a domain markup. A nil markup yields an empty
// keyboard, which removes the buttons of an edited message.
func inlineKeyboard(m *model.Markup) tgbotapi.InlineKeyboardMarkup {
	if m == nil {
		return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(m.Rows))
	for _, row := range m.Rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			data := btn.Token
			if data == "" {
				data = label
			}
			r = append(r, tgbotapi.NewInlineKeyboardButtonData(label, data))
		}
		rows = append(rows, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// splitText breaks s into pieces of at most limit characters, preferring
// line boundaries. Lines longer than limit are cut hard.
func splitText(s string, limit int) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}

	var (
		chunks []string
		b      strings.Builder
		n      int
	)
	flush := func() {
		if chunk := strings.TrimRight(b.String(), "\n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		b.Reset()
		n = 0
	}
	for _, line := range strings.SplitAfter(s, "\n") {
		ln := utf8.RuneCountInString(line)
		if n+ln > limit {
			flush()
		}
		for ln > limit {
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
			ln -= limit
		}
		b.WriteString(line)
		n += ln
	}
	flush()
	return chunks
}
