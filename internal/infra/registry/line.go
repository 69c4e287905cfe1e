package registry

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"payment-status-bot/internal/domain/model"
)

// FormatLine renders one registry record including the trailing newline.
func FormatLine(chatID int64, accountID string) string {
	return strconv.FormatInt(chatID, 10) + "," + accountID + "\n"
}

// ParseLine decodes "chatId,accountId". Lines with a field count other
// than two, an unparseable chat id or an empty account id are rejected.
func ParseLine(line string) (model.Registration, bool) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return model.Registration{}, false
	}
	chatID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return model.Registration{}, false
	}
	acc := strings.TrimSpace(parts[1])
	if acc == "" {
		return model.Registration{}, false
	}
	return model.Registration{ChatID: chatID, AccountID: acc}, true
}

// ReadLog streams every valid record from r in file order and reports how
// many lines were skipped as malformed. Blank lines are not counted.
func ReadLog(r io.Reader, fn func(model.Registration)) (skipped int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, ok := ParseLine(text)
		if !ok {
			skipped++
			continue
		}
		fn(rec)
	}
	if err := sc.Err(); err != nil {
		return skipped, fmt.Errorf("scan registry: %w", err)
	}
	return skipped, nil
}
