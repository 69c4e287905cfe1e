package model

import (
	"fmt"
	"strings"

	"payment-status-bot/internal/domain"
)

// NormalizeAccountID trims s and rejects values the registry line format
// cannot hold: empty strings and anything containing a comma or line break.
func NormalizeAccountID(s string) (string, error) {
	id := strings.TrimSpace(s)
	if id == "" {
		return "", fmt.Errorf("%w: empty", domain.ErrInvalidAccountID)
	}
	if strings.ContainsAny(id, ",\r\n") {
		return "", fmt.Errorf("%w: %q contains a separator", domain.ErrInvalidAccountID, id)
	}
	return id, nil
}

// Registration is one chat to account binding as stored by the registry.
type Registration struct {
	ChatID    int64
	AccountID string
}
