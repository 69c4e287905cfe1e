package model

import (
	"fmt"
	"strings"

	"payment-status-bot/internal/domain"
)

// FilterType is the blacklist category sent upstream as filterType.
type FilterType string

const (
	FilterEmail      FilterType = "email"
	FilterPhone      FilterType = "phone"
	FilterCardFirst6 FilterType = "card_first6"
	FilterCardLast4  FilterType = "card_last4"
)

// FilterTypes lists the supported filter types in menu order.
var FilterTypes = []FilterType{FilterEmail, FilterPhone, FilterCardFirst6, FilterCardLast4}

func (f FilterType) Valid() bool {
	switch f {
	case FilterEmail, FilterPhone, FilterCardFirst6, FilterCardLast4:
		return true
	}
	return false
}

func (f FilterType) String() string { return string(f) }

// ParseFilterType accepts the wire value in any case.
func ParseFilterType(s string) (FilterType, error) {
	ft := FilterType(strings.ToLower(strings.TrimSpace(s)))
	if !ft.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownFilterType, s)
	}
	return ft, nil
}
