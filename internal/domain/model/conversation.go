package model

import (
	"fmt"
	"strings"
	"time"

	"payment-status-bot/internal/domain"
)

// Mode is the single "awaiting" mode a chat is in.
type Mode string

const (
	ModeIdle                     Mode = "idle"
	ModeAwaitingAccountID        Mode = "awaiting_account_id"
	ModeAwaitingOrderID          Mode = "awaiting_order_id"
	ModeAwaitingBlacklistValue   Mode = "awaiting_blacklist_value"
	ModeAwaitingDescriptorSearch Mode = "awaiting_descriptor_search"
)

// ConversationState is the per-chat transient state. Only the payload field
// belonging to Mode is meaningful; constructors keep the others zero.
type ConversationState struct {
	Mode       Mode
	AccountID  string     // AwaitingOrderID
	FilterType FilterType // AwaitingBlacklistValue
	UpdatedAt  time.Time
}

func Idle() ConversationState {
	return ConversationState{Mode: ModeIdle}
}

func AwaitingAccountID() ConversationState {
	return ConversationState{Mode: ModeAwaitingAccountID}
}

func AwaitingOrderID(accountID string) ConversationState {
	return ConversationState{Mode: ModeAwaitingOrderID, AccountID: accountID}
}

func AwaitingBlacklistValue(ft FilterType) ConversationState {
	return ConversationState{Mode: ModeAwaitingBlacklistValue, FilterType: ft}
}

func AwaitingDescriptorSearch() ConversationState {
	return ConversationState{Mode: ModeAwaitingDescriptorSearch}
}

// IsIdle treats the zero value as idle so an empty store entry needs no special casing.
func (s ConversationState) IsIdle() bool {
	return s.Mode == ModeIdle || s.Mode == ""
}

// Validate reports whether s is one of the five defined modes with a consistent payload.
func (s ConversationState) Validate() error {
	switch s.Mode {
	case ModeIdle, ModeAwaitingAccountID, ModeAwaitingDescriptorSearch:
		if s.AccountID != "" || s.FilterType != "" {
			return fmt.Errorf("%w: %s carries a payload", domain.ErrInvalidState, s.Mode)
		}
		return nil
	case ModeAwaitingOrderID:
		if strings.TrimSpace(s.AccountID) == "" {
			return fmt.Errorf("%w: awaiting order id without account id", domain.ErrInvalidState)
		}
		if s.FilterType != "" {
			return fmt.Errorf("%w: awaiting order id carries a filter type", domain.ErrInvalidState)
		}
		return nil
	case ModeAwaitingBlacklistValue:
		if !s.FilterType.Valid() {
			return fmt.Errorf("%w: %w %q", domain.ErrInvalidState, domain.ErrUnknownFilterType, s.FilterType)
		}
		if s.AccountID != "" {
			return fmt.Errorf("%w: awaiting blacklist value carries an account id", domain.ErrInvalidState)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidState, s.Mode)
	}
}

// Label is used for log fields and metric labels.
func (s ConversationState) Label() string {
	if s.IsIdle() {
		return string(ModeIdle)
	}
	return string(s.Mode)
}
