package repository

import (
	"context"

	"payment-status-bot/internal/domain/model"
)

// ConversationStateStore is the port for the per-chat awaiting state.
// Each call is atomic for its key; Get returns Idle for unknown chats.
type ConversationStateStore interface {
	Get(ctx context.Context, chatID int64) model.ConversationState
	Set(ctx context.Context, chatID int64, state model.ConversationState)
	Clear(ctx context.Context, chatID int64)
}
