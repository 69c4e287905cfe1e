package adapter

import (
	"context"

	"payment-status-bot/internal/domain/model"
)

// Transport performs outbound actions on the chat platform. Delivery is
// fire-and-forget with respect to conversation state.
type Transport interface {
	Deliver(ctx context.Context, actions []model.OutboundAction)
}
