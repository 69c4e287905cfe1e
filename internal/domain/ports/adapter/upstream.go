package adapter

import (
	"context"

	"payment-status-bot/internal/domain/model"
)

// PaymentStatus is the outcome of a status query. Failures arrive as
// Found=false with a human readable Message, never as errors.
type PaymentStatus struct {
	Found   bool
	Message string
}

type PaymentStatusClient interface {
	QueryPaymentStatus(ctx context.Context, accountID, orderID string) PaymentStatus
}

// BlacklistResult carries the reply text and whether the upstream accepted it.
type BlacklistResult struct {
	Submitted bool
	Message   string
}

type BlacklistClient interface {
	SubmitBlacklist(ctx context.Context, value string, filterType model.FilterType, comment string) BlacklistResult
}

// Descriptors holds the descriptor file contents. When Available is false
// Text is a user-facing failure message.
type Descriptors struct {
	Text      string
	Available bool
}

type DescriptorSource interface {
	FetchDescriptors(ctx context.Context) Descriptors
}

type ServerPinger interface {
	Ping(ctx context.Context) string
}
