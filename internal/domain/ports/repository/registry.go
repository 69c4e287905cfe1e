package repository

import "context"

// Registry is the durable chat -> account ("Company#") mapping. It is a log:
// Register appends, Lookup returns the most recently appended value.
type Registry interface {
	Lookup(ctx context.Context, chatID int64) (string, bool)
	Register(ctx context.Context, chatID int64, accountID string) error
}
