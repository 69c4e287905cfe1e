package domain

import "errors"

var (
	// Common domain errors
	ErrInvalidAccountID    = errors.New("invalid account id")
	ErrInvalidState        = errors.New("invalid conversation state")
	ErrUnknownFilterType   = errors.New("unknown blacklist filter type")
	ErrRegistryUnavailable = errors.New("registry unavailable")
	ErrInvalidArgument     = errors.New("invalid argument")
)
