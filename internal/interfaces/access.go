package interfaces

import "context"

// AccessStore holds the authorized Telegram user ids.
type AccessStore interface {
	Add(ctx context.Context, userID int64) error
	Contains(ctx context.Context, userID int64) (bool, error)
}

type AccessGate interface {
	SubmitSecret(ctx context.Context, userID int64, secret string) bool
	IsAuthorized(ctx context.Context, userID int64) bool
}
