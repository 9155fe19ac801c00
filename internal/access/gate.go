package access

import (
	"context"
	"crypto/subtle"

	"pickbot/internal/interfaces"
	"pickbot/internal/logger"
	"pickbot/internal/metrics"
)

// Gate grants access to users who present the shared secret.
type Gate struct {
	secret []byte
	store  interfaces.AccessStore
}

var _ interfaces.AccessGate = (*Gate)(nil)

func NewGate(secret string, store interfaces.AccessStore) *Gate {
	return &Gate{secret: []byte(secret), store: store}
}

// SubmitSecret adds userID to the store when secret matches exactly. A
// store failure denies the request.
func (g *Gate) SubmitSecret(ctx context.Context, userID int64, secret string) bool {
	if len(g.secret) == 0 || subtle.ConstantTimeCompare([]byte(secret), g.secret) != 1 {
		metrics.RecordAccessAttempt(metrics.ResultDenied)
		logger.Warn(ctx, "Access denied", "user_id", userID)
		return false
	}

	if err := g.store.Add(ctx, userID); err != nil {
		metrics.RecordAccessAttempt(metrics.ResultError)
		logger.ErrorWithErr(ctx, "Failed to store authorized user", err, "user_id", userID)
		return false
	}

	metrics.RecordAccessAttempt(metrics.ResultGranted)
	logger.Info(ctx, "Access granted", "user_id", userID)
	return true
}

// IsAuthorized reports membership. Store errors count as not authorized.
func (g *Gate) IsAuthorized(ctx context.Context, userID int64) bool {
	ok, err := g.store.Contains(ctx, userID)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to check authorization", err, "user_id", userID)
		return false
	}
	return ok
}
