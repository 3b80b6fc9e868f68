package api

import (
	"context"
)

type keyType string

const (
	userIDKey keyType = "userID"
)

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID returns the caller's user id, or nil for anonymous requests.
func ctxGetUserID(ctx context.Context) *int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return &id
	}
	return nil
}
