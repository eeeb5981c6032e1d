package handlers

import (
	"context"
	"net/http"
)

type contextKey string

// ContextKeyUserID carries the verified uid set by the identity middleware.
const ContextKeyUserID contextKey = "userID"

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, uid)
}

func userID(r *http.Request) string {
	uid, _ := r.Context().Value(ContextKeyUserID).(string)
	return uid
}
