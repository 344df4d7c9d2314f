package ctxdata

import (
	"context"
)

type traceIDKey struct{}
type userEmailKey struct{}

var (
	traceIDKeyInstance   = traceIDKey{}
	userEmailKeyInstance = userEmailKey{}
)

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKeyInstance, traceID)
}

func GetTraceID(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(traceIDKeyInstance).(string)
	return traceID, ok
}

// WithUserEmail stores the email of the authenticated caller.
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKeyInstance, email)
}

func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKeyInstance).(string)
	return email, ok && email != ""
}
