package logger

import "context"

// ridKey is an unexported struct type so no other package can collide
// with the value stored under it.
type ridKey struct{}

// WithRequestID stores the request id on the context. The request-id
// middleware is the only writer; everything downstream reads.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ridKey{}, id)
}

// RequestID returns the request id carried by the context, or "" when
// the request never passed through the id middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ridKey{}).(string)
	return id
}
