package logging

import "context"

type requestIDKey struct{}

// RequestIDKey is the attribute both adapters add when the context carries a
// request id.
const RequestIDKey = "request_id"

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func withRequestID(ctx context.Context, args []any) []any {
	if id := RequestIDFrom(ctx); id != "" {
		return append(args, RequestIDKey, id)
	}
	return args
}
