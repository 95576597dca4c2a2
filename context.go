package authclient

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a correlation identifier to ctx. The interceptor
// sends it as the X-Request-ID header on the outgoing call and on the
// credentialed retry, and audit events carry it, so both attempts of one
// logical call line up in server logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}
