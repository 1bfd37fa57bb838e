package api

import (
	"context"
	"net/http"

	u "github.com/gofrs/uuid/v5"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

type ctxKey string

const requestIDKey ctxKey = "td.requestID"

// WithRequestID stores a caller-chosen request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx fetches the request id from ctx.
func RequestIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

func ensureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := RequestIDFromCtx(ctx); ok {
		return ctx, id
	}
	v, err := u.NewV4()
	if err != nil {
		return ctx, ""
	}
	id := v.String()
	return WithRequestID(ctx, id), id
}

// bearerTransport attaches the session token and request id to every request.
type bearerTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.tokens != nil {
		if tok := t.tokens.Token(); tok != "" {
			r.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if id, ok := RequestIDFromCtx(req.Context()); ok {
		r.Header.Set(RequestIDHeader, id)
	}
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(r)
}
