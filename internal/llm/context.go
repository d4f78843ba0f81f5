package llm

import "context"

type contextKey string

// requestIDHeader carries the correlation id on provider calls that accept
// custom headers.
const requestIDHeader = "X-Request-Id"

const (
	purposeKey   contextKey = "llm_purpose"
	requestIDKey contextKey = "llm_request_id"
	requesterKey contextKey = "llm_requester"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithRequestID attaches the caller's correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the correlation id, or "" when none was attached.
func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithRequester attaches the id of the user the call is made for.
func WithRequester(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, requesterKey, userID)
}

// RequesterFrom returns the requester id, or "" when none was attached.
func RequesterFrom(ctx context.Context) string {
	v, _ := ctx.Value(requesterKey).(string)
	return v
}
