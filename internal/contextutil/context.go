package contextutil

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const tokenContextKey contextKey = "chronograf_token"

// SetToken stores the Chronograf bearer token in the context
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// GetToken retrieves the Chronograf bearer token from the context
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

// TokenFromRequest copies the bearer token of an incoming HTTP request into
// the context. Requests without one leave the context untouched.
func TokenFromRequest(ctx context.Context, r *http.Request) context.Context {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ctx
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return SetToken(ctx, token)
}
