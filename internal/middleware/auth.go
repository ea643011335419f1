package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/utils"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const callerKey contextKey = "caller"

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID string
}

// WithCaller stores the caller in ctx.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// CallerFromContext returns the caller stored by RequireAuth.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok && c.UserID != ""
}

// Authenticate verifies a "Bearer <token>" header value and returns the
// user id it was issued for.
func Authenticate(authz, secret string) (string, error) {
	claims, err := utils.VerifyBearer(authz, secret)
	if errors.Is(err, utils.ErrMissingSecret) {
		return "", models.NewConfigError("JWT secret is not configured")
	}
	if err != nil {
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}
	userID, err := utils.GetUserIDFromClaims(claims)
	if err != nil {
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}
	return userID, nil
}

// RequireAuth rejects requests without a valid bearer token and puts the
// verified Caller into the request context.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := Authenticate(r.Header.Get("Authorization"), secret)
			if err != nil {
				utils.Fail(w, err)
				return
			}
			ctx := WithCaller(r.Context(), Caller{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
