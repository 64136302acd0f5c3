package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// context.WithValue accepts any key. A package-private type means no other
// package can build a colliding key, so only this package can read or write
// the claims stored in the context.
type contextKey string

const claimsKey contextKey = "claims"

const bearerPrefix = "bearer "

// Messages returned to clients by RequireAuth.
const (
	msgMissingToken = "access denied, no token provided"
	msgInvalidToken = "invalid token"
)

// TokenVerifier is the part of TokenService the middleware needs.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// RequireAuth guards protected routes.
//
// STATE MACHINE PER REQUEST:
//
//	no header / not "Bearer <token>"  -> 401 {"error":"access denied, no token provided"}
//	token fails Verify                -> 400 {"error":"invalid token"}
//	token verifies                    -> claims in context, next handler runs
//
// There is no refresh or revocation: a token is good until it expires.
func RequireAuth(tokens TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, msgMissingToken)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				logger.Warn("rejected bearer token",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				writeAuthError(w, http.StatusBadRequest, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a copy of ctx carrying c. RequireAuth uses it; tests use
// it to call protected handlers directly.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the verified claims of the caller, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// UserIDFromContext returns the caller's user id.
//
//	userID, ok := auth.UserIDFromContext(r.Context())
//	if !ok {
//	    // not behind RequireAuth
//	}
func UserIDFromContext(ctx context.Context) (int64, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok || c.UserID <= 0 {
		return 0, false
	}
	return c.UserID, true
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively (RFC 6750 section 2.1).
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
