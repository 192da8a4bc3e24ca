package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"go.uber.org/zap"
)

type contextKey string

const ClerkIDKey contextKey = "clerkID"

// TokenVerifier returns the Clerk user id (the token subject) for a session
// token.
type TokenVerifier func(ctx context.Context, token string) (string, error)

// ClerkVerifier checks tokens against Clerk using the key set with
// clerk.SetKey.
func ClerkVerifier(ctx context.Context, token string) (string, error) {
	claims, err := jwt.Verify(ctx, &jwt.VerifyParams{Token: token})
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || token == authHeader || token == "" {
		return "", false
	}
	return token, true
}

// ClerkAuthMiddleware rejects requests without a valid Clerk bearer token and
// stores the Clerk user id in the request context.
func ClerkAuthMiddleware(verify TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				respondWithError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}
			token, ok := bearerToken(r)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <token>'")
				return
			}

			clerkID, err := verify(r.Context(), token)
			if err != nil {
				logger.Debug("token verification failed", zap.Error(err))
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClerkID(r.Context(), clerkID)))
		})
	}
}

// OptionalAuthMiddleware attaches the Clerk id when a valid token is present
// and lets the request through either way.
func OptionalAuthMiddleware(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if clerkID, err := verify(r.Context(), token); err == nil {
					r = r.WithContext(WithClerkID(r.Context(), clerkID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClerkID(ctx context.Context, clerkID string) context.Context {
	return context.WithValue(ctx, ClerkIDKey, clerkID)
}

// GetClerkID extracts Clerk user ID from context
func GetClerkID(ctx context.Context) (string, bool) {
	clerkID, ok := ctx.Value(ClerkIDKey).(string)
	return clerkID, ok && clerkID != ""
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
