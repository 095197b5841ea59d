package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
)

type contextKey string

const userIDKey = contextKey("user_id")

// AuthMiddleware rejects requests without a valid bearer token and puts the
// token subject into the request context as the acting user.
func AuthMiddleware(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, apperror.NewUnauthorized("missing or invalid token"))
				return
			}

			claims, err := tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Debug(r.Context(), "rejected token", "error", err)
				writeError(w, apperror.NewUnauthorized("invalid token"))
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				writeError(w, apperror.NewUnauthorized("invalid token"))
				return
			}

			if st := stateFrom(r.Context()); st != nil {
				st.actorID = userID
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = logger.WithActor(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user id, or 0.
func GetUserID(r *http.Request) int64 {
	if val, ok := r.Context().Value(userIDKey).(int64); ok {
		return val
	}
	return 0
}

// ActorID is GetUserID as an optional value.
func ActorID(r *http.Request) *int64 {
	if id := GetUserID(r); id > 0 {
		return &id
	}
	return nil
}
