package http

import (
	"net/http"
	"strings"

	"github.com/agrochain/agrochain/internal/auth/session"
	"github.com/agrochain/agrochain/internal/auth/token"
)

// RequireAuth verifies the bearer token and stores the caller session in the
// request context. Requests without a valid token get 401.
func RequireAuth(verifier token.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, err := verifier.Verify(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := session.WithContext(r.Context(), session.Session{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
