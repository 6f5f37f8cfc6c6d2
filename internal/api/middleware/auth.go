// internal/api/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"banking-service/internal/auth"
)

type contextKey string

const callerLoginKey contextKey = "callerLogin"

// Authenticate verifies the Bearer token and attaches the caller's login to
// the request context. Requests without a valid token get 401.
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				unauthorized(w)
				return
			}
			login, err := tokens.Verify(strings.TrimPrefix(header, prefix))
			if err != nil {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), callerLoginKey, login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerLogin returns the authenticated login attached by Authenticate.
func CallerLogin(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(callerLoginKey).(string)
	return login, ok && login != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
