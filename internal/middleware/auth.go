package middleware

import (
	"net/http"
	"strings"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/auth"
)

// JWTAuth rejects requests that do not carry a valid admin session token.
func JWTAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			token := strings.TrimSpace(header[7:])
			if _, err := auth.SubjectFromToken(token, secret); err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
