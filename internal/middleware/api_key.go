package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKey protege los endpoints del modo serve con una key estática.
// - key vacía => modo dev: todo pasa.
// - key seteada => se exige el header (default X-Api-Key) con match exacto.
func APIKey(key string) func(http.Handler) http.Handler {
	return APIKeyHeader(key, "X-Api-Key")
}

func APIKeyHeader(key, header string) func(http.Handler) http.Handler {
	key = strings.TrimSpace(key)
	if strings.TrimSpace(header) == "" {
		header = "X-Api-Key"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := strings.TrimSpace(r.Header.Get(header))
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
