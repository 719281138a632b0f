package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/insulindose/interest-api/internal/pkg/httputil"
)

// RequireAPIKey gates a route group behind the admin shared secret. The key
// arrives in the X-API-Key header or the api_key query parameter. The
// comparison is constant time, and an unset server-side key rejects
// everything rather than failing open. Nothing downstream (including store
// access) runs on a mismatch.
func RequireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-API-Key")
			if presented == "" {
				presented = r.URL.Query().Get("api_key")
			}

			if apiKey == "" ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
				httputil.Unauthorized(w, "Unauthorized. Invalid or missing API key.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
