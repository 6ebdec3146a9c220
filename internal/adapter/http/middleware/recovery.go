package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
)

// Recovery middleware recovers from panics and logs the error with the
// request-scoped logger.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				zerolog.Ctx(r.Context()).Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("panic recovered")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"timestamp": time.Now().UTC(),
					"status":    http.StatusInternalServerError,
					"error":     http.StatusText(http.StatusInternalServerError),
					"message":   "internal server error",
					"path":      r.URL.Path,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
