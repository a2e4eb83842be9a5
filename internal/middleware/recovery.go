package middleware

import (
	"net/http"

	"github.com/urlkit/urlkit/internal/logger"
)

// Recovery converts handler panics into 500s instead of dropping the
// connection.
func Recovery(next http.Handler) http.Handler {
	log := logger.New("recovery")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
