package middleware

import (
	"net/http"

	"github.com/davidtseymour/personal-productivity-system/internal/config"
	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
)

// Config adds the sanitized app configuration to the request context.
// The copy is made once, not per request.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	safe := cfg.Sanitized()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithConfig(r.Context(), safe)))
		})
	}
}
