package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
)

// UserHeader selects the acting user. It is user selection, not
// authentication.
const UserHeader = "X-User"

// ActingUser adds the user named by the X-User header, or defaultUsername
// when the header is absent, to the request context. Unknown users leave
// the context without a user.
func ActingUser(userService *service.UserService, defaultUsername string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := strings.TrimSpace(r.Header.Get(UserHeader))
			if username == "" {
				username = defaultUsername
			}
			if username == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.ByUsername(r.Context(), username)
			if err != nil {
				if !errors.Is(err, repository.ErrUserNotFound) {
					slog.Error("failed to load acting user", "error", err, "username", username)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that have no acting user.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unknown user: set the X-User header or DEFAULT_USERNAME"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	}
}
