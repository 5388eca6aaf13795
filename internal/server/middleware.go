package server

import (
	"context"
	"net/http"

	"github.com/marcussmith0/todo-api/internal/domain"
)

// contextKey is unexported to avoid collisions with context values set by
// other packages.
type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// requireAuth guards protected routes. It reads the token header, resolves it
// to a user via the credential store, and attaches both the user and the
// exact token string to the request context. Failures short-circuit with a
// 401 and an empty body.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get(s.cfg.Auth.TokenHeader)
		if tokenString == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		user, err := s.userService.FindByToken(r.Context(), tokenString)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, tokenString)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user attached by requireAuth.
func userFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// tokenFromContext returns the token string the request authenticated with.
func tokenFromContext(ctx context.Context) (string, bool) {
	tokenString, ok := ctx.Value(tokenContextKey).(string)
	return tokenString, ok
}
