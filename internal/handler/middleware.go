package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/model"
	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/repo"
	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/token"
	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/pkg/respond"
)

type userKey struct{}

// UserFromContext returns the authenticated user placed there by
// Authenticator.
func UserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey{}).(model.User)
	return u, ok
}

// Authenticator is the single authorization choke point for protected
// routes. It expects "Authorization: Bearer <token>", verifies the
// token, resolves the current user row, and injects it into the
// request context. Every failure mode collapses to 401.
func Authenticator(tokens *token.Manager, users repo.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				respond.Error(w, r, http.StatusUnauthorized, respond.CodeUnauthenticated, "authentication token required")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, respond.CodeUnauthenticated, "invalid or expired token")
				return
			}

			user, err := users.Get(r.Context(), claims.UserID)
			if err != nil {
				if !errors.Is(err, repo.ErrorNotFound) {
					logger.Error("resolve token user", zap.Error(err))
				}
				respond.Error(w, r, http.StatusUnauthorized, respond.CodeUnauthenticated, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
		})
	}
}

// bearerToken extracts the token from the Authorization header. The
// header must be exactly two space-separated fields with a
// case-insensitive "Bearer" scheme.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
