package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tcs-suzini/club-backend/models"
	"github.com/tcs-suzini/club-backend/repositories"
	"github.com/tcs-suzini/club-backend/services"
)

type contextKey string

const userContextKey contextKey = "user"

// Authenticator resolves a bearer token to a full user record.
type Authenticator struct {
	tokens *services.TokenService
	users  repositories.UserRepository
}

func NewAuthenticator(tokens *services.TokenService, users repositories.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate extracts the Authorization bearer token, verifies it, loads
// the subject user and stores it in the request context. Purpose-tagged
// tokens (password reset) are rejected here: they never authenticate a
// request.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "authorization header required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		subjectID, purpose, err := a.tokens.Verify(parts[1])
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				writeError(w, http.StatusUnauthorized, services.ErrTokenExpired.Error())
			default:
				writeError(w, http.StatusUnauthorized, services.ErrTokenInvalid.Error())
			}
			return
		}
		if purpose != services.PurposeAccess {
			writeError(w, http.StatusUnauthorized, services.ErrTokenInvalid.Error())
			return
		}

		user, err := a.users.GetByID(r.Context(), subjectID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "utilisateur non trouvé")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user placed by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// RequirePrivileged admits admins and referents: the broad content-management
// predicate.
func RequirePrivileged(next http.Handler) http.Handler {
	return requireRole(next, models.RoleAdmin, models.RoleReferent)
}

// RequireReferent admits referents only: the member-management predicate.
func RequireReferent(next http.Handler) http.Handler {
	return requireRole(next, models.RoleReferent)
}

func requireRole(next http.Handler, allowed ...models.UserRole) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, role := range allowed {
			if user.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		writeError(w, http.StatusForbidden, "accès non autorisé")
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
