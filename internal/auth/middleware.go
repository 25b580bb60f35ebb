package auth

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gamezilla/storefront/internal/domain"
)

type contextKey struct{}

var userKey contextKey

// UserFrom returns the authenticated user attached by Middleware.Authenticate.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// Middleware resolves the caller from the user-id header. The header is
// trusted as-is; an upstream gateway is expected to have verified the session.
type Middleware struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewMiddleware(db *sql.DB, logger *slog.Logger) *Middleware {
	return &Middleware{
		db:     db,
		logger: logger,
	}
}

func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("user-id")
		if header == "" {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil {
			http.Error(w, "Invalid user", http.StatusUnauthorized)
			return
		}

		user := &domain.User{}
		err = m.db.QueryRowContext(r.Context(), `
			SELECT u.user_id, u.username, u.email, r.name, u.created_at
			FROM users u
			LEFT JOIN roles r ON u.role_id = r.role_id
			WHERE u.user_id = $1
		`, userID).Scan(&user.ID, &user.Username, &user.Email, &user.RoleName, &user.CreatedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				http.Error(w, "Invalid user", http.StatusUnauthorized)
				return
			}
			m.logger.Error("failed to resolve user", "error", err, "user_id", userID)
			http.Error(w, "Server Error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// RequireRole gates a handler behind a role name. It assumes Authenticate ran
// earlier in the chain.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			if user.RoleName == nil || *user.RoleName != role {
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
