package auth

import (
	"context"
	"net/http"

	"bookshelf/internal/models"
)

// CurrentUserKey is the context key for the authenticated user.
type contextKey string

const CurrentUserKey = contextKey("currentUser")

// UserLoader resolves a user ID to a full user record.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// LoadSession resolves the request's session, if any, and attaches the user
// record to the request context. Requests without a usable session pass
// through untouched; a session pointing at a vanished user is ignored.
func LoadSession(store *SessionStore, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := store.UserID(r); ok {
				if user, err := users.GetByID(r.Context(), userID); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), CurrentUserKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession protects a route: without an authenticated user on the
// context the caller is redirected to the login page instead. It must run
// after LoadSession.
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentUser(r.Context()); !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser returns the authenticated user attached to the context, if any.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(CurrentUserKey).(models.User)
	return user, ok
}
