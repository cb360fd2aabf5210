package auth

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const (
	// SessionCookie names the cookie carrying the session token.
	SessionCookie = "session"
	// FlashCookie names the cookie carrying the one-time flash token.
	FlashCookie = "flash"
)

// SessionStore maps opaque tokens to user IDs. It is process-local and
// in-memory: a restart drops every session, and explicit logout is the only
// expiry. The store holds user IDs, never user records; callers resolve the
// record per request.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]string // session token -> user ID
	flashes  map[string]string // flash token -> one-time message
	secure   bool
}

// NewSessionStore creates an empty session store. When secure is true,
// cookies are marked Secure for HTTPS-only transport.
func NewSessionStore(secure bool) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]string),
		flashes:  make(map[string]string),
		secure:   secure,
	}
}

// Create starts a session for the given user ID and sets the session cookie.
// It returns the new session token.
func (s *SessionStore) Create(w http.ResponseWriter, userID string) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		// Lax so the cookie still rides the top-level redirect back from the
		// OAuth provider.
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// UserID returns the user ID bound to the request's session, if any.
func (s *SessionStore) UserID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	s.mu.Lock()
	userID, ok := s.sessions[cookie.Value]
	s.mu.Unlock()
	return userID, ok
}

// Destroy removes the request's session server-side and expires the cookie.
func (s *SessionStore) Destroy(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash stores a one-time message for the client and points a short-lived
// cookie at it. The next PopFlash on the same client consumes it.
func (s *SessionStore) Flash(w http.ResponseWriter, message string) {
	token := uuid.New().String()
	s.mu.Lock()
	s.flashes[token] = message
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the request's pending flash message, if any, and deletes
// it. The message renders on exactly one page.
func (s *SessionStore) PopFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(FlashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}

	s.mu.Lock()
	message, ok := s.flashes[cookie.Value]
	if ok {
		delete(s.flashes, cookie.Value)
	}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return message
}
