package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"bookshelf/internal/auth"
	"bookshelf/internal/services"
	"bookshelf/internal/web"
)

// Messages surfaced on the login and registration pages.
const (
	msgUserNotFound     = "User not found"
	msgWrongPassword    = "Wrong password, please try again."
	msgDuplicateAccount = "An account with this email already exists."
)

// AuthHandler handles registration, login, logout and the Google flow.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions *auth.SessionStore
	google   auth.GoogleFlowProvider
	renderer *web.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions *auth.SessionStore, google auth.GoogleFlowProvider, renderer *web.Renderer) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, google: google, renderer: renderer}
}

func (h *AuthHandler) page(r *http.Request) web.Page {
	p := web.Page{}
	if user, ok := auth.CurrentUser(r.Context()); ok {
		p.User = &user
	}
	return p
}

func (h *AuthHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	p := h.page(r)
	p.Error = "Something went wrong. Please try again."
	h.renderer.Render(w, http.StatusInternalServerError, "error.html", p)
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register.html", h.page(r))
}

// Register creates a local account. The password hash and the insert finish
// before the redirect is written.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	_, err := h.users.Register(r.Context(), email,
		r.PostFormValue("password"),
		r.PostFormValue("firstname"),
		r.PostFormValue("lastname"))
	if errors.Is(err, services.ErrDuplicateAccount) {
		p := h.page(r)
		p.Error = msgDuplicateAccount
		h.renderer.Render(w, http.StatusOK, "register.html", p)
		return
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	log.Info().Str("email", email).Msg("Registered new account")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowLogin renders the login form with any pending flash message. The flash
// is consumed: it appears on this render only.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	p := h.page(r)
	p.Flash = h.sessions.PopFlash(w, r)
	h.renderer.Render(w, http.StatusOK, "login.html", p)
}

// Login verifies local credentials and establishes a session. Failures flash
// a message onto the next login page and never create a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	user, err := h.users.Authenticate(r.Context(), email, r.PostFormValue("password"))
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		h.sessions.Flash(w, msgUserNotFound)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, auth.ErrWrongPassword), errors.Is(err, auth.ErrLocalLoginDisabled):
		log.Warn().Str("email", email).Msg("Failed login attempt")
		h.sessions.Flash(w, msgWrongPassword)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case err != nil:
		h.renderError(w, r, err)
	default:
		h.sessions.Create(w, user.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// GoogleLogin starts the federated login flow.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	h.google.Redirect(w, r)
}

// GoogleCallback completes the federated login flow: it resolves the
// verified profile to an account (creating one on first sight of the email)
// and establishes a session. Any failure lands back on the login page.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	profile, err := h.google.Callback(r)
	if err != nil {
		log.Warn().Err(err).Msg("Google callback rejected")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.users.FindOrCreateFromGoogle(r.Context(), profile)
	if err != nil {
		log.Error().Err(err).Str("email", profile.Email).Msg("Failed to resolve Google account")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.sessions.Create(w, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
