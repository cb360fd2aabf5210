package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"bookshelf/internal/auth"
	"bookshelf/internal/models"
)

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "reader@example.com", "secret-pw")

	w := app.postForm("/register", url.Values{
		"email":     {"reader@example.com"},
		"password":  {"other-pw"},
		"firstname": {"Second"},
		"lastname":  {"Attempt"},
	}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with inline message", w.Code)
	}
	if !strings.Contains(w.Body.String(), "An account with this email already exists.") {
		t.Error("registration page does not surface the duplicate-account message")
	}
	if !strings.Contains(w.Body.String(), "Log in instead?") {
		t.Error("registration page does not offer login instead")
	}

	var count int
	if err := app.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "reader@example.com").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("user rows = %d, want exactly 1", count)
	}
}

func TestLogin_Success(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "reader@example.com", "secret-pw")
	cookies := app.login(t, "reader@example.com", "secret-pw")

	// The session resolves to the full user record on later requests.
	w := app.get("/new-review", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("protected page after login: status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Avid") {
		t.Error("page does not show the logged-in user")
	}
}

func TestLogin_WrongPasswordFlashesOnce(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "reader@example.com", "secret-pw")

	w := app.postForm("/login", url.Values{"email": {"reader@example.com"}, "password": {"not-it"}}, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("status %d, location %q", w.Code, w.Header().Get("Location"))
	}
	if sessionCookie(w) != nil {
		t.Fatal("failed login must not create a session")
	}

	// The message renders on the next login page...
	cookies := w.Result().Cookies()
	page := app.get("/login", cookies)
	if !strings.Contains(page.Body.String(), "Wrong password, please try again.") {
		t.Error("login page does not show the flash message")
	}

	// ...and on that page only.
	again := app.get("/login", cookies)
	if strings.Contains(again.Body.String(), "Wrong password, please try again.") {
		t.Error("flash message survived a second render")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/login", url.Values{"email": {"nobody@example.com"}, "password": {"pw"}}, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("status %d, location %q", w.Code, w.Header().Get("Location"))
	}
	if sessionCookie(w) != nil {
		t.Fatal("failed login must not create a session")
	}

	page := app.get("/login", w.Result().Cookies())
	if !strings.Contains(page.Body.String(), "User not found") {
		t.Error("login page does not show the user-not-found message")
	}
}

func TestGoogleCallback_CreatesThenReusesAccount(t *testing.T) {
	app := newTestApp(t)
	app.google.profile = auth.GoogleProfile{
		Email:     "reader@gmail.com",
		FirstName: "Avid",
		LastName:  "Reader",
		Photo:     "https://lh3.example.com/photo.jpg",
	}

	w := app.get("/auth/google/new?state=n&code=c", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("status %d, location %q", w.Code, w.Header().Get("Location"))
	}
	if sessionCookie(w) == nil {
		t.Fatal("successful callback must create a session")
	}

	user, err := app.users.GetByEmail(context.Background(), "reader@gmail.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Password != models.GoogleAuthPassword {
		t.Fatalf("password = %q, want the google-auth sentinel", user.Password)
	}

	// Second callback reuses the same row.
	app.get("/auth/google/new?state=n&code=c", nil)
	var count int
	if err := app.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "reader@gmail.com").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("user rows = %d, want exactly 1", count)
	}
}

func TestGoogleCallback_FailureRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	app.google.err = auth.ErrStateMismatch

	w := app.get("/auth/google/new?state=evil&code=c", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("status %d, location %q", w.Code, w.Header().Get("Location"))
	}
	if sessionCookie(w) != nil {
		t.Fatal("failed callback must not create a session")
	}
}

func TestGoogleAccount_CannotLoginLocally(t *testing.T) {
	app := newTestApp(t)
	app.google.profile = auth.GoogleProfile{Email: "reader@gmail.com"}
	app.get("/auth/google/new?state=n&code=c", nil)

	for _, password := range []string{"", "password", models.GoogleAuthPassword} {
		w := app.postForm("/login", url.Values{"email": {"reader@gmail.com"}, "password": {password}}, nil)
		if w.Header().Get("Location") != "/login" {
			t.Fatalf("password %q: location %q, want /login", password, w.Header().Get("Location"))
		}
		if sessionCookie(w) != nil {
			t.Fatalf("password %q: local login on a google account created a session", password)
		}
	}
}

func TestLogout_DestroysSession(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "reader@example.com", "secret-pw")
	cookies := app.login(t, "reader@example.com", "secret-pw")

	w := app.get("/logout", cookies)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("status %d, location %q", w.Code, w.Header().Get("Location"))
	}

	// The old token no longer opens the protected page.
	after := app.get("/new-review", cookies)
	if after.Code != http.StatusSeeOther || after.Header().Get("Location") != "/login" {
		t.Fatalf("after logout: status %d, location %q", after.Code, after.Header().Get("Location"))
	}
}

func TestCompose_RequiresSession(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/new-review", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("status %d, location %q", w.Code, w.Header().Get("Location"))
	}

	// An unauthenticated submit is redirected too and creates no row.
	w = app.postForm("/new", url.Values{
		"title":  {"Sneaky"},
		"author": {"Nobody"},
		"review": {"should not exist"},
		"rating": {"5"},
	}, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("status %d, location %q", w.Code, w.Header().Get("Location"))
	}
	if count := app.countItems(t); count != 0 {
		t.Fatalf("items = %d, want 0", count)
	}
}
