package handlers_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"bookshelf/internal/api"
	"bookshelf/internal/auth"
	"bookshelf/internal/database"
	"bookshelf/internal/models"
	"bookshelf/internal/services"
	"bookshelf/internal/web"
)

// fakeGoogle satisfies auth.GoogleFlowProvider with a canned callback result.
type fakeGoogle struct {
	profile auth.GoogleProfile
	err     error
}

func (f *fakeGoogle) Redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "https://accounts.google.com/o/oauth2/auth?fake", http.StatusTemporaryRedirect)
}

func (f *fakeGoogle) Callback(*http.Request) (auth.GoogleProfile, error) {
	return f.profile, f.err
}

// testApp wires the full router against a temp database.
type testApp struct {
	router http.Handler
	db     *sql.DB
	items  *services.ItemService
	users  *services.UserService
	google *fakeGoogle
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	app := &testApp{
		db:     db,
		items:  services.NewItemService(db),
		users:  services.NewUserService(db),
		google: &fakeGoogle{},
	}
	app.router = api.NewRouter(app.items, app.users, auth.NewSessionStore(false), app.google, renderer)
	return app
}

// get performs a GET request carrying the given cookies.
func (a *testApp) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

// postForm performs a form POST carrying the given cookies.
func (a *testApp) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

// register creates a local account through the HTTP surface.
func (a *testApp) register(t *testing.T, email, password string) {
	t.Helper()
	w := a.postForm("/register", url.Values{
		"email":     {email},
		"password":  {password},
		"firstname": {"Avid"},
		"lastname":  {"Reader"},
	}, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("register: status %d, location %q", w.Code, w.Header().Get("Location"))
	}
}

// login authenticates through the HTTP surface and returns the session
// cookies.
func (a *testApp) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	w := a.postForm("/login", url.Values{"email": {email}, "password": {password}}, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("login: status %d, location %q", w.Code, w.Header().Get("Location"))
	}
	return w.Result().Cookies()
}

func (a *testApp) seedItem(t *testing.T, item models.Item) int {
	t.Helper()
	id, err := a.items.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	return id
}

func (a *testApp) countItems(t *testing.T) int {
	t.Helper()
	count, err := a.items.Count(context.Background())
	if err != nil {
		t.Fatalf("failed to count items: %v", err)
	}
	return count
}

// sessionCookie extracts the session cookie from a response, if set.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookie && c.Value != "" {
			return c
		}
	}
	return nil
}
