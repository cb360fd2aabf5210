package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// requestWithCookies builds a GET request carrying the cookies a previous
// response set.
func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r
}

func TestSessionStore_CreateAndLookup(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(false)
	w := httptest.NewRecorder()
	token := store.Create(w, "user-1")
	if token == "" {
		t.Fatal("expected a session token")
	}

	userID, ok := store.UserID(requestWithCookies(w))
	if !ok || userID != "user-1" {
		t.Fatalf("UserID = %q, %v; want user-1, true", userID, ok)
	}
}

func TestSessionStore_Destroy(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(false)
	w := httptest.NewRecorder()
	store.Create(w, "user-1")
	r := requestWithCookies(w)

	w2 := httptest.NewRecorder()
	store.Destroy(w2, r)

	if _, ok := store.UserID(r); ok {
		t.Fatal("session survived Destroy")
	}
}

func TestSessionStore_NoCookie(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(false)
	if _, ok := store.UserID(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("expected no session without a cookie")
	}
}

func TestSessionStore_FlashIsSingleRead(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(false)
	w := httptest.NewRecorder()
	store.Flash(w, "Wrong password, please try again.")
	r := requestWithCookies(w)

	if got := store.PopFlash(httptest.NewRecorder(), r); got != "Wrong password, please try again." {
		t.Fatalf("first PopFlash = %q", got)
	}
	if got := store.PopFlash(httptest.NewRecorder(), r); got != "" {
		t.Fatalf("second PopFlash = %q, want empty", got)
	}
}
