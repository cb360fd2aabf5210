package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bookshelf/internal/api/handlers"
	"bookshelf/internal/auth"
	"bookshelf/internal/services"
	"bookshelf/internal/web"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(items services.ItemServiceProvider, users services.UserServiceProvider, sessions *auth.SessionStore, google auth.GoogleFlowProvider, renderer *web.Renderer) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.LoadSession(sessions, users))

	// Initialize handlers
	itemHandler := handlers.NewItemHandler(items, renderer)
	authHandler := handlers.NewAuthHandler(users, sessions, google, renderer)

	// Catalog
	r.Get("/", itemHandler.Index)
	r.Get("/about", itemHandler.About)
	r.Get("/book/{id}/{name}", itemHandler.Get)
	r.Post("/edit", itemHandler.Update)
	r.Post("/s", itemHandler.Search)
	r.Post("/sort", itemHandler.Sort)
	r.Post("/genre", itemHandler.FilterByGenre)

	// Accounts
	r.Get("/register", authHandler.ShowRegister)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.ShowLogin)
	r.Post("/login", authHandler.Login)
	r.Get("/auth/google", authHandler.GoogleLogin)
	r.Get("/auth/google/new", authHandler.GoogleCallback)
	r.Get("/logout", authHandler.Logout)

	// Composing a review requires a session
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession())
		r.Get("/new-review", itemHandler.Compose)
		r.Post("/new", itemHandler.Create)
	})

	// Static assets
	r.Handle("/static/*", http.FileServer(http.FS(web.Static())))

	return r
}
