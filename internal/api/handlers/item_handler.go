package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"bookshelf/internal/auth"
	"bookshelf/internal/models"
	"bookshelf/internal/services"
	"bookshelf/internal/web"
)

// ItemHandler handles HTTP requests for the review catalog.
type ItemHandler struct {
	items    services.ItemServiceProvider
	renderer *web.Renderer
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items services.ItemServiceProvider, renderer *web.Renderer) *ItemHandler {
	return &ItemHandler{items: items, renderer: renderer}
}

// page assembles the template data shared by every catalog page.
func (h *ItemHandler) page(r *http.Request) web.Page {
	p := web.Page{}
	if user, ok := auth.CurrentUser(r.Context()); ok {
		p.User = &user
	}
	total, err := h.items.Count(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count reviews")
	}
	p.Total = total
	return p
}

func (h *ItemHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	p := h.page(r)
	p.Error = "Something went wrong. Please try again."
	h.renderer.Render(w, http.StatusInternalServerError, "error.html", p)
}

func (h *ItemHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	p := h.page(r)
	p.Error = "That review does not exist."
	h.renderer.Render(w, http.StatusNotFound, "error.html", p)
}

// Index lists every review, oldest first.
func (h *ItemHandler) Index(w http.ResponseWriter, r *http.Request) {
	books, err := h.items.List(r.Context(), services.OrderByID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	p := h.page(r)
	p.Books = books
	h.renderer.Render(w, http.StatusOK, "index.html", p)
}

// About renders the static info page.
func (h *ItemHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "about.html", h.page(r))
}

// Get shows a single review. The trailing path segment is display-only and
// never filters the lookup.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	book, err := h.items.Get(r.Context(), id)
	if errors.Is(err, services.ErrItemNotFound) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	p := h.page(r)
	p.Book = book
	p.Review = web.BreakLines(book.Review)
	p.Status = chi.URLParam(r, "name")
	h.renderer.Render(w, http.StatusOK, "review.html", p)
}

// Compose renders the new-review form. The route is session-protected.
func (h *ItemHandler) Compose(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "new.html", h.page(r))
}

// Create inserts a submitted review and redirects to its page. The route is
// session-protected.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.items.Create(r.Context(), itemFromForm(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/book/%d/success", id), http.StatusSeeOther)
}

// Update overwrites an existing review and redirects back to its page.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PostFormValue("updatedItemId"))
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	item := itemFromForm(r)
	item.ID = id
	if err := h.items.Update(r.Context(), item); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/book/%d/edited", id), http.StatusSeeOther)
}

// Search runs a keyword search across author, title and genre.
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.PostFormValue("search")
	books, err := h.items.Search(r.Context(), keyword)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	p := h.page(r)
	p.Books = books
	p.TotalResult = len(books)
	p.SearchTerm = titleCase(keyword)
	h.renderer.Render(w, http.StatusOK, "search.html", p)
}

// Sort reorders the catalog by the submitted sort label.
func (h *ItemHandler) Sort(w http.ResponseWriter, r *http.Request) {
	label := r.PostFormValue("sort")
	books, err := h.items.List(r.Context(), services.OrderFromSortLabel(label))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	p := h.page(r)
	p.Books = books
	p.TotalResult = len(books)
	p.SortValue = label
	h.renderer.Render(w, http.StatusOK, "sort.html", p)
}

// FilterByGenre filters the catalog by a genre term. The term comes from the
// free-text field or the tag button, but only when exactly one of the two is
// set; otherwise it stays empty and matches everything.
func (h *ItemHandler) FilterByGenre(w http.ResponseWriter, r *http.Request) {
	search := r.PostFormValue("genre")
	tag := r.PostFormValue("genreTag")

	term := ""
	if tag != "" && search == "" {
		term = tag
	} else if search != "" && tag == "" {
		term = search
	}

	books, err := h.items.FilterByGenre(r.Context(), term)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	p := h.page(r)
	p.Books = books
	p.TotalResult = len(books)
	p.Genre = term
	h.renderer.Render(w, http.StatusOK, "genre.html", p)
}

// itemFromForm reads the review fields shared by the compose and edit forms.
// An unparseable rating falls back to zero rather than failing the submit.
func itemFromForm(r *http.Request) models.Item {
	rating, _ := strconv.ParseFloat(r.PostFormValue("rating"), 64)
	return models.Item{
		ISBN:   r.PostFormValue("isbn"),
		Author: r.PostFormValue("author"),
		Genre:  r.PostFormValue("genre"),
		Title:  r.PostFormValue("title"),
		Review: r.PostFormValue("review"),
		Rating: rating,
	}
}

// titleCase echoes the search term with its first letter capitalized.
func titleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
