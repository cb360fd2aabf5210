// Package web renders the application's HTML pages from an embedded template
// tree. It is a thin adapter over html/template: handlers hand it plain data,
// it hands back exactly one response.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"bookshelf/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page carries the data consumed by the page templates. Each template reads
// the fields it needs and ignores the rest.
type Page struct {
	Books       []models.Item
	Book        models.Item
	Review      template.HTML // review text with newlines rendered as <br>
	Total       int
	TotalResult int
	SearchTerm  string
	SortValue   string
	Genre       string
	Status      string // display-only path segment, e.g. "edited", "success"
	User        *models.User
	Flash       string
	Error       string // inline form error, e.g. duplicate registration
}

// Renderer executes named page templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded template tree.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render writes the named page with the given status code. The template runs
// against a buffer first so a rendering failure still produces a response.
func (rn *Renderer) Render(w http.ResponseWriter, status int, name string, data Page) {
	var buf bytes.Buffer
	if err := rn.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Static returns the embedded static asset tree, rooted so that the files
// are served under /static/.
func Static() fs.FS {
	return staticFS
}

// BreakLines escapes a review body and turns its newlines into <br> tags so
// multi-paragraph reviews keep their shape.
func BreakLines(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "<br>")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML(escaped)
}
