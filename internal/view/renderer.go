// Package view renders HTML pages inside the shared page shell.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

const (
	DefaultTitle = "Memo App"
	Caption      = "A quickly made memo app"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the input for one rendered page. Data is handed to the page
// template; an empty Title falls back to DefaultTitle.
type Page struct {
	Title string
	Data  any
}

type shell struct {
	Title   string
	Caption string
	Content template.HTML
}

// Renderer executes page fragments and wraps them in the layout.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates once.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes page wrapped in the layout with the given status. Nothing is
// written if either template fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	var fragment bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&fragment, name, page.Data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	title := page.Title
	if title == "" {
		title = DefaultTitle
	}

	var out bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&out, "layout", shell{
		Title:   title,
		Caption: Caption,
		Content: template.HTML(fragment.String()),
	})
	if err != nil {
		return fmt.Errorf("render layout: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = out.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet and favicon.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
