// Package view is the seam to the template rendering engine. Pages are
// html/template files sharing one layout; handlers pass a context map and
// never touch templates directly.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// Data is the rendering context passed to a page template.
type Data map[string]interface{}

// Renderer renders named pages inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
	log   *logrus.Logger
}

// New parses the layout and every page template once, up front.
func New(log *logrus.Logger) (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to scan templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, entry := range entries {
		name := strings.TrimSuffix(path.Base(entry), ".html")
		if name == "layout" {
			continue
		}
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", entry)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", entry, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, log: log}, nil
}

// Render writes the named page with the given status code. The page is
// executed into a buffer first so a template failure produces a clean 500
// instead of a half-written body.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Data) {
	tmpl, ok := r.pages[page]
	if !ok {
		r.log.Errorf("unknown template: %s", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = Data{}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.log.Errorf("failed to render %s: %v", page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
