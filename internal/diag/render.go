package diag

import (
	"html/template"
	"io"

	"github.com/hartyporpoise/hostinfo/web"
	"github.com/pkg/errors"
)

const pageTemplate = "diagnostics.html"

// Renderer writes a View as HTML. Every value is escaped by html/template,
// so request-controlled fields cannot inject markup.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(web.Templates, pageTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "parse page template")
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for v to w.
func (r *Renderer) Render(w io.Writer, v View) error {
	return r.tmpl.ExecuteTemplate(w, pageTemplate, v)
}
