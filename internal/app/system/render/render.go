// Package render is the seam between handlers and the template engine.
// Handlers take a Renderer so tests can record which view was chosen
// without booting templates.
package render

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
)

// Renderer produces an HTML response from a named view and its data.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, name string, data any)
}

// Templates renders through the waffle template engine booted in
// bootstrap.BuildHandler.
type Templates struct{}

// Render implements Renderer.
func (Templates) Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

// WithStatus wraps w so the first header write uses code instead of
// whatever the renderer asks for. Use it to render an error view with a
// non-200 status.
func WithStatus(w http.ResponseWriter, code int) http.ResponseWriter {
	return &statusWriter{ResponseWriter: w, code: code}
}

type statusWriter struct {
	http.ResponseWriter
	code  int
	wrote bool
}

func (s *statusWriter) WriteHeader(int) {
	if s.wrote {
		return
	}
	s.wrote = true
	s.ResponseWriter.WriteHeader(s.code)
}

func (s *statusWriter) Write(b []byte) (int, error) {
	if !s.wrote {
		s.WriteHeader(s.code)
	}
	return s.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusWriter) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
