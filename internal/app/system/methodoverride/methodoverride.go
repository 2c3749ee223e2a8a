// Package methodoverride lets HTML forms reach PUT and DELETE routes.
package methodoverride

import (
	"errors"
	"net/http"
	"strings"
)

// FieldName is the hidden form field carrying the intended method.
const FieldName = "_method"

var allowed = map[string]bool{
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// Middleware rewrites POST requests whose form carries _method=PUT,
// DELETE or PATCH. It must run before routing and after the body limit.
// It parses the form, so a body that cannot be read is answered here:
// 413 when over the limit, 400 otherwise.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && isForm(r) {
			if err := r.ParseForm(); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "malformed form body", http.StatusBadRequest)
				return
			}
			if m := strings.ToUpper(r.PostForm.Get(FieldName)); allowed[m] {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
