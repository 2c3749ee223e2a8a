// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/dalemusser/quizhub/internal/app/system/render"
	"github.com/dalemusser/quizhub/internal/app/system/viewdata"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pageData is the view model for the "error" view.
type pageData struct {
	viewdata.BaseVM
	Status    int
	Message   string
	Reference string
	BackURL   string
}

// ErrorLogger renders error outcomes uniformly and logs the ones that need
// an operator's attention. Raw errors are logged, never shown; clients get
// a message plus a reference ID that appears in the log line.
type ErrorLogger struct {
	log   *zap.Logger
	views render.Renderer
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger, views render.Renderer) *ErrorLogger {
	return &ErrorLogger{log: logger, views: views}
}

// LogServerError logs err and responds 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	ref := uuid.NewString()
	e.log.Error(msg,
		zap.Error(err),
		zap.String("ref", ref),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	e.respond(w, r, http.StatusInternalServerError, userMsg, ref, backURL)
}

// LogBadRequest logs err at warn level and responds 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	e.respond(w, r, http.StatusBadRequest, userMsg, "", backURL)
}

// RenderNotFound responds 404.
func (e *ErrorLogger) RenderNotFound(w http.ResponseWriter, r *http.Request, userMsg, backURL string) {
	e.respond(w, r, http.StatusNotFound, userMsg, "", backURL)
}

// RenderForbidden is the access-denied outcome for a signed-in user acting
// on someone else's resource: the "error" view for browsers, plain text
// otherwise. Both are 403.
func (e *ErrorLogger) RenderForbidden(w http.ResponseWriter, r *http.Request) {
	if !auth.WantsHTML(r) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}
	e.render(w, r, http.StatusForbidden, "Access denied.", "", "/")
}

// RenderUnauthorized is the outcome for anonymous requests to guarded
// routes: the login view for browsers, plain text otherwise. Both are 401.
func (e *ErrorLogger) RenderUnauthorized(w http.ResponseWriter, r *http.Request) {
	if !auth.WantsHTML(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	data := struct {
		viewdata.BaseVM
		Email string
	}{BaseVM: viewdata.NewBaseVM(r, "Log in")}
	data.Error = "Please log in to continue."
	e.views.Render(render.WithStatus(w, http.StatusUnauthorized), r, "user_login", data)
}

func (e *ErrorLogger) respond(w http.ResponseWriter, r *http.Request, status int, userMsg, ref, backURL string) {
	if auth.WantsHTML(r) {
		e.render(w, r, status, userMsg, ref, backURL)
		return
	}
	WriteJSONError(w, status, userMsg)
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, userMsg, ref, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	data := pageData{
		BaseVM:    viewdata.NewBaseVM(r, http.StatusText(status)),
		Status:    status,
		Message:   userMsg,
		Reference: ref,
		BackURL:   backURL,
	}
	e.views.Render(render.WithStatus(w, status), r, "error", data)
}

// WriteJSONError writes {"error": msg} with the given status.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
