package methodoverride_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/quizhub/internal/app/system/limits"
	"github.com/dalemusser/quizhub/internal/app/system/methodoverride"
)

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		want        string
	}{
		{"put override", http.MethodPost, "application/x-www-form-urlencoded", "_method=PUT&title=x", http.MethodPut},
		{"delete lowercase", http.MethodPost, "application/x-www-form-urlencoded", "_method=delete", http.MethodDelete},
		{"no field", http.MethodPost, "application/x-www-form-urlencoded", "title=x", http.MethodPost},
		{"unsupported value", http.MethodPost, "application/x-www-form-urlencoded", "_method=GET", http.MethodPost},
		{"json body ignored", http.MethodPost, "application/json", `{"_method":"PUT"}`, http.MethodPost},
		{"get untouched", http.MethodGet, "", "", http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := methodoverride.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Method
			}))

			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("method: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware_FormStillReadable(t *testing.T) {
	var title string
	h := methodoverride.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.FormValue("title")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("_method=PUT&title=kept"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if title != "kept" {
		t.Errorf("expected parsed form to survive override, got %q", title)
	}
}

func TestMiddleware_OversizedFormRejected(t *testing.T) {
	called := false
	h := limits.Body(methodoverride.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	body := "_method=PUT&pad=" + strings.Repeat("x", limits.MaxAccountBody)
	req := httptest.NewRequest(http.MethodPost, "/users/abc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", rec.Code)
	}
	if called {
		t.Error("handler must not run for an oversized form")
	}
}
