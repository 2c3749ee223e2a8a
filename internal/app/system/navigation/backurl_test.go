package navigation

import (
	"net/http/httptest"
	"testing"
)

func TestReferer(t *testing.T) {
	tests := []struct {
		name    string
		referer string
		want    string
	}{
		{"empty", "", "/fallback"},
		{"same host absolute", "http://example.com/users/1/quizzes/2/edit", "/users/1/quizzes/2/edit"},
		{"keeps query", "http://example.com/users/1/quizzes?page=2", "/users/1/quizzes?page=2"},
		{"relative path", "/users/1", "/users/1"},
		{"other host", "https://evil.example/users/1", "/fallback"},
		{"scheme relative other host", "//evil.example/users/1", "/fallback"},
		{"not a path", "javascript:alert(1)", "/fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "http://example.com/users/1/quizzes/2", nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			if got := Referer(req, "/fallback"); got != tt.want {
				t.Errorf("Referer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsSafePath(t *testing.T) {
	tests := map[string]bool{
		"/":            true,
		"/users/1":     true,
		"":             false,
		"users":        false,
		"//evil":       false,
		"/\\evil":      false,
		"/a\r\nheader": false,
	}
	for p, want := range tests {
		if got := IsSafePath(p); got != want {
			t.Errorf("IsSafePath(%q) = %v, want %v", p, got, want)
		}
	}
}
