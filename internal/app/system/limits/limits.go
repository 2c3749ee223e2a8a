// internal/app/system/limits/limits.go
package limits

import (
	"net/http"
	"strings"
)

// Request body size limits. Body applies them before any middleware reads
// the form, so decoders downstream never see more than this.
const (
	// MaxAccountBody covers registration, login and profile updates.
	MaxAccountBody = 64 << 10 // 64 KB

	// MaxQuizBody covers full quiz edits, which carry every question.
	MaxQuizBody = 1 << 20 // 1 MB
)

// ForPath returns the body limit for a request path. Quiz routes get the
// larger limit; everything else is an account form.
func ForPath(path string) int64 {
	if strings.Contains(path, "/quizzes") {
		return MaxQuizBody
	}
	return MaxAccountBody
}

// Body caps r.Body by ForPath. It must run before anything that parses
// the form, including method override.
func Body(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, ForPath(r.URL.Path))
		}
		next.ServeHTTP(w, r)
	})
}
