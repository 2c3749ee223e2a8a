// Package navigation resolves safe in-site redirect targets.
package navigation

import (
	"net/http"
	"net/url"
	"strings"
)

// Referer returns the path+query of the request's Referer when it points
// back at this site, or fallback otherwise. Absolute referers are accepted
// only when their host matches r.Host.
func Referer(r *http.Request, fallback string) string {
	ref := strings.TrimSpace(r.Referer())
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	if u.IsAbs() && !strings.EqualFold(u.Host, r.Host) {
		return fallback
	}
	if u.Host != "" && !u.IsAbs() {
		// Scheme-relative (//evil.example/...) without a matching host.
		if !strings.EqualFold(u.Host, r.Host) {
			return fallback
		}
	}
	if !IsSafePath(u.Path) {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

// IsSafePath reports whether p is a site-relative path that cannot be
// reinterpreted as another origin.
func IsSafePath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	if strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	return !strings.ContainsAny(p, "\r\n")
}
