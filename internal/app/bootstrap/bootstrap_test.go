package bootstrap

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/quizhub/internal/app/features/errors"
	"github.com/dalemusser/quizhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "quizhub",
		SessionKey:    "a-production-session-key-that-is-long-enough",
		SessionName:   "quizhub-session",
		SessionMaxAge: 24 * time.Hour,
		CSRFKey:       "0123456789abcdef0123456789abcdef",
		TimeoutShort:  time.Second,
		TimeoutMedium: 2 * time.Second,
	}
}

func TestValidateConfig(t *testing.T) {
	prod := &config.CoreConfig{Env: "prod"}
	dev := &config.CoreConfig{Env: "dev"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid prod", prod, func(*AppConfig) {}, false},
		{"bad mongo uri", prod, func(c *AppConfig) { c.MongoURI = "postgres://x" }, true},
		{"empty database", prod, func(c *AppConfig) { c.MongoDatabase = "" }, true},
		{"empty session key", dev, func(c *AppConfig) { c.SessionKey = "" }, true},
		{"short session key in prod", prod, func(c *AppConfig) { c.SessionKey = "short" }, true},
		{"short session key in dev", dev, func(c *AppConfig) { c.SessionKey = "short" }, false},
		{"dev session key in prod", prod, func(c *AppConfig) { c.SessionKey = devSessionKey }, true},
		{"dev keys in dev", dev, func(c *AppConfig) { c.SessionKey, c.CSRFKey = devSessionKey, devCSRFKey }, false},
		{"csrf key wrong length", dev, func(c *AppConfig) { c.CSRFKey = "too-short" }, true},
		{"zero max age", dev, func(c *AppConfig) { c.SessionMaxAge = 0 }, true},
		{"zero timeout", dev, func(c *AppConfig) { c.TimeoutShort = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDevKeysHaveRequiredLength(t *testing.T) {
	if len(devCSRFKey) != csrfKeyLen {
		t.Errorf("devCSRFKey length %d, want %d", len(devCSRFKey), csrfKeyLen)
	}
	if len(devSessionKey) < minSessionKey {
		t.Errorf("devSessionKey length %d, want >= %d", len(devSessionKey), minSessionKey)
	}
}

// csrfServer serves the token on GET and "ok" on any accepted write.
func csrfServer(t *testing.T) *httptest.Server {
	t.Helper()
	errLog := errorsfeature.NewErrorLogger(zap.NewNop(), &testutil.Renderer{})
	protect := csrfProtect(devCSRFKey, false, errLog, zap.NewNop())
	srv := httptest.NewServer(protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			io.WriteString(w, csrf.Token(r))
			return
		}
		io.WriteString(w, "ok")
	})))
	t.Cleanup(srv.Close)
	return srv
}

func TestCSRF_RejectsFormPostWithoutToken(t *testing.T) {
	srv := csrfServer(t)

	resp, err := http.PostForm(srv.URL+"/users/logout", url.Values{})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", resp.StatusCode)
	}
}

func TestCSRF_AcceptsFormPostWithToken(t *testing.T) {
	srv := csrfServer(t)

	getResp, err := http.Get(srv.URL + "/users/login")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	token, _ := io.ReadAll(getResp.Body)
	getResp.Body.Close()
	if len(token) == 0 {
		t.Fatal("expected a token from GET")
	}

	form := url.Values{"gorilla.csrf.Token": {string(token)}}
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/users/logout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range getResp.Cookies() {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestCSRF_SkipsJSONBodies(t *testing.T) {
	srv := csrfServer(t)

	resp, err := http.Post(srv.URL+"/users/login", "application/json", strings.NewReader(`{"email":"a@x.com"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}
