// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/quizhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/quizhub/internal/app/features/health"
	homefeature "github.com/dalemusser/quizhub/internal/app/features/home"
	_ "github.com/dalemusser/quizhub/internal/app/features/home/views"
	quizzesfeature "github.com/dalemusser/quizhub/internal/app/features/quizzes"
	_ "github.com/dalemusser/quizhub/internal/app/features/shared/views"
	usersfeature "github.com/dalemusser/quizhub/internal/app/features/users"
	quizstore "github.com/dalemusser/quizhub/internal/app/store/quizzes"
	userstore "github.com/dalemusser/quizhub/internal/app/store/users"
	"github.com/dalemusser/quizhub/internal/app/system/auth"
	"github.com/dalemusser/quizhub/internal/app/system/limits"
	"github.com/dalemusser/quizhub/internal/app/system/methodoverride"
	"github.com/dalemusser/quizhub/internal/app/system/metrics"
	"github.com/dalemusser/quizhub/internal/app/system/ratelimit"
	"github.com/dalemusser/quizhub/internal/app/system/render"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for QuizHub.
//
// Middleware order matters: the body limit wraps r.Body before method
// override parses the form, method override runs before CSRF so the
// effective method is checked, and the session user is loaded last so
// every feature handler sees it.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Resolve the session's user on every request so a deleted account
	// stops authenticating immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	views := render.Templates{}
	errLog := errorsfeature.NewErrorLogger(logger, views)
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(limits.Body)
	r.Use(methodoverride.Middleware)
	r.Use(csrfProtect(appCfg.CSRFKey, secure, errLog, logger))

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Operational endpoints
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	quizHandler := quizzesfeature.NewHandler(quizstore.New(deps.MongoDatabase), views, errLog, logger)
	usersHandler := usersfeature.NewHandler(userstore.New(deps.MongoDatabase), sessionMgr, views, errLog, logger)
	// A rebuilt handler replaces the previous throttle and its sweepers.
	workers.Stop()
	throttle := ratelimit.NewLoginLimiter()
	workers.Go(throttle.Run)
	usersHandler.Throttle = throttle
	r.Mount("/users", usersfeature.Routes(usersHandler, quizzesfeature.Routes(quizHandler)))

	homeHandler := homefeature.NewHandler(views, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	return r, nil
}

// csrfProtect wraps gorilla/csrf. JSON bodies skip the token check since
// browsers cannot send them cross-origin without a CORS preflight. Outside
// prod, requests are marked plaintext so the HTTPS referer check does not
// reject http://localhost.
func csrfProtect(key string, secure bool, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) func(http.Handler) http.Handler {
	onFailure := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("csrf check failed",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Error(csrf.FailureReason(r)))
		errLog.RenderForbidden(w, r)
	})
	protect := csrf.Protect([]byte(key),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(onFailure),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			if isJSON(r) {
				r = csrf.UnsafeSkipCheck(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}
