// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds QuizHub's service-specific configuration.
//
// WAFFLE's CoreConfig covers ports, TLS, logging and the dev/prod switch.
// Everything the route layer needs beyond that lives here and is passed
// to each lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies
	SessionName   string        // Cookie name for sessions (default: quizhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// CSRFKey authenticates CSRF tokens. Exactly 32 bytes.
	CSRFKey string

	// Data-access deadlines for request handlers
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
