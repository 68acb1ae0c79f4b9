package tracking

import "time"

// Config holds the read-only tracking middleware configuration. It is
// shared by every concurrent request and never written after New.
type Config struct {
	// VisitorCookieName is the long-lived browser identifier cookie.
	VisitorCookieName string `env:"HITBEAT_VISITOR_COOKIE" envDefault:"_hb_vid"`

	// SessionCookieName is the short-lived session identifier cookie.
	SessionCookieName string `env:"HITBEAT_SESSION_COOKIE" envDefault:"_hb_sid"`

	// VisitorCookieMaxAge controls how long a browser keeps its visitor
	// identifier (default ~2 years).
	VisitorCookieMaxAge time.Duration `env:"HITBEAT_VISITOR_COOKIE_MAX_AGE" envDefault:"17520h"`

	// SessionWindow is the inactivity window bounding a session. It is both
	// the session cookie lifetime and the time-bucket width for
	// deterministic session-id derivation.
	SessionWindow time.Duration `env:"HITBEAT_SESSION_WINDOW" envDefault:"30m"`

	// SkipPathPrefixes lists lowercase path prefixes excluded from
	// instrumentation. Empty means DefaultSkipPathPrefixes.
	SkipPathPrefixes []string `env:"HITBEAT_SKIP_PATHS" envSeparator:","`

	// SkipExtensions lists lowercase path suffixes excluded from
	// instrumentation. Empty means DefaultSkipExtensions.
	SkipExtensions []string `env:"HITBEAT_SKIP_EXTENSIONS" envSeparator:","`
}

// DefaultSkipPathPrefixes excludes health checks, asset directories and
// API-internal paths from instrumentation.
var DefaultSkipPathPrefixes = []string{
	"/health",
	"/healthz",
	"/ping",
	"/metrics",
	"/assets/",
	"/static/",
	"/api/internal",
	"/favicon",
}

// DefaultSkipExtensions excludes static asset requests from instrumentation.
var DefaultSkipExtensions = []string{
	".css", ".js", ".mjs", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp",
	".woff", ".woff2", ".ttf",
	".txt",
}

// DefaultConfig returns the default tracking configuration.
func DefaultConfig() Config {
	return Config{
		VisitorCookieName:   "_hb_vid",
		SessionCookieName:   "_hb_sid",
		VisitorCookieMaxAge: 2 * 365 * 24 * time.Hour,
		SessionWindow:       30 * time.Minute,
	}
}
