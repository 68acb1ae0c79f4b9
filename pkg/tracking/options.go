package tracking

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hitbeat/hitbeat-go/pkg/cookie"
)

// Option configures the tracking middleware.
type Option func(*Middleware)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(m *Middleware) {
		m.config = cfg
	}
}

// WithNotifier sets the collaborator told about session starts. Without a
// notifier, new sessions are resolved but not reported anywhere.
func WithNotifier(n Notifier) Option {
	return func(m *Middleware) {
		m.notifier = n
	}
}

// WithUserIDFunc plugs in the host application's user lookup (typically a
// read from its own session store). The function must be safe for
// concurrent use and must not retain the request.
func WithUserIDFunc(fn func(r *http.Request) string) Option {
	return func(m *Middleware) {
		m.userIDFn = fn
	}
}

// WithLogger sets the logger for async notification failures.
func WithLogger(log *slog.Logger) Option {
	return func(m *Middleware) {
		if log != nil {
			m.log = log
		}
	}
}

// WithCookieJar replaces the default cookie jar (Path=/, HttpOnly,
// SameSite=Lax), e.g. to scope cookies to a domain.
func WithCookieJar(jar *cookie.Jar) Option {
	return func(m *Middleware) {
		if jar != nil {
			m.jar = jar
		}
	}
}

// WithClock overrides the time source. Tests use this to pin time buckets.
func WithClock(now func() time.Time) Option {
	return func(m *Middleware) {
		if now != nil {
			m.now = now
		}
	}
}
