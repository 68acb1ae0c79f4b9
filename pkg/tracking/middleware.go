package tracking

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitbeat/hitbeat-go/pkg/cookie"
	"github.com/hitbeat/hitbeat-go/pkg/requestctx"
	"github.com/hitbeat/hitbeat-go/pkg/sessionid"
	"github.com/hitbeat/hitbeat-go/pkg/visitor"
)

// SessionStart carries the copied scalar values describing a freshly
// started session. It never references the originating request, so the
// asynchronous notification can outlive the request's teardown.
type SessionStart struct {
	VisitorID string
	SessionID string
	URL       string
	Referrer  string
	StartedAt time.Time
}

// Notifier is told about session starts. Implementations must be safe for
// concurrent use; they are invoked from detached goroutines.
type Notifier interface {
	SessionStarted(ctx context.Context, start SessionStart) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, start SessionStart) error

func (f NotifierFunc) SessionStarted(ctx context.Context, start SessionStart) error {
	return f(ctx, start)
}

// Middleware resolves visitor and session identity for every instrumented
// request. One instance serves all concurrent requests, so it carries only
// read-only configuration; every per-request value lives in a locally
// built immutable requestctx.Context.
type Middleware struct {
	config   Config
	jar      *cookie.Jar
	notifier Notifier
	userIDFn func(r *http.Request) string
	now      func() time.Time
	log      *slog.Logger

	skipPrefixes   []string
	skipExtensions []string
}

// New creates a tracking middleware with the given options.
func New(opts ...Option) *Middleware {
	m := &Middleware{
		config: DefaultConfig(),
		jar:    cookie.New(),
		now:    time.Now,
		log:    slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	// A partially filled Config must not disable cookies or bucketing
	defaults := DefaultConfig()
	if m.config.VisitorCookieName == "" {
		m.config.VisitorCookieName = defaults.VisitorCookieName
	}
	if m.config.SessionCookieName == "" {
		m.config.SessionCookieName = defaults.SessionCookieName
	}
	if m.config.VisitorCookieMaxAge <= 0 {
		m.config.VisitorCookieMaxAge = defaults.VisitorCookieMaxAge
	}
	if m.config.SessionWindow <= 0 {
		m.config.SessionWindow = defaults.SessionWindow
	}

	m.skipPrefixes = lowercaseAll(m.config.SkipPathPrefixes, DefaultSkipPathPrefixes)
	m.skipExtensions = lowercaseAll(m.config.SkipExtensions, DefaultSkipExtensions)

	return m
}

// Handler wraps next with request instrumentation. Filtered requests pass
// through untouched; all others get identity resolution, context
// publication, response cookies, and a one-shot asynchronous session-start
// notification when no session cookie was presented.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.shouldSkip(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		rc := m.resolve(r)

		// Response headers must be written before the downstream handler
		// flushes the response; the identity record is final here, so the
		// cookie values match what downstream observes in the context.
		m.setCookies(w, r, rc)

		if rc.NewSession && m.notifier != nil {
			go m.notifySessionStart(SessionStart{
				VisitorID: rc.VisitorID,
				SessionID: rc.SessionID,
				URL:       rc.URL,
				Referrer:  rc.Referrer,
				StartedAt: m.now().UTC(),
			})
		}

		ctx := requestctx.WithContext(r.Context(), rc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolve builds the immutable identity record for one request. Everything
// is computed from local values; nothing is cached on the Middleware.
func (m *Middleware) resolve(r *http.Request) requestctx.Context {
	rc := requestctx.New(r)

	visitorID, err := m.jar.Get(r, m.config.VisitorCookieName)
	hadVisitorCookie := err == nil && visitorID != ""
	if !hadVisitorCookie {
		visitorID = visitor.Generate()
	}

	sessionID, err := m.jar.Get(r, m.config.SessionCookieName)
	newSession := err != nil || sessionID == ""
	if newSession {
		ts := m.now().Unix()
		window := int64(m.config.SessionWindow.Seconds())
		if hadVisitorCookie {
			sessionID = sessionid.Deterministic(visitorID, ts, window)
		} else {
			// No stable visitor id yet: derive from the client fingerprint
			// so concurrent first requests converge on one session.
			sessionID = sessionid.FromFingerprint(rc.IP, rc.UserAgent, ts, window)
		}
	}

	rc.VisitorID = visitorID
	rc.SessionID = sessionID
	rc.NewSession = newSession
	if m.userIDFn != nil {
		rc.UserID = m.userIDFn(r)
	}

	return rc
}

func (m *Middleware) setCookies(w http.ResponseWriter, r *http.Request, rc requestctx.Context) {
	secure := cookie.WithSecure(r.TLS != nil)

	m.jar.Set(w, m.config.VisitorCookieName, rc.VisitorID,
		cookie.WithMaxAge(int(m.config.VisitorCookieMaxAge.Seconds())), secure)
	m.jar.Set(w, m.config.SessionCookieName, rc.SessionID,
		cookie.WithMaxAge(int(m.config.SessionWindow.Seconds())), secure)
}

// notifySessionStart runs on a detached goroutine. Failures are logged and
// contained; they never reach the request that spawned them. The context is
// independent of the request on purpose: an aborted request must not cancel
// the registration.
func (m *Middleware) notifySessionStart(start SessionStart) {
	defer func() {
		if rec := recover(); rec != nil {
			m.log.Error("session start notification panicked",
				slog.Any("panic", rec),
				slog.String("session_id", start.SessionID))
		}
	}()

	if err := m.notifier.SessionStarted(context.Background(), start); err != nil {
		m.log.Error("session start notification failed",
			slog.Any("error", err),
			slog.String("visitor_id", start.VisitorID),
			slog.String("session_id", start.SessionID))
	}
}

func lowercaseAll(values, fallback []string) []string {
	if len(values) == 0 {
		values = fallback
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}
