package requestctx

import (
	"net/http"

	"github.com/hitbeat/hitbeat-go/pkg/clientip"
)

// Context is an immutable per-request snapshot: derived request metadata
// plus the identity the tracking middleware resolved for this request.
// It is built once, never mutated, and dies with the request's
// context.Context. Nothing here may reference the live *http.Request.
type Context struct {
	URL        string
	Referrer   string
	UserAgent  string
	IP         string
	VisitorID  string
	SessionID  string
	UserID     string
	NewSession bool
}

// New snapshots the request-derived fields. Identity fields are filled in
// by the middleware before the Context is published.
func New(r *http.Request) Context {
	return Context{
		URL:       fullURL(r),
		Referrer:  r.Referer(),
		UserAgent: r.UserAgent(),
		IP:        clientip.Resolve(r),
	}
}

// EnrichedProperties merges the request's url and referrer (absent values
// omitted) under the caller-supplied properties. Keys the caller set
// explicitly always win.
func (c Context) EnrichedProperties(custom map[string]any) map[string]any {
	props := make(map[string]any, len(custom)+2)
	if c.URL != "" {
		props["url"] = c.URL
	}
	if c.Referrer != "" {
		props["referrer"] = c.Referrer
	}
	for k, v := range custom {
		props[k] = v
	}
	return props
}

func fullURL(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if r.Host == "" {
		return r.URL.RequestURI()
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
