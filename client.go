package hitbeat

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitbeat/hitbeat-go/pkg/requestctx"
	"github.com/hitbeat/hitbeat-go/pkg/tracking"
)

// Collector endpoints, relative to Config.APIURL.
const (
	eventsPath      = "/events"
	sessionsPath    = "/sessions"
	identifyPath    = "/identify"
	aliasPath       = "/alias"
	conversionsPath = "/conversions"
)

// Client is the facade for emitting analytics events. Identifiers are read
// from the ambient request context published by the tracking middleware,
// so handler code only names the event and its properties.
//
// A Client is immutable after New and safe for concurrent use.
type Client struct {
	config    Config
	transport Transport
	log       *slog.Logger
	now       func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport replaces the default HTTP transport (tests, custom wire).
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client of the default
// transport. Ignored when WithTransport is also given.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.transport = NewHTTPTransport(c.config, hc, c.log)
		}
	}
}

// New creates a Client for the given configuration.
func New(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		config: cfg,
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(cfg, nil, c.log)
	}
	return c
}

// Middleware returns the tracking middleware wired to this client: session
// starts are registered with the collector, and the client's tracking
// configuration and logger are applied. Extra options override the wiring.
func (c *Client) Middleware(opts ...tracking.Option) func(http.Handler) http.Handler {
	base := []tracking.Option{
		tracking.WithConfig(c.config.Tracking),
		tracking.WithNotifier(c),
		tracking.WithLogger(c.log),
	}
	return tracking.New(append(base, opts...)...).Handler
}

// TrackResult describes the event the collector recorded.
type TrackResult struct {
	EventID   string
	EventType string
	VisitorID string
	SessionID string
}

// Track reports a named event. The visitor and user identifiers come from
// the ambient request context; properties are enriched with the request's
// url and referrer without overwriting caller-set keys.
func (c *Client) Track(ctx context.Context, event string, properties map[string]any) (*TrackResult, error) {
	rc, _ := requestctx.FromContext(ctx)
	if isBlank(event) {
		return nil, ErrInvalidPayload
	}
	if rc.UserID == "" && rc.VisitorID == "" {
		return nil, ErrInvalidPayload
	}

	payload := map[string]any{
		"event_type": event,
		"properties": rc.EnrichedProperties(properties),
		"timestamp":  c.timestamp(),
	}
	putPresent(payload, "user_id", rc.UserID)
	putPresent(payload, "visitor_id", rc.VisitorID)

	resp := c.transport.PostWithResponse(ctx, eventsPath, map[string]any{
		"events": []map[string]any{payload},
	})
	if resp == nil {
		return nil, ErrDeliveryFailed
	}

	events, _ := resp["events"].([]any)
	if len(events) == 0 {
		return nil, ErrDeliveryFailed
	}
	event0, _ := events[0].(map[string]any)
	return &TrackResult{
		EventID:   str(event0["id"]),
		EventType: str(event0["event_type"]),
		VisitorID: str(event0["visitor_id"]),
		SessionID: str(event0["session_id"]),
	}, nil
}

// Identify attaches traits to the current user.
func (c *Client) Identify(ctx context.Context, traits map[string]any) error {
	userID := requestctx.UserID(ctx)
	if isBlank(userID) {
		return ErrInvalidPayload
	}
	if traits == nil {
		traits = map[string]any{}
	}

	ok := c.transport.Post(ctx, identifyPath, map[string]any{
		"user_id":   userID,
		"traits":    traits,
		"timestamp": c.timestamp(),
	})
	if !ok {
		return ErrDeliveryFailed
	}
	return nil
}

// Alias links the current anonymous visitor to the current user, merging
// pre-login activity into the user's history.
func (c *Client) Alias(ctx context.Context) error {
	userID := requestctx.UserID(ctx)
	visitorID := requestctx.VisitorID(ctx)
	if isBlank(userID) || isBlank(visitorID) {
		return ErrInvalidPayload
	}

	ok := c.transport.Post(ctx, aliasPath, map[string]any{
		"user_id":    userID,
		"visitor_id": visitorID,
		"timestamp":  c.timestamp(),
	})
	if !ok {
		return ErrDeliveryFailed
	}
	return nil
}

// ConversionInput describes a conversion to record. Either EventID or a
// visitor id (explicit, or ambient from the request context) is required.
type ConversionInput struct {
	EventID        string
	VisitorID      string
	ConversionType string
	Revenue        float64
	Currency       string
	Properties     map[string]any
}

// ConversionResult describes the recorded conversion and its attribution.
type ConversionResult struct {
	ID          string
	Attribution map[string]any
}

// Conversion records a revenue or goal conversion.
func (c *Client) Conversion(ctx context.Context, in ConversionInput) (*ConversionResult, error) {
	visitorID := in.VisitorID
	if visitorID == "" {
		visitorID = requestctx.VisitorID(ctx)
	}
	if isBlank(in.ConversionType) || (isBlank(in.EventID) && isBlank(visitorID)) {
		return nil, ErrInvalidPayload
	}

	properties := in.Properties
	if properties == nil {
		properties = map[string]any{}
	}

	conversion := map[string]any{
		"conversion_type": in.ConversionType,
		"currency":        in.Currency,
		"properties":      properties,
		"timestamp":       c.timestamp(),
	}
	putPresent(conversion, "event_id", in.EventID)
	putPresent(conversion, "visitor_id", visitorID)
	if in.Revenue != 0 {
		conversion["revenue"] = in.Revenue
	}

	resp := c.transport.PostWithResponse(ctx, conversionsPath, map[string]any{
		"conversion": conversion,
	})
	if resp == nil {
		return nil, ErrDeliveryFailed
	}

	id := str(resp["id"])
	if id == "" {
		return nil, ErrDeliveryFailed
	}
	attribution, _ := resp["attribution"].(map[string]any)
	return &ConversionResult{ID: id, Attribution: attribution}, nil
}

// SessionStarted implements tracking.Notifier: it registers a freshly
// started session with the collector. Called from the middleware's
// detached goroutine; errors are logged there, never surfaced.
func (c *Client) SessionStarted(ctx context.Context, start tracking.SessionStart) error {
	if isBlank(start.VisitorID) || isBlank(start.SessionID) || isBlank(start.URL) {
		return ErrInvalidPayload
	}

	startedAt := start.StartedAt
	if startedAt.IsZero() {
		startedAt = c.now()
	}

	session := map[string]any{
		"visitor_id": start.VisitorID,
		"session_id": start.SessionID,
		"url":        start.URL,
		"started_at": startedAt.UTC().Format(time.RFC3339),
	}
	putPresent(session, "referrer", start.Referrer)

	if !c.transport.Post(ctx, sessionsPath, map[string]any{"session": session}) {
		return ErrDeliveryFailed
	}
	return nil
}

func (c *Client) timestamp() string {
	return c.now().UTC().Format(time.RFC3339)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// putPresent sets key only when value is non-empty, keeping payloads free
// of empty identifier fields.
func putPresent(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
