package hitbeat_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hitbeat "github.com/hitbeat/hitbeat-go"
	"github.com/hitbeat/hitbeat-go/pkg/requestctx"
	"github.com/hitbeat/hitbeat-go/pkg/tracking"
)

// fakeTransport records calls and plays back canned responses.
type fakeTransport struct {
	mu       sync.Mutex
	paths    []string
	payloads []any
	postOK   bool
	response map[string]any
}

func (f *fakeTransport) Post(_ context.Context, path string, payload any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	f.payloads = append(f.payloads, payload)
	return f.postOK
}

func (f *fakeTransport) PostWithResponse(_ context.Context, path string, payload any) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	f.payloads = append(f.payloads, payload)
	return f.response
}

func (f *fakeTransport) lastPayload() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payloads[len(f.payloads)-1]
}

func newClient(ft *fakeTransport) *hitbeat.Client {
	cfg := hitbeat.DefaultConfig()
	cfg.APIKey = "sk_test_123"
	return hitbeat.New(cfg, hitbeat.WithTransport(ft))
}

func ambientCtx(visitorID, sessionID, userID string) context.Context {
	return requestctx.WithContext(context.Background(), requestctx.Context{
		URL:       "http://example.com/pricing",
		Referrer:  "https://google.com/",
		VisitorID: visitorID,
		SessionID: sessionID,
		UserID:    userID,
	})
}

func TestClient_Track(t *testing.T) {
	t.Parallel()

	t.Run("sends enriched event and reads result", func(t *testing.T) {
		t.Parallel()
		ft := &fakeTransport{response: map[string]any{
			"events": []any{map[string]any{
				"id":         "evt_1",
				"event_type": "signup",
				"visitor_id": "v1",
				"session_id": "s1",
			}},
		}}
		client := newClient(ft)

		res, err := client.Track(ambientCtx("v1", "s1", ""), "signup", map[string]any{"plan": "pro"})
		require.NoError(t, err)
		assert.Equal(t, "evt_1", res.EventID)
		assert.Equal(t, "signup", res.EventType)
		assert.Equal(t, "v1", res.VisitorID)
		assert.Equal(t, "s1", res.SessionID)

		payload := ft.lastPayload().(map[string]any)
		events := payload["events"].([]map[string]any)
		require.Len(t, events, 1)
		evt := events[0]
		assert.Equal(t, "signup", evt["event_type"])
		assert.Equal(t, "v1", evt["visitor_id"])
		assert.NotContains(t, evt, "user_id")

		props := evt["properties"].(map[string]any)
		assert.Equal(t, "pro", props["plan"])
		assert.Equal(t, "http://example.com/pricing", props["url"])
		assert.Equal(t, "https://google.com/", props["referrer"])
	})

	t.Run("rejects blank event name", func(t *testing.T) {
		t.Parallel()
		client := newClient(&fakeTransport{})
		_, err := client.Track(ambientCtx("v1", "s1", ""), "  ", nil)
		assert.ErrorIs(t, err, hitbeat.ErrInvalidPayload)
	})

	t.Run("rejects call without any identity", func(t *testing.T) {
		t.Parallel()
		client := newClient(&fakeTransport{})
		_, err := client.Track(context.Background(), "signup", nil)
		assert.ErrorIs(t, err, hitbeat.ErrInvalidPayload)
	})

	t.Run("delivery failure surfaces as error", func(t *testing.T) {
		t.Parallel()
		client := newClient(&fakeTransport{response: nil})
		_, err := client.Track(ambientCtx("v1", "s1", ""), "signup", nil)
		assert.ErrorIs(t, err, hitbeat.ErrDeliveryFailed)
	})
}

func TestClient_Identify(t *testing.T) {
	t.Parallel()

	t.Run("sends traits for current user", func(t *testing.T) {
		t.Parallel()
		ft := &fakeTransport{postOK: true}
		client := newClient(ft)

		err := client.Identify(ambientCtx("v1", "s1", "u1"), map[string]any{"email": "a@b.c"})
		require.NoError(t, err)

		payload := ft.lastPayload().(map[string]any)
		assert.Equal(t, "u1", payload["user_id"])
		assert.Equal(t, map[string]any{"email": "a@b.c"}, payload["traits"])
		assert.NotEmpty(t, payload["timestamp"])
	})

	t.Run("anonymous context rejected", func(t *testing.T) {
		t.Parallel()
		client := newClient(&fakeTransport{postOK: true})
		err := client.Identify(ambientCtx("v1", "s1", ""), nil)
		assert.ErrorIs(t, err, hitbeat.ErrInvalidPayload)
	})
}

func TestClient_Alias(t *testing.T) {
	t.Parallel()

	t.Run("links visitor to user", func(t *testing.T) {
		t.Parallel()
		ft := &fakeTransport{postOK: true}
		client := newClient(ft)

		require.NoError(t, client.Alias(ambientCtx("v1", "s1", "u1")))

		payload := ft.lastPayload().(map[string]any)
		assert.Equal(t, "u1", payload["user_id"])
		assert.Equal(t, "v1", payload["visitor_id"])
	})

	t.Run("requires both identifiers", func(t *testing.T) {
		t.Parallel()
		client := newClient(&fakeTransport{postOK: true})
		assert.ErrorIs(t, client.Alias(ambientCtx("v1", "s1", "")), hitbeat.ErrInvalidPayload)
		assert.ErrorIs(t, client.Alias(ambientCtx("", "", "u1")), hitbeat.ErrInvalidPayload)
	})
}

func TestClient_Conversion(t *testing.T) {
	t.Parallel()

	t.Run("records conversion with attribution", func(t *testing.T) {
		t.Parallel()
		ft := &fakeTransport{response: map[string]any{
			"id":          "conv_1",
			"attribution": map[string]any{"source": "google"},
		}}
		client := newClient(ft)

		res, err := client.Conversion(ambientCtx("v1", "s1", ""), hitbeat.ConversionInput{
			ConversionType: "purchase",
			Revenue:        49.99,
			Currency:       "USD",
		})
		require.NoError(t, err)
		assert.Equal(t, "conv_1", res.ID)
		assert.Equal(t, "google", res.Attribution["source"])

		payload := ft.lastPayload().(map[string]any)
		conversion := payload["conversion"].(map[string]any)
		assert.Equal(t, "purchase", conversion["conversion_type"])
		assert.Equal(t, 49.99, conversion["revenue"])
		assert.Equal(t, "v1", conversion["visitor_id"], "visitor id falls back to ambient context")
	})

	t.Run("requires type and an identifier", func(t *testing.T) {
		t.Parallel()
		client := newClient(&fakeTransport{})
		_, err := client.Conversion(context.Background(), hitbeat.ConversionInput{ConversionType: "purchase"})
		assert.ErrorIs(t, err, hitbeat.ErrInvalidPayload)

		_, err = client.Conversion(ambientCtx("v1", "s1", ""), hitbeat.ConversionInput{})
		assert.ErrorIs(t, err, hitbeat.ErrInvalidPayload)
	})

	t.Run("missing id in response is a failure", func(t *testing.T) {
		t.Parallel()
		client := newClient(&fakeTransport{response: map[string]any{}})
		_, err := client.Conversion(ambientCtx("v1", "s1", ""), hitbeat.ConversionInput{ConversionType: "purchase"})
		assert.ErrorIs(t, err, hitbeat.ErrDeliveryFailed)
	})
}

func TestClient_SessionStarted(t *testing.T) {
	t.Parallel()

	start := tracking.SessionStart{
		VisitorID: "v1",
		SessionID: "s1",
		URL:       "http://example.com/",
		Referrer:  "https://google.com/",
		StartedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("registers session", func(t *testing.T) {
		t.Parallel()
		ft := &fakeTransport{postOK: true}
		client := newClient(ft)

		require.NoError(t, client.SessionStarted(context.Background(), start))

		payload := ft.lastPayload().(map[string]any)
		session := payload["session"].(map[string]any)
		assert.Equal(t, "v1", session["visitor_id"])
		assert.Equal(t, "s1", session["session_id"])
		assert.Equal(t, "http://example.com/", session["url"])
		assert.Equal(t, "https://google.com/", session["referrer"])
		assert.Equal(t, "2025-01-02T03:04:05Z", session["started_at"])
	})

	t.Run("incomplete start rejected", func(t *testing.T) {
		t.Parallel()
		client := newClient(&fakeTransport{postOK: true})
		bad := start
		bad.URL = ""
		assert.ErrorIs(t, client.SessionStarted(context.Background(), bad), hitbeat.ErrInvalidPayload)
	})

	t.Run("delivery failure surfaces", func(t *testing.T) {
		t.Parallel()
		client := newClient(&fakeTransport{postOK: false})
		assert.ErrorIs(t, client.SessionStarted(context.Background(), start), hitbeat.ErrDeliveryFailed)
	})
}

func TestClient_Middleware(t *testing.T) {
	t.Parallel()

	// End-to-end: middleware resolves identity, handler tracks an event,
	// session registration reaches the transport.
	ft := &fakeTransport{postOK: true, response: map[string]any{
		"events": []any{map[string]any{"id": "evt_1"}},
	}}
	client := newClient(ft)

	handlerDone := make(chan error, 1)
	h := client.Middleware()(httpHandler(func(ctx context.Context) {
		_, err := client.Track(ctx, "page_view", nil)
		handlerDone <- err
	}))

	w, r := newTestRequest("http://example.com/pricing")
	h.ServeHTTP(w, r)

	require.NoError(t, <-handlerDone)
	require.Eventually(t, func() bool {
		ft.mu.Lock()
		defer ft.mu.Unlock()
		for _, p := range ft.paths {
			if p == "/sessions" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond, "session registration must reach the transport")
}

func httpHandler(fn func(ctx context.Context)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(r.Context())
	})
}

func newTestRequest(url string) (*httptest.ResponseRecorder, *http.Request) {
	r := httptest.NewRequest("GET", url, nil)
	r.Header.Set("User-Agent", "Chrome")
	r.Header.Set("X-Forwarded-For", "10.0.0.1")
	return httptest.NewRecorder(), r
}
