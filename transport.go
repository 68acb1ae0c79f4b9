package hitbeat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transport delivers payloads to the collector. The middleware and client
// depend only on this surface; retry policy, TLS details and serialization
// live behind it.
type Transport interface {
	// Post sends payload to path and reports delivery success.
	Post(ctx context.Context, path string, payload any) bool

	// PostWithResponse sends payload to path and returns the decoded JSON
	// response body, or nil on any failure.
	PostWithResponse(ctx context.Context, path string, payload any) map[string]any
}

// HTTPTransport posts JSON to the collector over a pooled HTTP client.
// Failures are logged and reported as false/nil; they never propagate as
// errors into the request pipeline.
type HTTPTransport struct {
	config Config
	client *http.Client
	log    *slog.Logger
}

// NewHTTPTransport creates a transport for the given configuration.
// A nil client gets connection-pooling defaults sized for steady
// event traffic.
func NewHTTPTransport(cfg Config, client *http.Client, log *slog.Logger) *HTTPTransport {
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &HTTPTransport{config: cfg, client: client, log: log}
}

func (t *HTTPTransport) Post(ctx context.Context, path string, payload any) bool {
	_, err := t.do(ctx, path, payload)
	return err == nil
}

func (t *HTTPTransport) PostWithResponse(ctx context.Context, path string, payload any) map[string]any {
	body, err := t.do(ctx, path, payload)
	if err != nil {
		return nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.logError("decode collector response", err, path)
		return nil
	}
	return decoded
}

func (t *HTTPTransport) do(ctx context.Context, path string, payload any) ([]byte, error) {
	if !t.config.Enabled {
		return nil, ErrDisabled
	}
	if err := t.config.Validate(); err != nil {
		t.logError("configuration invalid", err, path)
		return nil, err
	}

	endpoint, err := url.JoinPath(t.config.APIURL, path)
	if err != nil {
		t.logError("join collector url", err, path)
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.logError("marshal payload", err, path)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		t.logError("build request", err, path)
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := t.client.Do(req)
	if err != nil {
		t.logError("collector request", err, path)
		return nil, ErrDeliveryFailed
	}
	defer resp.Body.Close() //nolint:errcheck

	// Cap the read: responses are small JSON documents, never streams
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		t.logError("read collector response", err, path)
		return nil, ErrDeliveryFailed
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.log.Error("collector rejected request",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(body), 256)))
		return nil, ErrDeliveryFailed
	}

	if t.config.Debug {
		t.log.Debug("delivered to collector",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
	}

	return body, nil
}

func (t *HTTPTransport) logError(msg string, err error, path string) {
	t.log.Error(msg, slog.Any("error", err), slog.String("path", path))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}
