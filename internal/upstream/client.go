// Package upstream is the single pipeline through which every registry
// call travels. It attaches the session's bearer token, detects expired
// sessions, and normalizes transport and server failures into coded domain
// errors with user-presentable messages. Callers never see a raw transport
// error.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"dinardap-console/internal/platform/metrics"
	"dinardap-console/internal/session"
	dErrors "dinardap-console/pkg/domain-errors"
	"dinardap-console/pkg/requestcontext"
)

const maxResponseBytes = 1 << 20

// Envelope mirrors the registry's {success, message, data} wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// DecodeData unmarshals the envelope payload into dst.
func (e *Envelope) DecodeData(dst any) error {
	if len(e.Data) == 0 {
		return dErrors.New(dErrors.CodeUpstream, MsgGeneric)
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, MsgGeneric)
	}
	return nil
}

// Client issues authenticated requests against the registry backend.
type Client struct {
	http          *http.Client
	baseURL       string
	sessions      session.Store
	onAuthExpired func()
	log           *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithOnAuthExpired registers the callback fired when an upstream 401
// invalidates the session. The concrete navigation back to the login view
// belongs to the browser layer; the server side only observes the event.
func WithOnAuthExpired(fn func()) Option {
	return func(c *Client) { c.onAuthExpired = fn }
}

// WithMetrics enables per-call counters and latency histograms.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New builds a Client. timeout bounds every call end to end.
func New(baseURL string, timeout time.Duration, sessions session.Store, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  baseURL,
		sessions: sessions,
		log:      logger,
		tracer:   otel.Tracer("dinardap-console/upstream"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues an authenticated GET. operation labels metrics and spans.
func (c *Client) Get(ctx context.Context, operation, path string, query url.Values) (*Envelope, error) {
	return c.do(ctx, operation, http.MethodGet, path, query, nil)
}

// Post issues an authenticated POST with a JSON body (nil for empty).
func (c *Client) Post(ctx context.Context, operation, path string, body any) (*Envelope, error) {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, MsgGeneric)
		}
		payload = bytes.NewReader(raw)
	}
	return c.do(ctx, operation, http.MethodPost, path, nil, payload)
}

// attempt tracks the lifecycle of one outgoing request. The retried flag
// makes the 401 session-teardown single-shot per request.
type attempt struct {
	operation string
	retried   bool
}

func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body io.Reader) (*Envelope, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "upstream."+operation,
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("registry.operation", operation),
		))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, MsgGeneric)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	reqID := requestcontext.RequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)

	// A missing token is not an error here: the request goes out without
	// the header and the registry answers 401.
	if token := c.sessions.Get().Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	a := &attempt{operation: operation}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		norm := NormalizeTransportError(err)
		c.observe(operation, string(dErrors.CodeOf(norm)), start)
		c.log.WarnContext(ctx, "upstream transport failure",
			"operation", operation, "error", err, "request_id", reqID)
		return nil, norm
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.observe(operation, "connectivity", start)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, MsgConnectivity)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		norm := c.normalizeStatus(ctx, a, resp.StatusCode, raw)
		c.observe(operation, string(dErrors.CodeOf(norm)), start)
		c.log.WarnContext(ctx, "upstream error response",
			"operation", operation, "status", resp.StatusCode, "request_id", reqID)
		return nil, norm
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.observe(operation, "decode_error", start)
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, MsgGeneric)
	}

	c.observe(operation, "success", start)
	return &env, nil
}

// NormalizeTransportError folds client-side failures into the two fixed
// categories the UI knows how to present: timeout and connectivity.
func NormalizeTransportError(err error) error {
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, MsgTimeout)
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, MsgConnectivity)
}

// normalizeStatus translates a non-2xx response into a coded domain error.
// Status-specific handling wins over whatever message the server sent,
// matching the UI's fixed wording for these cases.
func (c *Client) normalizeStatus(ctx context.Context, a *attempt, status int, body []byte) error {
	message := extractMessage(body)

	switch {
	case status == http.StatusForbidden:
		if isIPRestriction(message) {
			return dErrors.New(dErrors.CodeForbidden, MsgIPRestricted)
		}
		return dErrors.New(dErrors.CodeForbidden, MsgAccessDenied)
	case status == http.StatusUnauthorized:
		c.expireSession(ctx, a)
		return dErrors.New(dErrors.CodeUnauthorized, MsgSessionExpired)
	case status == http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, MsgNotFound)
	case status == http.StatusInternalServerError:
		return dErrors.New(dErrors.CodeUpstream, MsgServerError)
	case message != "":
		return dErrors.New(dErrors.CodeUpstream, message)
	default:
		return dErrors.New(dErrors.CodeUpstream, MsgGeneric)
	}
}

// expireSession tears the session down after a 401. Idempotent per
// request: a request already marked retried does not clear or notify a
// second time.
func (c *Client) expireSession(ctx context.Context, a *attempt) {
	if a.retried {
		return
	}
	a.retried = true

	if err := c.sessions.Clear(ctx); err != nil {
		c.log.WarnContext(ctx, "failed to clear persisted session", "error", err)
	}
	if c.metrics != nil {
		c.metrics.SessionsExpired.Inc()
	}
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

// extractMessage pulls a human message out of an error body. The backend
// answers with {message} or {error}; JSON-quoted and plain-text bodies
// pass through as-is.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		return parsed.Error
	}
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		return plain
	}
	return trimmed
}

func (c *Client) observe(operation, outcome string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveUpstream(operation, outcome, time.Since(start))
}
