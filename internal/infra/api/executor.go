package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/storefront/internal/metrics"
)

// Request describes one HTTP call against the storefront backend.
type Request struct {
	// Name identifies the operation for logging and metrics
	// (e.g. "chat.messages", "chat.send").
	Name string

	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded when non-nil.
	Body any
}

// TokenSource supplies the bearer token attached to outgoing requests.
// A nil source or an empty token leaves the request unauthenticated.
type TokenSource func() string

// Executor issues requests against the backend, classifies failures
// into the error taxonomy and re-attempts retryable ones per the
// supplied RetryConfig. Within one call attempts are strictly
// sequential; attempt n+1 never starts before attempt n's wait has
// elapsed.
type Executor struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	observers  []RetryObserver
	log        *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithToken sets the bearer token source.
func WithToken(ts TokenSource) ExecutorOption {
	return func(e *Executor) { e.token = ts }
}

// WithObserver registers a retry observer. Observers are notified in
// registration order.
func WithObserver(obs RetryObserver) ExecutorOption {
	return func(e *Executor) { e.observers = append(e.observers, obs) }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) ExecutorOption {
	return func(e *Executor) { e.httpClient = c }
}

// WithLogger sets the executor logger.
func WithLogger(log *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.log = log }
}

// NewExecutor creates a request executor for the given base URL.
func NewExecutor(baseURL string, timeout time.Duration, opts ...ExecutorOption) *Executor {
	e := &Executor{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do executes the request, decoding the response body into out when
// out is non-nil. NetworkErrors are retried per cfg; validation and
// protocol failures abort immediately. On budget exhaustion the last
// classified error is returned unchanged. The context cancels both
// in-flight requests and pending retry waits.
func (e *Executor) Do(ctx context.Context, req Request, cfg RetryConfig, out any) error {
	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return UnknownErr("marshal request body", err)
		}
	}

	requestID := uuid.NewString()
	start := time.Now()

	var lastErr error
	for attempt := 0; ; attempt++ {
		err := e.doOnce(ctx, req, payload, requestID, out)
		if err == nil {
			metrics.APIRequestsTotal.WithLabelValues(req.Name, "success").Inc()
			metrics.APILatency.WithLabelValues(req.Name).Observe(time.Since(start).Seconds())
			return nil
		}
		lastErr = err

		kind := KindOf(err)
		metrics.APIErrorsTotal.WithLabelValues(req.Name, kind.String()).Inc()
		if !kind.Retryable() {
			metrics.APIRequestsTotal.WithLabelValues(req.Name, "error").Inc()
			return err
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		retry := attempt + 1
		for _, obs := range e.observers {
			obs.OnRetry(retry, err)
		}
		metrics.APIRetriesTotal.WithLabelValues(req.Name).Inc()

		wait := Backoff(retry, cfg)
		e.log.Warn("request failed, retrying",
			"operation", req.Name,
			"request_id", requestID,
			"attempt", retry,
			"wait", wait,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	metrics.APIRequestsTotal.WithLabelValues(req.Name, "error").Inc()
	return lastErr
}

func (e *Executor) doOnce(ctx context.Context, req Request, payload []byte, requestID string, out any) error {
	endpoint := e.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return UnknownErr("create request", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if e.token != nil {
		if token := e.token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return NetworkErr(fmt.Sprintf("%s %s", req.Method, req.Path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return NetworkErr("read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NetworkErr(fmt.Sprintf("http %d: %s", resp.StatusCode, snippet(raw)), nil)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return ProtocolErr("decode response body", err)
		}
	}
	return nil
}

// snippet truncates a response body for error messages.
func snippet(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
