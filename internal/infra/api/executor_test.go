package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fastRetry keeps test runs quick while exercising the full loop.
var fastRetry = RetryConfig{
	MaxRetries:         3,
	Delay:              time.Millisecond,
	ExponentialBackoff: true,
}

func TestExecutorSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": 7}`))
	}))
	defer srv.Close()

	exec := NewExecutor(srv.URL, 5*time.Second,
		WithToken(func() string { return "test-token" }),
	)

	var out struct {
		Value int `json:"value"`
	}
	err := exec.Do(context.Background(), Request{Name: "test.get", Method: http.MethodGet, Path: "/thing"}, fastRetry, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value != 7 {
		t.Errorf("expected 7, got %d", out.Value)
	}
	if calls != 1 {
		t.Errorf("expected 1 request, got %d", calls)
	}
}

func TestExecutorRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var attempts []int
	exec := NewExecutor(srv.URL, 5*time.Second,
		WithObserver(ObserverFunc(func(attempt int, err error) {
			attempts = append(attempts, attempt)
		})),
	)

	err := exec.Do(context.Background(), Request{Name: "test.retry", Method: http.MethodGet, Path: "/thing"}, fastRetry, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 requests, got %d", calls)
	}
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("expected observer attempts [1 2], got %v", attempts)
	}
}

func TestExecutorExhaustsBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var attempts []int
	exec := NewExecutor(srv.URL, 5*time.Second,
		WithObserver(ObserverFunc(func(attempt int, err error) {
			attempts = append(attempts, attempt)
		})),
	)

	err := exec.Do(context.Background(), Request{Name: "test.exhaust", Method: http.MethodGet, Path: "/thing"}, fastRetry, nil)
	if err == nil {
		t.Fatal("expected error after budget exhaustion")
	}
	if KindOf(err) != KindNetwork {
		t.Errorf("expected network error, got %v", err)
	}
	// maxRetries=3 means 4 total attempts and 3 observer notifications.
	if calls != 4 {
		t.Errorf("expected 4 requests, got %d", calls)
	}
	if len(attempts) != 3 || attempts[0] != 1 || attempts[1] != 2 || attempts[2] != 3 {
		t.Errorf("expected observer attempts [1 2 3], got %v", attempts)
	}
}

func TestExecutorProtocolErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"messages": "not an array"`))
	}))
	defer srv.Close()

	exec := NewExecutor(srv.URL, 5*time.Second)

	var out struct {
		Messages []string `json:"messages"`
	}
	err := exec.Do(context.Background(), Request{Name: "test.protocol", Method: http.MethodGet, Path: "/thing"}, fastRetry, &out)
	if err == nil {
		t.Fatal("expected protocol error")
	}
	if KindOf(err) != KindProtocol {
		t.Errorf("expected protocol error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("malformed success must not be retried, got %d requests", calls)
	}
}

func TestExecutorValidationNeverFromNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "bad limit"}`))
	}))
	defer srv.Close()

	exec := NewExecutor(srv.URL, 5*time.Second)

	// Even a 400 is a network-kind failure at this layer: validation
	// errors only ever originate from pre-flight checks.
	err := exec.Do(context.Background(), Request{Name: "test.badreq", Method: http.MethodGet, Path: "/thing"}, RetryConfig{Delay: time.Millisecond}, nil)
	if KindOf(err) != KindNetwork {
		t.Errorf("expected network error for HTTP 400, got %v", err)
	}
}

func TestExecutorContextCancelsRetryWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	exec := NewExecutor(srv.URL, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxRetries: 5, Delay: 10 * time.Second}

	done := make(chan error, 1)
	go func() {
		done <- exec.Do(ctx, Request{Name: "test.cancel", Method: http.MethodGet, Path: "/thing"}, cfg, nil)
	}()

	// Give the first attempt time to fail and enter the wait.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancellation did not interrupt the retry wait")
	}
}
