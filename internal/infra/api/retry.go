package api

import (
	"math"
	"time"
)

// RetryConfig defines retry behavior for the request executor.
type RetryConfig struct {
	// MaxRetries is the number of re-attempts after the first try.
	MaxRetries int

	// Delay is the base wait before a retry.
	Delay time.Duration

	// MaxDelay caps backoff growth. Zero means uncapped.
	MaxDelay time.Duration

	// ExponentialBackoff doubles the wait on each successive retry.
	// When false every wait is Delay.
	ExponentialBackoff bool
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:         3,
	Delay:              1 * time.Second,
	MaxDelay:           30 * time.Second,
	ExponentialBackoff: true,
}

// RetryObserver is notified before each scheduled retry wait.
// Attempt numbers are 1-indexed. Observers run synchronously and
// must not assume they can alter the scheduled wait.
type RetryObserver interface {
	OnRetry(attempt int, err error)
}

// ObserverFunc adapts a plain function to RetryObserver.
type ObserverFunc func(attempt int, err error)

func (f ObserverFunc) OnRetry(attempt int, err error) {
	f(attempt, err)
}

// Backoff returns the wait before retry attempt n (1-indexed):
// Delay*2^(n-1) when exponential, Delay otherwise, capped at MaxDelay.
func Backoff(attempt int, cfg RetryConfig) time.Duration {
	if !cfg.ExponentialBackoff {
		return cfg.Delay
	}
	delay := float64(cfg.Delay) * math.Pow(2, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}
