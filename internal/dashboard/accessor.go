// Package dashboard serves read-heavy dashboard data, consulting the
// TTL cache before issuing backend requests.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/storefront/internal/core/domain"
	"github.com/vietddude/storefront/internal/infra/api"
	"github.com/vietddude/storefront/internal/infra/cache"
	"github.com/vietddude/storefront/internal/metrics"
)

// Cache key layout. Session keys share the "chat:" prefix so a chat
// write can invalidate them as a group.
func statsKey(productID int64) string {
	return fmt.Sprintf("dash:stats:%d", productID)
}

func sessionsKey(productID int64) string {
	return fmt.Sprintf("chat:sessions:%d", productID)
}

// Accessor exposes dashboard reads over the backend with a TTL cache
// in front. The cache is injected, never owned: the caller controls
// its lifetime and may share it across accessors.
type Accessor struct {
	exec  *api.Executor
	cache cache.Store
	ttl   time.Duration
	retry api.RetryConfig
	log   *slog.Logger
}

// NewAccessor creates a dashboard accessor. A non-positive ttl falls
// back to the cache default.
func NewAccessor(exec *api.Executor, store cache.Store, ttl time.Duration, log *slog.Logger) *Accessor {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Accessor{
		exec:  exec,
		cache: store,
		ttl:   ttl,
		retry: api.DefaultRetryConfig,
		log:   log,
	}
}

// ProductStats returns the dashboard summary for a product. A network
// failure that survives retries degrades to zeroed stats so the
// dashboard renders "no data yet" instead of an error.
func (a *Accessor) ProductStats(ctx context.Context, productID int64) (*domain.ProductStats, error) {
	if productID <= 0 {
		return nil, api.Validationf("product id must be positive, got %d", productID)
	}

	key := statsKey(productID)
	var stats domain.ProductStats
	if a.cacheLookup(ctx, "product_stats", key, &stats) {
		return &stats, nil
	}

	err := a.exec.Do(ctx, api.Request{
		Name:   "dashboard.product_stats",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/products/%d/stats", productID),
	}, a.retry, &stats)
	if err != nil {
		if kind := api.KindOf(err); kind == api.KindProtocol || kind == api.KindValidation {
			return nil, err
		}
		a.log.Warn("product stats unavailable, serving empty summary",
			"product_id", productID, "error", err)
		return &domain.ProductStats{ProductID: productID}, nil
	}

	a.cacheStore(ctx, key, &stats)
	return &stats, nil
}

type sessionsResponse struct {
	Sessions []domain.Session `json:"sessions"`
}

// Sessions returns the chat sessions of a product, newest first as the
// backend orders them. Degrades to an empty list on network exhaustion.
func (a *Accessor) Sessions(ctx context.Context, productID int64) ([]domain.Session, error) {
	if productID <= 0 {
		return nil, api.Validationf("product id must be positive, got %d", productID)
	}

	key := sessionsKey(productID)
	var sessions []domain.Session
	if a.cacheLookup(ctx, "sessions", key, &sessions) {
		return sessions, nil
	}

	var raw sessionsResponse
	err := a.exec.Do(ctx, api.Request{
		Name:   "dashboard.sessions",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/products/%d/chat/sessions", productID),
	}, a.retry, &raw)
	if err != nil {
		if kind := api.KindOf(err); kind == api.KindProtocol || kind == api.KindValidation {
			return nil, err
		}
		a.log.Warn("session list unavailable, serving empty list",
			"product_id", productID, "error", err)
		return []domain.Session{}, nil
	}

	sessions = raw.Sessions
	if sessions == nil {
		sessions = []domain.Session{}
	}
	a.cacheStore(ctx, key, sessions)
	return sessions, nil
}

// InvalidateProduct drops every cached entry for a product. Called
// after a write so the next read observes it.
func (a *Accessor) InvalidateProduct(ctx context.Context, productID int64) error {
	pattern := fmt.Sprintf("^(dash:stats|chat:sessions):%d$", productID)
	removed, err := a.cache.InvalidatePattern(ctx, pattern)
	if err != nil {
		return fmt.Errorf("invalidate product %d: %w", productID, err)
	}
	a.log.Debug("invalidated product cache entries", "product_id", productID, "removed", removed)
	return nil
}

// cacheLookup decodes a live cache entry into out, dropping entries
// that no longer decode.
func (a *Accessor) cacheLookup(ctx context.Context, accessor, key string, out any) bool {
	data, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		a.log.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		metrics.CacheMissesTotal.WithLabelValues(accessor).Inc()
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		_ = a.cache.Invalidate(ctx, key)
		metrics.CacheMissesTotal.WithLabelValues(accessor).Inc()
		return false
	}
	metrics.CacheHitsTotal.WithLabelValues(accessor).Inc()
	return true
}

func (a *Accessor) cacheStore(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
		a.log.Warn("cache write failed", "key", key, "error", err)
	}
}
