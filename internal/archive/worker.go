// Package archive syncs chat history from the backend into the local
// PostgreSQL archive on a fixed interval.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/vietddude/storefront/internal/core/domain"
	"github.com/vietddude/storefront/internal/metrics"
)

// HistorySource provides paginated message history, typically the chat client.
type HistorySource interface {
	Messages(ctx context.Context, req domain.PageRequest) (*domain.MessagePage, error)
}

// SessionSource lists the sessions of a product, typically the dashboard accessor.
type SessionSource interface {
	Sessions(ctx context.Context, productID int64) ([]domain.Session, error)
}

// MessageStore persists archived messages.
type MessageStore interface {
	SaveBatch(ctx context.Context, msgs []domain.Message) error
}

// CursorStore tracks per-session sync progress.
type CursorStore interface {
	Get(ctx context.Context, productID int64, sessionID string) (int, error)
	Save(ctx context.Context, productID int64, sessionID string, offset int) error
}

// Config holds archive worker settings.
type Config struct {
	Interval time.Duration
	PageSize int
	Products []int64
}

// Worker periodically walks each configured product's sessions and
// archives any new messages, resuming from the stored cursor.
type Worker struct {
	cfg      Config
	history  HistorySource
	sessions SessionSource
	messages MessageStore
	cursors  CursorStore
	log      *slog.Logger
}

// NewWorker creates an archive worker.
func NewWorker(
	cfg Config,
	history HistorySource,
	sessions SessionSource,
	messages MessageStore,
	cursors CursorStore,
	log *slog.Logger,
) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		cfg.PageSize = 100
	}
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		cfg:      cfg,
		history:  history,
		sessions: sessions,
		messages: messages,
		cursors:  cursors,
		log:      log,
	}
}

// Start runs the sync loop until ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	if len(w.cfg.Products) == 0 {
		return // Nothing to archive
	}

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	// Initial sync
	w.syncAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.syncAll(ctx)
		}
	}
}

func (w *Worker) syncAll(ctx context.Context) {
	for _, productID := range w.cfg.Products {
		if ctx.Err() != nil {
			return
		}
		if err := w.syncProduct(ctx, productID); err != nil {
			w.log.Error("product sync failed", "product_id", productID, "error", err)
		}
	}
}

func (w *Worker) syncProduct(ctx context.Context, productID int64) error {
	sessions, err := w.sessions.Sessions(ctx, productID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	for _, s := range sessions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.SyncSession(ctx, productID, s.SessionID); err != nil {
			w.log.Error("session sync failed",
				"product_id", productID, "session_id", s.SessionID, "error", err)
		}
	}
	return nil
}

// SyncSession archives all messages of one session newer than the
// stored cursor. History is walked oldest-first so the cursor only
// ever moves forward. A degraded (empty) read simply ends the walk;
// nothing is archived and the cursor stays put.
func (w *Worker) SyncSession(ctx context.Context, productID int64, sessionID string) error {
	offset, err := w.cursors.Get(ctx, productID, sessionID)
	if err != nil {
		return err
	}

	for {
		page, err := w.history.Messages(ctx, domain.PageRequest{
			ProductID: productID,
			SessionID: sessionID,
			Limit:     w.cfg.PageSize,
			Offset:    offset,
			Order:     domain.OrderAsc,
		})
		if err != nil {
			return fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		if len(page.Items) == 0 {
			return nil
		}

		if err := w.messages.SaveBatch(ctx, page.Items); err != nil {
			return fmt.Errorf("archive page at offset %d: %w", offset, err)
		}

		offset += len(page.Items)
		if err := w.cursors.Save(ctx, productID, sessionID, offset); err != nil {
			return fmt.Errorf("save cursor at offset %d: %w", offset, err)
		}
		metrics.MessagesArchived.WithLabelValues(strconv.FormatInt(productID, 10)).
			Add(float64(len(page.Items)))

		if !page.Pagination.HasMore {
			return nil
		}
	}
}
