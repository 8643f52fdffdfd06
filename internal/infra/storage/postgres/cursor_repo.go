package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CursorRepo tracks how far each session's history has been archived.
type CursorRepo struct {
	db *DB
}

// NewCursorRepo creates a PostgreSQL cursor repository.
func NewCursorRepo(db *DB) *CursorRepo {
	return &CursorRepo{db: db}
}

// Get returns the next offset to fetch for a session. A session that
// was never synced starts at 0.
func (r *CursorRepo) Get(ctx context.Context, productID int64, sessionID string) (int, error) {
	var offset int
	err := r.db.GetContext(ctx, &offset,
		`SELECT next_offset FROM archive_cursors WHERE product_id = $1 AND session_id = $2`,
		productID, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load cursor: %w", err)
	}
	return offset, nil
}

// Save records the next offset to fetch for a session.
func (r *CursorRepo) Save(ctx context.Context, productID int64, sessionID string, offset int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO archive_cursors (product_id, session_id, next_offset, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (product_id, session_id) DO UPDATE SET
			next_offset = EXCLUDED.next_offset,
			updated_at = NOW()
	`, productID, sessionID, offset)
	if err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}
	return nil
}
