package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/storefront/internal/core/domain"
)

// MessageRepo persists archived chat messages.
type MessageRepo struct {
	db *DB
}

// NewMessageRepo creates a PostgreSQL message repository.
func NewMessageRepo(db *DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// SaveBatch upserts a page of messages. Re-archiving an already seen
// message only refreshes its mutable fields, so replays are harmless.
func (r *MessageRepo) SaveBatch(ctx context.Context, msgs []domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	query := `
		INSERT INTO archived_messages (
			id, session_id, product_id, message_text, sender_type,
			sender_name, customer_email, message_type, is_read, created_at
		) VALUES (
			:id, :session_id, :product_id, :message_text, :sender_type,
			:sender_name, :customer_email, :message_type, :is_read, :created_at
		)
		ON CONFLICT (id) DO UPDATE SET
			is_read = EXCLUDED.is_read,
			message_text = EXCLUDED.message_text
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := range msgs {
		if _, err := tx.NamedExecContext(ctx, query, &msgs[i]); err != nil {
			return fmt.Errorf("failed to save message %d: %w", msgs[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit messages: %w", err)
	}
	return nil
}

// CountBySession returns the number of archived messages in a session.
func (r *MessageRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM archived_messages WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
