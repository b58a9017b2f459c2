package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
)

// DraftRepository handles the single scratchpad record, addressed by an
// explicit draft key.
type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Get(ctx context.Context, draftKey string) (*domain.Draft, error) {
	query := `
		SELECT draft_key, user_id, template_id, items, saved_at
		FROM draft
		WHERE draft_key = ?
	`

	var draft domain.Draft
	if err := r.db.GetContext(ctx, &draft, query, draftKey); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return &draft, nil
}

// Upsert overwrites the scratchpad for the given key.
func (r *DraftRepository) Upsert(ctx context.Context, draftKey string, userID, templateID int64, items string) (*domain.Draft, error) {
	query := `
		INSERT INTO draft (draft_key, user_id, template_id, items, saved_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON DUPLICATE KEY UPDATE
			user_id = VALUES(user_id),
			template_id = VALUES(template_id),
			items = VALUES(items),
			saved_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.ExecContext(ctx, query, draftKey, userID, templateID, items); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	return r.Get(ctx, draftKey)
}

func (r *DraftRepository) Delete(ctx context.Context, draftKey string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM draft WHERE draft_key = ?", draftKey)
	if err != nil {
		return false, fmt.Errorf("failed to delete draft: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}
