package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
)

// HistoryRepository handles the append-only send audit log. Rows are never
// updated or deleted.
type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert writes one audit row for a recipient's final dispatch outcome.
func (r *HistoryRepository) Insert(
	ctx context.Context,
	userID, templateID, companyID int64,
	campaignName, messageContent string,
	status domain.SendStatus,
	providerMessageID *string,
) error {
	query := `
		INSERT INTO send_history
			(user_id, template_id, company_id, campaign_name, message_content,
			 status, provider_message_id, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	if _, err := r.db.ExecContext(ctx, query,
		userID, templateID, companyID, campaignName, messageContent,
		status, providerMessageID); err != nil {
		return fmt.Errorf("failed to insert send history: %w", err)
	}

	return nil
}

// List returns history rows newest first.
func (r *HistoryRepository) List(ctx context.Context, skip, limit int) ([]domain.SendHistory, error) {
	query := `
		SELECT id, user_id, template_id, company_id, campaign_name,
		       message_content, status, provider_message_id, sent_at
		FROM send_history
		ORDER BY sent_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	var history []domain.SendHistory
	if err := r.db.SelectContext(ctx, &history, query, limit, skip); err != nil {
		return nil, fmt.Errorf("failed to list send history: %w", err)
	}

	return history, nil
}

// Count returns the total number of audit rows.
func (r *HistoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM send_history"); err != nil {
		return 0, fmt.Errorf("failed to count send history: %w", err)
	}
	return count, nil
}

func (r *HistoryRepository) CountByCompany(ctx context.Context, companyID int64) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM send_history WHERE company_id = ?"
	if err := r.db.GetContext(ctx, &count, query, companyID); err != nil {
		return 0, fmt.Errorf("failed to count history for company: %w", err)
	}
	return count, nil
}

func (r *HistoryRepository) CountByTemplate(ctx context.Context, templateID int64) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM send_history WHERE template_id = ?"
	if err := r.db.GetContext(ctx, &count, query, templateID); err != nil {
		return 0, fmt.Errorf("failed to count history for template: %w", err)
	}
	return count, nil
}
