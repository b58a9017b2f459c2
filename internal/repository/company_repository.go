package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
)

// CompanyRepository handles database operations for companies.
type CompanyRepository struct {
	db *sqlx.DB
}

func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// List returns companies ordered by name, optionally filtered by a search
// term matched against the display name or business id.
func (r *CompanyRepository) List(ctx context.Context, search string, skip, limit int) ([]domain.Company, error) {
	var companies []domain.Company

	if search != "" {
		query := `
			SELECT id, name, phone, business_id, memo, created_at, updated_at
			FROM companies
			WHERE name LIKE ? OR business_id LIKE ?
			ORDER BY name ASC
			LIMIT ? OFFSET ?
		`
		pattern := "%" + search + "%"
		if err := r.db.SelectContext(ctx, &companies, query, pattern, pattern, limit, skip); err != nil {
			return nil, fmt.Errorf("failed to list companies: %w", err)
		}
		return companies, nil
	}

	query := `
		SELECT id, name, phone, business_id, memo, created_at, updated_at
		FROM companies
		ORDER BY name ASC
		LIMIT ? OFFSET ?
	`
	if err := r.db.SelectContext(ctx, &companies, query, limit, skip); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	return companies, nil
}

func (r *CompanyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM companies"); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return count, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	query := `
		SELECT id, name, phone, business_id, memo, created_at, updated_at
		FROM companies
		WHERE id = ?
	`

	var company domain.Company
	if err := r.db.GetContext(ctx, &company, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

func (r *CompanyRepository) Create(ctx context.Context, name, phone, businessID string, memo *string) (*domain.Company, error) {
	query := `
		INSERT INTO companies (name, phone, business_id, memo, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	result, err := r.db.ExecContext(ctx, query, name, phone, businessID, memo)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *CompanyRepository) Update(ctx context.Context, company *domain.Company) error {
	query := `
		UPDATE companies
		SET name = ?, phone = ?, business_id = ?, memo = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		company.Name, company.Phone, company.BusinessID, company.Memo, company.ID)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete company: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}
