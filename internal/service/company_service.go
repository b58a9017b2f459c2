package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
	"github.com/bravo6co-debug/SMS-solapi/pkg/logger"
)

type companyStore interface {
	List(ctx context.Context, search string, skip, limit int) ([]domain.Company, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	Create(ctx context.Context, name, phone, businessID string, memo *string) (*domain.Company, error)
	Update(ctx context.Context, company *domain.Company) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type companyHistoryCounter interface {
	CountByCompany(ctx context.Context, companyID int64) (int64, error)
}

// ErrCompanyHasHistory rejects deleting a company that appears in the send
// audit log.
var ErrCompanyHasHistory = errors.New("company has send history and cannot be deleted")

// CompanyUpdate carries a partial update; nil fields are left unchanged.
type CompanyUpdate struct {
	Name       *string
	Phone      *string
	BusinessID *string
	Memo       *string
}

type CompanyService struct {
	companies companyStore
	history   companyHistoryCounter
}

func NewCompanyService(companies companyStore, history companyHistoryCounter) *CompanyService {
	return &CompanyService{companies: companies, history: history}
}

func (s *CompanyService) List(ctx context.Context, search string, skip, limit int) ([]domain.Company, error) {
	return s.companies.List(ctx, search, skip, limit)
}

func (s *CompanyService) Count(ctx context.Context) (int64, error) {
	return s.companies.Count(ctx)
}

func (s *CompanyService) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *CompanyService) Create(ctx context.Context, name, phone, businessID string, memo *string) (*domain.Company, error) {
	return s.companies.Create(ctx, name, phone, businessID, memo)
}

func (s *CompanyService) Update(ctx context.Context, id int64, update CompanyUpdate) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}

	if update.Name != nil {
		company.Name = *update.Name
	}
	if update.Phone != nil {
		company.Phone = *update.Phone
	}
	if update.BusinessID != nil {
		company.BusinessID = *update.BusinessID
	}
	if update.Memo != nil {
		company.Memo = update.Memo
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

// Delete removes a company unless it appears in the send history; history
// rows are the audit trail and must keep their company reference.
func (s *CompanyService) Delete(ctx context.Context, id int64) (bool, error) {
	count, err := s.history.CountByCompany(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, ErrCompanyHasHistory
	}

	return s.companies.Delete(ctx, id)
}

// ImportSpreadsheet reads companies from an uploaded .xlsx file. The first
// sheet is expected to have a header row followed by name, phone, business
// id and optional memo columns. Invalid rows are reported per row; valid
// rows are inserted independently.
func (s *CompanyService) ImportSpreadsheet(ctx context.Context, r io.Reader) (*domain.BulkUploadResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnf("Failed to close spreadsheet: %v", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet rows: %w", err)
	}

	result := &domain.BulkUploadResult{Errors: []domain.BulkUploadError{}}

	for i, row := range rows {
		if i == 0 {
			// header row
			continue
		}

		rowNumber := i + 1
		name := cellAt(row, 0)
		phone := cellAt(row, 1)
		businessID := cellAt(row, 2)
		memoValue := cellAt(row, 3)

		if name == "" && phone == "" && businessID == "" {
			continue
		}

		if errMsg := validateImportRow(name, phone, businessID); errMsg != "" {
			result.ErrorCount++
			result.Errors = append(result.Errors, domain.BulkUploadError{
				Row:        rowNumber,
				Name:       name,
				Phone:      phone,
				BusinessID: businessID,
				Error:      errMsg,
			})
			continue
		}

		var memo *string
		if memoValue != "" {
			memo = &memoValue
		}

		if _, err := s.companies.Create(ctx, name, phone, businessID, memo); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, domain.BulkUploadError{
				Row:        rowNumber,
				Name:       name,
				Phone:      phone,
				BusinessID: businessID,
				Error:      err.Error(),
			})
			continue
		}

		result.SuccessCount++
	}

	logger.Infof("Company import finished: %d inserted, %d rejected",
		result.SuccessCount, result.ErrorCount)

	return result, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func validateImportRow(name, phone, businessID string) string {
	switch {
	case name == "":
		return "name is required"
	case len(name) > 100:
		return "name exceeds 100 characters"
	case phone == "":
		return "phone is required"
	case len(phone) > 20:
		return "phone exceeds 20 characters"
	case businessID == "":
		return "business id is required"
	case len(businessID) > 50:
		return "business id exceeds 50 characters"
	}
	return ""
}
