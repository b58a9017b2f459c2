package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
)

type fakeCompanyStore struct {
	companies map[int64]*domain.Company
	nextID    int64
	deleted   []int64
}

func (f *fakeCompanyStore) List(ctx context.Context, search string, skip, limit int) ([]domain.Company, error) {
	var out []domain.Company
	for _, c := range f.companies {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCompanyStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.companies)), nil
}

func (f *fakeCompanyStore) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return f.companies[id], nil
}

func (f *fakeCompanyStore) Create(ctx context.Context, name, phone, businessID string, memo *string) (*domain.Company, error) {
	f.nextID++
	c := &domain.Company{ID: f.nextID, Name: name, Phone: phone, BusinessID: businessID, Memo: memo}
	if f.companies == nil {
		f.companies = map[int64]*domain.Company{}
	}
	f.companies[c.ID] = c
	return c, nil
}

func (f *fakeCompanyStore) Update(ctx context.Context, company *domain.Company) error {
	return nil
}

func (f *fakeCompanyStore) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := f.companies[id]; !ok {
		return false, nil
	}
	delete(f.companies, id)
	f.deleted = append(f.deleted, id)
	return true, nil
}

type fakeCompanyHistory struct {
	counts map[int64]int64
}

func (f *fakeCompanyHistory) CountByCompany(ctx context.Context, companyID int64) (int64, error) {
	return f.counts[companyID], nil
}

func TestCompanyDelete_RejectedWhileHistoryExists(t *testing.T) {
	ctx := context.Background()
	store := &fakeCompanyStore{companies: map[int64]*domain.Company{
		1: {ID: 1, Name: "한빛유통", Phone: "010-1111-2222"},
	}}
	history := &fakeCompanyHistory{counts: map[int64]int64{1: 5}}

	svc := NewCompanyService(store, history)

	_, err := svc.Delete(ctx, 1)
	if !errors.Is(err, ErrCompanyHasHistory) {
		t.Fatalf("expected ErrCompanyHasHistory, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Errorf("expected no deletion, got %v", store.deleted)
	}
}

func TestCompanyDelete_AllowedWithoutHistory(t *testing.T) {
	ctx := context.Background()
	store := &fakeCompanyStore{companies: map[int64]*domain.Company{
		1: {ID: 1, Name: "한빛유통", Phone: "010-1111-2222"},
	}}

	svc := NewCompanyService(store, &fakeCompanyHistory{})

	deleted, err := svc.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !deleted {
		t.Fatalf("expected deletion to succeed")
	}
}

func TestCompanyUpdate_PartialFields(t *testing.T) {
	ctx := context.Background()
	store := &fakeCompanyStore{companies: map[int64]*domain.Company{
		1: {ID: 1, Name: "한빛유통", Phone: "010-1111-2222", BusinessID: "123-45-67890"},
	}}

	svc := NewCompanyService(store, &fakeCompanyHistory{})

	newPhone := "010-9999-0000"
	updated, err := svc.Update(ctx, 1, CompanyUpdate{Phone: &newPhone})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated == nil {
		t.Fatalf("expected updated company")
	}

	if updated.Phone != "010-9999-0000" {
		t.Errorf("expected phone updated, got %q", updated.Phone)
	}
	if updated.Name != "한빛유통" || updated.BusinessID != "123-45-67890" {
		t.Errorf("expected untouched fields to survive, got %+v", updated)
	}
}

// buildImportSheet writes an in-memory .xlsx with a header row and the
// given data rows.
func buildImportSheet(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []any{"업체명", "전화번호", "사업자번호", "메모"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("failed to write header row: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("failed to compute cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize spreadsheet: %v", err)
	}
	return buf
}

func TestImportSpreadsheet_InsertsValidRows(t *testing.T) {
	ctx := context.Background()
	store := &fakeCompanyStore{}
	svc := NewCompanyService(store, &fakeCompanyHistory{})

	buf := buildImportSheet(t, [][]any{
		{"한빛유통", "010-1111-2222", "123-45-67890", "상시 거래처"},
		{"대성상사", "010-3333-4444", "234-56-78901", ""},
	})

	result, err := svc.ImportSpreadsheet(ctx, buf)
	if err != nil {
		t.Fatalf("ImportSpreadsheet returned error: %v", err)
	}

	if result.SuccessCount != 2 {
		t.Fatalf("expected 2 inserted rows, got %d", result.SuccessCount)
	}
	if result.ErrorCount != 0 {
		t.Fatalf("expected no rejected rows, got %d: %+v", result.ErrorCount, result.Errors)
	}
	if count, _ := store.Count(ctx); count != 2 {
		t.Errorf("expected 2 companies stored, got %d", count)
	}
}

func TestImportSpreadsheet_ReportsInvalidRowsIndividually(t *testing.T) {
	ctx := context.Background()
	store := &fakeCompanyStore{}
	svc := NewCompanyService(store, &fakeCompanyHistory{})

	buf := buildImportSheet(t, [][]any{
		{"한빛유통", "010-1111-2222", "123-45-67890", ""},
		{"", "010-3333-4444", "234-56-78901", ""},      // missing name
		{"미래물산", "", "345-67-89012", ""},               // missing phone
		{"성원기업", "010-4567-8901", "456-78-90123", ""}, // valid
	})

	result, err := svc.ImportSpreadsheet(ctx, buf)
	if err != nil {
		t.Fatalf("ImportSpreadsheet returned error: %v", err)
	}

	if result.SuccessCount != 2 {
		t.Errorf("expected 2 inserted rows, got %d", result.SuccessCount)
	}
	if result.ErrorCount != 2 {
		t.Fatalf("expected 2 rejected rows, got %d", result.ErrorCount)
	}

	for _, rowErr := range result.Errors {
		if rowErr.Row == 0 {
			t.Errorf("expected each error to carry its row number, got %+v", rowErr)
		}
		if rowErr.Error == "" {
			t.Errorf("expected each error to carry a message, got %+v", rowErr)
		}
	}
}

func TestImportSpreadsheet_SkipsBlankRows(t *testing.T) {
	ctx := context.Background()
	store := &fakeCompanyStore{}
	svc := NewCompanyService(store, &fakeCompanyHistory{})

	buf := buildImportSheet(t, [][]any{
		{"한빛유통", "010-1111-2222", "123-45-67890", ""},
		{"", "", "", ""},
	})

	result, err := svc.ImportSpreadsheet(ctx, buf)
	if err != nil {
		t.Fatalf("ImportSpreadsheet returned error: %v", err)
	}

	if result.SuccessCount != 1 || result.ErrorCount != 0 {
		t.Fatalf("expected blank row to be skipped, got success=%d errors=%d",
			result.SuccessCount, result.ErrorCount)
	}
}
