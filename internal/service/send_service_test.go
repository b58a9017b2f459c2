package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/bravo6co-debug/SMS-solapi/environments"
	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
)

//
// Test fakes – only for this file.
//

type fakeCompanies struct {
	companies map[int64]*domain.Company
}

func (f *fakeCompanies) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return f.companies[id], nil
}

type fakeTemplates struct {
	templates map[int64]*domain.Template
}

func (f *fakeTemplates) GetByID(ctx context.Context, id int64) (*domain.Template, error) {
	return f.templates[id], nil
}

type historyInsert struct {
	userID            int64
	templateID        int64
	companyID         int64
	campaignName      string
	messageContent    string
	status            domain.SendStatus
	providerMessageID *string
}

// fakeHistory records inserts; guarded by a mutex because bulk dispatch
// writes from several goroutines.
type fakeHistory struct {
	mu        sync.Mutex
	inserts   []historyInsert
	insertErr error
}

func (f *fakeHistory) Insert(
	ctx context.Context,
	userID, templateID, companyID int64,
	campaignName, messageContent string,
	status domain.SendStatus,
	providerMessageID *string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return f.insertErr
	}

	f.inserts = append(f.inserts, historyInsert{
		userID:            userID,
		templateID:        templateID,
		companyID:         companyID,
		campaignName:      campaignName,
		messageContent:    messageContent,
		status:            status,
		providerMessageID: providerMessageID,
	})
	return nil
}

func (f *fakeHistory) List(ctx context.Context, skip, limit int) ([]domain.SendHistory, error) {
	return nil, nil
}

func (f *fakeHistory) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.inserts)), nil
}

func (f *fakeHistory) rows() []historyInsert {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]historyInsert, len(f.inserts))
	copy(out, f.inserts)
	return out
}

type sentCall struct {
	to   string
	text string
}

// fakeSMSClient plays back a per-phone script of results; once the script
// runs out it keeps returning the last entry.
type fakeSMSClient struct {
	mu      sync.Mutex
	scripts map[string][]domain.SendResult
	calls   []sentCall
}

func (f *fakeSMSClient) SendMessage(ctx context.Context, to, text string) domain.SendResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, sentCall{to: to, text: text})

	script := f.scripts[to]
	if len(script) == 0 {
		return domain.SendResult{Success: true, MessageID: "default-msg-id"}
	}

	result := script[0]
	if len(script) > 1 {
		f.scripts[to] = script[1:]
	}
	return result
}

func (f *fakeSMSClient) callsTo(phone string) []sentCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []sentCall
	for _, c := range f.calls {
		if c.to == phone {
			out = append(out, c)
		}
	}
	return out
}

func newTestSendService(
	companies *fakeCompanies,
	templates *fakeTemplates,
	history *fakeHistory,
	client *fakeSMSClient,
) *SendService {
	return NewSendService(companies, templates, history, client,
		environments.SendConfig{MaxConcurrent: 5})
}

func testFixtures() (*fakeCompanies, *fakeTemplates) {
	companies := &fakeCompanies{companies: map[int64]*domain.Company{
		1: {ID: 1, Name: "한빛유통", Phone: "010-1111-2222", BusinessID: "123-45-67890"},
		2: {ID: 2, Name: "대성상사", Phone: "010-3333-4444", BusinessID: "234-56-78901"},
	}}
	templates := &fakeTemplates{templates: map[int64]*domain.Template{
		10: {ID: 10, Category: domain.CategoryReviewDone, Title: "검수 완료 안내",
			Content: "{발주사명}님, {캠페인명} 캠페인 안내"},
	}}
	return companies, templates
}

//
// Tests
//

func TestDispatchOne_FirstAttemptSucceeds(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()
	history := &fakeHistory{}
	client := &fakeSMSClient{scripts: map[string][]domain.SendResult{
		"010-1111-2222": {{Success: true, MessageID: "msg-1"}},
	}}

	svc := newTestSendService(companies, templates, history, client)

	outcome, err := svc.DispatchOne(ctx, 100, 10,
		domain.DispatchItem{CompanyID: 1, CampaignName: "봄세일"}, "")
	if err != nil {
		t.Fatalf("DispatchOne returned error: %v", err)
	}

	if outcome.Status != domain.StatusSent {
		t.Fatalf("expected status %q, got %q", domain.StatusSent, outcome.Status)
	}
	if !outcome.Success {
		t.Fatalf("expected Success=true")
	}
	if outcome.MessageID == nil || *outcome.MessageID != "msg-1" {
		t.Fatalf("expected message id msg-1, got %v", outcome.MessageID)
	}

	calls := client.callsTo("010-1111-2222")
	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 provider call, got %d", len(calls))
	}
	if want := "한빛유통님, 봄세일 캠페인 안내"; calls[0].text != want {
		t.Errorf("expected rendered text %q, got %q", want, calls[0].text)
	}

	rows := history.rows()
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 history row, got %d", len(rows))
	}
	row := rows[0]
	if row.status != domain.StatusSent {
		t.Errorf("expected history status %q, got %q", domain.StatusSent, row.status)
	}
	if row.userID != 100 || row.templateID != 10 || row.companyID != 1 {
		t.Errorf("unexpected history ids: user=%d template=%d company=%d",
			row.userID, row.templateID, row.companyID)
	}
	if row.messageContent != calls[0].text {
		t.Errorf("history content %q does not match what went over the wire %q",
			row.messageContent, calls[0].text)
	}
	if row.providerMessageID == nil || *row.providerMessageID != "msg-1" {
		t.Errorf("expected provider message id msg-1 in history, got %v", row.providerMessageID)
	}
}

func TestDispatchOne_RetrySucceeds(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()
	history := &fakeHistory{}
	client := &fakeSMSClient{scripts: map[string][]domain.SendResult{
		"010-1111-2222": {
			{Success: false, Error: "HTTP 500: internal error"},
			{Success: true, MessageID: "msg-retry"},
		},
	}}

	svc := newTestSendService(companies, templates, history, client)

	outcome, err := svc.DispatchOne(ctx, 100, 10,
		domain.DispatchItem{CompanyID: 1, CampaignName: "봄세일"}, "")
	if err != nil {
		t.Fatalf("DispatchOne returned error: %v", err)
	}

	if outcome.Status != domain.StatusResentSuccess {
		t.Fatalf("expected status %q, got %q", domain.StatusResentSuccess, outcome.Status)
	}
	if !outcome.Success {
		t.Fatalf("expected Success=true after retry")
	}

	calls := client.callsTo("010-1111-2222")
	if len(calls) != 2 {
		t.Fatalf("expected exactly 2 provider calls (attempt + retry), got %d", len(calls))
	}
	if calls[0].text != calls[1].text {
		t.Errorf("retry must resend the same text: %q vs %q", calls[0].text, calls[1].text)
	}

	rows := history.rows()
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 history row, got %d", len(rows))
	}
	if rows[0].status != domain.StatusResentSuccess {
		t.Errorf("expected history status %q, got %q", domain.StatusResentSuccess, rows[0].status)
	}
	if rows[0].providerMessageID == nil || *rows[0].providerMessageID != "msg-retry" {
		t.Errorf("expected retry message id in history, got %v", rows[0].providerMessageID)
	}
}

func TestDispatchOne_RetryAlsoFails(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()
	history := &fakeHistory{}
	client := &fakeSMSClient{scripts: map[string][]domain.SendResult{
		"010-1111-2222": {
			{Success: false, Error: "request timed out"},
			{Success: false, Error: "request timed out"},
		},
	}}

	svc := newTestSendService(companies, templates, history, client)

	outcome, err := svc.DispatchOne(ctx, 100, 10,
		domain.DispatchItem{CompanyID: 1, CampaignName: "봄세일"}, "")
	if err != nil {
		t.Fatalf("DispatchOne returned error: %v", err)
	}

	if outcome.Status != domain.StatusResentFailure {
		t.Fatalf("expected status %q, got %q", domain.StatusResentFailure, outcome.Status)
	}
	if outcome.Success {
		t.Fatalf("expected Success=false")
	}
	if outcome.Error != "request timed out" {
		t.Errorf("expected retry error in outcome, got %q", outcome.Error)
	}

	if calls := client.callsTo("010-1111-2222"); len(calls) != 2 {
		t.Fatalf("expected exactly 2 provider calls, got %d", len(calls))
	}

	rows := history.rows()
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 history row, got %d", len(rows))
	}
	if rows[0].status != domain.StatusResentFailure {
		t.Errorf("expected history status %q, got %q", domain.StatusResentFailure, rows[0].status)
	}
	if rows[0].providerMessageID != nil {
		t.Errorf("expected nil provider message id on failure, got %q", *rows[0].providerMessageID)
	}
}

func TestDispatchOne_UnknownCompanySkipsProviderAndHistory(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()
	history := &fakeHistory{}
	client := &fakeSMSClient{}

	svc := newTestSendService(companies, templates, history, client)

	outcome, err := svc.DispatchOne(ctx, 100, 10,
		domain.DispatchItem{CompanyID: 999, CampaignName: "봄세일"}, "")
	if err != nil {
		t.Fatalf("DispatchOne returned error: %v", err)
	}

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected status %q, got %q", domain.StatusFailed, outcome.Status)
	}
	if len(client.calls) != 0 {
		t.Errorf("expected no provider calls for unknown company, got %d", len(client.calls))
	}
	if len(history.rows()) != 0 {
		t.Errorf("expected no history rows for unknown company, got %d", len(history.rows()))
	}
}

func TestDispatchOne_UnknownTemplateSkipsProviderAndHistory(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()
	history := &fakeHistory{}
	client := &fakeSMSClient{}

	svc := newTestSendService(companies, templates, history, client)

	outcome, err := svc.DispatchOne(ctx, 100, 404,
		domain.DispatchItem{CompanyID: 1, CampaignName: "봄세일"}, "")
	if err != nil {
		t.Fatalf("DispatchOne returned error: %v", err)
	}

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected status %q, got %q", domain.StatusFailed, outcome.Status)
	}
	if len(client.calls) != 0 {
		t.Errorf("expected no provider calls for unknown template, got %d", len(client.calls))
	}
	if len(history.rows()) != 0 {
		t.Errorf("expected no history rows for unknown template, got %d", len(history.rows()))
	}
}

func TestDispatchOne_AppendsAdditionalMessage(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()
	history := &fakeHistory{}
	client := &fakeSMSClient{}

	svc := newTestSendService(companies, templates, history, client)

	_, err := svc.DispatchOne(ctx, 100, 10,
		domain.DispatchItem{CompanyID: 1, CampaignName: "봄세일"}, "문의: 02-123-4567")
	if err != nil {
		t.Fatalf("DispatchOne returned error: %v", err)
	}

	calls := client.callsTo("010-1111-2222")
	if len(calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(calls))
	}
	want := "한빛유통님, 봄세일 캠페인 안내\n\n문의: 02-123-4567"
	if calls[0].text != want {
		t.Errorf("expected %q, got %q", want, calls[0].text)
	}
}

func TestDispatchBulk_PreservesItemOrder(t *testing.T) {
	ctx := context.Background()
	history := &fakeHistory{}
	client := &fakeSMSClient{scripts: map[string][]domain.SendResult{}}

	const n = 20
	companies := &fakeCompanies{companies: map[int64]*domain.Company{}}
	items := make([]domain.DispatchItem, 0, n)
	for i := int64(1); i <= n; i++ {
		phone := fmt.Sprintf("010-0000-%04d", i)
		companies.companies[i] = &domain.Company{
			ID: i, Name: fmt.Sprintf("업체%d", i), Phone: phone,
		}
		client.scripts[phone] = []domain.SendResult{
			{Success: true, MessageID: fmt.Sprintf("msg-%d", i)},
		}
		items = append(items, domain.DispatchItem{
			CompanyID: i, CampaignName: fmt.Sprintf("캠페인%d", i),
		})
	}
	_, templates := testFixtures()

	svc := newTestSendService(companies, templates, history, client)

	result := svc.DispatchBulk(ctx, 100, 10, items, "")

	if result.Total != n {
		t.Fatalf("expected total %d, got %d", n, result.Total)
	}
	if result.Success != n || result.Fail != 0 {
		t.Fatalf("expected %d successes and 0 failures, got %d/%d", n, result.Success, result.Fail)
	}
	if len(result.Results) != n {
		t.Fatalf("expected %d results, got %d", n, len(result.Results))
	}

	for i, outcome := range result.Results {
		wantID := int64(i + 1)
		if outcome.CompanyID != wantID {
			t.Fatalf("result %d out of order: expected company %d, got %d", i, wantID, outcome.CompanyID)
		}
		if outcome.MessageID == nil || *outcome.MessageID != fmt.Sprintf("msg-%d", wantID) {
			t.Errorf("result %d carries the wrong message id: %v", i, outcome.MessageID)
		}
	}

	if rows := history.rows(); len(rows) != n {
		t.Errorf("expected %d history rows, got %d", n, len(rows))
	}
}

func TestDispatchBulk_MixedOutcomes(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()
	history := &fakeHistory{}
	client := &fakeSMSClient{scripts: map[string][]domain.SendResult{
		"010-1111-2222": {{Success: true, MessageID: "msg-1"}},
		"010-3333-4444": {
			{Success: false, Error: "HTTP 502: bad gateway"},
			{Success: false, Error: "HTTP 502: bad gateway"},
		},
	}}

	svc := newTestSendService(companies, templates, history, client)

	items := []domain.DispatchItem{
		{CompanyID: 1, CampaignName: "봄세일"},
		{CompanyID: 2, CampaignName: "봄세일"},
		{CompanyID: 999, CampaignName: "봄세일"},
	}

	result := svc.DispatchBulk(ctx, 100, 10, items, "")

	if result.Total != 3 {
		t.Fatalf("expected total 3, got %d", result.Total)
	}
	if result.Success != 1 || result.Fail != 2 {
		t.Fatalf("expected 1 success / 2 fail, got %d/%d", result.Success, result.Fail)
	}
	if result.Success+result.Fail != result.Total {
		t.Fatalf("success+fail must equal total")
	}

	if result.Results[0].Status != domain.StatusSent {
		t.Errorf("expected first item %q, got %q", domain.StatusSent, result.Results[0].Status)
	}
	if result.Results[1].Status != domain.StatusResentFailure {
		t.Errorf("expected second item %q, got %q", domain.StatusResentFailure, result.Results[1].Status)
	}
	if result.Results[2].Status != domain.StatusFailed {
		t.Errorf("expected third item %q, got %q", domain.StatusFailed, result.Results[2].Status)
	}

	// Only real dispatches leave audit rows; the unknown company does not.
	if rows := history.rows(); len(rows) != 2 {
		t.Errorf("expected 2 history rows, got %d", len(rows))
	}
}

func TestDispatchBulk_HistoryFaultDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()
	history := &fakeHistory{insertErr: fmt.Errorf("simulated db error")}
	client := &fakeSMSClient{}

	svc := newTestSendService(companies, templates, history, client)

	items := []domain.DispatchItem{
		{CompanyID: 1, CampaignName: "봄세일"},
		{CompanyID: 2, CampaignName: "봄세일"},
	}

	result := svc.DispatchBulk(ctx, 100, 10, items, "")

	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	if result.Fail != 2 {
		t.Fatalf("expected both items to fail on persistence fault, got %d failures", result.Fail)
	}
	for i, outcome := range result.Results {
		if outcome.Status != domain.StatusFailed {
			t.Errorf("result %d: expected status %q, got %q", i, domain.StatusFailed, outcome.Status)
		}
		if outcome.Error == "" {
			t.Errorf("result %d: expected an error message", i)
		}
	}
}

func TestPreview_RendersWithoutSending(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()
	history := &fakeHistory{}
	client := &fakeSMSClient{}

	svc := newTestSendService(companies, templates, history, client)

	preview, err := svc.Preview(ctx, 10, 1, "봄세일", "")
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}

	if want := "한빛유통님, 봄세일 캠페인 안내"; preview.MessageContent != want {
		t.Errorf("expected %q, got %q", want, preview.MessageContent)
	}
	if preview.CompanyName != "한빛유통" {
		t.Errorf("expected company name in preview, got %q", preview.CompanyName)
	}
	if preview.Phone != "010-1111-2222" {
		t.Errorf("expected phone in preview, got %q", preview.Phone)
	}
	if preview.CharCount <= 0 || preview.ByteCount < preview.CharCount {
		t.Errorf("implausible counts: chars=%d bytes=%d", preview.CharCount, preview.ByteCount)
	}

	if len(client.calls) != 0 {
		t.Errorf("preview must not call the provider, got %d calls", len(client.calls))
	}
	if len(history.rows()) != 0 {
		t.Errorf("preview must not write history, got %d rows", len(history.rows()))
	}
}

func TestPreview_UnknownIDs(t *testing.T) {
	ctx := context.Background()
	companies, templates := testFixtures()

	svc := newTestSendService(companies, templates, &fakeHistory{}, &fakeSMSClient{})

	if _, err := svc.Preview(ctx, 404, 1, "봄세일", ""); err != ErrTemplateNotFound {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
	if _, err := svc.Preview(ctx, 10, 999, "봄세일", ""); err != ErrCompanyNotFound {
		t.Errorf("expected ErrCompanyNotFound, got %v", err)
	}
}
