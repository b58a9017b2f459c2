package service

import (
	"context"
	"errors"
	"sync"

	"github.com/bravo6co-debug/SMS-solapi/environments"
	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
	"github.com/bravo6co-debug/SMS-solapi/pkg/logger"
)

// Small internal interfaces so we can test without touching real DB/provider.
type companyReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

type templateReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Template, error)
}

type historyStore interface {
	Insert(
		ctx context.Context,
		userID, templateID, companyID int64,
		campaignName, messageContent string,
		status domain.SendStatus,
		providerMessageID *string,
	) error
	List(ctx context.Context, skip, limit int) ([]domain.SendHistory, error)
	Count(ctx context.Context) (int64, error)
}

type smsClient interface {
	SendMessage(ctx context.Context, to, text string) domain.SendResult
}

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrCompanyNotFound  = errors.New("company not found")
)

const defaultMaxConcurrent = 5

// SendService renders campaign messages and dispatches them through the
// SMS provider, recording one audit row per recipient's final outcome.
type SendService struct {
	companies companyReader
	templates templateReader
	history   historyStore
	client    smsClient
	config    environments.SendConfig
}

func NewSendService(
	companies companyReader,
	templates templateReader,
	history historyStore,
	client smsClient,
	config environments.SendConfig,
) *SendService {
	return &SendService{
		companies: companies,
		templates: templates,
		history:   history,
		client:    client,
		config:    config,
	}
}

// Preview renders a message for one recipient without sending anything.
func (s *SendService) Preview(
	ctx context.Context,
	templateID, companyID int64,
	campaignName, additionalMessage string,
) (*domain.PreviewResult, error) {
	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}

	content := RenderTemplate(template.Content, company.Name, campaignName)
	content = AppendAdditional(content, additionalMessage)
	charCount, byteCount := MessageStats(content)

	return &domain.PreviewResult{
		CompanyName:    company.Name,
		Phone:          company.Phone,
		MessageContent: content,
		CharCount:      charCount,
		ByteCount:      byteCount,
	}, nil
}

// DispatchOne delivers the rendered message to a single recipient: one
// attempt, then exactly one immediate retry on failure. The message is
// rendered once and reused for both attempts so the audit row always
// matches what went over the wire.
//
// Unknown company/template ids are caller-input errors: they produce a
// failed outcome without a provider call or history row. A non-nil error is
// returned only for persistence faults.
func (s *SendService) DispatchOne(
	ctx context.Context,
	userID, templateID int64,
	item domain.DispatchItem,
	additionalMessage string,
) (domain.DispatchOutcome, error) {
	outcome := domain.DispatchOutcome{
		CompanyID:    item.CompanyID,
		CampaignName: item.CampaignName,
	}

	company, err := s.companies.GetByID(ctx, item.CompanyID)
	if err != nil {
		return outcome, err
	}
	if company == nil {
		outcome.Status = domain.StatusFailed
		outcome.Error = ErrCompanyNotFound.Error()
		return outcome, nil
	}

	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return outcome, err
	}
	if template == nil {
		outcome.Status = domain.StatusFailed
		outcome.Error = ErrTemplateNotFound.Error()
		return outcome, nil
	}

	content := RenderTemplate(template.Content, company.Name, item.CampaignName)
	content = AppendAdditional(content, additionalMessage)

	result := s.client.SendMessage(ctx, company.Phone, content)
	if result.Success {
		if err := s.saveHistory(ctx, userID, templateID, item, content, domain.StatusSent, &result.MessageID); err != nil {
			return outcome, err
		}

		outcome.Status = domain.StatusSent
		outcome.Success = true
		outcome.MessageID = &result.MessageID
		return outcome, nil
	}

	logger.Warnf("Send to company %d failed, retrying once: %s", item.CompanyID, result.Error)

	// Exactly one immediate retry, same message text and phone.
	retryResult := s.client.SendMessage(ctx, company.Phone, content)
	if retryResult.Success {
		if err := s.saveHistory(ctx, userID, templateID, item, content, domain.StatusResentSuccess, &retryResult.MessageID); err != nil {
			return outcome, err
		}

		outcome.Status = domain.StatusResentSuccess
		outcome.Success = true
		outcome.MessageID = &retryResult.MessageID
		return outcome, nil
	}

	if err := s.saveHistory(ctx, userID, templateID, item, content, domain.StatusResentFailure, nil); err != nil {
		return outcome, err
	}

	logger.Errorf("Send to company %d failed after retry: %s", item.CompanyID, retryResult.Error)

	outcome.Status = domain.StatusResentFailure
	outcome.Error = retryResult.Error
	return outcome, nil
}

func (s *SendService) saveHistory(
	ctx context.Context,
	userID, templateID int64,
	item domain.DispatchItem,
	content string,
	status domain.SendStatus,
	providerMessageID *string,
) error {
	return s.history.Insert(ctx, userID, templateID, item.CompanyID,
		item.CampaignName, content, status, providerMessageID)
}

// DispatchBulk fans the item list out over a bounded worker pool. Each
// recipient is an independent unit: one recipient's failure, including a
// history-write fault, never affects the others. The result slice keeps
// the caller's item order.
func (s *SendService) DispatchBulk(
	ctx context.Context,
	userID, templateID int64,
	items []domain.DispatchItem,
	additionalMessage string,
) *domain.BulkDispatchResult {
	maxConcurrent := s.config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	results := make([]domain.DispatchOutcome, len(items))
	sem := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item domain.DispatchItem) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outcome, err := s.DispatchOne(ctx, userID, templateID, item, additionalMessage)
			if err != nil {
				logger.Errorf("Dispatch to company %d aborted: %v", item.CompanyID, err)
				outcome = domain.DispatchOutcome{
					CompanyID:    item.CompanyID,
					CampaignName: item.CampaignName,
					Status:       domain.StatusFailed,
					Error:        err.Error(),
				}
			}

			results[i] = outcome
		}(i, item)
	}
	wg.Wait()

	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}

	logger.Infof("Bulk dispatch finished: %d total, %d success, %d fail",
		len(results), successCount, len(results)-successCount)

	return &domain.BulkDispatchResult{
		Total:   len(results),
		Success: successCount,
		Fail:    len(results) - successCount,
		Results: results,
	}
}

// GetHistory returns send audit rows, newest first, with the total row
// count for pagination.
func (s *SendService) GetHistory(ctx context.Context, skip, limit int) ([]domain.SendHistory, int64, error) {
	history, err := s.history.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.history.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return history, total, nil
}
