package service

import (
	"context"
	"errors"

	"github.com/bravo6co-debug/SMS-solapi/environments"
	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
)

type templateStore interface {
	List(ctx context.Context) ([]domain.Template, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Template, error)
	Create(ctx context.Context, category, title, content string) (*domain.Template, error)
	Update(ctx context.Context, template *domain.Template) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type templateHistoryCounter interface {
	CountByTemplate(ctx context.Context, templateID int64) (int64, error)
}

var (
	// ErrTemplateLimit rejects creating more templates than the system cap.
	ErrTemplateLimit = errors.New("template limit reached")
	// ErrTemplateHasHistory rejects deleting a template referenced by the
	// send audit log.
	ErrTemplateHasHistory = errors.New("template has send history and cannot be deleted")
)

// TemplateUpdate carries a partial update; nil fields are left unchanged.
type TemplateUpdate struct {
	Category *string
	Title    *string
	Content  *string
}

type TemplateService struct {
	templates templateStore
	history   templateHistoryCounter
	config    environments.TemplateConfig
}

func NewTemplateService(
	templates templateStore,
	history templateHistoryCounter,
	config environments.TemplateConfig,
) *TemplateService {
	return &TemplateService{templates: templates, history: history, config: config}
}

func (s *TemplateService) List(ctx context.Context) ([]domain.Template, error) {
	return s.templates.List(ctx)
}

func (s *TemplateService) GetByID(ctx context.Context, id int64) (*domain.Template, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *TemplateService) Create(ctx context.Context, category, title, content string) (*domain.Template, error) {
	count, err := s.templates.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.config.MaxTemplates) {
		return nil, ErrTemplateLimit
	}

	return s.templates.Create(ctx, category, title, content)
}

func (s *TemplateService) Update(ctx context.Context, id int64, update TemplateUpdate) (*domain.Template, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, nil
	}

	if update.Category != nil {
		template.Category = *update.Category
	}
	if update.Title != nil {
		template.Title = *update.Title
	}
	if update.Content != nil {
		template.Content = *update.Content
	}

	if err := s.templates.Update(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

func (s *TemplateService) Delete(ctx context.Context, id int64) (bool, error) {
	count, err := s.history.CountByTemplate(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, ErrTemplateHasHistory
	}

	return s.templates.Delete(ctx, id)
}
