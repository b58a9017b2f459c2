package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
)

type draftStore interface {
	Get(ctx context.Context, draftKey string) (*domain.Draft, error)
	Upsert(ctx context.Context, draftKey string, userID, templateID int64, items string) (*domain.Draft, error)
	Delete(ctx context.Context, draftKey string) (bool, error)
}

// DraftService manages the shared dispatch scratchpad. There is one record,
// addressed by domain.DefaultDraftKey; saving overwrites it.
type DraftService struct {
	drafts draftStore
}

func NewDraftService(drafts draftStore) *DraftService {
	return &DraftService{drafts: drafts}
}

func (s *DraftService) Get(ctx context.Context) (*domain.Draft, error) {
	return s.drafts.Get(ctx, domain.DefaultDraftKey)
}

func (s *DraftService) Save(ctx context.Context, userID, templateID int64, items []domain.DraftItem) (*domain.Draft, error) {
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft items: %w", err)
	}

	return s.drafts.Upsert(ctx, domain.DefaultDraftKey, userID, templateID, string(encoded))
}

func (s *DraftService) Delete(ctx context.Context) (bool, error) {
	return s.drafts.Delete(ctx, domain.DefaultDraftKey)
}
