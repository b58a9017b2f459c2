package domain

import "time"

// DefaultDraftKey names the single shared scratchpad record. The draft
// table is keyed by an explicit draft_key column so the singleton is a
// data-level convention, not a schema constraint pinning the row id.
const DefaultDraftKey = "default"

type Draft struct {
	DraftKey   string    `db:"draft_key" json:"draftKey"`
	UserID     *int64    `db:"user_id" json:"userId,omitempty"`
	TemplateID *int64    `db:"template_id" json:"templateId,omitempty"`
	Items      string    `db:"items" json:"items"`
	SavedAt    time.Time `db:"saved_at" json:"savedAt"`
}

// DraftItem is one entry of the scratchpad's item list, stored as JSON in
// Draft.Items.
type DraftItem struct {
	CompanyID    int64  `json:"companyId"`
	CampaignName string `json:"campaignName"`
}
