package domain

import "time"

type SendStatus string

// Terminal statuses for a dispatch. A history row records exactly one of
// sent, resent_success or resent_failure; failed marks caller-input errors
// (unknown company/template) and coordinator-level faults, which never
// produce a history row.
const (
	StatusSent          SendStatus = "sent"
	StatusFailed        SendStatus = "failed"
	StatusResentSuccess SendStatus = "resent_success"
	StatusResentFailure SendStatus = "resent_failure"
)

// SendHistory is an append-only audit row describing the final outcome of
// one recipient's attempt-then-retry sequence.
type SendHistory struct {
	ID                int64      `db:"id" json:"id"`
	UserID            int64      `db:"user_id" json:"userId"`
	TemplateID        int64      `db:"template_id" json:"templateId"`
	CompanyID         int64      `db:"company_id" json:"companyId"`
	CampaignName      string     `db:"campaign_name" json:"campaignName"`
	MessageContent    string     `db:"message_content" json:"messageContent"`
	Status            SendStatus `db:"status" json:"status"`
	ProviderMessageID *string    `db:"provider_message_id" json:"providerMessageId,omitempty"`
	SentAt            time.Time  `db:"sent_at" json:"sentAt"`
}

// SendResult is the normalized outcome of a single provider call.
type SendResult struct {
	Success   bool
	MessageID string
	Error     string
}

// DispatchItem is one (company, campaign) pair of a bulk request.
type DispatchItem struct {
	CompanyID    int64  `json:"companyId" validate:"required"`
	CampaignName string `json:"campaignName" validate:"required,max=200"`
}

// DispatchOutcome is the per-recipient result of a dispatch, final once
// produced.
type DispatchOutcome struct {
	CompanyID    int64      `json:"companyId"`
	CampaignName string     `json:"campaignName"`
	Status       SendStatus `json:"status"`
	Success      bool       `json:"success"`
	MessageID    *string    `json:"messageId,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// BulkDispatchResult aggregates a whole bulk operation. Results keeps the
// caller's item order.
type BulkDispatchResult struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Fail    int               `json:"fail"`
	Results []DispatchOutcome `json:"results"`
}

// PreviewResult is the rendered message preview with length statistics.
type PreviewResult struct {
	CompanyName    string `json:"companyName"`
	Phone          string `json:"phone"`
	MessageContent string `json:"messageContent"`
	CharCount      int    `json:"charCount"`
	ByteCount      int    `json:"byteCount"`
}
