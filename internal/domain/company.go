package domain

import "time"

// Company is a client that receives campaign messages. BusinessID is the
// client's own identifier string, distinct from the numeric primary key.
type Company struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Phone      string    `db:"phone" json:"phone"`
	BusinessID string    `db:"business_id" json:"businessId"`
	Memo       *string   `db:"memo" json:"memo,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// BulkUploadError describes a single rejected spreadsheet row.
type BulkUploadError struct {
	Row        int    `json:"row"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	BusinessID string `json:"businessId,omitempty"`
	Error      string `json:"error"`
}

type BulkUploadResult struct {
	SuccessCount int               `json:"successCount"`
	ErrorCount   int               `json:"errorCount"`
	Errors       []BulkUploadError `json:"errors"`
}
