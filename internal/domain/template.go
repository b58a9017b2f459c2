package domain

import "time"

// Template categories. Kept as the operator-facing Korean labels because
// they appear verbatim in template bodies and the UI.
const (
	CategoryReviewDone  = "검수완료"
	CategoryProgress50  = "진행률50%"
	CategoryProgress100 = "진행률100%"
	CategoryEtc         = "기타"
	CategoryEtcCampaign = "기타(캠페인명사용)"
)

type Template struct {
	ID        int64     `db:"id" json:"id"`
	Category  string    `db:"category" json:"category"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
