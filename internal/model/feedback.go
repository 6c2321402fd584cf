package model

import "time"

// Feedback types.
const (
	FeedbackSupports = "supports"
	FeedbackReports  = "reports"
	FeedbackLikes    = "likes" // reply and discussion upvotes
)

func ValidFeedbackType(t string) bool {
	switch t {
	case FeedbackSupports, FeedbackReports, FeedbackLikes:
		return true
	}
	return false
}

// Feedback is one user's stance on one piece of content. The composite
// unique key makes toggles idempotent at the storage layer.
type Feedback struct {
	ID        string      `gorm:"primaryKey;type:varchar(36)"`
	UserID    string      `gorm:"type:varchar(36);index:idx_feedback_user;uniqueIndex:ux_feedback;not null"`
	Kind      ContentKind `gorm:"type:varchar(16);uniqueIndex:ux_feedback;not null"`
	ContentID string      `gorm:"type:varchar(36);index:idx_feedback_content;uniqueIndex:ux_feedback;not null"`
	Type      string      `gorm:"type:varchar(16);uniqueIndex:ux_feedback;not null"`
	CreatedAt time.Time
}

func (Feedback) TableName() string { return "feedback" }
