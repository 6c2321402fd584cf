package model

import "time"

// Idea status lifecycle.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusFeatured  = "featured"
	StatusArchived  = "archived"
)

func ValidIdeaStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusFeatured, StatusArchived:
		return true
	}
	return false
}

// Idea is a structured, titled proposal. Creators, supporters, ratings and
// lineage are stored relationally; every count exposed to clients is derived
// from those relations at read time.
type Idea struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Summary     string    `gorm:"type:text"`
	Description string    `gorm:"type:text"` // long-form, markdown
	Status      string    `gorm:"type:varchar(16);index;not null;default:draft"`
	Tags        []string  `gorm:"serializer:json"`
	Location    string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (Idea) TableName() string { return "ideas" }

// IdeaCreator joins ideas to their (possibly multiple) authors, keeping the
// declared order.
type IdeaCreator struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	IdeaID   string `gorm:"type:varchar(36);index:idx_creator_idea;uniqueIndex:ux_creator_pair;not null"`
	UserID   string `gorm:"type:varchar(36);index:idx_creator_user;uniqueIndex:ux_creator_pair;not null"`
	Position int
}

func (IdeaCreator) TableName() string { return "idea_creators" }

// RatingCriterion is one axis an idea can be rated on.
type RatingCriterion struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	IdeaID      string `gorm:"type:varchar(36);index:idx_criterion_idea;not null"`
	Name        string `gorm:"type:varchar(128);not null"`
	Description string `gorm:"type:text"`
	Position    int
}

func (RatingCriterion) TableName() string { return "rating_criteria" }

// Rating is one user's score for one criterion of one idea, value in [1,5].
// The composite unique key enforces one rating per (idea, criterion, user);
// re-rating replaces the previous value.
type Rating struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	IdeaID      string `gorm:"type:varchar(36);index:idx_rating_idea;uniqueIndex:ux_rating_triple;not null"`
	CriterionID string `gorm:"type:varchar(36);uniqueIndex:ux_rating_triple;not null"`
	UserID      string `gorm:"type:varchar(36);uniqueIndex:ux_rating_triple;not null"`
	Value       int    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Rating) TableName() string { return "ratings" }
