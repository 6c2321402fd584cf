package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ideosphere/ideosphere/internal/model"
)

// FeedbackRepository is the storage port for supports, reports and upvotes.
// Create is idempotent: re-submitting an existing stance is a no-op.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *model.Feedback) error
	Delete(ctx context.Context, userID string, kind model.ContentKind, contentID, typ string) error
	Exists(ctx context.Context, userID string, kind model.ContentKind, contentID, typ string) (bool, error)
	ListUserIDs(ctx context.Context, kind model.ContentKind, contentID, typ string) ([]string, error)
	ListContentIDs(ctx context.Context, userID string, kind model.ContentKind, typ string) ([]string, error)
	CountByType(ctx context.Context, typ string) (int64, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository { return &feedbackRepository{db: db} }

func (r *feedbackRepository) Create(ctx context.Context, fb *model.Feedback) error {
	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fb).Error
}

func (r *feedbackRepository) Delete(ctx context.Context, userID string, kind model.ContentKind, contentID, typ string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND content_id = ? AND type = ?", userID, kind, contentID, typ).
		Delete(&model.Feedback{}).Error
}

func (r *feedbackRepository) Exists(ctx context.Context, userID string, kind model.ContentKind, contentID, typ string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("user_id = ? AND kind = ? AND content_id = ? AND type = ?", userID, kind, contentID, typ).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *feedbackRepository) ListUserIDs(ctx context.Context, kind model.ContentKind, contentID, typ string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("kind = ? AND content_id = ? AND type = ?", kind, contentID, typ).
		Order("created_at").
		Pluck("user_id", &ids).Error
	if ids == nil {
		ids = []string{}
	}
	return ids, err
}

func (r *feedbackRepository) ListContentIDs(ctx context.Context, userID string, kind model.ContentKind, typ string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("user_id = ? AND kind = ? AND type = ?", userID, kind, typ).
		Order("created_at DESC").
		Pluck("content_id", &ids).Error
	if ids == nil {
		ids = []string{}
	}
	return ids, err
}

func (r *feedbackRepository) CountByType(ctx context.Context, typ string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Feedback{}).Where("type = ?", typ).Count(&cnt).Error
	return cnt, err
}
