package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ideosphere/ideosphere/internal/model"
)

// IdeaRepository is the storage port for ideas, their creators, criteria and
// ratings.
type IdeaRepository interface {
	Create(ctx context.Context, idea *model.Idea, creators []model.IdeaCreator, criteria []model.RatingCriterion) error
	GetByID(ctx context.Context, id string) (*model.Idea, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Idea, error)
	ListRecent(ctx context.Context, limit int) ([]model.Idea, error)
	ListByCreator(ctx context.Context, userID string) ([]model.Idea, error)
	Count(ctx context.Context) (int64, error)
	ListCreators(ctx context.Context, ideaID string) ([]model.IdeaCreator, error)
	ListCriteria(ctx context.Context, ideaID string) ([]model.RatingCriterion, error)
	UpsertRating(ctx context.Context, rating *model.Rating) error
	ListRatings(ctx context.Context, ideaID string) ([]model.Rating, error)
}

type ideaRepository struct {
	db *gorm.DB
}

func NewIdeaRepository(db *gorm.DB) IdeaRepository { return &ideaRepository{db: db} }

func (r *ideaRepository) Create(ctx context.Context, idea *model.Idea, creators []model.IdeaCreator, criteria []model.RatingCriterion) error {
	if idea.ID == "" {
		idea.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(idea).Error; err != nil {
			return err
		}
		for i := range creators {
			if creators[i].ID == "" {
				creators[i].ID = uuid.New().String()
			}
			creators[i].IdeaID = idea.ID
		}
		if len(creators) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&creators).Error; err != nil {
				return err
			}
		}
		for i := range criteria {
			if criteria[i].ID == "" {
				criteria[i].ID = uuid.New().String()
			}
			criteria[i].IdeaID = idea.ID
		}
		if len(criteria) > 0 {
			if err := tx.Create(&criteria).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ideaRepository) GetByID(ctx context.Context, id string) (*model.Idea, error) {
	var idea model.Idea
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&idea).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Idea, error) {
	if len(ids) == 0 {
		return []model.Idea{}, nil
	}
	var res []model.Idea
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (r *ideaRepository) ListRecent(ctx context.Context, limit int) ([]model.Idea, error) {
	if limit <= 0 {
		limit = 50
	}
	var res []model.Idea
	err := r.db.WithContext(ctx).
		Where("status <> ?", model.StatusDraft).
		Order("created_at DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *ideaRepository) ListByCreator(ctx context.Context, userID string) ([]model.Idea, error) {
	var res []model.Idea
	err := r.db.WithContext(ctx).
		Joins("JOIN idea_creators ON idea_creators.idea_id = ideas.id").
		Where("idea_creators.user_id = ?", userID).
		Order("ideas.created_at DESC").
		Find(&res).Error
	return res, err
}

func (r *ideaRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Idea{}).Count(&cnt).Error
	return cnt, err
}

func (r *ideaRepository) ListCreators(ctx context.Context, ideaID string) ([]model.IdeaCreator, error) {
	var res []model.IdeaCreator
	err := r.db.WithContext(ctx).Where("idea_id = ?", ideaID).Order("position").Find(&res).Error
	return res, err
}

func (r *ideaRepository) ListCriteria(ctx context.Context, ideaID string) ([]model.RatingCriterion, error) {
	var res []model.RatingCriterion
	err := r.db.WithContext(ctx).Where("idea_id = ?", ideaID).Order("position").Find(&res).Error
	return res, err
}

// UpsertRating replaces the user's previous value for the same criterion.
func (r *ideaRepository) UpsertRating(ctx context.Context, rating *model.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "idea_id"}, {Name: "criterion_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rating).Error
}

func (r *ideaRepository) ListRatings(ctx context.Context, ideaID string) ([]model.Rating, error) {
	var res []model.Rating
	err := r.db.WithContext(ctx).Where("idea_id = ?", ideaID).Find(&res).Error
	return res, err
}
