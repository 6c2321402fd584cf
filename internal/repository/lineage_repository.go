package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ideosphere/ideosphere/internal/model"
)

// LineageRepository stores source edges only; derived edges are the reverse
// lookup, which keeps both directions consistent without double writes.
type LineageRepository interface {
	CreateEdges(ctx context.Context, edges []model.LineageEdge) error
	// ListParents returns edges where the given item is the child, in
	// declaration order.
	ListParents(ctx context.Context, kind model.ContentKind, id string) ([]model.LineageEdge, error)
	// ListChildren returns edges where the given item is the parent, newest
	// first.
	ListChildren(ctx context.Context, kind model.ContentKind, id string) ([]model.LineageEdge, error)
}

type lineageRepository struct {
	db *gorm.DB
}

func NewLineageRepository(db *gorm.DB) LineageRepository { return &lineageRepository{db: db} }

func (r *lineageRepository) CreateEdges(ctx context.Context, edges []model.LineageEdge) error {
	if len(edges) == 0 {
		return nil
	}
	for i := range edges {
		if edges[i].ID == "" {
			edges[i].ID = uuid.New().String()
		}
	}
	// duplicate source declarations are kept verbatim; Position makes the
	// original order reconstructible
	return r.db.WithContext(ctx).Create(&edges).Error
}

func (r *lineageRepository) ListParents(ctx context.Context, kind model.ContentKind, id string) ([]model.LineageEdge, error) {
	var res []model.LineageEdge
	err := r.db.WithContext(ctx).
		Where("child_kind = ? AND child_id = ?", kind, id).
		Order("position").
		Find(&res).Error
	return res, err
}

func (r *lineageRepository) ListChildren(ctx context.Context, kind model.ContentKind, id string) ([]model.LineageEdge, error) {
	var res []model.LineageEdge
	err := r.db.WithContext(ctx).
		Where("parent_kind = ? AND parent_id = ?", kind, id).
		Order("created_at DESC").
		Find(&res).Error
	return res, err
}
