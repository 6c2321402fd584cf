package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ideosphere/ideosphere/internal/model"
)

// PostRepository is the storage port for posts, their replies and the topic
// posts that back discussions.
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Post, error)
	ListRecent(ctx context.Context, limit int) ([]model.Post, error)
	ListByAuthor(ctx context.Context, userID string) ([]model.Post, error)
	Count(ctx context.Context) (int64, error)
	ListTopicsByIdea(ctx context.Context, ideaID string) ([]model.Post, error)

	CreateReply(ctx context.Context, reply *model.PostReply) error
	GetReply(ctx context.Context, id string) (*model.PostReply, error)
	ListReplies(ctx context.Context, postID string) ([]model.PostReply, error)
	SetAnswer(ctx context.Context, postID, replyID string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Post, error) {
	if len(ids) == 0 {
		return []model.Post{}, nil
	}
	var res []model.Post
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

// ListRecent returns plain posts only; topic posts surface through their
// idea's discussion list.
func (r *postRepository) ListRecent(ctx context.Context, limit int) ([]model.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	var res []model.Post
	err := r.db.WithContext(ctx).
		Where("topic_type = ''").
		Order("created_at DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, userID string) ([]model.Post, error) {
	var res []model.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Find(&res).Error
	return res, err
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("topic_type = ''").Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) ListTopicsByIdea(ctx context.Context, ideaID string) ([]model.Post, error) {
	var res []model.Post
	err := r.db.WithContext(ctx).
		Where("idea_id = ? AND topic_type <> ''", ideaID).
		Order("created_at").
		Find(&res).Error
	return res, err
}

func (r *postRepository) CreateReply(ctx context.Context, reply *model.PostReply) error {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *postRepository) GetReply(ctx context.Context, id string) (*model.PostReply, error) {
	var reply model.PostReply
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reply).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *postRepository) ListReplies(ctx context.Context, postID string) ([]model.PostReply, error) {
	var res []model.PostReply
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at").Find(&res).Error
	return res, err
}

// SetAnswer marks one reply as the accepted answer and clears any previous
// one, in a single transaction.
func (r *postRepository) SetAnswer(ctx context.Context, postID, replyID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.PostReply{}).
			Where("post_id = ? AND is_answer = ?", postID, true).
			Update("is_answer", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.PostReply{}).
			Where("id = ? AND post_id = ?", replyID, postID).
			Update("is_answer", true).Error
	})
}
