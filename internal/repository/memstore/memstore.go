// Package memstore is the in-memory storage adapter backing standalone mode
// and test isolation. It implements the same per-entity ports as the gorm
// adapter; a single mutex guards all tables, which is plenty for a demo
// dataset.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/repository"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]model.User
	ideas    map[string]model.Idea
	creators []model.IdeaCreator
	criteria []model.RatingCriterion
	ratings  []model.Rating
	posts    map[string]model.Post
	replies  []model.PostReply
	feedback []model.Feedback
	edges    []model.LineageEdge
}

func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset drops every table; tests call this between cases.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = map[string]model.User{}
	s.ideas = map[string]model.Idea{}
	s.creators = nil
	s.criteria = nil
	s.ratings = nil
	s.posts = map[string]model.Post{}
	s.replies = nil
	s.feedback = nil
	s.edges = nil
}

func (s *Store) Users() repository.UserRepository        { return userRepo{s} }
func (s *Store) Ideas() repository.IdeaRepository        { return ideaRepo{s} }
func (s *Store) Posts() repository.PostRepository        { return postRepo{s} }
func (s *Store) Feedback() repository.FeedbackRepository { return feedbackRepo{s} }
func (s *Store) Lineage() repository.LineageRepository   { return lineageRepo{s} }

// --- users ---

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (r userRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

// --- ideas ---

type ideaRepo struct{ s *Store }

func (r ideaRepo) Create(_ context.Context, idea *model.Idea, creators []model.IdeaCreator, criteria []model.RatingCriterion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if idea.ID == "" {
		idea.ID = uuid.New().String()
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = time.Now()
	}
	r.s.ideas[idea.ID] = *idea
	for i := range creators {
		if creators[i].ID == "" {
			creators[i].ID = uuid.New().String()
		}
		creators[i].IdeaID = idea.ID
		r.s.creators = append(r.s.creators, creators[i])
	}
	for i := range criteria {
		if criteria[i].ID == "" {
			criteria[i].ID = uuid.New().String()
		}
		criteria[i].IdeaID = idea.ID
		r.s.criteria = append(r.s.criteria, criteria[i])
	}
	return nil
}

func (r ideaRepo) GetByID(_ context.Context, id string) (*model.Idea, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if idea, ok := r.s.ideas[id]; ok {
		cp := idea
		return &cp, nil
	}
	return nil, nil
}

func (r ideaRepo) ListByIDs(_ context.Context, ids []string) ([]model.Idea, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]model.Idea, 0, len(ids))
	for _, id := range ids {
		if idea, ok := r.s.ideas[id]; ok {
			res = append(res, idea)
		}
	}
	return res, nil
}

func (r ideaRepo) ListRecent(_ context.Context, limit int) ([]model.Idea, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	res := make([]model.Idea, 0, len(r.s.ideas))
	for _, idea := range r.s.ideas {
		if idea.Status != model.StatusDraft {
			res = append(res, idea)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r ideaRepo) ListByCreator(_ context.Context, userID string) ([]model.Idea, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res []model.Idea
	for _, c := range r.s.creators {
		if c.UserID != userID {
			continue
		}
		if idea, ok := r.s.ideas[c.IdeaID]; ok {
			res = append(res, idea)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if res == nil {
		res = []model.Idea{}
	}
	return res, nil
}

func (r ideaRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.ideas)), nil
}

func (r ideaRepo) ListCreators(_ context.Context, ideaID string) ([]model.IdeaCreator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res []model.IdeaCreator
	for _, c := range r.s.creators {
		if c.IdeaID == ideaID {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Position < res[j].Position })
	return res, nil
}

func (r ideaRepo) ListCriteria(_ context.Context, ideaID string) ([]model.RatingCriterion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res []model.RatingCriterion
	for _, c := range r.s.criteria {
		if c.IdeaID == ideaID {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Position < res[j].Position })
	return res, nil
}

func (r ideaRepo) UpsertRating(_ context.Context, rating *model.Rating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.ratings {
		if existing.IdeaID == rating.IdeaID && existing.CriterionID == rating.CriterionID && existing.UserID == rating.UserID {
			r.s.ratings[i].Value = rating.Value
			r.s.ratings[i].UpdatedAt = time.Now()
			return nil
		}
	}
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	r.s.ratings = append(r.s.ratings, *rating)
	return nil
}

func (r ideaRepo) ListRatings(_ context.Context, ideaID string) ([]model.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res []model.Rating
	for _, rt := range r.s.ratings {
		if rt.IdeaID == ideaID {
			res = append(res, rt)
		}
	}
	return res, nil
}

// --- posts ---

type postRepo struct{ s *Store }

func (r postRepo) Create(_ context.Context, p *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.s.posts[p.ID] = *p
	return nil
}

func (r postRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.posts[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r postRepo) ListByIDs(_ context.Context, ids []string) ([]model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.posts[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r postRepo) ListRecent(_ context.Context, limit int) ([]model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	res := make([]model.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		if !p.IsTopic() {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r postRepo) ListByAuthor(_ context.Context, userID string) ([]model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res []model.Post
	for _, p := range r.s.posts {
		if p.AuthorID == userID {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if res == nil {
		res = []model.Post{}
	}
	return res, nil
}

func (r postRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var cnt int64
	for _, p := range r.s.posts {
		if !p.IsTopic() {
			cnt++
		}
	}
	return cnt, nil
}

func (r postRepo) ListTopicsByIdea(_ context.Context, ideaID string) ([]model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res []model.Post
	for _, p := range r.s.posts {
		if p.IdeaID == ideaID && p.IsTopic() {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	if res == nil {
		res = []model.Post{}
	}
	return res, nil
}

func (r postRepo) CreateReply(_ context.Context, reply *model.PostReply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}
	r.s.replies = append(r.s.replies, *reply)
	return nil
}

func (r postRepo) GetReply(_ context.Context, id string) (*model.PostReply, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, reply := range r.s.replies {
		if reply.ID == id {
			cp := reply
			return &cp, nil
		}
	}
	return nil, nil
}

func (r postRepo) ListReplies(_ context.Context, postID string) ([]model.PostReply, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res []model.PostReply
	for _, reply := range r.s.replies {
		if reply.PostID == postID {
			res = append(res, reply)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	if res == nil {
		res = []model.PostReply{}
	}
	return res, nil
}

func (r postRepo) SetAnswer(_ context.Context, postID, replyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.replies {
		if r.s.replies[i].PostID != postID {
			continue
		}
		r.s.replies[i].IsAnswer = r.s.replies[i].ID == replyID
	}
	return nil
}

// --- feedback ---

type feedbackRepo struct{ s *Store }

func (r feedbackRepo) Create(_ context.Context, fb *model.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.feedback {
		if existing.UserID == fb.UserID && existing.Kind == fb.Kind && existing.ContentID == fb.ContentID && existing.Type == fb.Type {
			return nil
		}
	}
	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	r.s.feedback = append(r.s.feedback, *fb)
	return nil
}

func (r feedbackRepo) Delete(_ context.Context, userID string, kind model.ContentKind, contentID, typ string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.feedback[:0]
	for _, fb := range r.s.feedback {
		if fb.UserID == userID && fb.Kind == kind && fb.ContentID == contentID && fb.Type == typ {
			continue
		}
		kept = append(kept, fb)
	}
	r.s.feedback = kept
	return nil
}

func (r feedbackRepo) Exists(_ context.Context, userID string, kind model.ContentKind, contentID, typ string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, fb := range r.s.feedback {
		if fb.UserID == userID && fb.Kind == kind && fb.ContentID == contentID && fb.Type == typ {
			return true, nil
		}
	}
	return false, nil
}

func (r feedbackRepo) ListUserIDs(_ context.Context, kind model.ContentKind, contentID, typ string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := []string{}
	for _, fb := range r.s.feedback {
		if fb.Kind == kind && fb.ContentID == contentID && fb.Type == typ {
			ids = append(ids, fb.UserID)
		}
	}
	return ids, nil
}

func (r feedbackRepo) ListContentIDs(_ context.Context, userID string, kind model.ContentKind, typ string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := []string{}
	for i := len(r.s.feedback) - 1; i >= 0; i-- {
		fb := r.s.feedback[i]
		if fb.UserID == userID && fb.Kind == kind && fb.Type == typ {
			ids = append(ids, fb.ContentID)
		}
	}
	return ids, nil
}

func (r feedbackRepo) CountByType(_ context.Context, typ string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var cnt int64
	for _, fb := range r.s.feedback {
		if fb.Type == typ {
			cnt++
		}
	}
	return cnt, nil
}

// --- lineage ---

type lineageRepo struct{ s *Store }

func (r lineageRepo) CreateEdges(_ context.Context, edges []model.LineageEdge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range edges {
		if edges[i].ID == "" {
			edges[i].ID = uuid.New().String()
		}
		if edges[i].CreatedAt.IsZero() {
			edges[i].CreatedAt = time.Now()
		}
		r.s.edges = append(r.s.edges, edges[i])
	}
	return nil
}

func (r lineageRepo) ListParents(_ context.Context, kind model.ContentKind, id string) ([]model.LineageEdge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res []model.LineageEdge
	for _, e := range r.s.edges {
		if e.ChildKind == kind && e.ChildID == id {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Position < res[j].Position })
	return res, nil
}

func (r lineageRepo) ListChildren(_ context.Context, kind model.ContentKind, id string) ([]model.LineageEdge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res []model.LineageEdge
	for _, e := range r.s.edges {
		if e.ParentKind == kind && e.ParentID == id {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}
