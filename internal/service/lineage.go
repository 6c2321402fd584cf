package service

import (
	"context"
	"strconv"
	"unicode/utf8"

	"github.com/ideosphere/ideosphere/internal/cache"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/transform"
	"github.com/ideosphere/ideosphere/pkg/errs"
)

// DefaultLineageDepth bounds each direction of the lineage view.
const DefaultLineageDepth = 3

// LineageService exposes the one-hop parent/child derivation graph.
// maxDepth is a truncation limit on each direction, not a traversal depth:
// the walk never recurses past the immediate neighbors.
type LineageService interface {
	FetchLineage(ctx context.Context, kind model.ContentKind, id string, maxDepth int) (*transform.Lineage, error)
}

type lineageService struct {
	repos Repos
	cache *cache.SmartCache
}

func NewLineageService(repos Repos, c *cache.SmartCache) LineageService {
	return &lineageService{repos: repos, cache: c}
}

// FetchLineage returns an empty result when the root item is missing:
// lineage is advisory UI data, not a critical path.
func (s *lineageService) FetchLineage(ctx context.Context, kind model.ContentKind, id string, maxDepth int) (*transform.Lineage, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultLineageDepth
	}
	params := []string{string(kind), id, strconv.Itoa(maxDepth)}
	var cached transform.Lineage
	if s.cache.Get(ctx, cache.Lineage, params, &cached) {
		return &cached, nil
	}

	current, err := s.lineageItem(ctx, kind, id, model.RelCurrent, model.LevelCurrent)
	if err != nil {
		return nil, err
	}
	result := &transform.Lineage{Parents: []transform.LineageItem{}, Children: []transform.LineageItem{}}
	if current == nil {
		return result, nil
	}
	result.Current = current

	parents, err := s.repos.Lineage.ListParents(ctx, kind, id)
	if err != nil {
		return nil, errs.Transport(err, "load parents of %s/%s", kind, id)
	}
	for _, e := range parents {
		if len(result.Parents) >= maxDepth {
			break // truncation, not pagination
		}
		item, err := s.lineageItem(ctx, e.ParentKind, e.ParentID, model.RelParent, model.LevelParent)
		if err != nil {
			return nil, err
		}
		if item != nil {
			result.Parents = append(result.Parents, *item)
		}
	}

	children, err := s.repos.Lineage.ListChildren(ctx, kind, id)
	if err != nil {
		return nil, errs.Transport(err, "load children of %s/%s", kind, id)
	}
	for _, e := range children {
		if len(result.Children) >= maxDepth {
			break
		}
		item, err := s.lineageItem(ctx, e.ChildKind, e.ChildID, model.RelChild, model.LevelChild)
		if err != nil {
			return nil, err
		}
		if item != nil {
			result.Children = append(result.Children, *item)
		}
	}

	s.cache.Set(ctx, cache.Lineage, params, result)
	return result, nil
}

// lineageItem resolves one node; unknown ids yield nil rather than an error
// so a dangling edge degrades to a shorter list.
func (s *lineageService) lineageItem(ctx context.Context, kind model.ContentKind, id, rel string, level int) (*transform.LineageItem, error) {
	switch kind {
	case model.KindIdea:
		idea, err := s.repos.Ideas.GetByID(ctx, id)
		if err != nil {
			return nil, errs.Transport(err, "resolve idea %s", id)
		}
		if idea == nil {
			return nil, nil
		}
		supporters, err := s.repos.Feedback.ListUserIDs(ctx, model.KindIdea, id, model.FeedbackSupports)
		if err != nil {
			return nil, errs.Transport(err, "load supporters of idea %s", id)
		}
		return &transform.LineageItem{
			ID:               idea.ID,
			Kind:             string(model.KindIdea),
			Title:            idea.Title,
			RelationshipType: rel,
			Level:            level,
			SupportCount:     len(supporters),
			CreatedAt:        idea.CreatedAt,
		}, nil
	case model.KindPost, model.KindDiscussion:
		post, err := s.repos.Posts.GetByID(ctx, id)
		if err != nil {
			return nil, errs.Transport(err, "resolve post %s", id)
		}
		if post == nil {
			return nil, nil
		}
		title := post.Title
		if title == "" {
			title = truncateRunes(post.Content, 80)
		}
		supporters, err := s.repos.Feedback.ListUserIDs(ctx, kind, id, model.FeedbackSupports)
		if err != nil {
			return nil, errs.Transport(err, "load supporters of post %s", id)
		}
		return &transform.LineageItem{
			ID:               post.ID,
			Kind:             string(kind),
			Title:            title,
			RelationshipType: rel,
			Level:            level,
			SupportCount:     len(supporters),
			CreatedAt:        post.CreatedAt,
		}, nil
	}
	return nil, nil
}

// truncateRunes caps s at n runes so accented content never loses half a
// multi-byte sequence.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
