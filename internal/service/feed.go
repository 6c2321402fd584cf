package service

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/ideosphere/ideosphere/internal/cache"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/transform"
	"github.com/ideosphere/ideosphere/pkg/errs"
)

// HomeStats are the homepage aggregate counters.
type HomeStats struct {
	Ideas    int64 `json:"ideas"`
	Posts    int64 `json:"posts"`
	Users    int64 `json:"users"`
	Supports int64 `json:"supports"`
}

// FeedService serves the homepage and mixed-feed reads.
type FeedService interface {
	Stats(ctx context.Context) (*HomeStats, error)
	// WeightedRandom samples recent ideas and posts without replacement,
	// weighting each item by supportCount+1.
	WeightedRandom(ctx context.Context, limit int) ([]transform.FeedItem, error)
	// NeighborsActivity lists recent content near a location, newest first.
	NeighborsActivity(ctx context.Context, location string, limit int) ([]transform.FeedItem, error)
}

type feedService struct {
	repos Repos
	cache *cache.SmartCache

	// rnd is shared by every request goroutine; rndMu guards its state.
	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewFeedService takes its randomness source explicitly so tests can pin it.
func NewFeedService(repos Repos, c *cache.SmartCache, rnd *rand.Rand) FeedService {
	return &feedService{repos: repos, cache: c, rnd: rnd}
}

func (s *feedService) Stats(ctx context.Context) (*HomeStats, error) {
	var cached HomeStats
	if s.cache.Get(ctx, cache.HomePageData, []string{"stats"}, &cached) {
		return &cached, nil
	}
	stats := &HomeStats{}
	var err error
	if stats.Ideas, err = s.repos.Ideas.Count(ctx); err != nil {
		return nil, errs.Transport(err, "count ideas")
	}
	if stats.Posts, err = s.repos.Posts.Count(ctx); err != nil {
		return nil, errs.Transport(err, "count posts")
	}
	if stats.Users, err = s.repos.Users.Count(ctx); err != nil {
		return nil, errs.Transport(err, "count users")
	}
	if stats.Supports, err = s.repos.Feedback.CountByType(ctx, model.FeedbackSupports); err != nil {
		return nil, errs.Transport(err, "count supports")
	}
	s.cache.Set(ctx, cache.HomePageData, []string{"stats"}, stats)
	return stats, nil
}

func (s *feedService) WeightedRandom(ctx context.Context, limit int) ([]transform.FeedItem, error) {
	if limit <= 0 {
		limit = 10
	}
	// the sample itself is random, so only the candidate pool is cacheable;
	// skip the cache here and keep the feed fresh per request
	pool, err := s.feedPool(ctx)
	if err != nil {
		return nil, err
	}

	type weighted struct {
		item   transform.FeedItem
		weight int
	}
	candidates := make([]weighted, 0, len(pool))
	for _, it := range pool {
		w := 1
		if it.Idea != nil {
			w += it.Idea.SupportCount
		}
		if it.Post != nil {
			w += it.Post.SupportCount
		}
		candidates = append(candidates, weighted{item: it, weight: w})
	}

	out := make([]transform.FeedItem, 0, limit)
	for len(out) < limit && len(candidates) > 0 {
		total := 0
		for _, c := range candidates {
			total += c.weight
		}
		s.rndMu.Lock()
		pick := s.rnd.Intn(total)
		s.rndMu.Unlock()
		idx := 0
		for i, c := range candidates {
			pick -= c.weight
			if pick < 0 {
				idx = i
				break
			}
		}
		out = append(out, candidates[idx].item)
		candidates = append(candidates[:idx], candidates[idx+1:]...)
	}
	return out, nil
}

func (s *feedService) NeighborsActivity(ctx context.Context, location string, limit int) ([]transform.FeedItem, error) {
	if limit <= 0 {
		limit = 20
	}
	params := []string{"neighbors", location, strconv.Itoa(limit)}
	var cached []transform.FeedItem
	if s.cache.Get(ctx, cache.FeedData, params, &cached) {
		return cached, nil
	}

	pool, err := s.feedPool(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(location))
	out := make([]transform.FeedItem, 0, limit)
	for _, it := range pool {
		if len(out) >= limit {
			break
		}
		var loc string
		if it.Idea != nil {
			loc = it.Idea.Location
		}
		if it.Post != nil {
			loc = it.Post.Location
		}
		if needle == "" || strings.Contains(strings.ToLower(loc), needle) {
			out = append(out, it)
		}
	}
	s.cache.Set(ctx, cache.FeedData, params, out)
	return out, nil
}

// feedPool loads the recent mixed pool, ideas first then posts, each list
// already newest-first.
func (s *feedService) feedPool(ctx context.Context) ([]transform.FeedItem, error) {
	const poolSize = 100

	var items []transform.FeedItem
	if s.cache.Get(ctx, cache.FeedData, []string{"pool"}, &items) {
		return items, nil
	}

	ideas, err := s.repos.Ideas.ListRecent(ctx, poolSize)
	if err != nil {
		return nil, errs.Transport(err, "load recent ideas")
	}
	for i := range ideas {
		view, err := buildIdeaView(ctx, s.repos, &ideas[i])
		if err != nil {
			return nil, err
		}
		items = append(items, transform.FeedItem{Kind: string(model.KindIdea), Idea: view})
	}

	posts, err := s.repos.Posts.ListRecent(ctx, poolSize)
	if err != nil {
		return nil, errs.Transport(err, "load recent posts")
	}
	for i := range posts {
		view, err := buildPostView(ctx, s.repos, &posts[i])
		if err != nil {
			return nil, err
		}
		items = append(items, transform.FeedItem{Kind: string(model.KindPost), Post: view})
	}

	s.cache.Set(ctx, cache.FeedData, []string{"pool"}, items)
	return items, nil
}
