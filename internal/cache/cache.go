// Package cache is the read-side memoization layer between services and
// storage. Entries are keyed by operation category plus parameters and carry
// a category-specific TTL; mutations invalidate through the cascade helpers,
// which are the single place "what must be recomputed after a write" lives.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Operation categories.
const (
	FeedData          = "FEED_DATA"
	HomePageData      = "HOME_PAGE_DATA"
	IdeaDetails       = "IDEA_DETAILS"
	PostDetails       = "POST_DETAILS"
	UserProfile       = "USER_PROFILE"
	UserContributions = "USER_CONTRIBUTIONS"
	Discussion        = "DISCUSSION"
	Lineage           = "LINEAGE"
)

// DefaultTTLs range from volatile feed data to near-static lineage.
var DefaultTTLs = map[string]time.Duration{
	FeedData:          30 * time.Second,
	HomePageData:      time.Minute,
	IdeaDetails:       2 * time.Minute,
	PostDetails:       2 * time.Minute,
	UserProfile:       5 * time.Minute,
	UserContributions: 2 * time.Minute,
	Discussion:        time.Minute,
	Lineage:           15 * time.Minute,
}

// Backend is the raw byte store under the SmartCache. Get returns ok=false
// for absent or expired keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	DeletePrefix(ctx context.Context, prefix string)
	Clear(ctx context.Context)
	Close()
}

// SmartCache is an explicitly constructed, injected instance; there is no
// package-level singleton.
type SmartCache struct {
	backend Backend
	ttls    map[string]time.Duration
}

func New(backend Backend) *SmartCache {
	ttls := make(map[string]time.Duration, len(DefaultTTLs))
	for k, v := range DefaultTTLs {
		ttls[k] = v
	}
	return &SmartCache{backend: backend, ttls: ttls}
}

// SetTTL overrides one category's expiry window.
func (c *SmartCache) SetTTL(category string, ttl time.Duration) {
	c.ttls[category] = ttl
}

func (c *SmartCache) TTL(category string) time.Duration {
	if ttl, ok := c.ttls[category]; ok {
		return ttl
	}
	return time.Minute
}

// Key builds the canonical "CATEGORY:param1:param2" key. The category is
// always followed by a separator so prefix invalidation cannot collide with
// a category that happens to be a prefix of another.
func Key(category string, params ...string) string {
	return category + ":" + strings.Join(params, ":")
}

// Get unmarshals the cached value into dest and reports whether it was
// found fresh.
func (c *SmartCache) Get(ctx context.Context, category string, params []string, dest any) bool {
	data, ok := c.backend.Get(ctx, Key(category, params...))
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.backend.Delete(ctx, Key(category, params...))
		return false
	}
	return true
}

// Set unconditionally overwrites; last writer wins.
func (c *SmartCache) Set(ctx context.Context, category string, params []string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.backend.Set(ctx, Key(category, params...), data, c.TTL(category))
}

// Invalidate removes one entry when params are given, otherwise the whole
// category.
func (c *SmartCache) Invalidate(ctx context.Context, category string, params ...string) {
	if len(params) == 0 {
		c.backend.DeletePrefix(ctx, category+":")
		return
	}
	c.backend.Delete(ctx, Key(category, params...))
}

// Clear empties the cache; intended for test isolation.
func (c *SmartCache) Clear(ctx context.Context) { c.backend.Clear(ctx) }

func (c *SmartCache) Close() { c.backend.Close() }

// InvalidateUserRelated clears exactly the user's contributions, the global
// feed and the homepage stats: mutating a user can change aggregate counts
// but nothing else cached under other users' keys.
func (c *SmartCache) InvalidateUserRelated(ctx context.Context, userID string) {
	c.Invalidate(ctx, UserContributions, userID)
	c.Invalidate(ctx, FeedData)
	c.Invalidate(ctx, HomePageData)
}

// InvalidateIdeaRelated clears the idea's detail, every lineage view (edges
// into the idea change other items' graphs too) and the aggregate pages.
func (c *SmartCache) InvalidateIdeaRelated(ctx context.Context, ideaID string) {
	c.Invalidate(ctx, IdeaDetails, ideaID)
	c.Invalidate(ctx, Lineage)
	c.Invalidate(ctx, FeedData)
	c.Invalidate(ctx, HomePageData)
}

// InvalidatePostRelated mirrors InvalidateIdeaRelated for posts.
func (c *SmartCache) InvalidatePostRelated(ctx context.Context, postID string) {
	c.Invalidate(ctx, PostDetails, postID)
	c.Invalidate(ctx, Lineage)
	c.Invalidate(ctx, FeedData)
	c.Invalidate(ctx, HomePageData)
}

// InvalidateDiscussionRelated clears a topic's thread and the idea it hangs
// off (its discussionIds list is embedded in the idea detail).
func (c *SmartCache) InvalidateDiscussionRelated(ctx context.Context, topicID, ideaID string) {
	c.Invalidate(ctx, Discussion, topicID)
	if ideaID != "" {
		c.Invalidate(ctx, IdeaDetails, ideaID)
	}
}
