package cacheperf

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ideosphere/ideosphere/internal/model"
)

// SupporterSnapshot contains the minimal user info the supporter panel needs.
type SupporterSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// SupporterService compares caching strategies for supporter list reads,
// the hottest relation query on popular ideas.
type SupporterService struct {
	db      *gorm.DB
	cache   *redis.Client
	ttl     time.Duration
	dbDelay time.Duration

	pageQueries  atomic.Int64
	indexLoads   atomic.Int64
	userBulkLoad atomic.Int64
}

// NewSupporterService builds the comparison harness over the provided DB and
// Redis client. dbDelay simulates the round-trip cost of the primary store.
func NewSupporterService(db *gorm.DB, cache *redis.Client, ttl, dbDelay time.Duration) *SupporterService {
	return &SupporterService{db: db, cache: cache, ttl: ttl, dbDelay: dbDelay}
}

func (s *SupporterService) FetchSupportersNoCache(ctx context.Context, ideaID string, page, size int) ([]SupporterSnapshot, error) {
	return s.querySupporters(ctx, ideaID, page, size)
}

// FetchSupportersNaiveCache caches each rendered page under its own key.
// Overlapping pages of the same idea duplicate the payload.
func (s *SupporterService) FetchSupportersNaiveCache(ctx context.Context, ideaID string, page, size int) ([]SupporterSnapshot, error) {
	key := fmt.Sprintf("supporters:%s:%d:%d", ideaID, page, size)
	if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
		var out []SupporterSnapshot
		if uErr := json.Unmarshal(data, &out); uErr == nil {
			return out, nil
		}
	}

	rows, err := s.querySupporters(ctx, ideaID, page, size)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(rows); err == nil {
		_ = s.cache.Set(ctx, key, payload, s.ttl).Err()
	}
	return rows, nil
}

// FetchSupportersOptimized keeps one id list per idea in a Redis list and
// the user snapshots in shared per-user keys, so overlapping supporter sets
// across ideas deduplicate in the cache.
func (s *SupporterService) FetchSupportersOptimized(ctx context.Context, ideaID string, page, size int) ([]SupporterSnapshot, error) {
	key := fmt.Sprintf("supporters:index:%s", ideaID)

	start := (page - 1) * size
	end := start + size - 1

	exists, _ := s.cache.Exists(ctx, key).Result()
	var ids []string
	if exists > 0 {
		ids, _ = s.cache.LRange(ctx, key, int64(start), int64(end)).Result()
	}

	if len(ids) == 0 {
		allIDs, err := s.loadSupporterIDsAndCache(ctx, ideaID)
		if err != nil {
			return nil, err
		}
		if start >= len(allIDs) {
			return []SupporterSnapshot{}, nil
		}
		endIdx := start + size
		if endIdx > len(allIDs) {
			endIdx = len(allIDs)
		}
		ids = allIDs[start:endIdx]
	}

	return s.loadUsers(ctx, ids)
}

func (s *SupporterService) loadSupporterIDsAndCache(ctx context.Context, ideaID string) ([]string, error) {
	time.Sleep(s.dbDelay)
	s.indexLoads.Add(1)

	var ids []string
	if err := s.db.WithContext(ctx).
		Table("feedback").
		Select("user_id").
		Where("kind = ? AND content_id = ? AND type = ?", model.KindIdea, ideaID, model.FeedbackSupports).
		Order("created_at DESC").
		Scan(&ids).Error; err != nil {
		return nil, err
	}

	key := fmt.Sprintf("supporters:index:%s", ideaID)
	if len(ids) > 0 {
		pipe := s.cache.Pipeline()
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, interfaceSlice(ids)...)
		pipe.Expire(ctx, key, s.ttl)
		pipe.Exec(ctx)
	}
	return ids, nil
}

func (s *SupporterService) querySupporters(ctx context.Context, ideaID string, page, size int) ([]SupporterSnapshot, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	time.Sleep(s.dbDelay)
	s.pageQueries.Add(1)

	var rows []SupporterSnapshot
	err := s.db.WithContext(ctx).
		Table("feedback").
		Select("users.id", "users.name", "users.email", "users.location").
		Joins("JOIN users ON feedback.user_id = users.id").
		Where("feedback.kind = ? AND feedback.content_id = ? AND feedback.type = ?", model.KindIdea, ideaID, model.FeedbackSupports).
		Order("feedback.created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SupporterService) loadUsers(ctx context.Context, ids []string) ([]SupporterSnapshot, error) {
	if len(ids) == 0 {
		return []SupporterSnapshot{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf("user:%s", id)
	}

	cached := make(map[string]SupporterSnapshot, len(ids))
	if vals, err := s.cache.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			if v == nil {
				continue
			}
			if str, ok := v.(string); ok {
				var snap SupporterSnapshot
				if uErr := json.Unmarshal([]byte(str), &snap); uErr == nil {
					cached[ids[i]] = snap
				}
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		s.userBulkLoad.Add(1)
		time.Sleep(s.dbDelay)

		var users []model.User
		if err := s.db.WithContext(ctx).Where("id IN ?", missing).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			snap := SupporterSnapshot{ID: u.ID, Name: u.Name, Email: u.Email, Location: u.Location}
			cached[u.ID] = snap
			if payload, err := json.Marshal(snap); err == nil {
				_ = s.cache.Set(ctx, fmt.Sprintf("user:%s", u.ID), payload, s.ttl).Err()
			}
		}
	}

	result := make([]SupporterSnapshot, 0, len(ids))
	for _, id := range ids {
		if snap, ok := cached[id]; ok {
			result = append(result, snap)
		}
	}
	return result, nil
}

func interfaceSlice(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result
}

// ResetCounters clears recorded db call counters.
func (s *SupporterService) ResetCounters() {
	s.pageQueries.Store(0)
	s.indexLoads.Store(0)
	s.userBulkLoad.Store(0)
}

// Counters reports how many underlying DB loads were executed.
func (s *SupporterService) Counters() SupporterDBCounters {
	return SupporterDBCounters{
		PageQueries:  s.pageQueries.Load(),
		IndexLoads:   s.indexLoads.Load(),
		UserBulkLoad: s.userBulkLoad.Load(),
	}
}

// SupporterDBCounters summarises DB hits during a run.
type SupporterDBCounters struct {
	PageQueries  int64
	IndexLoads   int64
	UserBulkLoad int64
}
