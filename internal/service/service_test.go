package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ideosphere/ideosphere/internal/cache"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/repository/memstore"
)

type testEnv struct {
	repos Repos
	cache *cache.SmartCache
	store *memstore.Store

	content     ContentService
	interaction InteractionService
	lineage     LineageService
	feed        FeedService
	users       UserService
}

func newTestEnv(t *testing.T) (*testEnv, context.Context) {
	t.Helper()
	store := memstore.New()
	repos := Repos{
		Users:    store.Users(),
		Ideas:    store.Ideas(),
		Posts:    store.Posts(),
		Feedback: store.Feedback(),
		Lineage:  store.Lineage(),
	}
	c := cache.New(cache.NewMemoryBackend(0))
	t.Cleanup(c.Close)
	env := &testEnv{
		repos:       repos,
		cache:       c,
		store:       store,
		content:     NewContentService(repos, c),
		interaction: NewInteractionService(repos, c),
		lineage:     NewLineageService(repos, c),
		feed:        NewFeedService(repos, c, rand.New(rand.NewSource(1))),
		users:       NewUserService(repos, c, "test-secret", time.Hour),
	}
	return env, context.Background()
}

func seedUser(t *testing.T, env *testEnv, ctx context.Context, id, name string) {
	t.Helper()
	err := env.repos.Users.Create(ctx, &model.User{
		ID:           id,
		Name:         name,
		Email:        id + "@example.org",
		IsRegistered: true,
	})
	require.NoError(t, err)
}
