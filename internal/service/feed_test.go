package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCountsAndCaches(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")
	seedUser(t, env, ctx, "u2", "Marc")

	idea, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "stats idea", CreatorIDs: []string{"u1"}})
	require.NoError(t, err)
	_, err = env.content.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Content: "stats post"})
	require.NoError(t, err)
	_, err = env.interaction.ToggleSupport(ctx, "u2", "ideas/"+idea.ID)
	require.NoError(t, err)

	stats, err := env.feed.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Ideas)
	assert.Equal(t, int64(1), stats.Posts)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(1), stats.Supports)

	// second read served from cache: a new user must not show up yet
	seedUser(t, env, ctx, "u3", "Nadia")
	again, err := env.feed.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Users)
}

func TestWeightedRandomSamplesWithoutReplacement(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "idea " + title, CreatorIDs: []string{"u1"}})
		require.NoError(t, err)
	}

	items, err := env.feed.WeightedRandom(ctx, 3)
	require.NoError(t, err)
	require.Len(t, items, 3)
	seen := map[string]bool{}
	for _, it := range items {
		require.NotNil(t, it.Idea)
		assert.False(t, seen[it.Idea.ID], "item %s drawn twice", it.Idea.ID)
		seen[it.Idea.ID] = true
	}
}

func TestWeightedRandomLimitExceedsPool(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	_, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "only one", CreatorIDs: []string{"u1"}})
	require.NoError(t, err)

	items, err := env.feed.WeightedRandom(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestWeightedRandomConcurrentRequests(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	for _, title := range []string{"a", "b", "c", "d", "e"} {
		_, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "idea " + title, CreatorIDs: []string{"u1"}})
		require.NoError(t, err)
	}

	// the generator is shared across request goroutines; run under -race
	const workers, rounds = 16, 50
	errc := make(chan error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if _, err := env.feed.WeightedRandom(ctx, 3); err != nil {
					errc <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		require.NoError(t, err)
	}
}

func TestNeighborsActivityFiltersByLocation(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	_, err := env.content.CreateIdea(ctx, CreateIdeaInput{
		Title: "jardin partagé", CreatorIDs: []string{"u1"}, Location: "Lyon 7e",
	})
	require.NoError(t, err)
	_, err = env.content.CreatePost(ctx, CreatePostInput{
		AuthorID: "u1", Content: "marché de quartier", Location: "Lyon 3e",
	})
	require.NoError(t, err)
	_, err = env.content.CreatePost(ctx, CreatePostInput{
		AuthorID: "u1", Content: "ailleurs", Location: "Paris",
	})
	require.NoError(t, err)

	items, err := env.feed.NeighborsActivity(ctx, "Lyon", 20)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, it := range items {
		loc := ""
		if it.Idea != nil {
			loc = it.Idea.Location
		}
		if it.Post != nil {
			loc = it.Post.Location
		}
		assert.Contains(t, loc, "Lyon")
	}
}

func TestNeighborsActivityEmptyLocation(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")
	_, err := env.content.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Content: "hello", Location: "Lyon"})
	require.NoError(t, err)

	items, err := env.feed.NeighborsActivity(ctx, "", 20)
	require.NoError(t, err)
	assert.Len(t, items, 1, "no location filter returns everything")
}
