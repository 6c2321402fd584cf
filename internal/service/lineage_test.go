package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideosphere/ideosphere/internal/model"
)

func TestFetchLineageTruncatesParents(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	var sources []string
	for _, title := range []string{"s1", "s2", "s3", "s4", "s5"} {
		src, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "src " + title, CreatorIDs: []string{"u1"}})
		require.NoError(t, err)
		sources = append(sources, src.ID)
	}

	child, err := env.content.CreateIdea(ctx, CreateIdeaInput{
		Title:       "child",
		CreatorIDs:  []string{"u1"},
		SourceIdeas: sources,
	})
	require.NoError(t, err)

	lineage, err := env.lineage.FetchLineage(ctx, model.KindIdea, child.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, lineage.Current)
	assert.Len(t, lineage.Parents, 3, "5 sources truncate to maxDepth entries")
	for _, p := range lineage.Parents {
		assert.Equal(t, model.RelParent, p.RelationshipType)
		assert.Equal(t, model.LevelParent, p.Level)
	}
	assert.Equal(t, model.LevelCurrent, lineage.Current.Level)
}

func TestFetchLineageChildren(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	parent, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "parent", CreatorIDs: []string{"u1"}})
	require.NoError(t, err)
	derived, err := env.content.CreateIdea(ctx, CreateIdeaInput{
		Title:       "variant",
		CreatorIDs:  []string{"u1"},
		SourceIdeas: []string{parent.ID},
	})
	require.NoError(t, err)

	lineage, err := env.lineage.FetchLineage(ctx, model.KindIdea, parent.ID, 0)
	require.NoError(t, err)
	require.Len(t, lineage.Children, 1)
	assert.Equal(t, derived.ID, lineage.Children[0].ID)
	assert.Equal(t, model.RelChild, lineage.Children[0].RelationshipType)
	assert.Equal(t, model.LevelChild, lineage.Children[0].Level)
}

func TestFetchLineageMissingRootIsEmptyNotError(t *testing.T) {
	env, ctx := newTestEnv(t)

	lineage, err := env.lineage.FetchLineage(ctx, model.KindIdea, "ghost", 3)
	require.NoError(t, err)
	assert.Nil(t, lineage.Current)
	assert.Empty(t, lineage.Parents)
	assert.Empty(t, lineage.Children)
}

func TestFetchLineageCrossKind(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	post, err := env.content.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Content: "seed thought"})
	require.NoError(t, err)
	idea, err := env.content.CreateIdea(ctx, CreateIdeaInput{
		Title:       "grown from post",
		CreatorIDs:  []string{"u1"},
		SourcePosts: []string{post.ID},
	})
	require.NoError(t, err)

	lineage, err := env.lineage.FetchLineage(ctx, model.KindPost, post.ID, 3)
	require.NoError(t, err)
	require.Len(t, lineage.Children, 1)
	assert.Equal(t, idea.ID, lineage.Children[0].ID)
	assert.Equal(t, string(model.KindIdea), lineage.Children[0].Kind)

	up, err := env.lineage.FetchLineage(ctx, model.KindIdea, idea.ID, 3)
	require.NoError(t, err)
	require.Len(t, up.Parents, 1)
	assert.Equal(t, post.ID, up.Parents[0].ID)
}

func TestFetchLineagePostTitleKeepsRunesIntact(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	// untitled post: the lineage title falls back to truncated content
	content := strings.Repeat("é", 100)
	post, err := env.content.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Content: content})
	require.NoError(t, err)
	_, err = env.content.CreateIdea(ctx, CreateIdeaInput{
		Title:       "issue du fil",
		CreatorIDs:  []string{"u1"},
		SourcePosts: []string{post.ID},
	})
	require.NoError(t, err)

	lineage, err := env.lineage.FetchLineage(ctx, model.KindPost, post.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, lineage.Current)
	assert.Equal(t, strings.Repeat("é", 80), lineage.Current.Title)
	assert.True(t, utf8.ValidString(lineage.Current.Title))
}
