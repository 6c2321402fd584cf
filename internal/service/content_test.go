package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/pkg/errs"
)

func TestAggregateSourceIDsOrder(t *testing.T) {
	got := AggregateSourceIDs(
		[]string{"idea-9"},
		[]string{"post-1", "post-2"},
		[]string{"dt1"},
	)
	assert.Equal(t, []string{"ideas/idea-9", "posts/post-1", "posts/post-2", "discussions/dt1"}, got)
}

func TestAggregateSourceIDsKeepsDuplicates(t *testing.T) {
	got := AggregateSourceIDs([]string{"a"}, []string{"a"}, nil)
	assert.Equal(t, []string{"ideas/a", "posts/a"}, got)
}

func TestCreateIdeaRecordsSourcesInOrder(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	require.NoError(t, env.repos.Posts.Create(ctx, &model.Post{ID: "post-1", AuthorID: "u1", Content: "a"}))
	require.NoError(t, env.repos.Posts.Create(ctx, &model.Post{ID: "post-2", AuthorID: "u1", Content: "b"}))
	require.NoError(t, env.repos.Posts.Create(ctx, &model.Post{ID: "dt1", AuthorID: "u1", Title: "Q", Content: "q", TopicType: model.TopicQuestion}))

	idea, err := env.content.CreateIdea(ctx, CreateIdeaInput{
		Title:             "Végétaliser l'avenue",
		CreatorIDs:        []string{"u1"},
		SourcePosts:       []string{"post-1", "post-2"},
		SourceDiscussions: []string{"dt1"},
	})
	require.NoError(t, err)

	edges, err := env.repos.Lineage.ListParents(ctx, model.KindIdea, idea.ID)
	require.NoError(t, err)
	require.Len(t, edges, 3)
	assert.Equal(t, model.KindPost, edges[0].ParentKind)
	assert.Equal(t, "post-1", edges[0].ParentID)
	assert.Equal(t, "post-2", edges[1].ParentID)
	assert.Equal(t, model.KindDiscussion, edges[2].ParentKind)
	assert.Equal(t, "dt1", edges[2].ParentID)

	assert.Equal(t, []string{"post-1", "post-2"}, idea.SourcePosts)
	assert.Equal(t, []string{"dt1"}, idea.SourceDiscussions)
}

func TestCreateIdeaExtractsTagsWhenMissing(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	idea, err := env.content.CreateIdea(ctx, CreateIdeaInput{
		Title:       "Bonjour #Ville2024",
		Summary:     "et #vie-de-quartier!",
		Description: "#ville2024 encore",
		CreatorIDs:  []string{"u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ville2024", "vie-de-quartier"}, idea.Tags)
}

func TestCreateIdeaValidation(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	_, err := env.content.CreateIdea(ctx, CreateIdeaInput{CreatorIDs: []string{"u1"}})
	assert.Error(t, err)

	_, err = env.content.CreateIdea(ctx, CreateIdeaInput{Title: "T"})
	assert.Error(t, err)

	_, err = env.content.CreateIdea(ctx, CreateIdeaInput{Title: "T", CreatorIDs: []string{"ghost"}})
	assert.Error(t, err)

	_, err = env.content.CreateIdea(ctx, CreateIdeaInput{Title: "T", CreatorIDs: []string{"u1"}, Status: "shiny"})
	assert.Error(t, err)
}

func TestCreateIdeaBadSourcePersistsNothing(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	_, err := env.content.CreateIdea(ctx, CreateIdeaInput{
		Title:       "compost collectif",
		CreatorIDs:  []string{"u1"},
		SourceIdeas: []string{"things/1"},
	})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	count, err := env.repos.Ideas.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "a rejected create must not leave an idea row")
}

func TestCreatePostBadSourcePersistsNothing(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	_, err := env.content.CreatePost(ctx, CreatePostInput{
		AuthorID:  "u1",
		Content:   "marché de quartier",
		SourceIDs: []string{"things/1"},
	})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	count, err := env.repos.Posts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "a rejected create must not leave a post row")
}

func TestCreatePostFallsBackToHashtags(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	post, err := env.content.CreatePost(ctx, CreatePostInput{
		AuthorID: "u1",
		Content:  "Plus d'arbres #Ville2024 svp",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ville2024"}, post.Tags)
	assert.Equal(t, 0, post.SupportCount)
	assert.NotNil(t, post.Supporters)
}

func TestGetIdeaSupportCountMatchesSupporters(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")
	seedUser(t, env, ctx, "u2", "Marc")

	idea, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "T", CreatorIDs: []string{"u1"}})
	require.NoError(t, err)

	_, err = env.interaction.ToggleSupport(ctx, "u2", "ideas/"+idea.ID)
	require.NoError(t, err)

	got, err := env.content.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, len(got.Supporters), got.SupportCount)
	assert.Equal(t, 1, got.SupportCount)
}

func TestGetIdeaUsesCacheUntilInvalidated(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")
	seedUser(t, env, ctx, "u2", "Marc")

	idea, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "T", CreatorIDs: []string{"u1"}})
	require.NoError(t, err)

	first, err := env.content.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	require.Equal(t, 0, first.SupportCount)

	// mutation invalidates the detail entry, so the next read is fresh
	_, err = env.interaction.ToggleSupport(ctx, "u2", "ideas/"+idea.ID)
	require.NoError(t, err)

	second, err := env.content.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.SupportCount)
}

func TestDiscussionTopicLifecycle(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")
	seedUser(t, env, ctx, "u2", "Marc")

	idea, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "T", CreatorIDs: []string{"u1"}})
	require.NoError(t, err)

	topic, err := env.content.CreateDiscussionTopic(ctx, CreateTopicInput{
		IdeaID:   idea.ID,
		AuthorID: "u1",
		Title:    "Arrosage ?",
		Content:  "Qui gère ?",
		Type:     model.TopicQuestion,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TopicQuestion, topic.Type)

	_, err = env.content.CreateDiscussionTopic(ctx, CreateTopicInput{
		IdeaID: idea.ID, AuthorID: "u1", Title: "X", Type: "rant",
	})
	assert.Error(t, err, "unknown topic type must be rejected")

	reply, err := env.interaction.AddReply(ctx, topic.ID, "u2", "Le collectif")
	require.NoError(t, err)

	require.NoError(t, env.interaction.MarkAsAnswer(ctx, topic.ID, reply.ID, "u1"))

	got, err := env.content.GetDiscussion(ctx, topic.ID)
	require.NoError(t, err)
	require.Len(t, got.Posts, 1)
	assert.True(t, got.Posts[0].IsAnswer)

	// the idea's discussionIds reflect the new topic
	detail, err := env.content.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	assert.Contains(t, detail.DiscussionIDs, topic.ID)
}
