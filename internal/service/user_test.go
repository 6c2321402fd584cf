package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideosphere/ideosphere/pkg/errs"
)

func TestCreateUserAndLogin(t *testing.T) {
	env, ctx := newTestEnv(t)

	user, token, err := env.users.CreateUser(ctx, CreateUserInput{
		Name:     "Claire",
		Email:    "Claire@Example.org",
		Password: "s3cret",
		Location: "Lyon",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.IsRegistered)
	assert.Equal(t, "claire@example.org", user.Email, "email is normalized")

	logged, token, err := env.users.Login(ctx, "claire@example.org", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	_, _, err = env.users.Login(ctx, "claire@example.org", "wrong")
	assert.True(t, errs.IsValidation(err))
}

func TestLoginGuestAccountNeedsNoPassword(t *testing.T) {
	env, ctx := newTestEnv(t)

	guest, _, err := env.users.CreateUser(ctx, CreateUserInput{Name: "Marc", Email: "marc@example.org"})
	require.NoError(t, err)
	assert.False(t, guest.IsRegistered)

	logged, _, err := env.users.Login(ctx, "marc@example.org", "")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, logged.ID)
}

func TestLoginUnknownEmail(t *testing.T) {
	env, ctx := newTestEnv(t)
	_, _, err := env.users.Login(ctx, "nobody@example.org", "x")
	assert.True(t, errs.IsNotFound(err))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env, ctx := newTestEnv(t)

	_, _, err := env.users.CreateUser(ctx, CreateUserInput{Name: "Claire", Email: "claire@example.org"})
	require.NoError(t, err)
	_, _, err = env.users.CreateUser(ctx, CreateUserInput{Name: "Imposter", Email: "CLAIRE@example.org"})
	assert.True(t, errs.IsValidation(err))
}

func TestGetUserContentSplit(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")
	seedUser(t, env, ctx, "u2", "Marc")

	mine, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "my idea", CreatorIDs: []string{"u1"}})
	require.NoError(t, err)
	theirs, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "their idea", CreatorIDs: []string{"u2"}})
	require.NoError(t, err)
	_, err = env.content.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Content: "my post"})
	require.NoError(t, err)
	_, err = env.interaction.ToggleSupport(ctx, "u1", "ideas/"+theirs.ID)
	require.NoError(t, err)

	content, err := env.users.GetUserContent(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, content.ParticipatedIdeas, 1)
	assert.Equal(t, mine.ID, content.ParticipatedIdeas[0].ID)
	require.Len(t, content.ParticipatedPosts, 1)
	require.Len(t, content.SupportedIdeas, 1)
	assert.Equal(t, theirs.ID, content.SupportedIdeas[0].ID)
	assert.Empty(t, content.SupportedPosts)
}

func TestGetUserContentExcludesTopics(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	idea, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "host idea", CreatorIDs: []string{"u1"}})
	require.NoError(t, err)
	_, err = env.content.CreateDiscussionTopic(ctx, CreateTopicInput{
		IdeaID: idea.ID, AuthorID: "u1", Title: "how?", Content: "details please", Type: "question",
	})
	require.NoError(t, err)

	content, err := env.users.GetUserContent(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, content.ParticipatedPosts, "discussion topics are not regular posts")
}

func TestDeleteUserAnonymizes(t *testing.T) {
	env, ctx := newTestEnv(t)
	seedUser(t, env, ctx, "u1", "Claire")

	idea, err := env.content.CreateIdea(ctx, CreateIdeaInput{Title: "survives deletion", CreatorIDs: []string{"u1"}})
	require.NoError(t, err)

	require.NoError(t, env.users.DeleteUser(ctx, "u1"))

	profile, err := env.users.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted user", profile.Name)
	assert.Empty(t, profile.Avatar)

	// authored content still resolves its creator
	got, err := env.content.GetIdea(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, got.Creators, 1)
	assert.Equal(t, "Deleted user", got.Creators[0].Name)

	_, _, err = env.users.Login(ctx, "u1@example.org", "")
	assert.True(t, errs.IsNotFound(err), "anonymized accounts cannot log in")
}

func TestDeleteUserUnknown(t *testing.T) {
	env, ctx := newTestEnv(t)
	err := env.users.DeleteUser(ctx, "ghost")
	assert.True(t, errs.IsNotFound(err))
}
