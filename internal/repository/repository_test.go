package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ideosphere/ideosphere/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Idea{}, &model.IdeaCreator{}, &model.RatingCriterion{}, &model.Rating{},
		&model.Post{}, &model.PostReply{},
		&model.Feedback{}, &model.LineageEdge{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestIdeaCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	idea := &model.Idea{Title: "composteur collectif", Status: model.StatusPublished}
	creators := []model.IdeaCreator{{UserID: "u1", Position: 0}, {UserID: "u2", Position: 1}}
	criteria := []model.RatingCriterion{{Name: "impact", Position: 0}, {Name: "coût", Position: 1}}
	require.NoError(t, repo.Create(ctx, idea, creators, criteria))
	require.NotEmpty(t, idea.ID)

	got, err := repo.GetByID(ctx, idea.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "composteur collectif", got.Title)

	gotCreators, err := repo.ListCreators(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, gotCreators, 2)
	assert.Equal(t, "u1", gotCreators[0].UserID)

	gotCriteria, err := repo.ListCriteria(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, gotCriteria, 2)
	assert.Equal(t, "impact", gotCriteria[0].Name)
}

func TestIdeaGetMissingIsNilNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdeaRepository(db)

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertRatingReplacesValue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	idea := &model.Idea{Title: "i", Status: model.StatusPublished}
	require.NoError(t, repo.Create(ctx, idea, nil, []model.RatingCriterion{{ID: "c1", Name: "impact"}}))

	require.NoError(t, repo.UpsertRating(ctx, &model.Rating{IdeaID: idea.ID, CriterionID: "c1", UserID: "u1", Value: 2}))
	require.NoError(t, repo.UpsertRating(ctx, &model.Rating{IdeaID: idea.ID, CriterionID: "c1", UserID: "u1", Value: 5}))

	ratings, err := repo.ListRatings(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1, "one row per (idea, criterion, user)")
	assert.Equal(t, 5, ratings[0].Value)
}

func TestFeedbackCreateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	fb := model.Feedback{UserID: "u1", Kind: model.KindIdea, ContentID: "i1", Type: model.FeedbackSupports}
	require.NoError(t, repo.Create(ctx, &fb))
	dup := fb
	dup.ID = ""
	require.NoError(t, repo.Create(ctx, &dup))

	ids, err := repo.ListUserIDs(ctx, model.KindIdea, "i1", model.FeedbackSupports)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)

	cnt, err := repo.CountByType(ctx, model.FeedbackSupports)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
}

func TestFeedbackDeleteAndExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Feedback{UserID: "u1", Kind: model.KindPost, ContentID: "p1", Type: model.FeedbackReports}))

	ok, err := repo.Exists(ctx, "u1", model.KindPost, "p1", model.FeedbackReports)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, "u1", model.KindPost, "p1", model.FeedbackReports))
	ok, err = repo.Exists(ctx, "u1", model.KindPost, "p1", model.FeedbackReports)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLineageKeepsDuplicateEdges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLineageRepository(db)
	ctx := context.Background()

	edges := []model.LineageEdge{
		{ParentKind: model.KindIdea, ParentID: "a", ChildKind: model.KindIdea, ChildID: "c", Position: 0},
		{ParentKind: model.KindIdea, ParentID: "a", ChildKind: model.KindIdea, ChildID: "c", Position: 1},
		{ParentKind: model.KindPost, ParentID: "p", ChildKind: model.KindIdea, ChildID: "c", Position: 2},
	}
	require.NoError(t, repo.CreateEdges(ctx, edges))

	parents, err := repo.ListParents(ctx, model.KindIdea, "c")
	require.NoError(t, err)
	require.Len(t, parents, 3, "duplicate declarations are kept")
	assert.Equal(t, "a", parents[0].ParentID)
	assert.Equal(t, "a", parents[1].ParentID)
	assert.Equal(t, "p", parents[2].ParentID)

	children, err := repo.ListChildren(ctx, model.KindIdea, "a")
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

func TestPostRepliesAndAnswer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &model.Post{AuthorID: "u1", Title: "how to start?", Content: "details", TopicType: model.TopicQuestion}
	require.NoError(t, repo.Create(ctx, post))

	r1 := &model.PostReply{PostID: post.ID, AuthorID: "u2", Content: "first", CreatedAt: time.Now().Add(-time.Minute)}
	r2 := &model.PostReply{PostID: post.ID, AuthorID: "u3", Content: "second"}
	require.NoError(t, repo.CreateReply(ctx, r1))
	require.NoError(t, repo.CreateReply(ctx, r2))

	require.NoError(t, repo.SetAnswer(ctx, post.ID, r1.ID))
	require.NoError(t, repo.SetAnswer(ctx, post.ID, r2.ID))

	replies, err := repo.ListReplies(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	answers := 0
	for _, r := range replies {
		if r.IsAnswer {
			answers++
			assert.Equal(t, r2.ID, r.ID)
		}
	}
	assert.Equal(t, 1, answers, "SetAnswer clears the previous answer")
}

func TestListTopicsByIdea(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Post{AuthorID: "u1", Content: "plain post"}))
	topic := &model.Post{AuthorID: "u1", Title: "t", Content: "c", TopicType: model.TopicGeneral, IdeaID: "i1"}
	require.NoError(t, repo.Create(ctx, topic))

	topics, err := repo.ListTopicsByIdea(ctx, "i1")
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, topic.ID, topics[0].ID)
}

func TestUserGetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Name: "Claire", Email: "claire@example.org"}))

	u, err := repo.GetByEmail(ctx, "claire@example.org")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Claire", u.Name)

	missing, err := repo.GetByEmail(ctx, "nobody@example.org")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
