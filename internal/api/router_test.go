package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideosphere/ideosphere/internal/api/handler"
	"github.com/ideosphere/ideosphere/internal/cache"
	"github.com/ideosphere/ideosphere/internal/config"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/repository/memstore"
	"github.com/ideosphere/ideosphere/internal/service"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) (*gin.Engine, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	repos := service.Repos{
		Users:    store.Users(),
		Ideas:    store.Ideas(),
		Posts:    store.Posts(),
		Feedback: store.Feedback(),
		Lineage:  store.Lineage(),
	}
	c := cache.New(cache.NewMemoryBackend(0))
	t.Cleanup(c.Close)

	h := handler.NewHandler(
		service.NewContentService(repos, c),
		service.NewInteractionService(repos, c),
		service.NewLineageService(repos, c),
		service.NewFeedService(repos, c, rand.New(rand.NewSource(1))),
		service.NewUserService(repos, c, testSecret, time.Hour),
	)

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Auth.JWTSecret = testSecret
	cfg.RateLimit.PerSecond = 0 // no limiting in tests
	return NewRouter(cfg, h), store
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "identity")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	}
	return w, env
}

func seedStoreUser(t *testing.T, store *memstore.Store, id, name string) {
	t.Helper()
	err := store.Users().Create(context.Background(), &model.User{
		ID: id, Name: name, Email: id + "@example.org", IsRegistered: true,
	})
	require.NoError(t, err)
}

func TestUserSignupAndLogin(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/users", gin.H{
		"name": "Claire", "email": "claire@example.org", "password": "s3cret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		User  struct{ ID string }
		Token string
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.Token)

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/users/login", gin.H{
		"email": "claire@example.org", "password": "s3cret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/users/login", gin.H{
		"email": "claire@example.org", "password": "nope",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserRejectsBadEmail(t *testing.T) {
	r, _ := setupRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/users", gin.H{
		"name": "X", "email": "not-an-email",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdeaLifecycleOverHTTP(t *testing.T) {
	r, store := setupRouter(t)
	seedStoreUser(t, store, "u1", "Claire")

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/posts", gin.H{
		"authorId": "u1", "content": "Bonjour #Ville2024",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post struct{ ID string }
	require.NoError(t, json.Unmarshal(env.Data, &post))

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/ideas", gin.H{
		"title":       "jardin partagé",
		"creatorIds":  []string{"u1"},
		"sourcePosts": []string{post.ID},
		"criteria":    []string{"impact"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var idea struct {
		ID          string
		SourcePosts []string
	}
	require.NoError(t, json.Unmarshal(env.Data, &idea))
	assert.Equal(t, []string{post.ID}, idea.SourcePosts)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/ideas/"+idea.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/posts/"+post.ID+"/lineage", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var lineage struct {
		Children []struct{ ID string }
	}
	require.NoError(t, json.Unmarshal(env.Data, &lineage))
	require.Len(t, lineage.Children, 1)
	assert.Equal(t, idea.ID, lineage.Children[0].ID)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/ideas/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedbackRoundTrip(t *testing.T) {
	r, store := setupRouter(t)
	seedStoreUser(t, store, "u1", "Claire")
	seedStoreUser(t, store, "u2", "Marc")

	_, env := doJSON(t, r, http.MethodPost, "/api/v1/ideas", gin.H{
		"title": "i", "creatorIds": []string{"u1"},
	}, "")
	var idea struct{ ID string }
	require.NoError(t, json.Unmarshal(env.Data, &idea))

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/feedback", gin.H{
		"userId": "u2", "contentId": "ideas/" + idea.ID, "type": "supports",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, env = doJSON(t, r, http.MethodGet, "/api/v1/ideas/"+idea.ID, nil, "")
	var got struct {
		SupportCount int
		Supporters   []string
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 1, got.SupportCount)
	assert.Equal(t, len(got.Supporters), got.SupportCount)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/feedback", gin.H{
		"userId": "u2", "contentId": "ideas/" + idea.ID, "type": "supports",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	_, env = doJSON(t, r, http.MethodGet, "/api/v1/ideas/"+idea.ID, nil, "")
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 0, got.SupportCount)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/feedback", gin.H{
		"userId": "u2", "contentId": "ideas/" + idea.ID, "type": "cheers",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateIdeaOverHTTP(t *testing.T) {
	r, store := setupRouter(t)
	seedStoreUser(t, store, "u1", "Claire")

	_, env := doJSON(t, r, http.MethodPost, "/api/v1/ideas", gin.H{
		"title": "i", "creatorIds": []string{"u1"}, "criteria": []string{"impact"},
	}, "")
	var idea struct {
		ID             string
		RatingCriteria []struct{ ID string }
	}
	require.NoError(t, json.Unmarshal(env.Data, &idea))
	require.NotEmpty(t, idea.RatingCriteria)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/ideas/"+idea.ID+"/rate", gin.H{
		"userId": "u1", "criterionId": idea.RatingCriteria[0].ID, "value": 4,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rated struct {
		Ratings []struct{ Value int }
	}
	require.NoError(t, json.Unmarshal(env.Data, &rated))
	require.Len(t, rated.Ratings, 1)
	assert.Equal(t, 4, rated.Ratings[0].Value)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/ideas/"+idea.ID+"/rate", gin.H{
		"userId": "u1", "criterionId": idea.RatingCriteria[0].ID, "value": 6,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentsOverHTTP(t *testing.T) {
	r, store := setupRouter(t)
	seedStoreUser(t, store, "u1", "Claire")
	seedStoreUser(t, store, "u2", "Marc")

	_, env := doJSON(t, r, http.MethodPost, "/api/v1/ideas", gin.H{
		"title": "i", "creatorIds": []string{"u1"},
	}, "")
	var idea struct{ ID string }
	require.NoError(t, json.Unmarshal(env.Data, &idea))

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/ideas/"+idea.ID+"/discussions", gin.H{
		"authorId": "u1", "title": "how?", "content": "details", "type": "question",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var topic struct{ ID string }
	require.NoError(t, json.Unmarshal(env.Data, &topic))

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+topic.ID+"/comments", gin.H{
		"authorId": "u2", "content": "try the town hall",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reply struct{ ID string }
	require.NoError(t, json.Unmarshal(env.Data, &reply))

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+topic.ID+"/comments/"+reply.ID+"/upvote", gin.H{
		"userId": "u2",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// only the topic author may accept an answer
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+topic.ID+"/comments/"+reply.ID+"/mark-as-answer", gin.H{
		"userId": "u2",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+topic.ID+"/comments/"+reply.ID+"/mark-as-answer", gin.H{
		"userId": "u1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/discussions/"+topic.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Posts []struct {
			ID       string
			IsAnswer bool
		}
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Posts, 1)
	assert.True(t, got.Posts[0].IsAnswer)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/ideas/"+idea.ID+"/discussions", gin.H{
		"authorId": "u1", "title": "t", "content": "c", "type": "rant",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown topic type is rejected at binding")
}

func TestDeleteUserRequiresOwnToken(t *testing.T) {
	r, _ := setupRouter(t)

	_, env := doJSON(t, r, http.MethodPost, "/api/v1/users", gin.H{
		"name": "Claire", "email": "claire@example.org", "password": "pw",
	}, "")
	var claire struct {
		User  struct{ ID string }
		Token string
	}
	require.NoError(t, json.Unmarshal(env.Data, &claire))

	_, env = doJSON(t, r, http.MethodPost, "/api/v1/users", gin.H{
		"name": "Marc", "email": "marc@example.org", "password": "pw",
	}, "")
	var marc struct {
		User  struct{ ID string }
		Token string
	}
	require.NoError(t, json.Unmarshal(env.Data, &marc))

	w, _ := doJSON(t, r, http.MethodDelete, "/api/v1/users/"+claire.User.ID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/users/"+claire.User.ID, nil, marc.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/users/"+claire.User.ID, nil, claire.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedEndpoints(t *testing.T) {
	r, store := setupRouter(t)
	seedStoreUser(t, store, "u1", "Claire")

	for _, title := range []string{"a", "b", "c"} {
		w, _ := doJSON(t, r, http.MethodPost, "/api/v1/ideas", gin.H{
			"title": title, "creatorIds": []string{"u1"}, "location": "Lyon",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/feed/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct{ Ideas, Users int64 }
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(3), stats.Ideas)
	assert.Equal(t, int64(1), stats.Users)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/feed/weighted-random?limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 2)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/feed/neighbors-activity?location=Lyon", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 3)
}
