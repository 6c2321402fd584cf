package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ideosphere/ideosphere/internal/api/handler"
	"github.com/ideosphere/ideosphere/internal/api/middleware"
	"github.com/ideosphere/ideosphere/internal/config"
	"github.com/ideosphere/ideosphere/internal/model"
)

// NewRouter builds the gin engine with the full middleware chain and all
// routes mounted under /api/v1.
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidations()

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.RateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
		gzip.Gzip(gzip.DefaultCompression),
		otelgin.Middleware("ideosphere"),
		middleware.Auth(cfg.Auth.JWTSecret),
	)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/login", h.Login)
			users.POST("", h.CreateUser)
			users.GET("/:key", h.GetProfile)
			users.GET("/:key/content", h.GetUserContent)
			users.DELETE("/:key", middleware.RequireAuth(), h.DeleteUser)
		}

		ideas := v1.Group("/ideas")
		{
			ideas.POST("", h.CreateIdea)
			ideas.GET("/:key", h.GetIdea)
			ideas.GET("/:key/lineage", h.GetIdeaLineage)
			ideas.POST("/:key/rate", h.RateIdea)
			ideas.GET("/:key/discussions", h.ListIdeaDiscussions)
			ideas.POST("/:key/discussions", h.CreateIdeaDiscussion)
		}

		posts := v1.Group("/posts")
		{
			posts.POST("", h.CreatePost)
			posts.GET("/:key", h.GetPost)
			posts.GET("/:key/lineage", h.GetPostLineage)
			posts.POST("/:key/comments", h.AddComment)
			posts.POST("/:key/comments/:id/upvote", h.UpvoteComment)
			posts.POST("/:key/comments/:id/mark-as-answer", h.MarkAsAnswer)
		}

		v1.GET("/discussions/:key", h.GetDiscussion)

		v1.POST("/feedback", h.CreateFeedback)
		v1.DELETE("/feedback", h.DeleteFeedback)

		feed := v1.Group("/feed")
		{
			feed.GET("/stats", h.FeedStats)
			feed.GET("/weighted-random", h.WeightedRandomFeed)
			feed.GET("/neighbors-activity", h.NeighborsActivity)
		}
	}

	return r
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("topictype", func(fl validator.FieldLevel) bool {
			return model.ValidTopicType(fl.Field().String())
		})
	}
}
