package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ideosphere/ideosphere/internal/api"
	"github.com/ideosphere/ideosphere/internal/api/handler"
	"github.com/ideosphere/ideosphere/internal/cache"
	"github.com/ideosphere/ideosphere/internal/config"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/repository"
	"github.com/ideosphere/ideosphere/internal/repository/memstore"
	"github.com/ideosphere/ideosphere/internal/service"
	"github.com/ideosphere/ideosphere/pkg/logger"
	"github.com/ideosphere/ideosphere/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(ctx, "ideosphere", cfg.Tracing.Endpoint)
	if err != nil {
		logger.Warn("tracing init failed", zap.Error(err))
	} else {
		defer func() { _ = shutdownTracing(ctx) }()
	}

	repos, err := buildRepos(ctx, cfg)
	if err != nil {
		logger.Error("store init failed", zap.Error(err))
		os.Exit(1)
	}

	smartCache := buildCache(cfg)
	defer smartCache.Close()

	h := handler.NewHandler(
		service.NewContentService(repos, smartCache),
		service.NewInteractionService(repos, smartCache),
		service.NewLineageService(repos, smartCache),
		service.NewFeedService(repos, smartCache, rand.New(rand.NewSource(time.Now().UnixNano()))),
		service.NewUserService(repos, smartCache, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewRouter(cfg, h),
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// buildRepos picks the storage adapter: the in-memory store for standalone
// mode, gorm over sqlite or postgres otherwise.
func buildRepos(ctx context.Context, cfg *config.Config) (service.Repos, error) {
	if cfg.Store.Driver == "memory" || cfg.Store.Standalone {
		store := memstore.New()
		if cfg.Store.Standalone {
			if err := store.Seed(ctx); err != nil {
				return service.Repos{}, err
			}
			logger.Info("standalone mode: demo dataset loaded")
		}
		return service.Repos{
			Users:    store.Users(),
			Ideas:    store.Ideas(),
			Posts:    store.Posts(),
			Feedback: store.Feedback(),
			Lineage:  store.Lineage(),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return service.Repos{}, err
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Idea{}, &model.IdeaCreator{}, &model.RatingCriterion{}, &model.Rating{},
		&model.Post{}, &model.PostReply{},
		&model.Feedback{}, &model.LineageEdge{},
	); err != nil {
		return service.Repos{}, err
	}
	return service.Repos{
		Users:    repository.NewUserRepository(db),
		Ideas:    repository.NewIdeaRepository(db),
		Posts:    repository.NewPostRepository(db),
		Feedback: repository.NewFeedbackRepository(db),
		Lineage:  repository.NewLineageRepository(db),
	}, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.Store.DSN), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(cfg.Store.DSN), &gorm.Config{})
	}
}

func buildCache(cfg *config.Config) *cache.SmartCache {
	if cfg.Cache.Backend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		return cache.New(cache.NewRedisBackend(client))
	}
	return cache.New(cache.NewMemoryBackend(cfg.Cache.SweepInterval))
}
