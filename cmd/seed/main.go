package main

import (
	"context"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ideosphere/ideosphere/internal/config"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/repository"
	"github.com/ideosphere/ideosphere/pkg/logger"
)

// Seeds the demo dataset into the configured database. Useful for local
// development against sqlite or postgres; standalone mode seeds the
// in-memory store by itself and does not need this.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	var db *gorm.DB
	switch cfg.Store.Driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.Store.DSN), &gorm.Config{})
	default:
		db, err = gorm.Open(sqlite.Open(cfg.Store.DSN), &gorm.Config{})
	}
	if err != nil {
		logger.Error("open db", zap.Error(err))
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Idea{}, &model.IdeaCreator{}, &model.RatingCriterion{}, &model.Rating{},
		&model.Post{}, &model.PostReply{},
		&model.Feedback{}, &model.LineageEdge{},
	); err != nil {
		logger.Error("migrate", zap.Error(err))
		os.Exit(1)
	}

	err = repository.SeedDemo(context.Background(),
		repository.NewUserRepository(db),
		repository.NewIdeaRepository(db),
		repository.NewPostRepository(db),
		repository.NewFeedbackRepository(db),
		repository.NewLineageRepository(db),
	)
	if err != nil {
		logger.Error("seed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("demo dataset seeded", zap.String("driver", cfg.Store.Driver), zap.String("dsn", cfg.Store.DSN))
}
