package app

import (
	"context"
	"log"
	"time"

	"cv-intake/internal/config"
	"cv-intake/internal/database"
	"cv-intake/internal/database/migration"
	dbpostgres "cv-intake/internal/database/postgres"
	"cv-intake/internal/infrastructure/cache"
	"cv-intake/internal/infrastructure/parser"
	"cv-intake/internal/infrastructure/storage"
	"cv-intake/internal/infrastructure/webhook"
)

type Container struct {
	Config   config.Config
	DB       database.DB
	Cache    *cache.Redis
	Uploader storage.Uploader
	Parser   parser.Gateway
	Notifier webhook.Notifier
	Logger   *log.Logger
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{Dir: cfg.Database.MigrationsDir}).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	uploader, err := storage.NewS3Uploader(ctx, cfg.Storage, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Container{
		Config:   cfg,
		DB:       db,
		Cache:    cache.NewRedis(logger),
		Uploader: uploader,
		Parser:   parser.NewGateway(cfg.Parser.BaseURL, logger),
		Notifier: webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Environment, logger),
		Logger:   logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
