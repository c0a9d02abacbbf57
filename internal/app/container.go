package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/hololive-wiki-scraper/internal/config"
	"github.com/kapu/hololive-wiki-scraper/internal/domain"
	"github.com/kapu/hololive-wiki-scraper/internal/scraper"
	"github.com/kapu/hololive-wiki-scraper/internal/service/cache"
	"github.com/kapu/hololive-wiki-scraper/internal/service/database"
	"github.com/kapu/hololive-wiki-scraper/internal/service/storage"
	"github.com/kapu/hololive-wiki-scraper/internal/service/wiki"
)

// Container bundles the assembled services of one scrape run.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Roster *domain.Roster
	Store  *storage.Store
	Runner *scraper.Runner

	closers []func()
}

// Close releases optional sinks in reverse order of creation.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles the wiki client, storage, outfit processor and optional
// redis/postgres sinks. Connections to enabled sinks are verified here so that
// Run only deals with scraping.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	roster, err := domain.LoadRoster(cfg.Roster.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	logger.Info("Roster loaded",
		zap.Int("groups", len(roster.Groups)),
		zap.Int("talents", roster.Len()),
		zap.Bool("embedded", cfg.Roster.File == ""),
	)

	client, err := wiki.NewClient(wiki.ClientConfig{
		BaseURL:   cfg.Wiki.BaseURL,
		UserAgent: cfg.Wiki.UserAgent,
		Timeout:   cfg.Wiki.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create wiki client: %w", err)
	}

	store := storage.NewStore(cfg.Output.Root, logger)
	outfits := wiki.NewOutfitProcessor(client, store, wiki.OutfitConfig{
		Strategy:   cfg.Wiki.TabberStrategy,
		RetryDelay: cfg.Wiki.RetryDelay,
	}, logger)

	var sinks []scraper.RecordSink

	if cfg.Redis.Enabled {
		cacheSvc, cacheErr := cache.NewCacheService(ctx, cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", cacheErr)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
		sinks = append(sinks, cache.NewRecordPublisher(cacheSvc, logger))
	}

	if cfg.Postgres.Enabled {
		postgresSvc, dbErr := database.NewPostgresService(ctx, database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if dbErr != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", dbErr)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})

		repo := database.NewTalentRepository(postgresSvc.GetDB(), logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure talent schema: %w", err)
		}
		sinks = append(sinks, repo)
	}

	runner, err := scraper.NewRunner(&scraper.Dependencies{
		Roster:  roster,
		Fetcher: client,
		Outfits: outfits,
		Store:   store,
		Sinks:   sinks,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Roster:  roster,
		Store:   store,
		Runner:  runner,
		closers: closers,
	}, nil
}
