// Package app wires configuration into the search services shared by the
// interactive and headless entry points.
package app

import (
	"context"
	"fmt"
	"log"

	"blogsearch/internal/config"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/history"
	"blogsearch/internal/kvstore"
	"blogsearch/internal/search"
	"blogsearch/internal/source"
	"blogsearch/internal/watch"
)

// App holds the long-lived services built from a Config
type App struct {
	Config  *config.Config
	Bus     eventbus.EventBus
	Source  source.DocumentSource
	Engine  *search.Engine
	History *history.Store

	store   kvstore.Store
	watcher *watch.Watcher
}

// New builds the document source, engine and history store described by cfg.
// bus may be nil.
func New(ctx context.Context, cfg *config.Config, bus eventbus.EventBus) (*App, error) {
	if bus == nil {
		bus = eventbus.Null()
	}

	src, err := NewSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Search keeps working without persistence
	store, err := kvstore.Open(cfg.History.Backend, cfg.HistoryPath())
	if err != nil {
		log.Printf("Failed to open history store, keeping history in memory: %v", err)
		store = kvstore.NewMemoryStore()
	}

	return &App{
		Config:  cfg,
		Bus:     bus,
		Source:  src,
		Engine:  search.NewEngine(src, search.WithLimit(cfg.Search.Limit), search.WithBus(bus)),
		History: history.New(store, cfg.History.Key, bus),
		store:   store,
	}, nil
}

// NewSource returns the document source selected by cfg
func NewSource(ctx context.Context, cfg *config.Config) (source.DocumentSource, error) {
	switch cfg.Content.Source {
	case config.SourceS3:
		s3cfg := cfg.Content.S3
		client, err := source.NewS3Client(ctx, source.S3Options{
			Bucket:          s3cfg.Bucket,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return source.NewS3Source(client, s3cfg.Prefix), nil
	case config.SourceFS, "":
		return source.NewFileSource(cfg.Content.Dir), nil
	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.Content.Source)
	}
}

// StartWatcher invalidates the index when content files change. It is a
// no-op unless watching is enabled for a filesystem source.
func (a *App) StartWatcher(ctx context.Context) error {
	if !a.Config.Content.Watch || a.Config.Content.Source == config.SourceS3 {
		return nil
	}
	w, err := watch.New(a.Config.Content.Dir, a.Engine, a.Bus, watch.DefaultQuiet)
	if err != nil {
		return err
	}
	a.watcher = w
	go w.Run(ctx)
	log.Printf("Watching %s for content changes", a.Config.Content.Dir)
	return nil
}

// Close releases the watcher and the history store
func (a *App) Close() error {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("Failed to close watcher: %v", err)
		}
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close history store: %w", err)
	}
	return nil
}
