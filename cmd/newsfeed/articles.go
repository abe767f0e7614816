package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/newsfeed/internal/config"
	"github.com/abelbrown/newsfeed/internal/logging"
	"github.com/abelbrown/newsfeed/internal/otel"
	"github.com/abelbrown/newsfeed/internal/store"
)

// loadArticles reads the collection from Postgres when a DSN is configured,
// otherwise from SQLite, seeding an empty database with the mock collection.
func loadArticles(ctx context.Context, cfg *config.Config, events *otel.Logger) ([]store.Article, error) {
	start := time.Now()

	var (
		articles []store.Article
		backend  string
		err      error
	)
	if cfg.Store.PostgresDSN != "" {
		backend = "postgres"
		articles, err = loadPostgres(ctx, cfg.Store.PostgresDSN)
	} else {
		backend = "sqlite"
		articles, err = loadSQLite(cfg.Store.Path, events)
	}
	if err != nil {
		events.Error(otel.KindStoreError, "store", err)
		return nil, err
	}

	events.Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindStoreLoad,
		Comp:   "store",
		Source: backend,
		Count:  len(articles),
		Dur:    time.Since(start),
	})
	logging.Info("articles loaded", "backend", backend, "count", len(articles))
	return articles, nil
}

func loadPostgres(ctx context.Context, dsn string) ([]store.Article, error) {
	src, err := store.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.Articles()
}

func loadSQLite(path string, events *otel.Logger) ([]store.Article, error) {
	st, err := openStore(path, events)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	n, err := st.Count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		added, err := st.SaveArticles(store.Seed())
		if err != nil {
			return nil, fmt.Errorf("seed empty store: %w", err)
		}
		logging.Info("seeded empty store", "articles", added)
	}
	return st.Articles()
}

func openStore(path string, events *otel.Logger) (*store.Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStoreOpen, Comp: "store", Source: path})
	return st, nil
}
