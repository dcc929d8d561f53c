package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/CTAG07/namechain/pkg/namegen"
	"github.com/CTAG07/namechain/pkg/render"
	"github.com/CTAG07/namechain/pkg/store"
)

// App ties the table store, the generator and the renderers together for both
// the CLI commands and the HTTP server.
type App struct {
	config    *Config
	logger    *slog.Logger
	store     *store.Store
	generator *namegen.Generator
	html      *render.HTMLRenderer
	db        *sql.DB
	sqlite    *store.SQLiteFetcher
}

// lockedSource guards a seeded *rand.Rand, which is not safe for concurrent use.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// NewApp builds the application from config, creating the fetcher selected by
// the source type. Tables are not fetched until Load is called.
func NewApp(config *Config, logger *slog.Logger) (*App, error) {
	var (
		fetcher store.Fetcher
		db      *sql.DB
		sqlite  *store.SQLiteFetcher
		err     error
	)

	switch config.Source.Type {
	case sourceDir:
		fetcher = store.NewFSFetcher(os.DirFS(config.Source.DataDir), config.FileMap())
	case sourceHTTP:
		httpFetcher := store.NewHTTPFetcher(config.Source.BaseURL, config.FileMap())
		httpFetcher.Client = &http.Client{Timeout: config.fetchTimeout()}
		fetcher = httpFetcher
	case sourceSQLite:
		db, sqlite, err = openSQLite(config.Source.DatabasePath, logger)
		if err != nil {
			return nil, err
		}
		fetcher = sqlite
	default:
		return nil, fmt.Errorf("unknown source type '%s'", config.Source.Type)
	}

	app, err := newApp(config, logger, fetcher)
	if err != nil {
		if sqlite != nil {
			sqlite.Close()
			_ = db.Close()
		}
		return nil, err
	}
	app.db = db
	app.sqlite = sqlite
	return app, nil
}

// newApp builds the application over an already constructed fetcher.
func newApp(config *Config, logger *slog.Logger, fetcher store.Fetcher) (*App, error) {
	opts := []namegen.Option{
		namegen.WithLengthRange(config.Generator.MinLength, config.Generator.MaxLength),
		namegen.WithResetCap(config.Generator.ResetCap),
	}
	if config.Generator.Seed != 0 {
		seed := config.Generator.Seed
		opts = append(opts, namegen.WithSource(&lockedSource{r: rand.New(rand.NewPCG(seed, seed))}))
	}
	generator, err := namegen.NewGenerator(opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating name generator: %w", err)
	}
	generator.SetLogger(logger)

	html, err := render.NewHTMLRenderer(logger, config.Server.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create html renderer: %w", err)
	}
	if config.Server.PageTitle != "" {
		html.SetTitle(config.Server.PageTitle)
	}

	tables := store.New(fetcher, config.CategoryNames()...)
	tables.SetLogger(logger)

	return &App{
		config:    config,
		logger:    logger,
		store:     tables,
		generator: generator,
		html:      html,
	}, nil
}

// openSQLite opens the database at path, creating its directory and schema as needed.
func openSQLite(path string, logger *slog.Logger) (*sql.DB, *store.SQLiteFetcher, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := initDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = store.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to set up database schema: %w", err)
	}

	fetcher, err := store.NewSQLiteFetcher(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare database statements: %w", err)
	}
	fetcher.SetLogger(logger)
	return db, fetcher, nil
}

// Load fetches every configured category's table. Failed categories are logged
// and left unavailable; the returned error joins their causes.
func (a *App) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.fetchTimeout())
	defer cancel()

	start := time.Now()
	err := a.store.Load(ctx)
	if err != nil {
		a.logger.Warn("Some name tables could not be loaded", "error", err)
	}
	a.logger.Info("Name tables loaded",
		"categories", len(a.store.Categories()),
		"complete", a.store.Loaded(),
		"duration", time.Since(start))
	return err
}

// Lists generates n names for each of the given categories, or for every configured
// category when none are given. Categories whose table is unavailable are skipped
// with a warning; an unknown category is an error.
func (a *App) Lists(n int, categories ...string) ([]render.List, error) {
	if len(categories) == 0 {
		categories = a.config.CategoryNames()
	}

	lists := make([]render.List, 0, len(categories))
	for _, category := range categories {
		table, err := a.store.Get(category)
		if err != nil {
			if errors.Is(err, store.ErrUnknownCategory) && !errors.Is(err, store.ErrUnavailable) {
				return nil, err
			}
			a.logger.Warn("Skipping category without a table", "category", category, "error", err)
			continue
		}
		lists = append(lists, render.List{
			Category: category,
			Title:    a.config.categoryTitle(category),
			Names:    a.generator.Batch(table, n),
		})
	}
	return lists, nil
}

// Close releases the database, if one is open.
func (a *App) Close() error {
	if a.sqlite == nil {
		return nil
	}
	a.sqlite.Close()
	return a.db.Close()
}

func (c *Config) fetchTimeout() time.Duration {
	if c.Source.FetchTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Source.FetchTimeoutSec) * time.Second
}

func (c *Config) categoryTitle(name string) string {
	for _, category := range c.Categories {
		if category.Name == name && category.Title != "" {
			return category.Title
		}
	}
	return render.Capitalize(name)
}
