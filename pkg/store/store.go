package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/CTAG07/namechain/pkg/chain"
)

var (
	// ErrUnknownCategory is returned by Get for a category the Store was not created with.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNotLoaded is returned by Get for a category that no Load has attempted yet.
	ErrNotLoaded = errors.New("table not loaded")
	// ErrUnavailable is returned by Get for a category whose last load failed.
	// The returned error also wraps the cause of the failure.
	ErrUnavailable = errors.New("table unavailable")
)

// Fetcher retrieves the transition table for a category from wherever tables are kept.
type Fetcher interface {
	Fetch(ctx context.Context, category string) (chain.Table, error)
}

// entry holds the state of a single category.
type entry struct {
	table chain.Table
	err   error
}

// Store holds one transition table per category. Tables are fetched by Load and
// cached for the lifetime of the Store; a loaded table is never fetched again or
// replaced. All methods are concurrent-safe.
type Store struct {
	fetcher    Fetcher
	categories []string
	entries    map[string]*entry
	logger     *slog.Logger
	mu         sync.RWMutex
}

// New creates a Store for the given categories, whose tables will be retrieved
// with fetcher. Nothing is fetched until Load is called.
func New(fetcher Fetcher, categories ...string) *Store {
	entries := make(map[string]*entry, len(categories))
	ordered := make([]string, 0, len(categories))
	for _, c := range categories {
		if _, ok := entries[c]; ok {
			continue
		}
		entries[c] = nil
		ordered = append(ordered, c)
	}
	return &Store{
		fetcher:    fetcher,
		categories: ordered,
		entries:    entries,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Load fetches, one after another, the table of every category that is not
// loaded yet. Categories that loaded successfully on an earlier call are
// skipped, and categories that failed are tried again. The returned error joins
// the failure of each category that could not be loaded.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, category := range s.categories {
		if e := s.entries[category]; e != nil && e.err == nil {
			continue
		}

		table, err := s.fetcher.Fetch(ctx, category)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to load table",
				slog.String("category", category),
				slog.Any("error", err),
			)
			s.entries[category] = &entry{err: err}
			errs = append(errs, fmt.Errorf("category '%s': %w", category, err))
			continue
		}

		s.entries[category] = &entry{table: table}
		s.logger.InfoContext(ctx, "Table loaded",
			slog.String("category", category),
			slog.Int("keys", len(table)),
		)
	}
	return errors.Join(errs...)
}

// Get returns the loaded table for category. Callers must treat any error as a
// reason to skip generation for that category.
func (s *Store) Get(category string) (chain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[category]
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownCategory, category)
	case e == nil:
		return nil, fmt.Errorf("%w: '%s'", ErrNotLoaded, category)
	case e.err != nil:
		return nil, fmt.Errorf("%w: '%s': %w", ErrUnavailable, category, e.err)
	}
	return e.table, nil
}

// Loaded reports whether every category has a loaded table.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e == nil || e.err != nil {
			return false
		}
	}
	return true
}

// Categories returns the categories of the Store in the order they were given.
func (s *Store) Categories() []string {
	return append([]string(nil), s.categories...)
}
