package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CTAG07/namechain/pkg/chain"
)

// SetupSchema initializes the tables used by SQLiteFetcher in the provided
// database. It is idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaCategories = `
CREATE TABLE IF NOT EXISTS chain_categories (
    category_id INTEGER PRIMARY KEY,
    category_name TEXT NOT NULL UNIQUE
);
`
		schemaWeights = `
CREATE TABLE IF NOT EXISTS chain_weights (
    category_id INTEGER NOT NULL,
    ngram TEXT NOT NULL,
    letter INTEGER NOT NULL,
    weight INTEGER NOT NULL,
    PRIMARY KEY (category_id, ngram, letter)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaCategories); err != nil {
		return fmt.Errorf("could not create categories schema: %w", err)
	}

	if _, err = tx.Exec(schemaWeights); err != nil {
		return fmt.Errorf("could not create weights schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// SQLiteFetcher reads transition tables from a SQLite database. Only non-zero
// weights are stored, one row per (n-gram, letter) pair.
type SQLiteFetcher struct {
	db                 *sql.DB
	stmtGetCategoryID  *sql.Stmt
	stmtGetCategories  *sql.Stmt
	stmtGetWeights     *sql.Stmt
	stmtGetOrInsertCat *sql.Stmt
	stmtRemoveWeights  *sql.Stmt
	stmtRemoveCategory *sql.Stmt
	logger             *slog.Logger
}

// NewSQLiteFetcher creates a SQLiteFetcher over db, whose schema must already be
// set up with SetupSchema. It pre-compiles all necessary SQL statements.
func NewSQLiteFetcher(db *sql.DB) (*SQLiteFetcher, error) {
	stmtGetCategoryID, err := db.Prepare(`SELECT category_id FROM chain_categories WHERE category_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetCategories, err := db.Prepare(`SELECT category_name FROM chain_categories ORDER BY category_name;`)
	if err != nil {
		return nil, err
	}

	stmtGetWeights, err := db.Prepare(`SELECT ngram, letter, weight FROM chain_weights WHERE category_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetOrInsertCat, err := db.Prepare(`INSERT INTO chain_categories (category_name) VALUES (?) ON CONFLICT(category_name) DO UPDATE SET category_name=excluded.category_name RETURNING category_id;`)
	if err != nil {
		return nil, err
	}

	stmtRemoveWeights, err := db.Prepare(`DELETE FROM chain_weights WHERE category_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtRemoveCategory, err := db.Prepare(`DELETE FROM chain_categories WHERE category_id = ?;`)
	if err != nil {
		return nil, err
	}

	return &SQLiteFetcher{
		db:                 db,
		stmtGetCategoryID:  stmtGetCategoryID,
		stmtGetCategories:  stmtGetCategories,
		stmtGetWeights:     stmtGetWeights,
		stmtGetOrInsertCat: stmtGetOrInsertCat,
		stmtRemoveWeights:  stmtRemoveWeights,
		stmtRemoveCategory: stmtRemoveCategory,
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the SQLiteFetcher.
func (f *SQLiteFetcher) Close() {
	_ = f.stmtGetCategoryID.Close()
	_ = f.stmtGetCategories.Close()
	_ = f.stmtGetWeights.Close()
	_ = f.stmtGetOrInsertCat.Close()
	_ = f.stmtRemoveWeights.Close()
	_ = f.stmtRemoveCategory.Close()
}

// SetLogger sets the logger for the SQLiteFetcher. By default, all logs are discarded.
func (f *SQLiteFetcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// Fetch rebuilds the category's table from its stored weights. A category that
// has never been imported yields an error wrapping ErrUnknownCategory.
func (f *SQLiteFetcher) Fetch(ctx context.Context, category string) (chain.Table, error) {
	var categoryID int
	err := f.stmtGetCategoryID.QueryRowContext(ctx, category).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: '%s' not found in database", ErrUnknownCategory, category)
		}
		return nil, fmt.Errorf("could not get category ID for '%s': %w", category, err)
	}

	rows, err := f.stmtGetWeights.QueryContext(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	table := make(chain.Table)
	for rows.Next() {
		var ngram string
		var letter, weight int
		if err = rows.Scan(&ngram, &letter, &weight); err != nil {
			return nil, err
		}
		if letter < 0 || letter >= chain.AlphabetSize {
			return nil, fmt.Errorf("%w: key %q has letter index %d", chain.ErrMalformedTable, ngram, letter)
		}
		vec := table[ngram]
		vec[letter] = weight
		table[ngram] = vec
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if err = table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// ImportTable merges table into the stored table of category, creating the
// category if it does not exist. Weights of n-grams already present are added
// together. The entire operation is transactional.
func (f *SQLiteFetcher) ImportTable(ctx context.Context, category string, table chain.Table) error {
	if err := table.Validate(); err != nil {
		return err
	}

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for import: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var categoryID int
	if err = tx.StmtContext(ctx, f.stmtGetOrInsertCat).QueryRowContext(ctx, category).Scan(&categoryID); err != nil {
		return fmt.Errorf("failed to get/insert category '%s': %w", category, err)
	}

	// Prepare a special query so that merging into an existing category adds to the weights instead of overwriting them
	stmtInsertWeight, err := tx.PrepareContext(ctx, `
		INSERT INTO chain_weights (category_id, ngram, letter, weight) VALUES (?, ?, ?, ?)
		ON CONFLICT(category_id, ngram, letter) DO UPDATE SET weight = weight + excluded.weight;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare weight insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtInsertWeight)

	var weightsInserted int
	for _, ngram := range table.Keys() {
		for letter, weight := range table[ngram] {
			if weight == 0 {
				continue
			}
			if _, err = stmtInsertWeight.ExecContext(ctx, categoryID, ngram, letter, weight); err != nil {
				return fmt.Errorf("failed to insert weight (%s -> %c): %w", ngram, chain.Letter(letter), err)
			}
			weightsInserted++
		}
	}

	f.logger.InfoContext(ctx, "Table imported successfully",
		slog.String("category", category),
		slog.Int("category_id", categoryID),
		slog.Int("ngrams_merged", len(table)),
		slog.Int("weights_merged", weightsInserted),
	)

	return tx.Commit()
}

// RemoveCategory deletes a category and all of its weights. Removing a category
// that does not exist is not an error.
func (f *SQLiteFetcher) RemoveCategory(ctx context.Context, category string) error {
	var categoryID int
	err := f.stmtGetCategoryID.QueryRowContext(ctx, category).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.StmtContext(ctx, f.stmtRemoveWeights).ExecContext(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to remove weights for category %d: %w", categoryID, err)
	}
	if _, err = tx.StmtContext(ctx, f.stmtRemoveCategory).ExecContext(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to remove category %d: %w", categoryID, err)
	}

	f.logger.InfoContext(ctx, "Category removed successfully",
		slog.String("category", category),
		slog.Int("category_id", categoryID),
	)

	return tx.Commit()
}

// CategoryNames returns the names of every category in the database, sorted.
func (f *SQLiteFetcher) CategoryNames(ctx context.Context) ([]string, error) {
	rows, err := f.stmtGetCategories.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
