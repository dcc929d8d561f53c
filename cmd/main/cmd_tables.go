package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CTAG07/namechain/pkg/chain"
)

var importReplace bool

// importCmd loads a JSON table into the SQLite store.
var importCmd = &cobra.Command{
	Use:   "import <category> <file.json>",
	Short: "Import a JSON table into the SQLite store",
	Long: `Import a transition table from a JSON file into the SQLite database named
by database_path. Weights are added to any the category already has,
unless --replace is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

// exportCmd writes a category's table as JSON.
var exportCmd = &cobra.Command{
	Use:   "export <category>",
	Short: "Write a category's table as JSON to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

// statsCmd prints statistics for every configured table.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print statistics for every table",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Remove the category's existing weights first")
}

func runImport(cmd *cobra.Command, args []string) error {
	category, path := args[0], args[1]

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open table file: %w", err)
	}
	defer func() { _ = file.Close() }()

	table, err := chain.ParseTable(file)
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", path, err)
	}

	db, fetcher, err := openSQLite(config.Source.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer func() {
		fetcher.Close()
		_ = db.Close()
	}()

	if importReplace {
		if err = fetcher.RemoveCategory(cmd.Context(), category); err != nil {
			return err
		}
	}
	if err = fetcher.ImportTable(cmd.Context(), category, table); err != nil {
		return err
	}

	stats := chain.ComputeStats(table)
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d n-grams into '%s'\n", stats.Keys, category)

	stored, err := fetcher.CategoryNames(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "database categories: %s\n", strings.Join(stored, ", "))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := NewApp(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() { _ = app.Close() }()

	// Only the requested table matters; failures of the others are logged by Load.
	_ = app.Load(cmd.Context())

	table, err := app.store.Get(args[0])
	if err != nil {
		return err
	}
	return table.WriteJSON(cmd.OutOrStdout())
}

func runStats(cmd *cobra.Command, _ []string) error {
	app, err := NewApp(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() { _ = app.Close() }()

	_ = app.Load(cmd.Context())

	infos := make([]TableInfo, 0, len(config.Categories))
	for _, category := range app.store.Categories() {
		info := TableInfo{Category: category, Title: config.categoryTitle(category), Status: "ok"}
		if table, err := app.store.Get(category); err != nil {
			info.Status = "unavailable"
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		} else {
			stats := chain.ComputeStats(table)
			info.Stats = &stats
		}
		infos = append(infos, info)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(infos)
}
