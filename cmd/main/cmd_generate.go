package main

import (
	"bytes"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/CTAG07/namechain/pkg/render"
)

var (
	generateCount      int
	generateCategories []string
	generateHTML       string
	generateSeed       uint64
	generateStream     bool
)

// generateCmd prints generated names or writes them to an HTML page.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate names for one or more categories",
	Long: `Generate a batch of names for each category and print them, or write them
to an HTML page with --html.

Examples:
  namechain generate
  namechain generate --count 5 --category female
  namechain generate --html names.html --seed 42
  namechain generate --stream --category male`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 0, "Names per category (default from config)")
	generateCmd.Flags().StringSliceVarP(&generateCategories, "category", "c", nil, "Category to generate (repeatable, default all)")
	generateCmd.Flags().StringVar(&generateHTML, "html", "", "Write an HTML page to this file instead of printing")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "Seed for reproducible output (overrides config)")
	generateCmd.Flags().BoolVar(&generateStream, "stream", false, "Print names of one category until interrupted, or --count names")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("seed") {
		config.Generator.Seed = generateSeed
	}
	count := config.Generator.NamesPerCategory
	if generateStream && !cmd.Flags().Changed("count") {
		count = 0
	} else if cmd.Flags().Changed("count") {
		if generateCount < 1 || generateCount > maxNamesPerRequest {
			return fmt.Errorf("count must be between 1 and %d", maxNamesPerRequest)
		}
		count = generateCount
	}

	app, err := NewApp(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() { _ = app.Close() }()

	if err = app.Load(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	if generateStream {
		return streamNames(cmd, app, count)
	}

	lists, err := app.Lists(count, generateCategories...)
	if err != nil {
		return err
	}
	if len(lists) == 0 {
		return errors.New("no name tables are available")
	}

	if generateHTML == "" {
		return render.TextRenderer{}.Render(cmd.OutOrStdout(), lists)
	}

	var buf bytes.Buffer
	if err = app.html.Render(&buf, lists); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	if err = atomic.WriteFile(generateHTML, &buf); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	logger.Info("Wrote names page", "path", generateHTML, "lists", len(lists))
	return nil
}

// streamNames prints names of the first selected category one per line. A count of
// zero streams until the command is interrupted.
func streamNames(cmd *cobra.Command, app *App, count int) error {
	category := config.Categories[0].Name
	if len(generateCategories) > 0 {
		category = generateCategories[0]
	}
	table, err := app.store.Get(category)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	for name := range app.generator.GenerateStream(ctx, table, count) {
		if _, err = fmt.Fprintln(out, render.Capitalize(name)); err != nil {
			return err
		}
	}
	return nil
}
