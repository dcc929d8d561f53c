package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/CTAG07/namechain/pkg/chain"
	"github.com/CTAG07/namechain/pkg/store"
	"github.com/stretchr/testify/require"
)

// testNames is the corpus the test tables are counted from.
var testNames = []string{"olivia", "emma", "amelia", "ava", "liam", "noah", "lucas", "levi"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testTable counts every n-gram -> next letter transition in testNames.
func testTable() chain.Table {
	table := make(chain.Table)
	for _, name := range testNames {
		for order := 1; order < len(name); order++ {
			for start := 0; start+order < len(name); start++ {
				key := name[start : start+order]
				vec := table[key]
				vec[chain.Index(name[start+order])]++
				table[key] = vec
			}
		}
	}
	return table
}

func tableJSON(t *testing.T, table chain.Table) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, table.WriteJSON(&buf))
	return buf.Bytes()
}

// testConfig returns the default configuration reading from dataDir.
func testConfig(dataDir string) *Config {
	config := DefaultConfig()
	config.Source.DataDir = dataDir
	config.Generator.NamesPerCategory = 4
	return config
}

// setupTestApp builds an App whose tables come from fsys, and loads them.
// Categories without a file in fsys end up unavailable.
func setupTestApp(t *testing.T, config *Config, fsys fstest.MapFS) *App {
	t.Helper()
	app, err := newApp(config, discardLogger(), store.NewFSFetcher(fsys, config.FileMap()))
	require.NoError(t, err)
	_ = app.Load(context.Background())
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// femaleOnlyFS holds a table for the female category only.
func femaleOnlyFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"female_2023_chains.json": {Data: tableJSON(t, testTable())},
	}
}

// allTablesFS holds a table for every default category.
func allTablesFS(t *testing.T) fstest.MapFS {
	data := tableJSON(t, testTable())
	fsys := fstest.MapFS{}
	for _, file := range store.DefaultFileMap() {
		fsys[file] = &fstest.MapFile{Data: data}
	}
	return fsys
}
