package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/natefinch/atomic"

	"github.com/CTAG07/namechain/pkg/namegen"
	"github.com/CTAG07/namechain/pkg/store"
)

const (
	sourceDir    = "dir"
	sourceHTTP   = "http"
	sourceSQLite = "sqlite"
)

// ServerConfig holds the configuration for the HTTP server and page rendering.
type ServerConfig struct {
	ServerAddr  string `json:"server_addr" env:"NAMECHAIN_SERVER_ADDR"`
	LogLevel    string `json:"log_level" env:"NAMECHAIN_LOG_LEVEL"`
	TemplateDir string `json:"template_dir" env:"NAMECHAIN_TEMPLATE_DIR"`
	PageTitle   string `json:"page_title" env:"NAMECHAIN_PAGE_TITLE"`
}

// SourceConfig selects where transition tables are loaded from.
type SourceConfig struct {
	Type            string `json:"type" env:"NAMECHAIN_SOURCE"` // One of "dir", "http" or "sqlite"
	DataDir         string `json:"data_dir" env:"NAMECHAIN_DATA_DIR"`
	BaseURL         string `json:"base_url" env:"NAMECHAIN_BASE_URL"`
	DatabasePath    string `json:"database_path" env:"NAMECHAIN_DATABASE_PATH"`
	FetchTimeoutSec int    `json:"fetch_timeout_sec" env:"NAMECHAIN_FETCH_TIMEOUT_SEC"`
}

// GeneratorConfig holds the name generation settings.
type GeneratorConfig struct {
	NamesPerCategory int    `json:"names_per_category" env:"NAMECHAIN_NAMES_PER_CATEGORY"`
	MinLength        int    `json:"min_length" env:"NAMECHAIN_MIN_LENGTH"`
	MaxLength        int    `json:"max_length" env:"NAMECHAIN_MAX_LENGTH"`
	ResetCap         int    `json:"reset_cap" env:"NAMECHAIN_RESET_CAP"`
	Seed             uint64 `json:"seed" env:"NAMECHAIN_SEED"` // 0 draws from the global random source
}

// CategoryConfig describes one category of names and the file its table lives in.
type CategoryConfig struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	File  string `json:"file"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server     *ServerConfig    `json:"server_config"`
	Source     *SourceConfig    `json:"source_config"`
	Generator  *GeneratorConfig `json:"generator_config"`
	Categories []CategoryConfig `json:"categories"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	files := store.DefaultFileMap()
	return &Config{
		Server: &ServerConfig{
			ServerAddr:  ":7280",
			LogLevel:    "info",
			TemplateDir: "",
			PageTitle:   "Generated Names",
		},
		Source: &SourceConfig{
			Type:            sourceDir,
			DataDir:         "./name_data",
			BaseURL:         "",
			DatabasePath:    "./data/namechain.db",
			FetchTimeoutSec: 10,
		},
		Generator: &GeneratorConfig{
			NamesPerCategory: 10,
			MinLength:        namegen.DefaultMinLength,
			MaxLength:        namegen.DefaultMaxLength,
			ResetCap:         namegen.DefaultResetCap,
			Seed:             0,
		},
		Categories: []CategoryConfig{
			{Name: "female", Title: "Female", File: files["female"]},
			{Name: "male", Title: "Male", File: files["male"]},
			{Name: "combined", Title: "Both", File: files["combined"]},
		},
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values. Variables from
// a .env file and the environment are applied on top of the file.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var data []byte
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			// Log a warning instead of failing, as the program can still run with defaults.
			fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
		}
	} else if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// The .env file is optional
	_ = godotenv.Load()
	if err = env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the configuration can be used to build the application.
func (c *Config) Validate() error {
	if c.Server == nil || c.Source == nil || c.Generator == nil {
		return errors.New("invalid config: server_config, source_config and generator_config are required")
	}

	switch c.Source.Type {
	case sourceDir:
		if c.Source.DataDir == "" {
			return errors.New("invalid config: source type 'dir' requires data_dir")
		}
	case sourceHTTP:
		if c.Source.BaseURL == "" {
			return errors.New("invalid config: source type 'http' requires base_url")
		}
	case sourceSQLite:
		if c.Source.DatabasePath == "" {
			return errors.New("invalid config: source type 'sqlite' requires database_path")
		}
	default:
		return fmt.Errorf("invalid config: unknown source type '%s'", c.Source.Type)
	}

	if len(c.Categories) == 0 {
		return errors.New("invalid config: at least one category is required")
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for _, category := range c.Categories {
		if category.Name == "" {
			return errors.New("invalid config: category name must not be empty")
		}
		if _, ok := seen[category.Name]; ok {
			return fmt.Errorf("invalid config: duplicate category '%s'", category.Name)
		}
		seen[category.Name] = struct{}{}
		if c.Source.Type != sourceSQLite && category.File == "" {
			return fmt.Errorf("invalid config: category '%s' has no file", category.Name)
		}
	}

	if c.Generator.NamesPerCategory < 1 || c.Generator.NamesPerCategory > maxNamesPerRequest {
		return fmt.Errorf("invalid config: names_per_category must be between 1 and %d", maxNamesPerRequest)
	}
	return nil
}

// FileMap returns the category to file mapping described by the configuration.
func (c *Config) FileMap() store.FileMap {
	files := make(store.FileMap, len(c.Categories))
	for _, category := range c.Categories {
		files[category.Name] = category.File
	}
	return files
}

// CategoryNames returns the configured category names in order.
func (c *Config) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, category := range c.Categories {
		names = append(names, category.Name)
	}
	return names
}

// parseLogLevel maps a configured level name to a slog.Level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
