package store

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/CTAG07/namechain/pkg/chain"
)

// FileMap maps a category to the name of the file its table is stored in.
type FileMap map[string]string

// DefaultFileMap returns the file names the table generator writes for the
// female, male and combined name lists.
func DefaultFileMap() FileMap {
	return FileMap{
		"female":   "female_2023_chains.json",
		"male":     "male_2023_chains.json",
		"combined": "combined_2023_chains.json",
	}
}

func (m FileMap) file(category string) (string, error) {
	name, ok := m[category]
	if !ok || name == "" {
		return "", fmt.Errorf("%w: no file configured for '%s'", ErrUnknownCategory, category)
	}
	return name, nil
}

// HTTPFetcher retrieves tables as static JSON documents served over HTTP.
type HTTPFetcher struct {
	BaseURL string
	Files   FileMap
	Client  *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher requesting <baseURL>/<file> for each category.
func NewHTTPFetcher(baseURL string, files FileMap) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		Files:   files,
		Client:  http.DefaultClient,
	}
}

// Fetch requests the category's document and parses it. A non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, category string) (chain.Table, error) {
	name, err := f.Files.file(category)
	if err != nil {
		return nil, err
	}
	target, err := url.JoinPath(f.BaseURL, name)
	if err != nil {
		return nil, fmt.Errorf("invalid table url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request for '%s': %w", target, err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request for '%s' failed: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request for '%s' failed: HTTP status %d", target, resp.StatusCode)
	}

	table, err := chain.ParseTable(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not parse '%s': %w", target, err)
	}
	return table, nil
}

// FSFetcher retrieves tables from JSON files in a file system, such as os.DirFS(dataDir).
type FSFetcher struct {
	FS    fs.FS
	Files FileMap
}

// NewFSFetcher creates an FSFetcher reading each category's file from fsys.
func NewFSFetcher(fsys fs.FS, files FileMap) *FSFetcher {
	return &FSFetcher{FS: fsys, Files: files}
}

// Fetch opens and parses the category's file.
func (f *FSFetcher) Fetch(_ context.Context, category string) (chain.Table, error) {
	name, err := f.Files.file(category)
	if err != nil {
		return nil, err
	}
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open '%s': %w", name, err)
	}
	defer func(file fs.File) {
		_ = file.Close()
	}(file)

	table, err := chain.ParseTable(file)
	if err != nil {
		return nil, fmt.Errorf("could not parse '%s': %w", name, err)
	}
	return table, nil
}
