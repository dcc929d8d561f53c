package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/CTAG07/namechain/pkg/chain"
	"github.com/CTAG07/namechain/pkg/store"
)

// maxNamesPerRequest bounds how many names one request may ask for.
const maxNamesPerRequest = 100

// NamesAPI holds the dependencies for the name generation and table handlers.
type NamesAPI struct {
	app    *App
	logger *slog.Logger
}

// NamesResponse is the response body of a name generation request.
type NamesResponse struct {
	Category string   `json:"category"`
	Names    []string `json:"names"`
}

// TableInfo describes one category's table for the table listing.
type TableInfo struct {
	Category string       `json:"category"`
	Title    string       `json:"title"`
	Status   string       `json:"status"`
	Stats    *chain.Stats `json:"stats,omitempty"`
}

// NewNamesAPI creates a new instance of the NamesAPI.
func NewNamesAPI(app *App, logger *slog.Logger) *NamesAPI {
	return &NamesAPI{
		app:    app,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for the name and table endpoints.
func (a *NamesAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/names", a.handleNames)
	mux.HandleFunc("/api/tables", a.handleTables)
	mux.HandleFunc("/api/tables/", a.handleTableByName)
}

// handleNames generates a batch of names for a single category.
func (a *NamesAPI) handleNames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()
	category := query.Get("category")
	if category == "" {
		respondWithError(w, http.StatusBadRequest, "Category not specified")
		return
	}

	count := a.app.config.Generator.NamesPerCategory
	if raw := query.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxNamesPerRequest {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("count must be an integer between 1 and %d", maxNamesPerRequest))
			return
		}
		count = n
	}

	table, ok := a.getTable(w, category)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, NamesResponse{
		Category: category,
		Names:    a.app.generator.Batch(table, count),
	})
}

// handleTables lists every configured category with the statistics of its table.
func (a *NamesAPI) handleTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	categories := a.app.store.Categories()
	infos := make([]TableInfo, 0, len(categories))
	for _, category := range categories {
		info := TableInfo{
			Category: category,
			Title:    a.app.config.categoryTitle(category),
			Status:   "ok",
		}
		table, err := a.app.store.Get(category)
		if err != nil {
			info.Status = "unavailable"
		} else {
			stats := chain.ComputeStats(table)
			info.Stats = &stats
		}
		infos = append(infos, info)
	}
	respondWithJSON(w, http.StatusOK, infos)
}

// handleTableByName exports one category's table as JSON.
func (a *NamesAPI) handleTableByName(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimPrefix(r.URL.Path, "/api/tables/")
	if category == "" || strings.Contains(category, "/") {
		respondWithError(w, http.StatusNotFound, "Table not found")
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	table, ok := a.getTable(w, category)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.json\"", category))
	if err := table.WriteJSON(w); err != nil {
		a.logger.Error("Failed to export table", "category", category, "error", err)
	}
}

// getTable looks up a category's table, writing the error response when there is none.
func (a *NamesAPI) getTable(w http.ResponseWriter, category string) (chain.Table, bool) {
	table, err := a.app.store.Get(category)
	switch {
	case err == nil:
		return table, true
	case errors.Is(err, store.ErrNotLoaded), errors.Is(err, store.ErrUnavailable):
		// Checked first, since the cause of an unavailable table may itself be ErrUnknownCategory.
		a.logger.Warn("Requested table is unavailable", "category", category, "error", err)
		respondWithError(w, http.StatusServiceUnavailable, fmt.Sprintf("Table for category '%s' is unavailable", category))
	case errors.Is(err, store.ErrUnknownCategory):
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Unknown category '%s'", category))
	default:
		a.logger.Error("Failed to get table", "category", category, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
	}
	return nil, false
}
