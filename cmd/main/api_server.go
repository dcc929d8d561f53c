package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/CTAG07/namechain/pkg/store"
)

// ServerAPI holds the dependencies for the health, version and template handlers.
type ServerAPI struct {
	app    *App
	logger *slog.Logger
}

// VersionInfo defines the structure for build/version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// CategoryHealth reports whether a category's table can be used.
type CategoryHealth struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthInfo is the response body of the health check.
type HealthInfo struct {
	Status     string           `json:"status"`
	Categories []CategoryHealth `json:"categories"`
}

// NewServerAPI creates a new instance of the ServerAPI.
func NewServerAPI(app *App, logger *slog.Logger) *ServerAPI {
	return &ServerAPI{
		app:    app,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for the server endpoints.
func (a *ServerAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", a.handleHealthCheck)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/templates", a.handleTemplates)
	mux.HandleFunc("/api/templates/refresh", a.handleRefreshTemplates)
}

// handleHealthCheck reports "ok" when every table is loaded, "degraded" when only
// some are and "unavailable" when none are. Only the last answers with a 503.
func (a *ServerAPI) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	info := HealthInfo{Categories: []CategoryHealth{}}
	ready := 0
	for _, category := range a.app.store.Categories() {
		health := CategoryHealth{Name: category, Status: "ok"}
		if _, err := a.app.store.Get(category); err != nil {
			health.Status = "unavailable"
			if errors.Is(err, store.ErrNotLoaded) {
				health.Status = "not_loaded"
			}
			health.Error = err.Error()
		} else {
			ready++
		}
		info.Categories = append(info.Categories, health)
	}

	code := http.StatusOK
	switch {
	case ready == len(info.Categories):
		info.Status = "ok"
	case ready > 0:
		info.Status = "degraded"
	default:
		info.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, info)
}

// handleVersion returns the application's build information.
func (a *ServerAPI) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	info := VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
	}
	respondWithJSON(w, http.StatusOK, info)
}

// handleTemplates lists the loaded page templates.
func (a *ServerAPI) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, a.app.html.TemplateNames())
}

// handleRefreshTemplates reloads the page templates from disk.
func (a *ServerAPI) handleRefreshTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if err := a.app.html.Refresh(); err != nil {
		a.logger.Error("Failed to refresh templates", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to refresh templates: "+err.Error())
		return
	}
	a.logger.Info("Page templates refreshed via API")
	respondWithJSON(w, http.StatusOK, a.app.html.TemplateNames())
}
