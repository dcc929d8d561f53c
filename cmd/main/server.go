package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
)

// Server serves the generated names page and the JSON API.
type Server struct {
	app       *App
	logger    *slog.Logger
	namesAPI  *NamesAPI
	serverAPI *ServerAPI
	mux       *http.ServeMux
}

// NewServer creates a Server for app and registers all routes.
func NewServer(app *App, logger *slog.Logger) *Server {
	server := &Server{
		app:       app,
		logger:    logger,
		namesAPI:  NewNamesAPI(app, logger),
		serverAPI: NewServerAPI(app, logger),
		mux:       http.NewServeMux(),
	}

	server.namesAPI.RegisterRoutes(server.mux)
	server.serverAPI.RegisterRoutes(server.mux)

	// The raw tables are published next to the page when they are read from disk.
	if app.config.Source.Type == sourceDir {
		dataFs := http.FileServer(http.Dir(app.config.Source.DataDir))
		server.mux.Handle("/name_data/", http.StripPrefix("/name_data/", dataFs))
	}

	server.mux.HandleFunc("/favicon.ico", handleFavicon)
	server.mux.HandleFunc("/", server.handleIndex)
	return server
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleIndex renders the page with a fresh batch of names for every category.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lists, err := s.app.Lists(s.app.config.Generator.NamesPerCategory)
	if err != nil {
		s.logger.Error("Failed to generate names", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err = s.app.html.Render(&buf, lists); err != nil {
		s.logger.Error("Failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.logger.Debug("Serving names page", "lists", len(lists), "remote_addr", r.RemoteAddr)

	setPageHeaders(w)
	_, _ = buf.WriteTo(w)
}

// setPageHeaders marks the page as uncacheable, since every request draws new names.
func setPageHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline';")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		err := json.NewEncoder(w).Encode(payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to encode JSON response: %v\n", err)
		}
	}
}
