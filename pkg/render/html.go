package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultPage is the name of the built-in page template.
const DefaultPage = "page.tmpl.html"

//go:embed templates/*.tmpl.html
var defaultTemplates embed.FS

// ErrUnknownPage is returned by SetPage for a template that is not loaded.
var ErrUnknownPage = errors.New("unknown page template")

// pageData is the value page templates are executed with.
type pageData struct {
	Title string
	Lists []List
}

// HTMLRenderer renders lists of names into an HTML page using html/template.
// It starts from the built-in page and, when given a template directory, adds or
// overrides templates with every *.tmpl.html file found there. Templates can be
// reloaded from disk with Refresh. All methods are concurrent-safe.
type HTMLRenderer struct {
	logger        *slog.Logger
	templates     *template.Template
	templateNames []string
	templateDir   string
	page          string
	title         string
	funcMap       template.FuncMap
	mu            sync.RWMutex
}

// NewHTMLRenderer creates, initializes, and returns a new HTMLRenderer. templateDir
// may be empty to use only the built-in page. It performs an initial Refresh.
func NewHTMLRenderer(logger *slog.Logger, templateDir string) (*HTMLRenderer, error) {
	r := &HTMLRenderer{
		logger:      logger,
		templateDir: templateDir,
		page:        DefaultPage,
		title:       "Generated Names",
	}
	r.funcMap = template.FuncMap{
		"capitalize": Capitalize,
		"listID":     ListID,
	}

	if err := r.Refresh(); err != nil {
		return nil, err
	}
	return r, nil
}

// Refresh reloads the built-in page and every template in the template directory.
// On error the previously loaded templates stay in use.
func (r *HTMLRenderer) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	parsed, err := template.New("").Funcs(r.funcMap).ParseFS(defaultTemplates, "templates/*.tmpl.html")
	if err != nil {
		return fmt.Errorf("failed to parse built-in templates: %w", err)
	}

	if r.templateDir != "" {
		filePattern := filepath.Join(r.templateDir, "*.tmpl.html")
		r.logger.Info("Loading template files...", "pattern", filePattern)

		var withFiles *template.Template
		withFiles, err = parsed.ParseGlob(filePattern)
		if err != nil {
			if !strings.Contains(err.Error(), "pattern matches no files") {
				r.logger.Error("failed to parse template files", "error", err)
				return err
			}
			r.logger.Warn("No template files found matching pattern", "pattern", filePattern)
		} else {
			parsed = withFiles
		}
	}

	var names []string
	for _, t := range parsed.Templates() {
		// The root template has no name and is never executed directly
		if strings.HasSuffix(t.Name(), ".tmpl.html") {
			names = append(names, t.Name())
		}
	}
	sort.Strings(names)

	r.templates = parsed
	r.templateNames = names
	r.logger.Info("Loaded page templates", "count", len(names))
	return nil
}

// SetPage selects the template Render executes.
func (r *HTMLRenderer) SetPage(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.templates.Lookup(name) == nil {
		return fmt.Errorf("%w: '%s'", ErrUnknownPage, name)
	}
	r.page = name
	return nil
}

// SetTitle sets the page title passed to templates.
func (r *HTMLRenderer) SetTitle(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.title = title
}

// TemplateNames returns the names of the loaded page templates.
func (r *HTMLRenderer) TemplateNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.templateNames...)
}

// Render executes the selected page template with lists, writing the page to w.
func (r *HTMLRenderer) Render(w io.Writer, lists []List) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates.ExecuteTemplate(w, r.page, pageData{Title: r.title, Lists: lists})
}
