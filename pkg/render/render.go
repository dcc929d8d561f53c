package render

import (
	"fmt"
	"io"
	"strings"
)

// List is one category's batch of generated names.
type List struct {
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Names    []string `json:"names"`
}

// Renderer presents lists of names on some medium. Generated names are
// lowercase; capitalizing them for display is the Renderer's job.
type Renderer interface {
	Render(w io.Writer, lists []List) error
}

// Capitalize upper-cases the first letter of a generated name.
func Capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// ListID returns the element id used for a category's list in HTML output.
// The combined category keeps its historical "both-names" id.
func ListID(category string) string {
	if category == "combined" {
		return "both-names"
	}
	return category + "-names"
}

// TextRenderer writes lists as plain text, one heading per list followed by
// one name per line.
type TextRenderer struct{}

// Render writes every list to w.
func (TextRenderer) Render(w io.Writer, lists []List) error {
	for i, list := range lists {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		title := list.Title
		if title == "" {
			title = list.Category
		}
		if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
			return err
		}
		for _, name := range list.Names {
			if _, err := fmt.Fprintf(w, "  %s\n", Capitalize(name)); err != nil {
				return err
			}
		}
	}
	return nil
}
