package render

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLists = []List{
	{Category: "female", Title: "Female", Names: []string{"olivia", "emma"}},
	{Category: "male", Title: "Male", Names: []string{"liam"}},
	{Category: "combined", Title: "Both", Names: []string{"ezra"}},
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Olivia", Capitalize("olivia"))
	assert.Equal(t, "A", Capitalize("a"))
	assert.Equal(t, "", Capitalize(""))
}

func TestListID(t *testing.T) {
	assert.Equal(t, "female-names", ListID("female"))
	assert.Equal(t, "male-names", ListID("male"))
	assert.Equal(t, "both-names", ListID("combined"))
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(&buf, testLists))

	expected := "Female\n  Olivia\n  Emma\n\nMale\n  Liam\n\nBoth\n  Ezra\n"
	assert.Equal(t, expected, buf.String())
}

func TestTextRenderer_UntitledList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(&buf, []List{{Category: "female", Names: []string{"ava"}}}))
	assert.Equal(t, "female\n  Ava\n", buf.String())
}

func TestHTMLRenderer_DefaultPage(t *testing.T) {
	r, err := NewHTMLRenderer(discardLogger(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultPage}, r.TemplateNames())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testLists))
	out := buf.String()

	assert.Contains(t, out, `<ul id="female-names">`)
	assert.Contains(t, out, `<ul id="male-names">`)
	assert.Contains(t, out, `<ul id="both-names">`)
	assert.Contains(t, out, "<li>Olivia</li>")
	assert.Contains(t, out, "<li>Ezra</li>")
	assert.Contains(t, out, "<title>Generated Names</title>")
}

func TestHTMLRenderer_EscapesNames(t *testing.T) {
	r, err := NewHTMLRenderer(discardLogger(), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, []List{{Category: "female", Names: []string{"<b>x</b>"}}}))
	assert.NotContains(t, buf.String(), "<b>x</b>")
	assert.Contains(t, buf.String(), "&lt;b&gt;x&lt;/b&gt;")
}

func TestHTMLRenderer_TemplateDir(t *testing.T) {
	dir := t.TempDir()
	custom := `{{range .Lists}}{{.Category}}:{{range .Names}}{{capitalize .}},{{end}};{{end}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.tmpl.html"), []byte(custom), 0644))

	r, err := NewHTMLRenderer(discardLogger(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultPage, "plain.tmpl.html"}, r.TemplateNames())

	require.NoError(t, r.SetPage("plain.tmpl.html"))
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testLists))
	assert.Equal(t, "female:Olivia,Emma,;male:Liam,;combined:Ezra,;", buf.String())

	assert.ErrorIs(t, r.SetPage("nonexistent.tmpl.html"), ErrUnknownPage)
}

func TestHTMLRenderer_OverrideDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPage), []byte(`{{.Title}}`), 0644))

	r, err := NewHTMLRenderer(discardLogger(), dir)
	require.NoError(t, err)
	r.SetTitle("Names")

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testLists))
	assert.Equal(t, "Names", buf.String())
}

func TestHTMLRenderer_Refresh(t *testing.T) {
	dir := t.TempDir()
	r, err := NewHTMLRenderer(discardLogger(), dir)
	require.NoError(t, err)
	initialCount := len(r.TemplateNames())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.tmpl.html"), []byte(`New Content`), 0644))
	require.NoError(t, r.Refresh())
	assert.Len(t, r.TemplateNames(), initialCount+1)

	// A broken template is rejected and the previous set stays usable.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.tmpl.html"), []byte(`{{ .Unclosed`), 0644))
	err = r.Refresh()
	require.Error(t, err)
	assert.Len(t, r.TemplateNames(), initialCount+1)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testLists))
	assert.True(t, strings.Contains(buf.String(), "Olivia"))
}
