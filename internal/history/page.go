// Package history builds the played-tracks page. The page is a thin shell
// around the station's third-party widget; all content comes from the widget
// script at view time.
package history

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"path/filepath"

	"fyne.io/fyne/v2/storage"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	"github.com/ytget/harmonic-vibes/internal/platform"
	"github.com/ytget/harmonic-vibes/internal/station"
)

// FileName is the name of the rendered page in the cache directory
const FileName = "history.html"

const mediaTypeHTML = "text/html"

//go:embed page.gohtml
var pageSource string

var pageTemplate = template.Must(template.New("history").Parse(pageSource))

// Page renders the widget shell for one station
type Page struct {
	Title     string
	WidgetID  string
	ScriptURL string
	Count     int
	Date      int
	Buy       int
}

// NewPage creates a page from the station's history widget settings
func NewPage(title string, h station.History) *Page {
	return &Page{
		Title:     title,
		WidgetID:  h.WidgetID,
		ScriptURL: h.ScriptURL,
		Count:     h.Count,
		Date:      h.Date,
		Buy:       h.Buy,
	}
}

// Render returns the minified HTML document. If minification fails the
// unminified document is returned.
func (p *Page) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render history page: %w", err)
	}

	m := minify.New()
	m.AddFunc(mediaTypeHTML, html.Minify)

	out, err := m.Bytes(mediaTypeHTML, buf.Bytes())
	if err != nil {
		log.Warn().Err(err).Msg("history page minify failed, using original")
		return buf.Bytes(), nil
	}
	return out, nil
}

// Write renders the page into dir and returns its file URI
func (p *Page) Write(dir string) (string, error) {
	data, err := p.Render()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	if err := platform.ReplaceFile(path, data); err != nil {
		return "", fmt.Errorf("write history page: %w", err)
	}
	return storage.NewFileURI(path).String(), nil
}
