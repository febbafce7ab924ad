package ui

import (
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/ytget/harmonic-vibes/internal/history"
)

// HistoryScreen hands the played-tracks widget page to the system browser
type HistoryScreen struct {
	page         *history.Page
	cacheDir     string
	app          fyne.App
	window       fyne.Window
	localization *Localization
	onBack       func()

	content fyne.CanvasObject
}

// NewHistoryScreen creates the track history screen
func NewHistoryScreen(page *history.Page, cacheDir string, app fyne.App, window fyne.Window, localization *Localization, onBack func()) *HistoryScreen {
	hs := &HistoryScreen{
		page:         page,
		cacheDir:     cacheDir,
		app:          app,
		window:       window,
		localization: localization,
		onBack:       onBack,
	}

	title := widget.NewLabelWithStyle(localization.GetText(KeyTrackHistory), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabel(localization.GetText(KeyTrackHistoryHint))
	hint.Alignment = fyne.TextAlignCenter
	hint.Wrapping = fyne.TextWrapWord

	openBtn := widget.NewButton(localization.GetText(KeyOpenInBrowser), func() { hs.Open() })
	openBtn.Importance = widget.HighImportance

	backBtn := widget.NewButton(IconBack+" "+localization.GetText(KeyBack), func() {
		if hs.onBack != nil {
			hs.onBack()
		}
	})
	backBtn.Importance = widget.LowImportance

	hs.content = container.NewBorder(
		container.NewBorder(nil, nil, backBtn, nil, title),
		nil,
		nil,
		nil,
		container.NewCenter(container.NewVBox(hint, openBtn)),
	)
	return hs
}

// Content returns the screen's root object
func (hs *HistoryScreen) Content() fyne.CanvasObject {
	return hs.content
}

// Open renders the widget page into the cache and opens it
func (hs *HistoryScreen) Open() {
	uri, err := hs.url()
	if err != nil {
		log.Error().Err(err).Msg("failed to prepare track history")
		dialog.ShowError(err, hs.window)
		return
	}

	if err := hs.app.OpenURL(uri); err != nil {
		log.Error().Err(err).Str("url", uri.String()).Msg("failed to open track history")
		dialog.ShowError(fmt.Errorf("%s: %w", hs.localization.GetText(KeyErrorOpeningHistory), err), hs.window)
	}
}

func (hs *HistoryScreen) url() (*url.URL, error) {
	raw, err := hs.page.Write(hs.cacheDir)
	if err != nil {
		return nil, err
	}
	return url.Parse(raw)
}
