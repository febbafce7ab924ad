package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/ytget/harmonic-vibes/internal/config"
	"github.com/ytget/harmonic-vibes/internal/history"
	"github.com/ytget/harmonic-vibes/internal/metadata"
	"github.com/ytget/harmonic-vibes/internal/model"
	"github.com/ytget/harmonic-vibes/internal/nowplaying"
	"github.com/ytget/harmonic-vibes/internal/stream"
)

// Screen identifies what the window is showing
type Screen int

const (
	ScreenPlayback Screen = iota
	ScreenSettings
	ScreenHistory
)

// Deps are the services the UI drives
type Deps struct {
	Session    *stream.Session
	Poller     *metadata.Poller
	Reconciler *nowplaying.Reconciler
	Settings   *config.Settings
	History    *history.Page
	CacheDir   string
}

// RootUI owns the window and switches between the three screens
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	deps         Deps
	localization *Localization
	mobile       *MobileUI

	screen   Screen
	mounted  bool
	progress *periodicTask

	// last applied settings, to detect what changed
	quality config.StreamQuality

	// playback screen
	playbackContent fyne.CanvasObject
	artwork         *canvas.Image
	trackName       binding.String
	trackArtist     binding.String
	elapsed         binding.String
	progressBar     *widget.ProgressBar
	playBtn         *widget.Button
	historyBtn      *widget.Button
	settingsBtn     *widget.Button

	settingsScreen *SettingsScreen
	historyScreen  *HistoryScreen

	unsubscribe func()
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, deps Deps) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage("system")

	ui := &RootUI{
		window:       window,
		app:          app,
		deps:         deps,
		localization: localization,
		mobile:       NewMobileUI(app),
		trackName:    binding.NewString(),
		trackArtist:  binding.NewString(),
		elapsed:      binding.NewString(),
		quality:      deps.Settings.GetStreamQuality(),
	}
	ui.progress = newPeriodicTask(ProgressTickInterval, ui.onProgressTick)

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.settingsScreen = NewSettingsScreen(deps.Settings, window, localization, ui.ShowPlayback)
	ui.historyScreen = NewHistoryScreen(deps.History, deps.CacheDir, app, window, localization, ui.ShowPlayback)

	ui.setupUI()
	ui.applySettings()
	ui.renderTrack(deps.Reconciler.Current())

	ui.unsubscribe = deps.Reconciler.Subscribe(ui.onTrackChanged)
	deps.Session.OnStatusChange(ui.onStatusChanged)
	deps.Settings.OnChanged(func() {
		fyne.Do(ui.applySettings)
	})

	lifecycle := app.Lifecycle()
	lifecycle.SetOnExitedForeground(ui.onBackground)
	lifecycle.SetOnEnteredForeground(ui.onForeground)

	return ui
}

// setupUI builds the playback screen
func (ui *RootUI) setupUI() {
	title := widget.NewLabelWithStyle(ui.localization.GetText(KeyAppTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	title.SizeName = theme.SizeNameHeadingText

	ui.artwork = canvas.NewImageFromResource(theme.MediaMusicIcon())
	ui.artwork.FillMode = canvas.ImageFillContain
	ui.artwork.SetMinSize(ui.mobile.ArtworkSize())

	nameLabel := widget.NewLabelWithData(ui.trackName)
	nameLabel.Alignment = fyne.TextAlignCenter
	nameLabel.TextStyle = fyne.TextStyle{Bold: true}
	nameLabel.Truncation = fyne.TextTruncateEllipsis
	nameLabel.SizeName = theme.SizeNameSubHeadingText

	artistLabel := widget.NewLabelWithData(ui.trackArtist)
	artistLabel.Alignment = fyne.TextAlignCenter
	artistLabel.Truncation = fyne.TextTruncateEllipsis

	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.TextFormatter = func() string {
		text, _ := ui.elapsed.Get()
		return text
	}

	ui.playBtn = widget.NewButton("", ui.onPlayTapped)
	ui.onStatusChanged(ui.deps.Session.Status())

	var historyCell, settingsCell fyne.CanvasObject
	ui.historyBtn, historyCell = ui.mobile.CreateMobileButton(IconHistory+" "+ui.localization.GetText(KeyViewPlayedTracks), ui.ShowHistory)
	ui.settingsBtn, settingsCell = ui.mobile.CreateMobileButton(IconSettings+" "+ui.localization.GetText(KeySettings), ui.ShowSettings)

	details := container.NewVBox(
		nameLabel,
		artistLabel,
		ui.progressBar,
		ui.playBtn,
	)

	body := ui.mobile.CreateOrientationAwareContainer(container.NewCenter(ui.artwork), details)

	ui.playbackContent = container.NewBorder(
		title,
		container.NewVBox(widget.NewSeparator(), container.NewHBox(historyCell, settingsCell)),
		nil,
		nil,
		container.NewPadded(container.NewCenter(body)),
	)
}

// Show displays the playback screen and starts playback on first mount
func (ui *RootUI) Show() {
	ui.ShowPlayback()
	ui.window.Show()
}

// ShowPlayback switches to the playback screen
func (ui *RootUI) ShowPlayback() {
	ui.screen = ScreenPlayback
	ui.window.SetContent(ui.playbackContent)

	if !ui.mounted {
		ui.mounted = true
		ui.deps.Session.Start()
	}
	ui.startUpdates()
}

// ShowSettings switches to the settings screen
func (ui *RootUI) ShowSettings() {
	ui.stopUpdates()
	ui.screen = ScreenSettings
	ui.settingsScreen.Load()
	ui.window.SetContent(ui.settingsScreen.Content())
}

// ShowHistory switches to the track history screen
func (ui *RootUI) ShowHistory() {
	ui.stopUpdates()
	ui.screen = ScreenHistory
	ui.window.SetContent(ui.historyScreen.Content())
	ui.historyScreen.Open()
}

// CurrentScreen returns the visible screen
func (ui *RootUI) CurrentScreen() Screen {
	return ui.screen
}

// Close releases subscriptions and background tasks
func (ui *RootUI) Close() {
	ui.stopUpdates()
	if ui.unsubscribe != nil {
		ui.unsubscribe()
		ui.unsubscribe = nil
	}
}

// startUpdates begins polling and progress ticks while the playback screen is visible
func (ui *RootUI) startUpdates() {
	ui.deps.Poller.Start()
	ui.progress.Start()
	ui.refreshProgress()
}

func (ui *RootUI) stopUpdates() {
	ui.deps.Poller.Stop()
	ui.progress.Stop()
}

func (ui *RootUI) onBackground() {
	log.Debug().Msg("app entered background")
	ui.stopUpdates()

	if !ui.deps.Settings.GetBackgroundPlaybackEnabled() {
		ui.deps.Session.Pause()
	}
}

func (ui *RootUI) onForeground() {
	log.Debug().Msg("app entered foreground")
	if ui.screen == ScreenPlayback && ui.mounted {
		ui.startUpdates()
	}
}

func (ui *RootUI) onPlayTapped() {
	ui.deps.Session.Toggle()
	ui.refreshProgress()
}

// onStatusChanged relabels the play button; it may be called off the UI thread
func (ui *RootUI) onStatusChanged(status model.PlaybackStatus) {
	fyne.Do(func() {
		switch status {
		case model.PlaybackPlaying:
			ui.playBtn.SetText(IconPause + " " + ui.localization.GetText(KeyPause))
			ui.playBtn.Importance = widget.DangerImportance
			ui.playBtn.Enable()
		case model.PlaybackRestarting:
			ui.playBtn.SetText(ui.localization.GetText(KeyConnecting))
			ui.playBtn.Disable()
		default:
			ui.playBtn.SetText(IconPlay + " " + ui.localization.GetText(KeyPlayLive))
			ui.playBtn.Importance = widget.SuccessImportance
			ui.playBtn.Enable()
		}
		ui.playBtn.Refresh()
	})
}

// onTrackChanged runs on the reconciler goroutine
func (ui *RootUI) onTrackChanged(track model.TrackInfo) {
	fyne.Do(func() {
		ui.renderTrack(track)
		ui.notifyTrack(track)
	})
}

func (ui *RootUI) renderTrack(track model.TrackInfo) {
	ui.trackName.Set(track.Name)
	ui.trackArtist.Set(track.Artist)
	ui.window.SetTitle(fmt.Sprintf("%s%s%s", ui.localization.GetText(KeyAppTitle), MiddleDotSeparator, track.DisplayTitle()))

	ui.artwork.File = ""
	ui.artwork.Resource = theme.MediaMusicIcon()
	if track.HasArtwork() {
		if uri, err := storage.ParseURI(track.Artwork); err == nil {
			ui.artwork.Resource = nil
			ui.artwork.File = uri.Path()
		} else {
			log.Warn().Err(err).Str("uri", track.Artwork).Msg("invalid artwork uri")
		}
	}
	ui.artwork.Refresh()
}

func (ui *RootUI) notifyTrack(track model.TrackInfo) {
	if !ui.deps.Settings.GetNotificationsEnabled() {
		return
	}
	if track.SameSong(model.DefaultTrackInfo()) {
		return
	}
	ui.app.SendNotification(nowPlayingNotification(ui.localization, track))
}

func nowPlayingNotification(localization *Localization, track model.TrackInfo) *fyne.Notification {
	return fyne.NewNotification(IconMusic+" "+localization.GetText(KeyNowPlaying), track.DisplayTitle())
}

func (ui *RootUI) onProgressTick() {
	fyne.Do(ui.refreshProgress)
}

// refreshProgress shows elapsed time; a live stream has no duration so the
// bar stays full while playing
func (ui *RootUI) refreshProgress() {
	session := ui.deps.Session
	position := session.Position()
	duration := session.Duration()

	text := model.FormatElapsed(position)
	value := 0.0
	switch {
	case duration > 0:
		value = float64(position) / float64(duration)
		text += " / " + model.FormatElapsed(duration)
	case session.Status() == model.PlaybackPlaying:
		value = 1
		text = LiveBadge + MiddleDotSeparator + text
	}

	ui.elapsed.Set(text)
	ui.progressBar.SetValue(value)
}

// applySettings pushes appearance and audio settings to their consumers
func (ui *RootUI) applySettings() {
	settings := ui.deps.Settings

	ui.app.Settings().SetTheme(NewStationTheme(settings.GetDarkModeEnabled()))
	ui.deps.Session.SetVolume(settings.GetVolumeLevel())

	if quality := settings.GetStreamQuality(); quality != ui.quality {
		log.Info().Str("quality", string(quality)).Msg("stream quality changed")
		ui.quality = quality
		ui.deps.Session.Restart()
	}
}
