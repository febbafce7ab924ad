package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/harmonic-vibes/internal/config"
)

// SettingsScreen edits the persisted preferences. Every control writes
// through to config.Settings immediately.
type SettingsScreen struct {
	settings     *config.Settings
	window       fyne.Window
	localization *Localization
	onDone       func()

	content fyne.CanvasObject
	loading bool

	// UI components
	qualityRadio       *widget.RadioGroup
	notificationsCheck *widget.Check
	backgroundCheck    *widget.Check
	volumeSlider       *widget.Slider
	volumeLabel        *widget.Label
	darkModeCheck      *widget.Check
	dataSaverCheck     *widget.Check
	clearCacheBtn      *widget.Button
	resetBtn           *widget.Button
	doneBtn            *widget.Button
}

// NewSettingsScreen creates the settings screen; onDone returns to playback
func NewSettingsScreen(settings *config.Settings, window fyne.Window, localization *Localization, onDone func()) *SettingsScreen {
	ss := &SettingsScreen{
		settings:     settings,
		window:       window,
		localization: localization,
		onDone:       onDone,
	}

	ss.createUI()
	ss.Load()
	return ss
}

// Content returns the screen's root object
func (ss *SettingsScreen) Content() fyne.CanvasObject {
	return ss.content
}

func (ss *SettingsScreen) createUI() {
	text := ss.localization.GetText

	qualityOptions := []string{}
	for _, quality := range ss.settings.GetStreamQualityOptions() {
		qualityOptions = append(qualityOptions, string(quality))
	}
	ss.qualityRadio = widget.NewRadioGroup(qualityOptions, ss.onQualityChanged)
	ss.qualityRadio.Horizontal = true
	ss.qualityRadio.Required = true

	ss.notificationsCheck = widget.NewCheck(text(KeyNotifications), ss.guard(ss.settings.SetNotificationsEnabled))
	ss.backgroundCheck = widget.NewCheck(text(KeyBackgroundPlayback), ss.guard(ss.settings.SetBackgroundPlaybackEnabled))
	ss.darkModeCheck = widget.NewCheck(text(KeyDarkMode), ss.guard(ss.settings.SetDarkModeEnabled))
	ss.dataSaverCheck = widget.NewCheck(text(KeyDataSaver), ss.onDataSaverChanged)

	ss.volumeLabel = widget.NewLabel("")
	ss.volumeSlider = widget.NewSlider(config.MinVolumeLevel, config.MaxVolumeLevel)
	ss.volumeSlider.Step = VolumeSliderStep
	ss.volumeSlider.OnChanged = func(value float64) {
		ss.volumeLabel.SetText(formatVolume(value))
	}
	ss.volumeSlider.OnChangeEnded = func(value float64) {
		if ss.loading {
			return
		}
		ss.settings.SetVolumeLevel(value)
	}

	ss.clearCacheBtn = widget.NewButton(text(KeyClearCache), ss.onClearCache)

	ss.resetBtn = widget.NewButton(text(KeyResetSettings), ss.onReset)
	ss.resetBtn.Importance = widget.DangerImportance

	ss.doneBtn = widget.NewButton(text(KeyDone), func() {
		if ss.onDone != nil {
			ss.onDone()
		}
	})
	ss.doneBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle(text(KeySettings), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),

		widget.NewLabelWithStyle(text(KeyPlaybackSection), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(text(KeyStreamQuality)+":"),
		ss.qualityRadio,
		ss.dataSaverCheck,
		ss.backgroundCheck,
		container.NewBorder(nil, nil, widget.NewLabel(text(KeyVolume)+":"), ss.volumeLabel, ss.volumeSlider),

		widget.NewSeparator(),
		widget.NewLabelWithStyle(text(KeyAppearanceSection), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		ss.notificationsCheck,
		ss.darkModeCheck,

		widget.NewSeparator(),
		widget.NewLabelWithStyle(text(KeyStorageSection), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		ss.clearCacheBtn,
		ss.resetBtn,
	)

	ss.content = container.NewBorder(nil, ss.doneBtn, nil, nil, container.NewVScroll(container.NewPadded(form)))
}

// Load copies the stored settings into the controls
func (ss *SettingsScreen) Load() {
	ss.loading = true
	defer func() { ss.loading = false }()

	ss.qualityRadio.SetSelected(string(ss.settings.GetStreamQuality()))
	ss.notificationsCheck.SetChecked(ss.settings.GetNotificationsEnabled())
	ss.backgroundCheck.SetChecked(ss.settings.GetBackgroundPlaybackEnabled())
	ss.darkModeCheck.SetChecked(ss.settings.GetDarkModeEnabled())
	ss.dataSaverCheck.SetChecked(ss.settings.GetDataSaverEnabled())

	volume := ss.settings.GetVolumeLevel()
	ss.volumeSlider.SetValue(volume)
	ss.volumeLabel.SetText(formatVolume(volume))
}

// guard drops control callbacks fired while Load is filling the controls
func (ss *SettingsScreen) guard(set func(bool)) func(bool) {
	return func(value bool) {
		if ss.loading {
			return
		}
		set(value)
	}
}

func (ss *SettingsScreen) onQualityChanged(selected string) {
	if ss.loading || selected == "" {
		return
	}
	ss.settings.SetStreamQuality(config.StreamQuality(selected))
}

func (ss *SettingsScreen) onDataSaverChanged(enabled bool) {
	if ss.loading {
		return
	}
	ss.settings.SetDataSaverEnabled(enabled)
	if enabled {
		ss.loading = true
		ss.qualityRadio.SetSelected(string(ss.settings.GetStreamQuality()))
		ss.loading = false
	}
}

func (ss *SettingsScreen) onClearCache() {
	ss.settings.ClearCache()
	dialog.ShowInformation(ss.localization.GetText(KeyClearCache), ss.localization.GetText(KeyCacheCleared), ss.window)
}

func (ss *SettingsScreen) onReset() {
	dialog.ShowConfirm(ss.localization.GetText(KeyResetSettings), ss.localization.GetText(KeyResetConfirm), func(confirmed bool) {
		if !confirmed {
			return
		}
		ss.resetAll()
	}, ss.window)
}

func (ss *SettingsScreen) resetAll() {
	ss.settings.ResetAll()
	ss.Load()
}

func formatVolume(value float64) string {
	return fmt.Sprintf("%.0f%%", value)
}
