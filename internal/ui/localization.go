package ui

import (
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle            = "app_title"
	KeyPlayLive            = "play_live"
	KeyPause               = "pause"
	KeyConnecting          = "connecting"
	KeyViewPlayedTracks    = "view_played_tracks"
	KeySettings            = "settings"
	KeyDone                = "done"
	KeyBack                = "back"
	KeyStreamQuality       = "stream_quality"
	KeyNotifications       = "notifications"
	KeyBackgroundPlayback  = "background_playback"
	KeyVolume              = "volume"
	KeyDarkMode            = "dark_mode"
	KeyDataSaver           = "data_saver"
	KeyClearCache          = "clear_cache"
	KeyCacheCleared        = "cache_cleared"
	KeyResetSettings       = "reset_settings"
	KeyResetConfirm        = "reset_confirm"
	KeyTrackHistory        = "track_history"
	KeyTrackHistoryHint    = "track_history_hint"
	KeyOpenInBrowser       = "open_in_browser"
	KeyErrorOpeningHistory = "error_opening_history"
	KeyNowPlaying          = "now_playing"
	KeyPlaybackSection     = "playback_section"
	KeyAppearanceSection   = "appearance_section"
	KeyStorageSection      = "storage_section"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = SystemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// SystemLanguage returns the two-letter language of the user's locale taken
// from LC_ALL, LC_MESSAGES or LANG, defaulting to English
func SystemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := os.Getenv(env)
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		if len(value) >= 2 {
			return strings.ToLower(value[:2])
		}
	}
	return "en"
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:            "Harmonic Vibes",
		KeyPlayLive:            "Play Live",
		KeyPause:               "Pause",
		KeyConnecting:          "Connecting...",
		KeyViewPlayedTracks:    "View Played Tracks",
		KeySettings:            "Settings",
		KeyDone:                "Done",
		KeyBack:                "Back",
		KeyStreamQuality:       "Stream Quality",
		KeyNotifications:       "Enable Notifications",
		KeyBackgroundPlayback:  "Background Playback",
		KeyVolume:              "Volume",
		KeyDarkMode:            "Dark Mode",
		KeyDataSaver:           "Data Saver",
		KeyClearCache:          "Clear Cache",
		KeyCacheCleared:        "Cache cleared",
		KeyResetSettings:       "Reset Settings",
		KeyResetConfirm:        "Restore all settings to their defaults?",
		KeyTrackHistory:        "Track History",
		KeyTrackHistoryHint:    "Recently played tracks open in your browser.",
		KeyOpenInBrowser:       "Open Track History",
		KeyErrorOpeningHistory: "Could not open track history",
		KeyNowPlaying:          "Now playing",
		KeyPlaybackSection:     "Playback",
		KeyAppearanceSection:   "Appearance",
		KeyStorageSection:      "Storage",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:            "Harmonic Vibes",
		KeyPlayLive:            "Слушать эфир",
		KeyPause:               "Пауза",
		KeyConnecting:          "Подключение...",
		KeyViewPlayedTracks:    "Сыгранные треки",
		KeySettings:            "Настройки",
		KeyDone:                "Готово",
		KeyBack:                "Назад",
		KeyStreamQuality:       "Качество потока",
		KeyNotifications:       "Уведомления",
		KeyBackgroundPlayback:  "Фоновое воспроизведение",
		KeyVolume:              "Громкость",
		KeyDarkMode:            "Тёмная тема",
		KeyDataSaver:           "Экономия трафика",
		KeyClearCache:          "Очистить кэш",
		KeyCacheCleared:        "Кэш очищен",
		KeyResetSettings:       "Сбросить настройки",
		KeyResetConfirm:        "Вернуть все настройки по умолчанию?",
		KeyTrackHistory:        "История треков",
		KeyTrackHistoryHint:    "Недавние треки откроются в браузере.",
		KeyOpenInBrowser:       "Открыть историю",
		KeyErrorOpeningHistory: "Не удалось открыть историю треков",
		KeyNowPlaying:          "Сейчас играет",
		KeyPlaybackSection:     "Воспроизведение",
		KeyAppearanceSection:   "Оформление",
		KeyStorageSection:      "Хранилище",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:            "Harmonic Vibes",
		KeyPlayLive:            "Ouvir ao Vivo",
		KeyPause:               "Pausar",
		KeyConnecting:          "Conectando...",
		KeyViewPlayedTracks:    "Ver Faixas Tocadas",
		KeySettings:            "Configurações",
		KeyDone:                "Concluído",
		KeyBack:                "Voltar",
		KeyStreamQuality:       "Qualidade do Stream",
		KeyNotifications:       "Ativar Notificações",
		KeyBackgroundPlayback:  "Reprodução em Segundo Plano",
		KeyVolume:              "Volume",
		KeyDarkMode:            "Modo Escuro",
		KeyDataSaver:           "Economia de Dados",
		KeyClearCache:          "Limpar Cache",
		KeyCacheCleared:        "Cache limpo",
		KeyResetSettings:       "Redefinir Configurações",
		KeyResetConfirm:        "Restaurar todas as configurações padrão?",
		KeyTrackHistory:        "Histórico de Faixas",
		KeyTrackHistoryHint:    "As faixas recentes abrem no seu navegador.",
		KeyOpenInBrowser:       "Abrir Histórico",
		KeyErrorOpeningHistory: "Não foi possível abrir o histórico",
		KeyNowPlaying:          "Tocando agora",
		KeyPlaybackSection:     "Reprodução",
		KeyAppearanceSection:   "Aparência",
		KeyStorageSection:      "Armazenamento",
	}
}
