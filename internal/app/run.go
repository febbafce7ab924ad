// Package app wires the services and the UI together and runs the Fyne app.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ytget/harmonic-vibes/internal/artwork"
	"github.com/ytget/harmonic-vibes/internal/config"
	"github.com/ytget/harmonic-vibes/internal/history"
	"github.com/ytget/harmonic-vibes/internal/metadata"
	"github.com/ytget/harmonic-vibes/internal/nowplaying"
	"github.com/ytget/harmonic-vibes/internal/platform"
	"github.com/ytget/harmonic-vibes/internal/player"
	"github.com/ytget/harmonic-vibes/internal/station"
	"github.com/ytget/harmonic-vibes/internal/stream"
	"github.com/ytget/harmonic-vibes/internal/ui"
)

const (
	AppID = "com.ytget.harmonic-vibes"

	// EnvLogLevel selects the zerolog level (debug, info, warn, error)
	EnvLogLevel = "HV_LOG_LEVEL"
)

// Run starts the app and blocks until the window is closed
func Run(version string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	setupLogging(os.Getenv(EnvLogLevel))

	log.Info().Str("version", version).Msg("Harmonic Vibes starting")

	st, err := station.Default()
	if err != nil {
		return err
	}

	cacheDir, err := platform.GetCacheDir(AppID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to ensure cache dir, using temp dir")
		cacheDir = os.TempDir()
	}

	myApp := fyneapp.NewWithID(AppID)
	myWindow := myApp.NewWindow(st.Name)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := artwork.NewStore(cacheDir)
	reconciler := nowplaying.NewReconciler(store)
	go reconciler.Run(ctx)

	settings := config.NewSettings(myApp, &artworkCache{store: store, reconciler: reconciler})

	session := stream.NewSession(
		player.NewPlayer(st.UserAgent),
		func() string { return st.StreamURL(string(settings.GetStreamQuality())) },
		reconciler.SubmitTags,
	)

	poller := metadata.NewPoller(
		metadata.NewFetcher(st.NowPlayingURL, st.UserAgent),
		st.PollInterval,
		reconciler.SubmitPoll,
	)

	root := ui.NewRootUI(myWindow, myApp, ui.Deps{
		Session:    session,
		Poller:     poller,
		Reconciler: reconciler,
		Settings:   settings,
		History:    history.NewPage(st.Name, st.History),
		CacheDir:   cacheDir,
	})

	myWindow.SetOnClosed(func() {
		root.Close()
		session.Pause()
	})

	root.Show()
	myApp.Run()

	log.Info().Msg("Harmonic Vibes stopped")
	return nil
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// artworkCache clears the stored artwork and the reference to it on the
// displayed track
type artworkCache struct {
	store      *artwork.Store
	reconciler *nowplaying.Reconciler
}

func (c *artworkCache) Clear() error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	c.reconciler.ClearArtwork()
	return nil
}
