// The desktop attendance counter: capture a screen region holding the
// participant panel, send it to the extraction service, and tally attendees
// across captures.
package main

import (
	"os"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog/log"

	"zoom-attendance-llm/attendance"
	"zoom-attendance-llm/capture"
	"zoom-attendance-llm/clipboard"
	"zoom-attendance-llm/config"
	"zoom-attendance-llm/gui"
	"zoom-attendance-llm/hotkey"
	"zoom-attendance-llm/logutil"
	"zoom-attendance-llm/tray"
	"zoom-attendance-llm/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logutil.Setup(cfg.LogLevel, cfg.EnableFileLogging)

	extractor, err := capture.ExtractorFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build extractor; check OPENROUTER_API_KEY / GEMINI_API_KEY in your .env file")
	}

	credential := capture.CredentialFromConfig(cfg)
	session := attendance.NewSession("desktop", extractor.Provider(), credential, cfg.CountPolicy)
	flow := &capture.Flow{
		Extractor: extractor,
		Session:   session,
		Timeout:   cfg.ExtractTimeout,
		Logger:    logutil.WithComponent("capture"),
	}
	pool := worker.New(flow, 1)
	defer pool.Close()

	if err := clipboard.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize clipboard")
	}

	log.Info().
		Str("provider", extractor.Provider()).
		Str("hotkey", cfg.Hotkey).
		Str("policy", string(cfg.CountPolicy)).
		Str("api_key", logutil.RedactKey(credential)).
		Msg("attendance counter initialized")

	ui := gui.New(gui.Options{
		Session:    session,
		Pool:       pool,
		Credential: credential,
		Provider:   extractor.Provider(),
		Logger:     logutil.WithComponent("gui"),
	})

	trayIcon := tray.New(tray.Config{
		Title:       "Attendance",
		Tooltip:     "Meeting Attendance Counter - " + cfg.Hotkey + " to recapture",
		OnCapture:   func() { fyne.Do(ui.CaptureRegion) },
		OnRecapture: func() { fyne.Do(ui.Recapture) },
		OnExport:    func() { fyne.Do(ui.ExportCSV) },
		OnExit:      func() { fyne.Do(ui.Quit) },
	})
	go trayIcon.Run()
	defer trayIcon.Destroy()

	hotkey.Listen(cfg.Hotkey, func() {
		fyne.Do(ui.Recapture)
	})

	ui.Run()
	log.Info().Msg("shutting down")
	os.Exit(0)
}
