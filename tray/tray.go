// Package tray puts a menu in the system tray so captures can be triggered
// while the main window is minimized.
package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/getlantern/systray"
)

type Config struct {
	Title       string
	Tooltip     string
	OnCapture   func()
	OnRecapture func()
	OnExport    func()
	OnExit      func()
}

type Tray struct {
	cfg Config
}

func New(cfg Config) *Tray {
	return &Tray{cfg: cfg}
}

// Run starts the tray loop. Blocks; call from its own goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Destroy removes the tray icon.
func (t *Tray) Destroy() {
	systray.Quit()
}

// UpdateTooltip replaces the hover text, used as a lightweight busy indicator.
func (t *Tray) UpdateTooltip(tt string) {
	systray.SetTooltip(tt)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconPNG())
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)

	mCapture := systray.AddMenuItem("Capture participants", "Capture the participant panel region")
	mRecapture := systray.AddMenuItem("Recapture same region", "Re-scan the last captured region")
	mExport := systray.AddMenuItem("Export CSV", "Export the attendance tally")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				if t.cfg.OnCapture != nil {
					t.cfg.OnCapture()
				}
			case <-mRecapture.ClickedCh:
				if t.cfg.OnRecapture != nil {
					t.cfg.OnRecapture()
				}
			case <-mExport.ClickedCh:
				if t.cfg.OnExport != nil {
					t.cfg.OnExport()
				}
			case <-mQuit.ClickedCh:
				systray.Quit()
			}
		}
	}()
}

func (t *Tray) onExit() {
	if t.cfg.OnExit != nil {
		t.cfg.OnExit()
	}
}

// iconPNG renders the 16x16 tray glyph: a filled roster-blue square with a
// lighter head-and-shoulders mark.
func iconPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	bg := color.RGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	fg := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, bg)
		}
	}
	// head
	for y := 3; y < 7; y++ {
		for x := 6; x < 10; x++ {
			img.Set(x, y, fg)
		}
	}
	// shoulders
	for y := 8; y < 13; y++ {
		for x := 4; x < 12; x++ {
			img.Set(x, y, fg)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
