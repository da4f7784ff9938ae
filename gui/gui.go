// Package gui is the desktop surface: a window with capture controls, the
// attendance table, export and reset actions.
package gui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"zoom-attendance-llm/attendance"
	"zoom-attendance-llm/capture"
	"zoom-attendance-llm/clipboard"
	"zoom-attendance-llm/export"
	"zoom-attendance-llm/logutil"
	"zoom-attendance-llm/screenshot"
	"zoom-attendance-llm/worker"
)

const timeLayout = "2006-01-02 15:04:05"

type Options struct {
	Session    *attendance.Session
	Pool       *worker.Pool
	Credential string
	Provider   string
	Logger     zerolog.Logger
}

type UI struct {
	opts   Options
	fapp   fyne.App
	window fyne.Window

	status  *widget.Label
	table   *widget.Table
	entries []attendance.Entry

	xEntry, yEntry, wEntry, hEntry *widget.Entry

	lastRegion screenshot.Region
}

func New(opts Options) *UI {
	u := &UI{opts: opts}
	u.fapp = app.New()
	u.window = u.fapp.NewWindow("Meeting Attendance Counter")
	u.build()
	return u
}

// Window exposes the main window for tray callbacks.
func (u *UI) Window() fyne.Window { return u.window }

// Quit stops the fyne main loop.
func (u *UI) Quit() { u.fapp.Quit() }

// Run shows the window and enters the fyne main loop. Blocks until quit.
func (u *UI) Run() {
	u.window.Resize(fyne.NewSize(680, 540))
	u.window.ShowAndRun()
}

func (u *UI) build() {
	credText := "API key: not set"
	if u.opts.Credential != "" {
		credText = fmt.Sprintf("API key: %s (%s)", logutil.RedactKey(u.opts.Credential), u.opts.Provider)
	}
	credLabel := widget.NewLabel(credText)

	u.xEntry = regionEntry("0")
	u.yEntry = regionEntry("0")
	u.wEntry = regionEntry("800")
	u.hEntry = regionEntry("600")
	regionRow := container.NewHBox(
		widget.NewLabel("Region x/y/w/h:"),
		u.xEntry, u.yEntry, u.wEntry, u.hEntry,
	)

	captureBtn := widget.NewButton("Capture region", u.CaptureRegion)
	fullBtn := widget.NewButton("Capture full screen", u.CaptureFullScreen)
	recaptureBtn := widget.NewButton("Recapture same region", u.Recapture)
	exportBtn := widget.NewButton("Export CSV", u.ExportCSV)
	copyBtn := widget.NewButton("Copy tally", u.CopyTally)
	clearBtn := widget.NewButton("Clear", u.Clear)
	buttons := container.NewHBox(captureBtn, fullBtn, recaptureBtn, exportBtn, copyBtn, clearBtn)

	u.status = widget.NewLabel("Select a region and capture the participant panel.")

	u.table = widget.NewTable(
		func() (int, int) { return len(u.entries) + 1, 3 },
		func() fyne.CanvasObject { return widget.NewLabel("participant name placeholder") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle = fyne.TextStyle{Bold: true}
				label.SetText([]string{"Name", "First seen", "Count"}[id.Col])
				return
			}
			label.TextStyle = fyne.TextStyle{}
			e := u.entries[id.Row-1]
			switch id.Col {
			case 0:
				label.SetText(e.Name)
			case 1:
				label.SetText(e.FirstSeen.Format(timeLayout))
			case 2:
				label.SetText(strconv.Itoa(e.Count))
			}
		},
	)
	u.table.SetColumnWidth(0, 280)
	u.table.SetColumnWidth(1, 200)
	u.table.SetColumnWidth(2, 80)

	top := container.NewVBox(credLabel, regionRow, buttons, u.status)
	u.window.SetContent(container.NewBorder(top, nil, nil, nil, u.table))
}

func regionEntry(initial string) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(initial)
	return e
}

// CaptureRegion captures the rectangle from the region fields.
func (u *UI) CaptureRegion() {
	region, err := u.regionFromFields()
	if err != nil {
		dialog.ShowError(err, u.window)
		return
	}
	u.captureAndSubmit(region)
}

// CaptureFullScreen captures the whole primary display.
func (u *UI) CaptureFullScreen() {
	bounds, err := screenshot.PrimaryDisplayBounds()
	if err != nil {
		dialog.ShowError(err, u.window)
		return
	}
	u.captureAndSubmit(screenshot.Region{
		X: bounds.Min.X, Y: bounds.Min.Y,
		Width: bounds.Dx(), Height: bounds.Dy(),
	})
}

// Recapture re-scans the last captured region, also reachable from the
// global hotkey and the tray menu.
func (u *UI) Recapture() {
	if !u.lastRegion.Valid() {
		u.setStatus("No previous region to recapture.")
		return
	}
	u.captureAndSubmit(u.lastRegion)
}

func (u *UI) captureAndSubmit(region screenshot.Region) {
	image, err := screenshot.CaptureRegion(region)
	if err != nil {
		dialog.ShowError(err, u.window)
		return
	}
	u.lastRegion = region
	u.setStatus("Analyzing participants...")

	submitted := u.opts.Pool.Submit(context.Background(), image, func(out capture.Outcome, err error) {
		fyne.Do(func() { u.onResult(out, err) })
	})
	if !submitted {
		u.setStatus("Busy, please retry.")
	}
}

func (u *UI) onResult(out capture.Outcome, err error) {
	if err != nil {
		u.setStatus("Extraction failed: " + err.Error())
		return
	}
	if out.NoneFound {
		u.setStatus("No participants detected. Adjust the region and retry.")
		return
	}
	u.refreshTable()
	u.setStatus(fmt.Sprintf("Detected %d participants (%d new) at %s",
		len(out.Names), out.NewAttendees, out.At.Format("15:04:05")))
}

// ExportCSV writes the tally through a save dialog.
func (u *UI) ExportCSV() {
	entries := u.opts.Session.Snapshot()
	if len(entries) == 0 {
		dialog.ShowError(export.ErrEmptyRecord, u.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.window)
			return
		}
		if writer == nil {
			return // cancelled
		}
		defer writer.Close()
		if err := export.WriteCSV(writer, entries); err != nil {
			dialog.ShowError(err, u.window)
			return
		}
		u.setStatus("Exported " + writer.URI().Name())
	}, u.window)
	d.SetFileName(export.FileName(time.Now()))
	d.Show()
}

// CopyTally puts the rendered tally text on the clipboard.
func (u *UI) CopyTally() {
	text := export.RenderText(u.opts.Session.Snapshot())
	if err := clipboard.Write(text); err != nil {
		dialog.ShowError(err, u.window)
		return
	}
	u.setStatus("Tally copied to clipboard.")
}

// Clear resets the record after confirmation.
func (u *UI) Clear() {
	if u.opts.Session.Len() == 0 {
		return
	}
	dialog.ShowConfirm("Clear", "Clear all attendance data?", func(ok bool) {
		if !ok {
			return
		}
		u.opts.Session.Reset()
		u.refreshTable()
		u.setStatus("Attendance data cleared.")
	}, u.window)
}

func (u *UI) refreshTable() {
	u.entries = u.opts.Session.Snapshot()
	u.table.Refresh()
}

func (u *UI) setStatus(text string) {
	u.status.SetText(text)
	u.opts.Logger.Debug().Str("status", text).Msg("gui status")
}

func (u *UI) regionFromFields() (screenshot.Region, error) {
	vals := make([]int, 4)
	for i, e := range []*widget.Entry{u.xEntry, u.yEntry, u.wEntry, u.hEntry} {
		n, err := strconv.Atoi(e.Text)
		if err != nil {
			return screenshot.Region{}, fmt.Errorf("region fields must be integers: %w", err)
		}
		vals[i] = n
	}
	region := screenshot.Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if !region.Valid() {
		return screenshot.Region{}, fmt.Errorf("region must have positive width and height")
	}
	return region, nil
}
