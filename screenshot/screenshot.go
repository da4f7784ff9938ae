// Package screenshot captures screen regions as PNG bytes for submission to
// the extraction service.
package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"
)

// Region is the screen rectangle holding the participant panel.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Valid reports whether the region has positive dimensions.
func (r Region) Valid() bool { return r.Width > 0 && r.Height > 0 }

// CaptureRegion captures a specific region of the screen as PNG bytes.
func CaptureRegion(region Region) ([]byte, error) {
	if !region.Valid() {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", region.Width, region.Height)
	}

	bounds := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// PrimaryDisplayBounds returns the bounds of the primary display.
func PrimaryDisplayBounds() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	return screenshot.GetDisplayBounds(0), nil
}
