// Package hotkey registers a global key combination that re-runs the last
// capture, so the participant panel can be re-scanned without touching the
// app window.
package hotkey

import (
	"strings"

	gohook "github.com/robotn/gohook"
	"github.com/rs/zerolog/log"
)

// Combo is a parsed modifier+key combination such as Ctrl+Alt+Q.
type Combo struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	// Key rawcode of the terminal key (VK code, letters are ASCII uppercase).
	KeyCode uint16
}

// Parse converts a combo string like "Ctrl+Alt+Q" into key expectations.
func Parse(spec string) Combo {
	var c Combo
	for _, part := range strings.Split(strings.ToLower(spec), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "ctrl":
			c.Ctrl = true
		case "alt":
			c.Alt = true
		case "shift":
			c.Shift = true
		default:
			if len(part) == 1 {
				ch := part[0]
				if ch >= 'a' && ch <= 'z' {
					c.KeyCode = uint16(ch - 'a' + 'A')
				}
			}
		}
	}
	return c
}

// Listen watches global key events and invokes callback whenever the combo
// is fully pressed. It runs until the process exits.
func Listen(spec string, callback func()) {
	combo := Parse(spec)
	if combo.KeyCode == 0 {
		log.Warn().Str("hotkey", spec).Msg("hotkey has no terminal key, listener not started")
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("hotkey listener crashed")
			}
		}()

		var ctrl, alt, shift, key bool

		evChan := gohook.Start()
		if evChan == nil {
			log.Error().Msg("gohook.Start() returned nil channel")
			return
		}
		log.Debug().Str("hotkey", spec).Msg("hotkey listener started")

		for ev := range evChan {
			if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
				continue
			}
			down := ev.Kind == gohook.KeyDown
			switch ev.Rawcode {
			case 162, 163: // Left/Right Ctrl
				ctrl = down
			case 160, 161: // Left/Right Shift
				shift = down
			case 164, 165: // Left/Right Alt
				alt = down
			case combo.KeyCode:
				key = down
			}

			if down && key &&
				ctrl == combo.Ctrl && alt == combo.Alt && shift == combo.Shift {
				log.Debug().Str("hotkey", spec).Msg("hotkey activated")
				callback()
				ctrl, alt, shift, key = false, false, false, false
			}
		}
	}()
}
