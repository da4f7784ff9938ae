// Package capture drives one capture event end to end: image in, extraction
// call, normalization, tally update. Errors leave the tally untouched.
package capture

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"zoom-attendance-llm/attendance"
	"zoom-attendance-llm/config"
	"zoom-attendance-llm/extract"
	"zoom-attendance-llm/names"
)

// ErrBusy is returned when a submission is already in flight for the session.
var ErrBusy = errors.New("a submission is already in flight")

// State is the flow's position in the capture lifecycle.
type State int32

const (
	StateIdle State = iota
	StateSubmitting
	StateNormalizing
	StateAggregated
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateNormalizing:
		return "normalizing"
	case StateAggregated:
		return "aggregated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome describes one processed capture event.
type Outcome struct {
	// Names recorded by this event, post-normalization.
	Names []string `json:"names"`
	// NewAttendees counts names seen for the first time this session.
	NewAttendees int `json:"new_attendees"`
	// TotalAttendees is the distinct attendee count after this event.
	TotalAttendees int `json:"total_attendees"`
	// NoneFound is set when the response normalized to zero names. The
	// record is left unchanged; this is a warning, not a failure.
	NoneFound bool      `json:"none_found"`
	At        time.Time `json:"at"`
}

// Flow runs capture events against one session. Safe for use from multiple
// goroutines; the session's single-flight gate serializes submissions.
type Flow struct {
	Extractor extract.Extractor
	Session   *attendance.Session
	Timeout   time.Duration
	Logger    zerolog.Logger

	state atomic.Int32
}

// State returns the flow's current lifecycle state.
func (f *Flow) State() State { return State(f.state.Load()) }

func (f *Flow) setState(s State) { f.state.Store(int32(s)) }

// Submit processes one capture event. A ServiceError (or busy rejection)
// leaves the session's record exactly as it was.
func (f *Flow) Submit(ctx context.Context, image []byte) (Outcome, error) {
	if !f.Session.TryBeginSubmission() {
		return Outcome{}, ErrBusy
	}
	defer f.Session.EndSubmission()
	defer f.setState(StateIdle)

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	f.setState(StateSubmitting)
	start := time.Now()
	raw, err := f.Extractor.ExtractNames(callCtx, image)
	if err != nil {
		f.setState(StateError)
		f.Logger.Warn().Err(err).
			Str("provider", f.Extractor.Provider()).
			Dur("elapsed", time.Since(start)).
			Msg("extraction failed")
		return Outcome{}, err
	}

	f.setState(StateNormalizing)
	eventNames := f.normalize(raw)

	at := time.Now()
	if len(eventNames) == 0 {
		f.Logger.Info().Str("provider", f.Extractor.Provider()).Msg("no participants found")
		return Outcome{NoneFound: true, At: at}, nil
	}

	newAttendees := 0
	counted := make(map[string]bool)
	for _, n := range eventNames {
		if f.Session.Count(n) == 0 && !counted[n] {
			counted[n] = true
			newAttendees++
		}
	}

	f.setState(StateAggregated)
	f.Session.Apply(eventNames, at)

	f.Logger.Info().
		Str("provider", f.Extractor.Provider()).
		Int("detected", len(eventNames)).
		Int("new", newAttendees).
		Dur("elapsed", time.Since(start)).
		Msg("capture recorded")

	return Outcome{
		Names:          eventNames,
		NewAttendees:   newAttendees,
		TotalAttendees: f.Session.Len(),
		At:             at,
	}, nil
}

func (f *Flow) normalize(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == extract.NoParticipantsMarker {
		return nil
	}
	if f.Session.Policy == config.CountPerOccurrence {
		return names.Occurrences(raw)
	}
	return names.Normalize(raw)
}
