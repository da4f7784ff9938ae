// Package extract defines the contract for participant-name extraction
// backends. An Extractor takes one screenshot of a participant panel and
// returns the model's raw text, one candidate name per line.
package extract

import (
	"context"
	"errors"
	"fmt"
)

// NoParticipantsMarker is what backends instruct the model to return when the
// image contains no readable participant names. Callers treat it (and empty
// output) as "no names found", not as a failure.
const NoParticipantsMarker = "NO_PARTICIPANTS"

// Instruction is the shared prompt sent alongside the image by every backend.
const Instruction = "This image is a screenshot of a video meeting participant panel.\n" +
	"Extract ONLY the participant names.\n\n" +
	"Rules:\n" +
	"- Output one name per line\n" +
	"- Remove trailing role markers such as \"(Host)\", \"(Me)\", \"(Co-Host)\", \"(Guest)\"\n" +
	"- Ignore UI buttons such as \"Mute\" or \"Video\"\n" +
	"- Ignore icons and emoji\n" +
	"- Skip entries you cannot read\n" +
	"- No explanations, no formatting, names only\n" +
	"If no participant names are visible, return '" + NoParticipantsMarker + "'"

// Extractor is implemented by each hosted-model backend.
type Extractor interface {
	// ExtractNames submits one PNG/JPEG image and returns the raw response
	// text. Exactly one outbound call per invocation; the context deadline
	// bounds the call.
	ExtractNames(ctx context.Context, image []byte) (string, error)

	// Provider names the backend, for logging and metrics labels.
	Provider() string
}

// Kind classifies a ServiceError coarsely.
type Kind string

const (
	KindNetwork   Kind = "network"
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindMalformed Kind = "malformed"
	KindTimeout   Kind = "timeout"
)

// ServiceError is any failure of the extraction call. It is always surfaced
// to the user and never silently retried past the backend's bounded backoff.
type ServiceError struct {
	Kind Kind
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("extraction service error (%s): %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError wraps err with a kind, upgrading context expiry to timeout.
func NewServiceError(kind Kind, err error) *ServiceError {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &ServiceError{Kind: kind, Err: err}
}

// KindOf returns the kind of err if it is a ServiceError, or "" otherwise.
func KindOf(err error) Kind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
