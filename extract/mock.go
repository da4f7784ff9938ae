package extract

import (
	"context"
	"sync"
)

// Mock is an Extractor that replays scripted responses. It backs tests and
// the EXTRACTOR=mock mode of both binaries, so the full capture flow can be
// exercised without credentials.
type Mock struct {
	mu        sync.Mutex
	Responses []string
	Errs      []error
	next      int

	// LastImage records the most recent submitted payload.
	LastImage []byte
	Calls     int
}

// DefaultMockResponses simulate a small meeting scanned twice.
var DefaultMockResponses = []string{
	"Alice Johnson\nBob Smith (Host)\nCarol White",
	"Alice Johnson\nDan Brown\nCarol White (Me)",
}

func NewMock() *Mock {
	return &Mock{Responses: DefaultMockResponses}
}

func (m *Mock) ExtractNames(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewServiceError(KindTimeout, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastImage = image

	i := m.next
	m.next++
	if i < len(m.Errs) && m.Errs[i] != nil {
		return "", m.Errs[i]
	}
	if len(m.Responses) == 0 {
		return NoParticipantsMarker, nil
	}
	return m.Responses[i%len(m.Responses)], nil
}

func (m *Mock) Provider() string { return "mock" }
