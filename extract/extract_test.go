package extract

import (
	"context"
	"errors"
	"testing"
)

func TestMockCyclesResponses(t *testing.T) {
	m := NewMock()
	first, err := m.ExtractNames(context.Background(), []byte{1})
	if err != nil {
		t.Fatalf("ExtractNames failed: %v", err)
	}
	second, err := m.ExtractNames(context.Background(), []byte{2})
	if err != nil {
		t.Fatalf("ExtractNames failed: %v", err)
	}
	if first == second {
		t.Errorf("Expected different scripted responses, got %q twice", first)
	}
	if m.Calls != 2 {
		t.Errorf("Calls = %d, want 2", m.Calls)
	}
}

func TestMockScriptedError(t *testing.T) {
	boom := NewServiceError(KindRateLimit, errors.New("quota exceeded"))
	m := &Mock{Responses: []string{"Alice"}, Errs: []error{boom}}
	_, err := m.ExtractNames(context.Background(), nil)
	if KindOf(err) != KindRateLimit {
		t.Errorf("Expected rate_limit kind, got %v", err)
	}
}

func TestMockHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMock()
	if _, err := m.ExtractNames(ctx, nil); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	se := NewServiceError(KindNetwork, inner)
	if !errors.Is(se, inner) {
		t.Error("ServiceError should unwrap to the inner error")
	}
	if KindOf(se) != KindNetwork {
		t.Errorf("KindOf = %q, want network", KindOf(se))
	}
}

func TestServiceErrorUpgradesDeadline(t *testing.T) {
	se := NewServiceError(KindNetwork, context.DeadlineExceeded)
	if se.Kind != KindTimeout {
		t.Errorf("Kind = %q, want timeout", se.Kind)
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("plain")) != "" {
		t.Error("Plain errors have no kind")
	}
}
