package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	// Arrange
	cb := New(Settings{
		Name:             "test",
		FailureThreshold: 3,
	}, newTestLogger())
	boom := errors.New("boom")

	// Act
	for i := 0; i < 3; i++ {
		_ = Execute(cb, func() error { return boom })
	}

	// Assert
	if cb.State() != StateOpen {
		t.Fatalf("expected open state after 3 failures, got %s", cb.State())
	}
	err := Execute(cb, func() error { return nil })
	if !IsCircuitOpen(err) {
		t.Errorf("expected ErrCircuitOpen while open, got %v", err)
	}
}

func TestBreaker_HalfOpenClosesAfterSuccesses(t *testing.T) {
	// Arrange
	cb := New(Settings{
		Name:             "test",
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
		MaxRequests:      2,
	}, newTestLogger())

	_ = Execute(cb, func() error { return errors.New("boom") })
	if cb.State() != StateOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	// Act: wait out the open timeout, then succeed twice
	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 2; i++ {
		if err := Execute(cb, func() error { return nil }); err != nil {
			t.Fatalf("half-open request %d failed: %v", i, err)
		}
	}

	// Assert
	if cb.State() != StateClosed {
		t.Errorf("expected closed state after recovery, got %s", cb.State())
	}
}

func TestBreaker_IsSuccessfulFilterKeepsBreakerClosed(t *testing.T) {
	// Arrange: errors flagged as "successful" must not trip the breaker
	ignored := errors.New("credential rejected")
	cb := New(Settings{
		Name:             "test",
		FailureThreshold: 1,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ignored)
		},
	}, newTestLogger())

	// Act
	for i := 0; i < 5; i++ {
		_ = Execute(cb, func() error { return ignored })
	}

	// Assert
	if cb.State() != StateClosed {
		t.Errorf("expected breaker to stay closed, got %s", cb.State())
	}
}

func TestExecuteWithResult_ReturnsTypedValue(t *testing.T) {
	// Arrange
	cb := New(Settings{Name: "test"}, newTestLogger())

	// Act
	got, err := ExecuteWithResult(cb, func() (string, error) {
		return "transcript", nil
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "transcript" {
		t.Errorf("expected 'transcript', got %q", got)
	}
}

func TestManager_ReusesBreakerByName(t *testing.T) {
	// Arrange
	m := NewManager(newTestLogger())

	// Act
	a := m.Get("stt:whisper", DefaultSettings())
	b := m.Get("stt:whisper", DefaultSettings())

	// Assert
	if a != b {
		t.Error("expected the same breaker instance for the same name")
	}
	if _, ok := m.Status()["stt:whisper"]; !ok {
		t.Error("expected status entry for registered breaker")
	}
}
