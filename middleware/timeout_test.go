package middleware

import (
	"errors"
	"testing"
	"time"
)

func blockingAction(release <-chan struct{}) ActionFunc {
	return func(Context) (string, error) {
		<-release
		return "late", nil
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	_, err := Timeout(10 * time.Millisecond)(blockingAction(release))(NewMockContext())

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TimeoutError, got %v", err)
	}
	if te.Command != "test" || te.Duration != 10*time.Millisecond {
		t.Errorf("Unexpected timeout error: %+v", te)
	}
	if te.Error() != "command 'test' timed out after 10ms" {
		t.Errorf("Unexpected message %q", te.Error())
	}
}

func TestTimeout_Completes(t *testing.T) {
	out, err := Timeout(time.Second)(successAction)(NewMockContext())
	if err != nil || out != "ok" {
		t.Errorf("Expected (ok, nil), got (%q, %v)", out, err)
	}

	_, err = Timeout(time.Second)(panicAction)(NewMockContext())
	var recErr *RecoveryError
	if !errors.As(err, &recErr) {
		t.Errorf("Expected panic surfaced as *RecoveryError, got %v", err)
	}
}

func TestTimeoutPerCommand(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	m := TimeoutPerCommand(map[string]time.Duration{"test": 5 * time.Millisecond}, 0)
	_, err := m(blockingAction(release))(NewMockContext())

	var te *TimeoutError
	if !errors.As(err, &te) || te.Duration != 5*time.Millisecond {
		t.Errorf("Expected per-command timeout, got %v", err)
	}

	ctx := NewMockContext()
	ctx.command.name = "other"
	if out, err := m(successAction)(ctx); err != nil || out != "ok" {
		t.Errorf("Expected no timeout for other command, got (%q, %v)", out, err)
	}
}

func TestTimeoutFromOption(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	m := TimeoutFromOption("timeout", time.Hour)

	ctx := NewMockContext()
	ctx.SetOption("timeout", "5ms")
	_, err := m(blockingAction(release))(ctx)

	var te *TimeoutError
	if !errors.As(err, &te) || te.Duration != 5*time.Millisecond {
		t.Errorf("Expected option-driven timeout, got %v", err)
	}

	ctx = NewMockContext()
	ctx.SetOption("timeout", "soon")
	if out, err := m(successAction)(ctx); err != nil || out != "ok" {
		t.Errorf("Expected default timeout on bad value, got (%q, %v)", out, err)
	}
}
