//nolint:testpackage // using package name 'climb' to access unexported fields for testing
package climb

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/dzonerzy/go-climb/middleware"
)

func TestExitCodeManager_Code(t *testing.T) {
	m := newExitCodeManager()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"help shown", ErrHelpShown, 0},
		{"version shown", fmt.Errorf("wrapped: %w", ErrVersionShown), 0},
		{"exit error", Exit(42, errors.New("bye")), 42},
		{"wrapped exit error", fmt.Errorf("ctx: %w", Exit(7, nil)), 7},
		{"parse error", &ParseError{Type: ErrorTypeUnknownOption}, 2},
		{"cli error", NewError(ErrorTypeArityMismatch, "x"), 2},
		{"registration error", &RegistrationError{Type: ErrorTypeDuplicateAlias}, 1},
		{"validation", &middleware.ValidationError{Message: "bad"}, 3},
		{"recovered panic", &middleware.RecoveryError{Panic: "x"}, 1},
		{"plain error", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Code(tt.err); got != tt.want {
				t.Errorf("Code(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeManager_Overrides(t *testing.T) {
	m := newExitCodeManager().
		DefineCLI(ErrorTypeUnknownCommand, 64).
		DefineCLI(ErrorTypeInvalidSpec, 78).
		DefineError(&fs.PathError{}, 66)

	if got := m.Code(&ParseError{Type: ErrorTypeUnknownCommand}); got != 64 {
		t.Errorf("Expected 64, got %d", got)
	}
	if got := m.Code(&RegistrationError{Type: ErrorTypeInvalidSpec}); got != 78 {
		t.Errorf("Expected 78, got %d", got)
	}
	if got := m.Code(fmt.Errorf("open: %w", &fs.PathError{Op: "open"})); got != 66 {
		t.Errorf("Expected 66, got %d", got)
	}
	if m.DefineError(nil, 9) != m {
		t.Error("DefineError(nil) must be a no-op")
	}

	m.Default(ExitCodeDefaults{Success: 0, GeneralError: 10, MisusageError: 20, ValidationError: 30})
	if got := m.Code(errors.New("boom")); got != 10 {
		t.Errorf("Expected new general code 10, got %d", got)
	}
}

func TestExitError(t *testing.T) {
	if (&ExitError{Code: 1}).Error() != "exit" {
		t.Error("ExitError without cause must read 'exit'")
	}
	cause := errors.New("disk full")
	err := Exit(5, cause)
	if err.Error() != "disk full" || !errors.Is(err, cause) {
		t.Errorf("Unexpected ExitError behavior: %v", err)
	}
}
