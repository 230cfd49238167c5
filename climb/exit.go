package climb

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/go-climb/middleware"
)

// ExitError requests a specific exit code from inside a handler.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit returns an *ExitError; handlers return it to choose the process exit code.
func Exit(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success         int // default: 0
	GeneralError    int // default: 1
	MisusageError   int // default: 2
	ValidationError int // default: 3
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3}
}

// ExitCodeManager maps errors and categories to process exit codes.
type ExitCodeManager struct {
	codesByType map[reflect.Type]int
	codesByCLI  map[ErrorType]int
	defaults    ExitCodeDefaults
}

func newExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByType: make(map[reflect.Type]int),
		codesByCLI:  make(map[ErrorType]int),
		defaults:    defaultExitDefaults(),
	}
	for _, typ := range []ErrorType{
		ErrorTypeUnknownCommand, ErrorTypeUnknownOption, ErrorTypeMissingOptionValue,
		ErrorTypeTooManyArguments, ErrorTypeArityMismatch,
	} {
		m.codesByCLI[typ] = m.defaults.MisusageError
	}

	m.codesByType[reflect.TypeOf(&middleware.ValidationError{})] = m.defaults.ValidationError
	m.codesByType[reflect.TypeOf(&middleware.RecoveryError{})] = m.defaults.GeneralError
	return m
}

// DefineError maps a concrete error type to an exit code. A requested
// ExitError still wins over it.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	e.codesByType[reflect.TypeOf(err)] = code
	return e
}

// DefineCLI overrides the exit code for a parse or registration error category.
func (e *ExitCodeManager) DefineCLI(typ ErrorType, code int) *ExitCodeManager {
	e.codesByCLI[typ] = code
	return e
}

// Default replaces the manager's default codes. Category mappings registered
// before the call keep their codes.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	return e
}

// Code converts an error to an exit code.
// Precedence:
//  1. nil, ErrHelpShown, ErrVersionShown: Success
//  2. ExitError (requested code)
//  3. error category (DefineCLI) for *CLIError, *ParseError, *RegistrationError
//  4. concrete error type (DefineError)
//  5. GeneralError
func (e *ExitCodeManager) Code(err error) int {
	if err == nil || errors.Is(err, ErrHelpShown) || errors.Is(err, ErrVersionShown) {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if typ, ok := errorCategory(err); ok {
		if code, found := e.codesByCLI[typ]; found {
			return code
		}
		return e.defaults.GeneralError
	}

	for t, code := range e.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}

	return e.defaults.GeneralError
}

func errorCategory(err error) (ErrorType, bool) {
	var cli *CLIError
	if errors.As(err, &cli) {
		return cli.Type, true
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Type, true
	}
	var re *RegistrationError
	if errors.As(err, &re) {
		return re.Type, true
	}
	return "", false
}
