package climb

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dzonerzy/go-climb/internal/fuzzy"
)

// ErrorType represents error categories for registration and parsing.
// These categories drive suggestion logic and exit-code mapping (via ExitCodeManager).
type ErrorType string

const (
	// Registration (configuration time)
	ErrorTypeDuplicateAlias ErrorType = "duplicate_alias"
	ErrorTypeMalformedAlias ErrorType = "malformed_alias"
	ErrorTypeReservedAlias  ErrorType = "reserved_alias"
	ErrorTypeInvalidSpec    ErrorType = "invalid_spec"
	ErrorTypeSealed         ErrorType = "sealed"

	// Parsing (invocation time)
	ErrorTypeUnknownCommand     ErrorType = "unknown_command"
	ErrorTypeUnknownOption      ErrorType = "unknown_option"
	ErrorTypeMissingOptionValue ErrorType = "missing_option_value"
	ErrorTypeTooManyArguments   ErrorType = "too_many_arguments"
	ErrorTypeArityMismatch      ErrorType = "arity_mismatch"

	ErrorTypeInternal ErrorType = "internal_error"
)

// Special errors for graceful exits
var (
	ErrHelpShown    = errors.New("help shown")
	ErrVersionShown = errors.New("version shown")
)

// RegistrationError is returned when a command specification is rejected.
// The offending command is never registered.
type RegistrationError struct {
	Type    ErrorType
	Command string
	Alias   string
	Message string
}

func (e *RegistrationError) Error() string {
	if e.Command == "" {
		return e.Message
	}
	return "command " + e.Command + ": " + e.Message
}

// ParseError is a terminal diagnostic produced while matching one invocation.
type ParseError struct {
	Type       ErrorType
	Message    string
	Token      string   // raw token that triggered the error
	Alias      string   // option alias with dashes stripped, or command alias
	Command    string   // active command name
	Expected   int      // declared arity, for arity errors
	Actual     int      // positional values seen, for arity errors
	Suggestion string   // closest known alias, if any
	Current    *Command // command context where the error occurred
}

func (e *ParseError) Error() string {
	return e.Message
}

// HelpRequest is returned by the engine instead of dispatching when help or
// version output is wanted. Command is nil for app-level help.
type HelpRequest struct {
	Command *Command
	Version bool
}

func (h *HelpRequest) Error() string {
	if h.Version {
		return "version requested"
	}
	if h.Command == nil || h.Command.Builtin() {
		return "help requested"
	}
	return "help requested for " + h.Command.Name()
}

// CLIError is an enhanced error with suggestions, built from a ParseError for display.
type CLIError struct {
	Type        ErrorType
	Message     string
	Suggestions []string
	Cause       error
	Context     map[string]any
	formatted   string
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.formatted != "" {
		return e.formatted
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewError creates a new CLIError with the given type and message
func NewError(typ ErrorType, message string) *CLIError {
	return &CLIError{
		Type:        typ,
		Message:     message,
		Suggestions: make([]string, 0),
		Context:     make(map[string]any),
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithCause adds an underlying cause to the error
func (e *CLIError) WithCause(cause error) *CLIError {
	e.Cause = cause
	return e
}

// WithContext adds context information to the error
func (e *CLIError) WithContext(key string, value any) *CLIError {
	e.Context[key] = value
	return e
}

// ErrorHandler turns parse errors into user-facing diagnostics.
type ErrorHandler struct {
	suggestCommands bool
	suggestOptions  bool
	maxDistance     int
	showHelpOnError bool
	customHandlers  map[ErrorType]func(*CLIError) *CLIError
}

// NewErrorHandler creates a new error handler with defaults
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{
		suggestCommands: true,
		suggestOptions:  true,
		maxDistance:     2,
		customHandlers:  make(map[ErrorType]func(*CLIError) *CLIError),
	}
}

// SuggestCommands enables/disables command suggestions
func (eh *ErrorHandler) SuggestCommands(enabled bool) *ErrorHandler {
	eh.suggestCommands = enabled
	return eh
}

// SuggestOptions enables/disables option suggestions
func (eh *ErrorHandler) SuggestOptions(enabled bool) *ErrorHandler {
	eh.suggestOptions = enabled
	return eh
}

// MaxDistance sets the maximum edit distance for suggestions
func (eh *ErrorHandler) MaxDistance(distance int) *ErrorHandler {
	eh.maxDistance = distance
	return eh
}

// ShowHelpOnError controls whether contextual help is printed after an error.
func (eh *ErrorHandler) ShowHelpOnError(enabled bool) *ErrorHandler {
	eh.showHelpOnError = enabled
	return eh
}

// Handle registers a custom handler for a specific error type
func (eh *ErrorHandler) Handle(typ ErrorType, handler func(*CLIError) *CLIError) *ErrorHandler {
	eh.customHandlers[typ] = handler
	return eh
}

// fromParseError converts a ParseError into a CLIError carrying its context.
func (eh *ErrorHandler) fromParseError(pe *ParseError) *CLIError {
	cliErr := NewError(pe.Type, pe.Message).WithCause(pe)
	if pe.Command != "" {
		cliErr = cliErr.WithContext("command", pe.Command)
	}
	switch pe.Type {
	case ErrorTypeUnknownCommand:
		cliErr = cliErr.WithContext("alias", pe.Alias)
	case ErrorTypeUnknownOption, ErrorTypeMissingOptionValue:
		cliErr = cliErr.WithContext("option", pe.Alias)
	case ErrorTypeTooManyArguments, ErrorTypeArityMismatch:
		cliErr = cliErr.WithContext("expected", pe.Expected).WithContext("actual", pe.Actual)
	}
	return cliErr
}

// ProcessError converts a ParseError and adds suggestions according to the handler settings.
func (eh *ErrorHandler) ProcessError(pe *ParseError, r *Registry) *CLIError {
	err := eh.fromParseError(pe)
	if handler, ok := eh.customHandlers[err.Type]; ok {
		err = handler(err)
	}

	switch err.Type {
	case ErrorTypeUnknownCommand:
		if eh.suggestCommands {
			if best := eh.closestCommand(pe.Alias, r); best != "" {
				_ = err.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", best))
			}
		}
	case ErrorTypeUnknownOption:
		if eh.suggestOptions && pe.Current != nil {
			if best := eh.closestOption(pe.Alias, pe.Current); best != "" {
				_ = err.WithSuggestion(fmt.Sprintf("Did you mean '--%s'?", best))
			}
		}
	case ErrorTypeTooManyArguments, ErrorTypeArityMismatch:
		if pe.Current != nil && !pe.Current.Builtin() {
			_ = err.WithSuggestion(fmt.Sprintf("Usage: %s", pe.Current.usageArgs()))
		}
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(err.Message)
	for _, s := range err.Suggestions {
		b.WriteString("\n  ")
		b.WriteString(s)
	}
	err.formatted = b.String()
	return err
}

// DisplayError writes the formatted error to w, with the first line in red.
func (eh *ErrorHandler) DisplayError(w io.Writer, err *CLIError) {
	lines := strings.SplitN(err.Error(), "\n", 2)
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintln(w, lines[0])
	if len(lines) > 1 {
		_, _ = fmt.Fprintln(w, lines[1])
	}
}

func (eh *ErrorHandler) closestCommand(input string, r *Registry) string {
	if r == nil {
		return ""
	}
	names := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		names = append(names, cmd.name)
	}
	return fuzzy.Closest(input, names, eh.maxDistance)
}

func (eh *ErrorHandler) closestOption(input string, cmd *Command) string {
	names := make([]string, 0, len(cmd.flags)+len(cmd.options))
	for _, f := range cmd.flags {
		names = append(names, f.Name)
	}
	for _, o := range cmd.options {
		names = append(names, o.Name)
	}
	return fuzzy.Closest(input, names, eh.maxDistance)
}
