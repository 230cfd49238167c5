// Package middleware provides handler middleware for go-climb engines:
// request logging, panic recovery, and pre-dispatch validation.
package middleware

import (
	"fmt"
	"io"
	"os"
)

// This package defines middleware against interfaces to avoid an import cycle.
// *climb.Context and *climb.Command satisfy them.

// Context is the per-invocation view a middleware can rely on. It is
// implemented by *climb.Context.
type Context interface {
	// Args returns the positional values in declaration order. The returned
	// slice should be treated as read-only.
	Args() []string

	// Flag reports whether the boolean option with the given alias (long or
	// short, without dashes) was supplied.
	Flag(alias string) bool

	// Option returns the raw value of a value option and whether it was supplied.
	Option(alias string) (string, bool)

	// Set stores a key/value pair in the invocation metadata. Keys should be
	// namespaced to avoid collisions (e.g. "logger.request_id").
	Set(key string, value any)

	// Get retrieves a value previously stored via Set, or nil.
	Get(key string) any

	// Command returns the dispatched command descriptor.
	Command() Command
}

// Command is satisfied by *climb.Command
type Command interface {
	Name() string
	Description() string
}

// ActionFunc is the dispatch signature: a handler returns optional output text
// (empty when it produced none) or an error.
type ActionFunc func(ctx Context) (string, error)

// Middleware wraps an ActionFunc
type Middleware func(next ActionFunc) ActionFunc

// MiddlewareChain represents a chain of middleware functions
type MiddlewareChain []Middleware

// Apply wraps action with the chain. The first middleware is the outermost.
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	out := make(MiddlewareChain, 0, len(chain)+len(middleware))
	out = append(out, chain...)
	return append(out, middleware...)
}

// Chain creates a middleware chain, preserving order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// Error types

// ValidationError is returned by Validator when a check rejects an invocation
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// RecoveryError represents a recovered handler panic
type RecoveryError struct {
	Panic   any
	Command string
	Stack   []byte
}

func (e *RecoveryError) Error() string {
	return "command '" + e.Command + "' panicked: " + toString(e.Panic)
}

// Configuration

// MiddlewareConfig contains configuration for middleware behavior
type MiddlewareConfig struct {
	LogLevel    LogLevel
	LogFormat   LogFormat
	LogWriter   io.Writer // nil disables console output
	LogFile     *LogFileConfig
	IncludeArgs bool
	PrintStack  bool
	StackSize   int
	StackWriter io.Writer
	Validators  []NamedValidator
}

// LogLevel represents logging levels
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// LogFormat represents log formats
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// MiddlewareOption configures a middleware constructor
type MiddlewareOption func(config *MiddlewareConfig)

// DefaultConfig returns the configuration every constructor starts from.
func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:    LogLevelInfo,
		LogFormat:   LogFormatText,
		LogWriter:   os.Stderr,
		IncludeArgs: true,
		PrintStack:  true,
		StackSize:   4096,
		StackWriter: os.Stderr,
	}
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogLevel = level
	}
}

func WithLogFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogFormat = format
	}
}

// WithWriter sends log records to w instead of stderr. A nil writer disables
// console output (a log file, if configured, still receives records).
func WithWriter(w io.Writer) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogWriter = w
	}
}

func WithArgs(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.IncludeArgs = enabled
	}
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.PrintStack = enabled
	}
}

// WithStackWriter sets where Recovery prints panic stacks.
func WithStackWriter(w io.Writer) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.StackWriter = w
	}
}

// Utility functions

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func getCommandName(ctx Context) string {
	cmd := ctx.Command()
	if cmd == nil {
		return "unknown"
	}
	return cmd.Name()
}
