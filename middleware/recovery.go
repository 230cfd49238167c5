package middleware

import (
	"fmt"
	"runtime"
)

// Recovery converts a handler panic into a *RecoveryError. Without it a
// panic propagates to the caller of the engine.
func Recovery(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return RecoveryWithHandler(func(panicVal any, command string, stack []byte) error {
		if config.PrintStack && len(stack) > 0 && config.StackWriter != nil {
			fmt.Fprintf(config.StackWriter, "PANIC in command '%s': %v\n", command, panicVal)
			fmt.Fprintf(config.StackWriter, "Stack trace:\n%s\n", stack)
		}
		return &RecoveryError{Panic: panicVal, Command: command, Stack: stack}
	}, options...)
}

// RecoveryWithHandler recovers panics and returns whatever handler makes of them.
// The stack is captured only when stack traces are enabled.
func RecoveryWithHandler(
	handler func(panicVal any, command string, stack []byte) error,
	options ...MiddlewareOption,
) Middleware {
	config := newConfig(options)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (out string, err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack []byte
					if config.PrintStack {
						stack = make([]byte, config.StackSize)
						stack = stack[:runtime.Stack(stack, false)]
					}
					out, err = "", handler(r, getCommandName(ctx), stack)
				}
			}()

			return next(ctx)
		}
	}
}

// RecoveryToError recovers without capturing or printing stack traces
func RecoveryToError() Middleware {
	return Recovery(WithStackTrace(false))
}

// SafeRecovery captures the stack but never prints it; the stack and panic
// value are stored in the context metadata for later middleware.
func SafeRecovery() Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (out string, err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, 4096)
					stack = stack[:runtime.Stack(stack, false)]

					ctx.Set("panic_stack", string(stack))
					ctx.Set("panic_value", r)
					out, err = "", &RecoveryError{Panic: r, Command: getCommandName(ctx), Stack: stack}
				}
			}()

			return next(ctx)
		}
	}
}
