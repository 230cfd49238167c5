package middleware

import (
	"fmt"
	"time"
)

// TimeoutError is returned when a handler does not finish in time
type TimeoutError struct {
	Duration time.Duration
	Command  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command '%s' timed out after %v", e.Command, e.Duration)
}

// Timeout stops waiting for the handler after duration and returns a
// *TimeoutError. Handlers receive no cancellation signal, so a timed out
// handler keeps running in its goroutine until it returns on its own.
// Panics inside the handler are reported as *RecoveryError.
func Timeout(duration time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (string, error) {
			type result struct {
				out string
				err error
			}
			done := make(chan result, 1)

			go func() {
				defer func() {
					if r := recover(); r != nil {
						done <- result{err: &RecoveryError{Panic: r, Command: getCommandName(ctx)}}
					}
				}()
				out, err := next(ctx)
				done <- result{out, err}
			}()

			timer := time.NewTimer(duration)
			defer timer.Stop()

			select {
			case res := <-done:
				return res.out, res.err
			case <-timer.C:
				return "", &TimeoutError{Duration: duration, Command: getCommandName(ctx)}
			}
		}
	}
}

// DynamicTimeout computes the duration per invocation. A duration <= 0 runs
// the handler inline without a timeout.
func DynamicTimeout(timeoutFunc func(ctx Context) time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		limited := func(d time.Duration) ActionFunc { return Timeout(d)(next) }
		return func(ctx Context) (string, error) {
			duration := timeoutFunc(ctx)
			if duration <= 0 {
				return next(ctx)
			}
			return limited(duration)(ctx)
		}
	}
}

// TimeoutPerCommand applies the duration configured for the active command,
// falling back to defaultTimeout.
func TimeoutPerCommand(commandTimeouts map[string]time.Duration, defaultTimeout time.Duration) Middleware {
	return DynamicTimeout(func(ctx Context) time.Duration {
		if d, ok := commandTimeouts[getCommandName(ctx)]; ok {
			return d
		}
		return defaultTimeout
	})
}

// TimeoutFromOption reads the duration from a value option ("--timeout 5s").
// A missing or unparsable value falls back to defaultTimeout.
func TimeoutFromOption(alias string, defaultTimeout time.Duration) Middleware {
	return DynamicTimeout(func(ctx Context) time.Duration {
		if v, ok := ctx.Option(alias); ok {
			if d, err := time.ParseDuration(v); err == nil {
				return d
			}
		}
		return defaultTimeout
	})
}
