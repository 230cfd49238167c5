package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ValidatorFunc is a business-logic check run before the handler.
// Structural checks (arity, known options) already happened in the matcher;
// use validators for value contents, file system state and conditional rules.
type ValidatorFunc func(ctx Context) error

// NamedValidator associates a name with a ValidatorFunc for error reporting.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps an arbitrary ValidatorFunc with a name for reporting.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// WithValidators appends validators to the middleware config
func WithValidators(validators ...NamedValidator) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.Validators = append(config.Validators, validators...)
	}
}

// Validator runs the configured validators in order and stops at the first failure.
func Validator(options ...MiddlewareOption) Middleware {
	return Validate(newConfig(options).Validators...)
}

// Validate composes NamedValidators into a single Middleware.
//
// Example:
//
//	engine := climb.NewEngine(reg, middleware.Validate(
//	    middleware.Custom("nonzero_divisor", checkDivisor),
//	    middleware.File("input"),
//	))
func Validate(validators ...NamedValidator) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (string, error) {
			for _, v := range validators {
				if v.Fn == nil {
					continue
				}
				if err := v.Fn(ctx); err != nil {
					var validationErr *ValidationError
					if errors.As(err, &validationErr) {
						return "", validationErr
					}
					return "", &ValidationError{
						Field:   v.Name,
						Message: "validation failed",
						Cause:   err,
					}
				}
			}
			return next(ctx)
		}
	}
}

// RequireOptions fails unless every named value option was supplied.
func RequireOptions(aliases ...string) ValidatorFunc {
	return func(ctx Context) error {
		var missing []string
		for _, alias := range aliases {
			if _, ok := ctx.Option(alias); !ok {
				missing = append(missing, alias)
			}
		}
		if len(missing) > 0 {
			return &ValidationError{
				Field:   strings.Join(missing, ", "),
				Message: "required options missing: --" + strings.Join(missing, ", --"),
			}
		}
		return nil
	}
}

// ConditionalRequired requires the named options whenever condition returns nil.
func ConditionalRequired(condition ValidatorFunc, aliases ...string) ValidatorFunc {
	required := RequireOptions(aliases...)
	return func(ctx Context) error {
		if condition(ctx) != nil {
			return nil
		}
		return required(ctx)
	}
}

// WhenFlag is a condition for ConditionalRequired: satisfied when the flag is set.
func WhenFlag(alias string) ValidatorFunc {
	return func(ctx Context) error {
		if ctx.Flag(alias) {
			return nil
		}
		return fmt.Errorf("flag --%s not set", alias)
	}
}

// File returns a NamedValidator ensuring the given value options name existing files.
func File(aliases ...string) NamedValidator {
	return NamedValidator{Name: "file_exists", Fn: pathCheck(aliases, false)}
}

// Dir returns a NamedValidator ensuring the given value options name existing directories.
func Dir(aliases ...string) NamedValidator {
	return NamedValidator{Name: "directory_exists", Fn: pathCheck(aliases, true)}
}

func pathCheck(aliases []string, wantDir bool) ValidatorFunc {
	kind := "file"
	if wantDir {
		kind = "directory"
	}
	return func(ctx Context) error {
		for _, alias := range aliases {
			path, ok := ctx.Option(alias)
			if !ok || path == "" {
				continue
			}
			if err := checkPath(path, wantDir); err != nil {
				return &ValidationError{
					Field:   alias,
					Value:   path,
					Message: fmt.Sprintf("%s validation failed for option '%s'", kind, alias),
					Cause:   err,
				}
			}
		}
		return nil
	}
}

func checkPath(path string, wantDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	switch {
	case wantDir && !info.IsDir():
		return fmt.Errorf("%s is not a directory", path)
	case !wantDir && info.IsDir():
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
