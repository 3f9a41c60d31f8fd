// SPDX-License-Identifier: MIT

// Package validate provides configuration validation utilities.
package validate

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Error represents a validation error
type Error struct {
	Field   string      // Field name that failed validation
	Value   interface{} // The invalid value
	Message string      // Human-readable error message
}

// Error implements the error interface
func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors and can produce a ValidationError when invalid.
type Validator struct {
	errors []Error
}

// ValidationError bundles multiple validation errors into a single error value.
type ValidationError struct {
	errors []Error
}

// New creates a new validator
func New() *Validator {
	return &Validator{
		errors: make([]Error, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string, value interface{}) {
	v.errors = append(v.errors, Error{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// IsValid returns true if no errors have been accumulated
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// Errors returns all accumulated validation errors
func (v *Validator) Errors() []Error {
	return v.errors
}

// Err converts the accumulated validation errors into an error value.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}

	copied := make([]Error, len(v.errors))
	copy(copied, v.errors)

	return ValidationError{errors: copied}
}

// Errors returns the individual validation errors making up the validation failure.
func (e ValidationError) Errors() []Error {
	return e.errors
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if len(e.errors) == 0 {
		return ""
	}

	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}

	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// DeepLink validates a custom-scheme URI such as "app://host/path".
// Query strings are rejected because the playlist appends its own.
func (v *Validator) DeepLink(field, value string) {
	if value == "" {
		v.AddError(field, "URI cannot be empty", value)
		return
	}

	u, err := url.Parse(value)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid URI: %v", err), value)
		return
	}

	if u.Scheme == "" {
		v.AddError(field, "URI must have a scheme", value)
		return
	}

	if u.RawQuery != "" || u.Fragment != "" {
		v.AddError(field, "URI must not carry a query or fragment", value)
	}
}

// ListenPort validates a listen port. Zero selects an ephemeral port.
func (v *Validator) ListenPort(field string, port int) {
	if port < 0 || port > 65535 {
		v.AddError(field,
			fmt.Sprintf("port must be between 0 and 65535, got %d", port),
			port)
	}
}

// Range validates that an integer is within a specified range (inclusive)
func (v *Validator) Range(field string, value, minVal, maxVal int) {
	if value < minVal || value > maxVal {
		v.AddError(field,
			fmt.Sprintf("value must be between %d and %d, got %d", minVal, maxVal, value),
			value)
	}
}

// PositiveDuration validates that a duration is strictly positive.
func (v *Validator) PositiveDuration(field string, d time.Duration) {
	if d <= 0 {
		v.AddError(field, fmt.Sprintf("duration must be positive, got %s", d), d)
	}
}

// FileName validates a bare file name (no directory components).
func (v *Validator) FileName(field, name string) {
	if strings.TrimSpace(name) == "" {
		v.AddError(field, "file name cannot be empty", name)
		return
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		v.AddError(field, "must be a plain file name without directories", name)
	}
}

// Path validates a file system path for traversal sequences.
func (v *Validator) Path(field, path string) {
	if strings.TrimSpace(path) == "" {
		v.AddError(field, "path cannot be empty", path)
		return
	}
	if strings.Contains(path, "\x00") {
		v.AddError(field, "path contains NUL byte", path)
	}
}

// NotEmpty validates that a string is not empty or whitespace-only
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "cannot be empty", value)
	}
}

// CronSpec validates a standard five-field cron expression. Empty is allowed.
func (v *Validator) CronSpec(field, spec string) {
	if strings.TrimSpace(spec) == "" {
		return
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		v.AddError(field, fmt.Sprintf("invalid cron expression: %v", err), spec)
	}
}

// LogLevel validates a level name the logger accepts. Empty is allowed.
// Numeric levels are rejected even though zerolog parses them.
func (v *Validator) LogLevel(field, level string) {
	if level == "" {
		return
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel || parsed.String() != strings.ToLower(level) {
		v.AddError(field, "invalid log level (must be: trace, debug, info, warn, error, fatal, panic, disabled)", level)
	}
}
