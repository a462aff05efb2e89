package cli

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/studio/internal/gateway"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, invalid flag combinations,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Unreadable input files or stdin.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty names, unknown priorities, bad scopes,
	// or any case where input fails validation rules.
	ExitValidation = 5

	// ExitConflict indicates the write was refused because of existing data.
	// Use for: Deleting a status that still holds tasks, references to records
	// that are gone.
	ExitConflict = 6
)

// CommandError carries the process exit code of a failed command
type CommandError struct {
	Code int
	Err  error
}

func (e *CommandError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode maps a command error onto a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exit *CommandError
	if errors.As(err, &exit) {
		return exit.Code
	}
	var we *gateway.WriteError
	if errors.As(err, &we) {
		switch we.Code {
		case gateway.CodeInvalid:
			return ExitValidation
		case gateway.CodeNotFound:
			return ExitNotFound
		case gateway.CodeConflict:
			return ExitConflict
		}
	}
	return ExitError
}

// ErrorCode is the machine readable code reported for err in JSON output
func ErrorCode(err error) string {
	var we *gateway.WriteError
	if errors.As(err, &we) {
		switch we.Code {
		case gateway.CodeInvalid:
			return "VALIDATION_ERROR"
		case gateway.CodeNotFound:
			return "NOT_FOUND"
		case gateway.CodeConflict:
			return "CONFLICT"
		}
		return "INTERNAL_ERROR"
	}
	switch ExitCode(err) {
	case ExitUsage:
		return "USAGE_ERROR"
	case ExitNotFound:
		return "NOT_FOUND"
	case ExitDataErr:
		return "DATA_ERROR"
	case ExitValidation:
		return "VALIDATION_ERROR"
	case ExitConflict:
		return "CONFLICT"
	}
	return "ERROR"
}

// errorMessage is the user facing text of err
func errorMessage(err error) string {
	var we *gateway.WriteError
	if errors.As(err, &we) {
		return we.Message
	}
	return err.Error()
}

// NotFound builds a not-found error for a lookup that came back empty
func NotFound(format string, args ...any) error {
	return &CommandError{Code: ExitNotFound, Err: fmt.Errorf(format, args...)}
}

// Usage builds a usage error
func Usage(format string, args ...any) error {
	return &CommandError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// Invalid builds a validation error for input rejected before reaching the store
func Invalid(err error) error {
	return &CommandError{Code: ExitValidation, Err: err}
}

type suggested struct {
	err        error
	suggestion string
}

func (s *suggested) Error() string { return s.err.Error() }

func (s *suggested) Unwrap() error { return s.err }

// WithSuggestion attaches a hint shown next to the error message
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &suggested{err: err, suggestion: suggestion}
}

func suggestionOf(err error) string {
	var s *suggested
	if errors.As(err, &s) {
		return s.suggestion
	}
	return ""
}
