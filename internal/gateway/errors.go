package gateway

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/studio/internal/database"
	"github.com/thenoetrevino/studio/internal/models"
)

// Code classifies a failed write
type Code string

const (
	CodeInvalid  Code = "invalid"
	CodeNotFound Code = "not_found"
	CodeConflict Code = "conflict"
	CodeInternal Code = "internal"
)

// Validation errors
var (
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrNameTooLong       = fmt.Errorf("name cannot exceed %d characters", models.MaxNameLength)
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrTitleTooLong      = fmt.Errorf("title cannot exceed %d characters", models.MaxTitleLength)
	ErrEmptyBody         = errors.New("comment cannot be empty")
	ErrBodyTooLong       = fmt.Errorf("comment cannot exceed %d characters", models.MaxCommentLength)
	ErrInvalidID         = errors.New("invalid ID")
	ErrInvalidMinute     = errors.New("minutes must be positive")
	ErrInvalidPrio       = errors.New("invalid priority")
	ErrEmptyUpdate       = errors.New("nothing to update")
	ErrNoBlobStore       = errors.New("no blob store configured")
	ErrInvalidMonthRange = errors.New("contract cannot end before it starts")
)

// WriteError is the result of every failed write. Message is meant to be shown to
// the user as is.
type WriteError struct {
	Op      string
	Code    Code
	Message string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsCode reports whether err is a WriteError with the given code
func IsCode(err error, code Code) bool {
	var we *WriteError
	return errors.As(err, &we) && we.Code == code
}

// writeError classifies a store or validation error. fkMessage, when set, replaces
// the message of a foreign key violation.
func writeError(op string, err error, fkMessage string) *WriteError {
	var we *WriteError
	if errors.As(err, &we) {
		return we
	}

	switch {
	case isValidation(err):
		return &WriteError{Op: op, Code: CodeInvalid, Message: err.Error(), Err: err}
	case errors.Is(err, database.ErrNotFound):
		return &WriteError{Op: op, Code: CodeNotFound, Message: err.Error(), Err: err}
	case database.IsForeignKeyError(err):
		msg := fkMessage
		if msg == "" {
			msg = "a referenced record does not exist or is still in use"
		}
		return &WriteError{Op: op, Code: CodeConflict, Message: msg, Err: err}
	case database.IsConstraintError(err):
		return &WriteError{Op: op, Code: CodeConflict, Message: "conflicts with an existing record", Err: err}
	default:
		return &WriteError{Op: op, Code: CodeInternal, Message: "unexpected store failure", Err: err}
	}
}

func isValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyName, ErrNameTooLong, ErrEmptyTitle, ErrTitleTooLong, ErrEmptyBody, ErrBodyTooLong,
		ErrInvalidID, ErrInvalidMinute, ErrInvalidPrio, ErrEmptyUpdate, ErrNoBlobStore, ErrInvalidMonthRange,
		models.ErrInvalidScope, models.ErrUnknownStatus,
		database.ErrStatusMismatch, database.ErrScopeMismatch, database.ErrNoDefaultStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
