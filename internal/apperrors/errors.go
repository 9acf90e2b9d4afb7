package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation is blocked by the current state of related resources.
var ErrConflict = errors.New("resource conflict")

// ErrInternal is returned when an infrastructure failure is hidden from the caller.
var ErrInternal = errors.New("internal error")

// Ledger state-machine and period errors.
var (
	ErrUnbalancedEntry     = errors.New("journal entry is not balanced")
	ErrNoOpenPeriod        = errors.New("no open fiscal period covers the entry date")
	ErrPeriodClosed        = errors.New("fiscal period does not accept postings")
	ErrAlreadyPosted       = errors.New("journal entry is already posted")
	ErrNotPosted           = errors.New("journal entry is not posted")
	ErrCannotModifyPosted  = errors.New("posted journal entries cannot be modified")
	ErrCannotDeletePosted  = errors.New("posted journal entries cannot be deleted")
	ErrInvalidPeriodStatus = errors.New("invalid fiscal period status transition")
	ErrLockTimeout         = errors.New("timed out acquiring account lock")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// AppError carries an HTTP-ish code alongside a wrapped infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the caller may retry the operation unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrStoreUnavailable)
}

// IsDomainError reports whether err is one of the expected ledger conditions,
// as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrValidation, ErrDuplicate, ErrConflict,
		ErrUnbalancedEntry, ErrNoOpenPeriod, ErrPeriodClosed,
		ErrAlreadyPosted, ErrNotPosted, ErrCannotModifyPosted,
		ErrCannotDeletePosted, ErrInvalidPeriodStatus, ErrLockTimeout,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
