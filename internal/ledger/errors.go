package ledger

import (
	"errors"
	"fmt"
)

// Code categorizes ledger operation failures. Codes are stable strings:
// they are journaled alongside results and compared during replay
// verification, so renaming one is a breaking change.
type Code string

const (
	// CodeRegistryFull indicates the registry arena has no free slots.
	CodeRegistryFull Code = "REGISTRY_FULL"

	// CodeHandleTaken indicates an active entry already claims the handle.
	CodeHandleTaken Code = "HANDLE_TAKEN"

	// CodeAlreadyRegistered indicates the caller already owns an active entry.
	CodeAlreadyRegistered Code = "ALREADY_REGISTERED"

	// CodeNotRegistered indicates the caller has no active entry.
	CodeNotRegistered Code = "NOT_REGISTERED"

	// CodeBadNonce indicates a nonce at or below the last accepted one.
	CodeBadNonce Code = "BAD_NONCE"

	// CodeRateLimited indicates a proof inside the rate-limit window.
	CodeRateLimited Code = "RATE_LIMITED"

	// CodeSelfMessage indicates sender and receiver are the same identity.
	CodeSelfMessage Code = "SELF_MESSAGE"

	// CodeBadLogIndex indicates a log index outside the physical ring.
	CodeBadLogIndex Code = "BAD_LOG_INDEX"
)

// Error is a typed result code returned by ledger operations. Failures
// are never fatal: the call leaves state untouched and reports why.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrCode extracts the result code from err, or "" if err is not a
// ledger error. Uses errors.As to handle wrapped errors.
func ErrCode(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsCode reports whether err carries the given result code.
func IsCode(err error, code Code) bool {
	return ErrCode(err) == code
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
