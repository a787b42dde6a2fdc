package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure so the transport layer can map it to a status code.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindPermission        ErrorKind = "permission"
	KindOwnership         ErrorKind = "ownership"
	KindNotAvailable      ErrorKind = "not_available"
	KindTimeValidation    ErrorKind = "time_validation"
	KindUnsupportedStatus ErrorKind = "unsupported_status"
	KindValidation        ErrorKind = "validation"
	KindConflict          ErrorKind = "conflict"
)

// Error is a classified domain error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with ID: '%v' doesn't exist", entity, id)}
}

// NewPermissionError reports a caller that is not a party to the resource.
func NewPermissionError(msg string) *Error {
	return &Error{Kind: KindPermission, Message: msg}
}

// NewOwnershipError reports a caller that is not the owner of an item it tries to mutate.
func NewOwnershipError(msg string) *Error {
	return &Error{Kind: KindOwnership, Message: msg}
}

// NewNotAvailableError reports an action the current state of the resource does not allow.
func NewNotAvailableError(msg string) *Error {
	return &Error{Kind: KindNotAvailable, Message: msg}
}

// NewTimeValidationError reports a malformed booking window.
func NewTimeValidationError(msg string) *Error {
	return &Error{Kind: KindTimeValidation, Message: msg}
}

// NewUnsupportedStatusError reports an unknown state filter token.
func NewUnsupportedStatusError(raw string) *Error {
	return &Error{Kind: KindUnsupportedStatus, Message: "Unknown state: " + raw}
}

// NewValidationError reports invalid input.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewConflictError reports a write that collides with existing state.
func NewConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
