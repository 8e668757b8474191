package serviceerr

import "net/http"

type Code string

const (
	CodeUnknown           Code = "unknown"
	CodeInvalidRequest    Code = "invalid_request"
	CodeConflict          Code = "conflict"
	CodeNotFound          Code = "not_found"
	CodeSessionNotFound   Code = "session_not_found"
	CodeInvalidTransition Code = "invalid_transition"
	CodeResourceExhausted Code = "resource_exhausted"
	CodeFinalizeFailed    Code = "finalize_failed"
)

// Error is a service error kind. Predefined values are compared by identity,
// so wrap them with %w and test with errors.Is.
type Error struct {
	Err         Code
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

// HTTPStatus maps the error code onto the closest HTTP status.
func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeNotFound, CodeSessionNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidTransition:
		return http.StatusConflict
	case CodeResourceExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrUnknown        = &Error{Err: CodeUnknown, Description: "unknown error"}
	ErrInvalidRequest = &Error{Err: CodeInvalidRequest}
	ErrConflict       = &Error{Err: CodeConflict, Description: "already exists"}
	ErrNotFound       = &Error{Err: CodeNotFound, Description: "not found"}

	ErrSessionNotFound   = &Error{Err: CodeSessionNotFound, Description: "session not found"}
	ErrInvalidTransition = &Error{Err: CodeInvalidTransition, Description: "transition not allowed"}
	ErrResourceExhausted = &Error{Err: CodeResourceExhausted, Description: "cannot allocate a new session"}
	ErrFinalize          = &Error{Err: CodeFinalizeFailed, Description: "session finalization failed"}
)
