package command

import (
	"errors"

	"github.com/openkcm/recording-manager/internal/serviceerr"
)

// Error is returned for requests rejected before they reach the registry.
type Error struct {
	Command string
	Kind    *serviceerr.Error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Kind returns the service error kind carried by err, or serviceerr.ErrUnknown.
func Kind(err error) *serviceerr.Error {
	if err == nil {
		return nil
	}

	// ErrFinalize is matched first since the finalizer cause may itself
	// wrap a service error.
	if errors.Is(err, serviceerr.ErrFinalize) {
		return serviceerr.ErrFinalize
	}

	var svcErr *serviceerr.Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	return serviceerr.ErrUnknown
}
