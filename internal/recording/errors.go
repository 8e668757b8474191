package recording

import (
	"fmt"

	"github.com/openkcm/recording-manager/internal/serviceerr"
)

// TransitionError is returned by the registry when an operation is rejected.
// It unwraps to one of serviceerr.ErrSessionNotFound, serviceerr.ErrInvalidTransition
// or serviceerr.ErrResourceExhausted.
type TransitionError struct {
	Op        Op
	SessionID string
	State     State // State observed when the operation was rejected
	Kind      *serviceerr.Error
	Reason    string
}

func (e *TransitionError) Error() string {
	switch e.Kind {
	case serviceerr.ErrSessionNotFound:
		return fmt.Sprintf("session %q not found", e.SessionID)
	case serviceerr.ErrInvalidTransition:
		return fmt.Sprintf("cannot %s session %q: session is %s", e.Op, e.SessionID, e.State)
	case serviceerr.ErrResourceExhausted:
		return "cannot start session: " + e.Reason
	default:
		return fmt.Sprintf("%s session %q: %s", e.Op, e.SessionID, e.Kind)
	}
}

func (e *TransitionError) Unwrap() error {
	return e.Kind
}

func errNotFound(op Op, id string) error {
	return &TransitionError{Op: op, SessionID: id, Kind: serviceerr.ErrSessionNotFound}
}

func errInvalidTransition(op Op, s Session) error {
	return &TransitionError{Op: op, SessionID: s.ID, State: s.State, Kind: serviceerr.ErrInvalidTransition}
}

func errExhausted(reason string) error {
	return &TransitionError{Op: OpStart, Kind: serviceerr.ErrResourceExhausted, Reason: reason}
}
