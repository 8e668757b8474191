package recording

import "time"

// State is the lifecycle state of a recording session.
type State string

const (
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
)

// IsTerminal reports whether no further transition can leave the state.
func (s State) IsTerminal() bool {
	return s == StateStopped
}

// Session represents one recording in progress.
type Session struct {
	ID        string        `json:"id"`        // Opaque session ID, stable for the session's lifetime
	State     State         `json:"state"`     // Current lifecycle state
	StartedAt time.Time     `json:"startedAt"` // Time the session was started
	UpdatedAt time.Time     `json:"updatedAt"` // Time of the last transition
	StoppedAt time.Time     `json:"stoppedAt,omitzero"`
	Pauses    int           `json:"pauses"`   // Number of applied pause transitions
	Recorded  time.Duration `json:"recorded"` // Time spent in the recording state
}

// Record is the history entry of a stopped session.
type Record struct {
	Session

	FinalizeError string `json:"finalizeError,omitempty"` // Finalizer failure, if any
}
