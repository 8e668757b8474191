package recording

// Op names an operation on the registry.
type Op string

const (
	OpStart  Op = "start"
	OpPause  Op = "pause"
	OpResume Op = "resume"
	OpStop   Op = "stop"
	OpGet    Op = "get"
)

// Transition is a single allowed edge in the session state machine.
type Transition struct {
	From State
	To   State
	Op   Op
}

var transitionsTable = []Transition{
	{From: StateRecording, To: StatePaused, Op: OpPause},
	{From: StatePaused, To: StateRecording, Op: OpResume},
	{From: StateRecording, To: StateStopped, Op: OpStop},
	{From: StatePaused, To: StateStopped, Op: OpStop},
}

// TransitionFor returns the allowed transition for the given state and operation.
func TransitionFor(from State, op Op) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Op == op {
			return tr, true
		}
	}

	return Transition{}, false
}
