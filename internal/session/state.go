package session

import "fmt"

// State is a step of one launch run
type State int

const (
	StateIdle State = iota
	StateBaselineCaptured
	StateLaunching
	StatePolling
	StateBound
	StateDone

	// StateStalled means the expected windows never appeared before the
	// stall timeout elapsed
	StateStalled

	// StateCancelled means the caller's context ended the run
	StateCancelled
)

var stateNames = map[State]string{
	StateIdle:             "Idle",
	StateBaselineCaptured: "BaselineCaptured",
	StateLaunching:        "Launching",
	StatePolling:          "Polling",
	StateBound:            "Bound",
	StateDone:             "Done",
	StateStalled:          "Stalled",
	StateCancelled:        "Cancelled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("State(%d)", int(s))
}
