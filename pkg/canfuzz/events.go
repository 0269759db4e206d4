package canfuzz

// State represents the lifecycle state of a Canfuzz instance.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// StateChangeEvent is emitted when the lifecycle state changes.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// DirectiveEvent is emitted after a directive has been dispatched.
type DirectiveEvent struct {
	// Directive is the dispatched directive in id#payload form.
	Directive string

	// Iteration is the running dispatch count, starting at 1.
	Iteration uint64
}

// ResponseEvent is emitted when a bus response arrives inside the
// observation window of a dispatched directive.
type ResponseEvent struct {
	// Directive is the directive the response belongs to.
	Directive string

	// ID is the arbitration id of the responding frame.
	ID uint32

	// Data is the payload of the responding frame.
	Data []byte
}

// EventHandler receives notifications about fuzzing run events.
// Handlers are called synchronously from the dispatch goroutine and
// should return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnDirective(event DirectiveEvent)
	OnResponse(event ResponseEvent)
}

// BaseEventHandler provides no-op implementations of all EventHandler
// methods. Embed it to implement only the events you care about.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}
func (BaseEventHandler) OnDirective(DirectiveEvent)     {}
func (BaseEventHandler) OnResponse(ResponseEvent)       {}
