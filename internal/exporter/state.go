package exporter

// State is the progress of one (message, intent) pairing.
type State int32

const (
	// Pending indicates the pairing has been admitted but not started.
	Pending State = iota
	// Rendering indicates a worker is compiling the pairing.
	Rendering
	// Written indicates both files of the pairing are on disk.
	Written
	// Failed indicates the pairing could not be compiled or written.
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Rendering:
		return "rendering"
	case Written:
		return "written"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pairing identifies the unit of work tracked by an Observer.
type Pairing struct {
	MessageID string
	IntentID  string
}

// Observer receives pairing state transitions. It is called from worker
// goroutines and must be safe for concurrent use.
type Observer interface {
	Transition(p Pairing, s State)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(p Pairing, s State)

// Transition calls f(p, s).
func (f ObserverFunc) Transition(p Pairing, s State) { f(p, s) }

type nopObserver struct{}

func (nopObserver) Transition(Pairing, State) {}
