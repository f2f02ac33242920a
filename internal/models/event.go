package models

// EventKind classifies how a well moved between two snapshots.
type EventKind string

const (
	EventExited      EventKind = "exited"
	EventEntered     EventKind = "entered"
	EventModeChanged EventKind = "mode_changed"
)

// Label returns the human readable report label.
func (k EventKind) Label() string {
	switch k {
	case EventExited:
		return "Выведено из ДФ"
	case EventEntered:
		return "Введено в ДФ"
	case EventModeChanged:
		return "Замена способа эксплуатации"
	default:
		return string(k)
	}
}

// Event is a single well movement. PreviousMode is set for mode changes only.
type Event struct {
	WellID       string
	Kind         EventKind
	PreviousMode string
}

// DiffResult groups events by class.
type DiffResult struct {
	Exited      []Event
	Entered     []Event
	ModeChanged []Event
}

// All returns every event, exited first, then entered, then mode changes.
func (d DiffResult) All() []Event {
	out := make([]Event, 0, len(d.Exited)+len(d.Entered)+len(d.ModeChanged))
	out = append(out, d.Exited...)
	out = append(out, d.Entered...)
	return append(out, d.ModeChanged...)
}
