// Package comparison drives one anomaly comparison at a time: it validates the
// selection, calls anomaly detection, parses and aggregates the report, and
// then fetches the progress chart for the same start date.
package comparison

// State is the lifecycle of a comparison.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
