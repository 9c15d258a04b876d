package progress

import "time"

// Stage identifies which part of a reflection run is active.
type Stage string

const (
	StageLove       Stage = "love"
	StageGoodAt     Stage = "goodAt"
	StageWorldNeeds Stage = "worldNeeds"
	StagePaidFor    Stage = "paidFor"
	StageSummary    Stage = "summary"
	StageShare      Stage = "share"
	StageComplete   Stage = "complete"
)

// Event carries progress information from a reflection run to the renderer.
type Event struct {
	Stage     Stage
	Message   string
	Percent   float64 // 0.0–1.0
	Step      int
	StepTotal int
	Elapsed   time.Duration
	Error     error
	// Ikigai is the summary sentence, set on StageComplete.
	Ikigai string
	// SavedTo is where the session was written, set on StageComplete.
	SavedTo string
}

// Callback is the function signature for progress event handlers.
type Callback func(Event)

// NopCallback discards events.
func NopCallback(Event) {}

// NewEvent creates an Event with common fields populated.
func NewEvent(stage Stage, msg string, pct float64, start time.Time) Event {
	return Event{
		Stage:   stage,
		Message: msg,
		Percent: pct,
		Elapsed: time.Since(start),
	}
}

// StepEvent creates an Event for step n of total, placing it within the
// share of the bar reserved for per-step work.
func StepEvent(stage Stage, msg string, n, total int, start time.Time) Event {
	const stepShare = 0.7
	pct := 0.0
	if total > 0 {
		pct = stepShare * float64(n-1) / float64(total)
	}
	e := NewEvent(stage, msg, pct, start)
	e.Step, e.StepTotal = n, total
	return e
}
