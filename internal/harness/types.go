package harness

import (
	"github.com/roach88/evsel/internal/pipeline"
)

// TraceEvent is one selected event as read back from the store.
type TraceEvent struct {
	Position      uint64             `json:"position"`
	EventID       uint64             `json:"event_id"`
	NominalWeight float64            `json:"nominal_weight"`
	DefaultWeight float64            `json:"default_weight"`
	RelWeights    map[string]float64 `json:"rel_weights,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion matched.
	Pass bool `json:"pass"`

	// Trace holds the selected events in position order.
	Trace []TraceEvent `json:"trace"`

	// Summary is the pipeline's run summary.
	Summary pipeline.Summary `json:"summary"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// find returns the traced event with the given event number.
func (r *Result) find(eventID uint64) (TraceEvent, bool) {
	for _, ev := range r.Trace {
		if ev.EventID == eventID {
			return ev, true
		}
	}
	return TraceEvent{}, false
}
