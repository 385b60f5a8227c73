package domain

import "time"

// Outcome is the result of one executed test.
type Outcome struct {
	ID       TestID
	Status   Status
	Duration time.Duration // zero when the plugin did not report it
	Output   string        // captured stdout, if any
	Error    string        // failure or skip text, if any
}

// RunSummary aggregates the outcomes of one or more sessions. The decoder never
// builds one; callers tally records as they arrive.
type RunSummary struct {
	Started  []TestID       // every echoed identifier, in arrival order
	Outcomes []Outcome      // every outcome, in arrival order
	Counts   map[string]int // outcome code -> count
	Duration time.Duration
	Sessions int
	// Interrupted is set when a run was stopped early on purpose (fail-fast).
	Interrupted bool
}

// NewRunSummary returns an empty summary ready for tallying.
func NewRunSummary() *RunSummary {
	return &RunSummary{Counts: make(map[string]int)}
}

// AddStarted records an echo.
func (s *RunSummary) AddStarted(id TestID) {
	s.Started = append(s.Started, id)
}

// AddOutcome records an outcome and bumps its code count.
func (s *RunSummary) AddOutcome(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	s.Counts[o.Status.Code()]++
}

// Merge folds another summary into s.
func (s *RunSummary) Merge(other *RunSummary) {
	if other == nil {
		return
	}
	s.Started = append(s.Started, other.Started...)
	for _, o := range other.Outcomes {
		s.AddOutcome(o)
	}
	s.Sessions += other.Sessions
}

// Problems returns the outcomes that count as failures.
func (s *RunSummary) Problems() []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Status.IsProblem() {
			out = append(out, o)
		}
	}
	return out
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string         `json:"run_id"`
	TotalStarted    int            `json:"total_started"`
	TotalOutcomes   int            `json:"total_outcomes"`
	FailedTestCases int            `json:"failed_test_cases"`
	Counts          map[string]int `json:"counts"`
	Duration        string         `json:"duration"`
	DurationSeconds float64        `json:"duration_seconds"`
	Sessions        int            `json:"sessions"`
	Timestamp       string         `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}
