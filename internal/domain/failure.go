package domain

// TestFailure represents a failed test case
type TestFailure struct {
	TestID   string  `json:"test_id"`
	FilePath string  `json:"file_path"`
	TestName string  `json:"test_name"`
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Output   string  `json:"output,omitempty"`
	Seconds  float64 `json:"seconds"`
	Resolved bool    `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

// NewTestFailure converts a problem outcome into its stored form.
func NewTestFailure(o Outcome) TestFailure {
	return TestFailure{
		TestID:   o.ID.String(),
		FilePath: o.ID.File(),
		TestName: o.ID.Name(),
		Status:   o.Status.Code(),
		Message:  o.Error,
		Output:   o.Output,
		Seconds:  o.Duration.Seconds(),
	}
}
