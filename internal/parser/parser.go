// Package parser turns pytest plugin output into records, one line at a time.
package parser

import "fmt"

// Mode selects how lines are interpreted.
type Mode int

const (
	// ModeDiscovery treats every non-blank line as a test identifier.
	ModeDiscovery Mode = iota
	// ModeExecution expects JSON echo and outcome records.
	ModeExecution
)

func (m Mode) String() string {
	switch m {
	case ModeDiscovery:
		return "discovery"
	case ModeExecution:
		return "execution"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// DecodeError is returned when a line has a known record shape but content
// that cannot be mapped, such as an unknown outcome code.
type DecodeError struct {
	Line int    // 1-based line number in the stream
	Text string // the raw line
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
