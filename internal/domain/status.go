package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus is returned for an outcome code outside the known vocabulary.
// It usually means the pytest plugin and this binary are out of sync.
var ErrUnknownStatus = errors.New("unknown outcome code")

// Status is the framework-agnostic outcome of one executed test.
type Status int

const (
	StatusPassed Status = iota + 1
	StatusFailed
	StatusErrored
	StatusExpectedFailure
	StatusUnexpectedPass
	StatusUnexpectedPassStrict
	StatusSkipped
)

// Outcome codes as written by the execution plugin.
const (
	CodePassed               = "OK"
	CodeFailed               = "F"
	CodeErrored              = "E"
	CodeExpectedFailure      = "x"
	CodeUnexpectedPass       = "u"
	CodeUnexpectedPassStrict = "U"
	CodeSkipped              = "s"
)

var statusByCode = map[string]Status{
	CodePassed:               StatusPassed,
	CodeFailed:               StatusFailed,
	CodeErrored:              StatusErrored,
	CodeExpectedFailure:      StatusExpectedFailure,
	CodeUnexpectedPass:       StatusUnexpectedPass,
	CodeUnexpectedPassStrict: StatusUnexpectedPassStrict,
	CodeSkipped:              StatusSkipped,
}

// Statuses lists the vocabulary in display order.
var Statuses = []Status{
	StatusPassed,
	StatusFailed,
	StatusErrored,
	StatusExpectedFailure,
	StatusUnexpectedPass,
	StatusUnexpectedPassStrict,
	StatusSkipped,
}

// ParseStatus maps an outcome code to its Status. Codes are case sensitive.
func ParseStatus(code string) (Status, error) {
	st, ok := statusByCode[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, code)
	}
	return st, nil
}

// Code returns the wire code for the status, or "" for the zero value.
func (s Status) Code() string {
	switch s {
	case StatusPassed:
		return CodePassed
	case StatusFailed:
		return CodeFailed
	case StatusErrored:
		return CodeErrored
	case StatusExpectedFailure:
		return CodeExpectedFailure
	case StatusUnexpectedPass:
		return CodeUnexpectedPass
	case StatusUnexpectedPassStrict:
		return CodeUnexpectedPassStrict
	case StatusSkipped:
		return CodeSkipped
	}
	return ""
}

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusErrored:
		return "errored"
	case StatusExpectedFailure:
		return "expected failure"
	case StatusUnexpectedPass:
		return "unexpected pass"
	case StatusUnexpectedPassStrict:
		return "unexpected pass (strict)"
	case StatusSkipped:
		return "skipped"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// IsProblem reports whether the outcome should be shown as a failure.
// A strict unexpected pass fails the pytest session, so it counts.
func (s Status) IsProblem() bool {
	return s == StatusFailed || s == StatusErrored || s == StatusUnexpectedPassStrict
}
