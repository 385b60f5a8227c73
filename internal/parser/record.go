package parser

import (
	"bytes"
	"encoding/json"
	"time"

	"pta/internal/domain"
)

// Kind discriminates the records a line can decode to.
type Kind int

const (
	// KindNoise is a line that matches no record shape. Decoders drop it.
	KindNoise Kind = iota
	// KindIdentifier is one discovered test.
	KindIdentifier
	// KindEcho signals that a test has started.
	KindEcho
	// KindOutcome carries the status of a concluded test.
	KindOutcome
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindEcho:
		return "echo"
	case KindOutcome:
		return "outcome"
	}
	return "noise"
}

// Record is one decoded line.
type Record struct {
	Kind Kind
	// ID is set for identifiers and echoes. Decoders also set it on outcomes
	// to the most recently echoed test.
	ID      domain.TestID
	Outcome domain.Outcome // valid when Kind == KindOutcome
}

// wireRecord is the JSON shape written by the execution plugin.
type wireRecord struct {
	Path     *string  `json:"path"`
	Status   *string  `json:"status"`
	Duration *float64 `json:"duration"`
	Output   *string  `json:"output"`
	Error    *string  `json:"error"`
}

// Classify decodes a single line. It is total: any input yields a record, and
// the only error is an outcome record whose code is not in the vocabulary.
func Classify(mode Mode, line []byte) (Record, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Record{Kind: KindNoise}, nil
	}
	if mode == ModeDiscovery {
		return Record{Kind: KindIdentifier, ID: domain.TestID(line)}, nil
	}
	return classifyExecution(line)
}

func classifyExecution(line []byte) (Record, error) {
	if line[0] != '{' {
		return Record{Kind: KindNoise}, nil
	}

	var wire wireRecord
	if err := json.Unmarshal(line, &wire); err != nil {
		return Record{Kind: KindNoise}, nil
	}

	switch {
	case wire.Path != nil:
		return Record{Kind: KindEcho, ID: domain.TestID(*wire.Path)}, nil
	case wire.Status != nil:
		st, err := domain.ParseStatus(*wire.Status)
		if err != nil {
			return Record{Kind: KindNoise}, err
		}
		o := domain.Outcome{Status: st}
		if wire.Duration != nil && *wire.Duration > 0 {
			o.Duration = time.Duration(*wire.Duration * float64(time.Second))
		}
		if wire.Output != nil {
			o.Output = *wire.Output
		}
		if wire.Error != nil {
			o.Error = *wire.Error
		}
		return Record{Kind: KindOutcome, Outcome: o}, nil
	}
	return Record{Kind: KindNoise}, nil
}
