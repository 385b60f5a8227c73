package parser

import (
	"bufio"
	"errors"
	"io"

	"pta/internal/domain"
)

// Decoder reads records from a live process stream. Next blocks until a
// meaningful line arrives or the stream ends. A Decoder is not safe for
// concurrent use; give each session its own.
type Decoder struct {
	r       *bufio.Reader
	mode    Mode
	line    int
	current domain.TestID
}

// NewDecoder creates a Decoder reading r in the given mode.
func NewDecoder(r io.Reader, mode Mode) *Decoder {
	return &Decoder{r: bufio.NewReader(r), mode: mode}
}

// Mode returns the mode the decoder was created with.
func (d *Decoder) Mode() Mode {
	return d.mode
}

// Next returns the next identifier, echo or outcome record, skipping noise.
// It returns io.EOF once the stream is exhausted, and a *DecodeError for a
// record it recognizes but cannot map. Decoding may continue after a
// *DecodeError.
func (d *Decoder) Next() (Record, error) {
	for {
		text, readErr := d.r.ReadBytes('\n')
		if len(text) > 0 {
			d.line++
			rec, err := Classify(d.mode, text)
			if err != nil {
				return Record{}, &DecodeError{Line: d.line, Text: string(text), Err: err}
			}
			switch rec.Kind {
			case KindEcho:
				d.current = rec.ID
				return rec, nil
			case KindOutcome:
				rec.ID = d.current
				rec.Outcome.ID = d.current
				return rec, nil
			case KindIdentifier:
				return rec, nil
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return Record{}, io.EOF
			}
			return Record{}, readErr
		}
	}
}

// Identifiers drains a discovery stream and returns every identifier in
// arrival order.
func Identifiers(r io.Reader) ([]domain.TestID, error) {
	dec := NewDecoder(r, ModeDiscovery)
	var ids []domain.TestID
	for {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return ids, nil
		}
		if err != nil {
			return ids, err
		}
		ids = append(ids, rec.ID)
	}
}
