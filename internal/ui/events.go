package ui

import (
	"encoding/json"
	"io"
	"log/slog"

	"pta/internal/parser"
)

// Event is one line of the JSON event stream written by `pta run --json`.
type Event struct {
	Event    string   `json:"event"`
	Session  int      `json:"session"`
	ID       string   `json:"id"`
	Status   string   `json:"status,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	Output   string   `json:"output,omitempty"`
	Error    string   `json:"error,omitempty"`
}

const (
	EventStarted  = "started"
	EventFinished = "finished"
)

// EventWriter re-emits decoded records as newline-delimited JSON.
type EventWriter struct {
	enc *json.Encoder
}

// NewEventWriter creates an EventWriter writing to w
func NewEventWriter(w io.Writer) *EventWriter {
	return &EventWriter{enc: json.NewEncoder(w)}
}

// Observe writes one event for every echo and outcome record. It has the
// signature of execution.Observer.
func (ew *EventWriter) Observe(session int, rec parser.Record) {
	var ev Event
	switch rec.Kind {
	case parser.KindEcho:
		ev = Event{Event: EventStarted, Session: session, ID: rec.ID.String()}
	case parser.KindOutcome:
		o := rec.Outcome
		ev = Event{
			Event:   EventFinished,
			Session: session,
			ID:      o.ID.String(),
			Status:  o.Status.Code(),
			Output:  o.Output,
			Error:   o.Error,
		}
		if o.Duration > 0 {
			secs := o.Duration.Seconds()
			ev.Duration = &secs
		}
	default:
		return
	}
	if err := ew.enc.Encode(ev); err != nil {
		slog.Error("write event", "error", err)
	}
}
