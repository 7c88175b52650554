package tambola

import (
	"time"

	"github.com/google/uuid"
)

// DrawEventType indicates what just happened to a draw session
type DrawEventType string

const (
	// EventTypeReset is dispatched whenever a session goes back to its idle
	// state, including when it is first created
	EventTypeReset DrawEventType = "reset"
	// EventTypeCalled is dispatched once per committed number. Animation frames
	// never produce this event.
	EventTypeCalled DrawEventType = "called"
	// EventTypeExhausted is dispatched when somebody asks for a number after
	// every number has already been called
	EventTypeExhausted DrawEventType = "exhausted"
)

// AllEventTypes lists every event type that a draw session can dispatch
var AllEventTypes = []DrawEventType{
	EventTypeReset,
	EventTypeCalled,
	EventTypeExhausted,
}

type DrawEvent struct {
	ID        uuid.UUID     `json:"id"`
	SessionID uuid.UUID     `json:"sessionId"`
	Type      DrawEventType `json:"type"`
	Created   time.Time     `json:"created"`
	// Number is Blank for every event type except EventTypeCalled
	Number    Number `json:"number"`
	Called    int    `json:"called"`
	Remaining int    `json:"remaining"`
	Message   string `json:"message"`
}
