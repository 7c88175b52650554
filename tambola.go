// Package tambola contains the main domain types (and associated helper values
// and functions) needed to play a game of Tambola, the 90-ball variant of
// bingo.
package tambola

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	// MinTickets represents the minimum number of tickets that can be
	// requested in a single ticket set.
	MinTickets int = 1

	// MaxTickets represents the maximum number of tickets that can be
	// requested in a single ticket set.
	MaxTickets int = 6

	// MaxNumber is the highest number that can be called in a game of Tambola
	MaxNumber int = 90

	// Rows is the number of rows on every ticket
	Rows int = 3

	// Columns is the number of columns on every ticket. Each column owns a
	// contiguous block of ten numbers.
	Columns int = 9

	// NumbersPerRow is the number of filled cells every ticket row must have.
	// The remaining Columns-NumbersPerRow cells in the row stay blank.
	NumbersPerRow int = 5

	// NumbersPerTicket is the total amount of filled cells on a ticket
	NumbersPerTicket int = Rows * NumbersPerRow
)

var (
	// ErrExhausted indicates that every number has already been called for a
	// draw. It is the normal terminal result of a draw and should never be
	// retried.
	ErrExhausted = errors.New("all numbers have been called")

	// ErrInvalidTicketCount indicates that a ticket set was requested with a
	// size outside of [MinTickets, MaxTickets].
	ErrInvalidTicketCount = errors.New("invalid ticket count")

	// ErrInvalidNumber indicates a value that is not a callable number.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrAlreadyCalled indicates a number that has already been called in the
	// current draw.
	ErrAlreadyCalled = errors.New("number has already been called")
)

// Number represents a single number from 1 to 90 (both inclusive) that can
// be called during a game, as well as a blank ticket cell (represented via
// the zero value)
type Number uint8

// Blank represents an empty cell on a ticket. It is the zero value of Number,
// and is never callable.
const Blank = Number(0)

var (
	_ json.Marshaler = Blank
	_ yaml.Marshaler = Blank
)

// MarshalJSON turns a number into a "human-readable" int. Blank cells are
// serialized as null so that consumers don't confuse them with real values.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == Blank {
		return []byte("null"), nil
	}
	return json.Marshal(int(n))
}

// MarshalYAML mirrors MarshalJSON
func (n Number) MarshalYAML() (any, error) {
	if n == Blank {
		return nil, nil
	}
	return int(n), nil
}

// Valid reports whether the number can be called (i.e., is within 1–90).
func (n Number) Valid() bool {
	return n >= 1 && int(n) <= MaxNumber
}

// Column returns the ticket column index that the number belongs to. Returns
// -1 for Blank and any other invalid value.
func (n Number) Column() int {
	if !n.Valid() {
		return -1
	}
	return ColumnOf(int(n))
}

// ParseNumber takes any arbitrary int, and attempts to turn it into a
// callable number. Will error if the provided value is outside 1–90.
func ParseNumber(rawValue int) (Number, error) {
	if rawValue > MaxNumber {
		return Blank, fmt.Errorf("value %d is not allowed to exceed %d: %w", rawValue, MaxNumber, ErrInvalidNumber)
	}
	if rawValue < 1 {
		return Blank, fmt.Errorf("value %d is not allowed to fall below 1: %w", rawValue, ErrInvalidNumber)
	}
	return Number(rawValue), nil
}

// ColumnRange returns the inclusive range of numbers that column col is
// allowed to hold. That is:
//
//  1. Column 0 can have numbers 1–10
//  2. Column 1 can have numbers 11–20
//  3. ...and so on, up to column 8, which can have numbers 81–90
//
// Panics if col is outside [0, Columns).
func ColumnRange(col int) (lo int, hi int) {
	if col < 0 || col >= Columns {
		panic(fmt.Sprintf("column %d is out of bounds", col))
	}
	return col*10 + 1, col*10 + 10
}

// ColumnOf returns the column that value n should be placed in. The value is
// assumed to already be within 1–90.
func ColumnOf(n int) int {
	return (n - 1) / 10
}

// NumbersForRange creates every number for a given contiguous, inclusive
// range. If the bounds are invalid, the function will return a nil slice
// instead.
func NumbersForRange(start int, end int) []Number {
	var numbers []Number
	inputIsInvalid := end < start ||
		start < 1 || end < 1 ||
		start > MaxNumber || end > MaxNumber
	if inputIsInvalid {
		return numbers
	}

	numbers = make([]Number, 0, end-start+1)
	for i := start; i <= end; i++ {
		numbers = append(numbers, Number(i))
	}
	return numbers
}

// DrawStatus describes where a draw session is in its lifecycle. It is always
// derived from how many numbers have been called, never stored.
type DrawStatus string

const (
	// DrawStatusIdle means that no numbers have been called yet
	DrawStatusIdle DrawStatus = "idle"
	// DrawStatusActive means that at least one number, but not every number,
	// has been called
	DrawStatusActive DrawStatus = "active"
	// DrawStatusComplete means that all 90 numbers have been called. The only
	// way out of this status is a reset.
	DrawStatusComplete DrawStatus = "complete"
)

// StatusForCalls derives the draw status from the number of calls made so far
func StatusForCalls(called int) DrawStatus {
	switch {
	case called <= 0:
		return DrawStatusIdle
	case called >= MaxNumber:
		return DrawStatusComplete
	default:
		return DrawStatusActive
	}
}

// EventDispatcher is anything that can receive the events produced by a draw
// session.
type EventDispatcher interface {
	DispatchEvent(event DrawEvent) error
}

// EventSubscriber is anything that lets a system listen to the events
// dispatched by a draw session.
type EventSubscriber interface {
	// Subscribe lets any external system subscribe to specific types of draw
	// events. If the provided slice is nil or empty, that causes the system to
	// subscribe to ALL events.
	Subscribe(types []DrawEventType) (eventReceiver <-chan DrawEvent, unsubscribe func(), err error)
}
