package tambola

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Grid is a 3x9 layout of ticket cells. Every column corresponds to a
// different block of ten numbers (see ColumnRange), and blank cells are
// represented as the zero value.
//
// Grid is an array rather than a slice so that copying a Ticket never lets two
// copies share (and accidentally mutate) the same cells.
type Grid [Rows][Columns]Number

// Ticket represents a single Tambola ticket. It should be treated as 100%
// immutable once generated; players' marks are tracked separately.
type Ticket struct {
	ID   uuid.UUID `json:"id" yaml:"id"`
	Grid Grid      `json:"grid" yaml:"grid"`
}

// Cell returns the value at the given row and column, along with whether the
// cell holds a number. Out-of-bounds coordinates are treated as blank.
func (t Ticket) Cell(row int, col int) (Number, bool) {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		return Blank, false
	}
	n := t.Grid[row][col]
	return n, n != Blank
}

// Numbers returns every filled cell of the ticket in row-major order
func (t Ticket) Numbers() []Number {
	numbers := make([]Number, 0, NumbersPerTicket)
	for _, row := range t.Grid {
		for _, n := range row {
			if n != Blank {
				numbers = append(numbers, n)
			}
		}
	}
	return numbers
}

// Column returns the filled cells of a single column, top to bottom
func (t Ticket) Column(col int) []Number {
	var numbers []Number
	if col < 0 || col >= Columns {
		return numbers
	}
	for row := 0; row < Rows; row++ {
		if n := t.Grid[row][col]; n != Blank {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// Contains reports whether n appears anywhere on the ticket
func (t Ticket) Contains(n Number) bool {
	if n == Blank {
		return false
	}
	col := n.Column()
	if col == -1 {
		return false
	}
	for row := 0; row < Rows; row++ {
		if t.Grid[row][col] == n {
			return true
		}
	}
	return false
}

// Validate checks every structural rule a ticket has to follow, and joins
// together one error per broken rule.
func (t Ticket) Validate() error {
	var errs []error
	seen := make(map[Number]bool, NumbersPerTicket)

	for row := 0; row < Rows; row++ {
		filled := 0
		for col := 0; col < Columns; col++ {
			n := t.Grid[row][col]
			if n == Blank {
				continue
			}
			filled++

			lo, hi := ColumnRange(col)
			if int(n) < lo || int(n) > hi {
				errs = append(errs, fmt.Errorf("cell (%d, %d) holds %d, outside of column range %d–%d", row, col, n, lo, hi))
			}
			if seen[n] {
				errs = append(errs, fmt.Errorf("number %d appears more than once", n))
			}
			seen[n] = true
		}
		if filled != NumbersPerRow {
			errs = append(errs, fmt.Errorf("row %d has %d numbers, want %d", row, filled, NumbersPerRow))
		}
	}

	for col := 0; col < Columns; col++ {
		column := t.Column(col)
		for i := 1; i < len(column); i++ {
			if column[i-1] >= column[i] {
				errs = append(errs, fmt.Errorf("column %d is not strictly increasing: %v", col, column))
				break
			}
		}
	}

	return errors.Join(errs...)
}
