// Package board holds the state a player interface keeps on top of the core
// ticket and draw packages: the current ticket set, which cells the player
// has marked, and the counters derived from both.
package board

import (
	"errors"
	"fmt"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/draw"
	"github.com/Parkreiner/tambola/ticket"
)

var (
	// ErrNoSuchTicket is returned for a ticket index outside the current set
	ErrNoSuchTicket = errors.New("no such ticket")
	// ErrBlankCell is returned when trying to mark a cell without a number
	ErrBlankCell = errors.New("cell is blank")
)

// Position identifies a single cell on a ticket
type Position struct {
	Row int
	Col int
}

// MarkState tracks which cells of one ticket the player has marked. It lives
// and dies with its ticket.
type MarkState struct {
	marked map[Position]bool
}

func newMarkState() MarkState {
	return MarkState{marked: make(map[Position]bool)}
}

// IsMarked reports whether the cell at pos is marked
func (m MarkState) IsMarked(pos Position) bool {
	return m.marked[pos]
}

// Count returns how many cells are marked
func (m MarkState) Count() int {
	return len(m.marked)
}

// Stats are the counters shown alongside the tickets and the draw. They are
// always derived from the core's outputs, never stored on their own.
type Stats struct {
	Tickets   int
	Called    int
	Remaining int
	Status    tambola.DrawStatus
	// Progress goes from 0 to 1 as numbers get called
	Progress float64
}

// Board combines a ticket set with a draw session. It is meant to be owned by
// a single UI loop, and is not safe for concurrent use.
type Board struct {
	generator *ticket.Generator
	session   *draw.Session
	tickets   []tambola.Ticket
	marks     []MarkState
}

// New creates a board with no tickets
func New(generator *ticket.Generator, session *draw.Session) *Board {
	return &Board{
		generator: generator,
		session:   session,
	}
}

// Session returns the draw session the board reads from
func (b *Board) Session() *draw.Session {
	return b.session
}

// NewTickets throws away the current ticket set (and every mark on it), and
// replaces it with n fresh tickets. An invalid n leaves the board untouched.
func (b *Board) NewTickets(n int) error {
	tickets, err := b.generator.GenerateSet(n)
	if err != nil {
		return err
	}

	b.tickets = tickets
	b.marks = make([]MarkState, len(tickets))
	for i := range b.marks {
		b.marks[i] = newMarkState()
	}
	return nil
}

// Tickets returns the current ticket set
func (b *Board) Tickets() []tambola.Ticket {
	return b.tickets
}

// Ticket returns the ticket at index i
func (b *Board) Ticket(i int) (tambola.Ticket, error) {
	if i < 0 || i >= len(b.tickets) {
		return tambola.Ticket{}, fmt.Errorf("ticket %d: %w", i, ErrNoSuchTicket)
	}
	return b.tickets[i], nil
}

// Marks returns the mark state of the ticket at index i
func (b *Board) Marks(i int) (MarkState, error) {
	if i < 0 || i >= len(b.marks) {
		return MarkState{}, fmt.Errorf("ticket %d: %w", i, ErrNoSuchTicket)
	}
	return b.marks[i], nil
}

// ToggleMark flips the mark on one cell of ticket i, and returns whether the
// cell is marked afterwards. Blank cells can't be marked.
func (b *Board) ToggleMark(i int, pos Position) (bool, error) {
	t, err := b.Ticket(i)
	if err != nil {
		return false, err
	}
	if _, ok := t.Cell(pos.Row, pos.Col); !ok {
		return false, fmt.Errorf("ticket %d, row %d, column %d: %w", i, pos.Row, pos.Col, ErrBlankCell)
	}

	marks := b.marks[i]
	if marks.marked[pos] {
		delete(marks.marked, pos)
		return false, nil
	}
	marks.marked[pos] = true
	return true, nil
}

// Stats derives the current counters from the ticket set and the session
func (b *Board) Stats() Stats {
	snap := b.session.Snapshot()
	return Stats{
		Tickets:   len(b.tickets),
		Called:    len(snap.Called),
		Remaining: snap.Remaining,
		Status:    snap.Status,
		Progress:  snap.Progress(),
	}
}
