package board

import (
	"errors"
	"testing"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/draw"
	"github.com/Parkreiner/tambola/ticket"
)

func newTestBoard(t *testing.T, n int) *Board {
	t.Helper()
	b := New(ticket.NewGenerator(21), draw.NewSession(21))
	if err := b.NewTickets(n); err != nil {
		t.Fatalf("NewTickets(%d) error = %v", n, err)
	}
	return b
}

// firstFilled returns the first non-blank cell of a ticket
func firstFilled(t *testing.T, tk tambola.Ticket) Position {
	t.Helper()
	for row := range tambola.Rows {
		for col := range tambola.Columns {
			if _, ok := tk.Cell(row, col); ok {
				return Position{Row: row, Col: col}
			}
		}
	}
	t.Fatal("ticket has no numbers")
	return Position{}
}

func firstBlank(t *testing.T, tk tambola.Ticket) Position {
	t.Helper()
	for row := range tambola.Rows {
		for col := range tambola.Columns {
			if _, ok := tk.Cell(row, col); !ok {
				return Position{Row: row, Col: col}
			}
		}
	}
	t.Fatal("ticket has no blanks")
	return Position{}
}

func TestNewTicketsReplacesSet(t *testing.T) {
	b := newTestBoard(t, 3)
	if got := len(b.Tickets()); got != 3 {
		t.Fatalf("len(Tickets()) = %d, want 3", got)
	}
	first := b.Tickets()[0].ID

	if err := b.NewTickets(5); err != nil {
		t.Fatalf("NewTickets(5) error = %v", err)
	}
	if got := len(b.Tickets()); got != 5 {
		t.Fatalf("len(Tickets()) = %d, want 5", got)
	}
	if b.Tickets()[0].ID == first {
		t.Fatal("NewTickets kept the old ticket")
	}
}

func TestNewTicketsInvalidCountKeepsBoard(t *testing.T) {
	b := newTestBoard(t, 2)
	before := b.Tickets()

	for _, n := range []int{0, 7} {
		err := b.NewTickets(n)
		if !errors.Is(err, tambola.ErrInvalidTicketCount) {
			t.Fatalf("NewTickets(%d) error = %v, want ErrInvalidTicketCount", n, err)
		}
	}
	if len(b.Tickets()) != 2 || b.Tickets()[0].ID != before[0].ID {
		t.Fatal("invalid NewTickets changed the board")
	}
}

func TestToggleMark(t *testing.T) {
	b := newTestBoard(t, 1)
	tk, _ := b.Ticket(0)
	pos := firstFilled(t, tk)

	marked, err := b.ToggleMark(0, pos)
	if err != nil || !marked {
		t.Fatalf("ToggleMark() = %v, %v, want true, nil", marked, err)
	}
	marks, _ := b.Marks(0)
	if !marks.IsMarked(pos) || marks.Count() != 1 {
		t.Fatal("mark was not recorded")
	}

	marked, err = b.ToggleMark(0, pos)
	if err != nil || marked {
		t.Fatalf("second ToggleMark() = %v, %v, want false, nil", marked, err)
	}
	if marks.IsMarked(pos) || marks.Count() != 0 {
		t.Fatal("mark was not cleared")
	}
}

func TestToggleMarkRejectsBlanksAndBadIndexes(t *testing.T) {
	b := newTestBoard(t, 1)
	tk, _ := b.Ticket(0)

	if _, err := b.ToggleMark(0, firstBlank(t, tk)); !errors.Is(err, ErrBlankCell) {
		t.Fatalf("ToggleMark(blank) error = %v, want ErrBlankCell", err)
	}
	if _, err := b.ToggleMark(0, Position{Row: 3, Col: 0}); !errors.Is(err, ErrBlankCell) {
		t.Fatalf("ToggleMark(out of grid) error = %v, want ErrBlankCell", err)
	}
	if _, err := b.ToggleMark(1, Position{}); !errors.Is(err, ErrNoSuchTicket) {
		t.Fatalf("ToggleMark(ticket 1) error = %v, want ErrNoSuchTicket", err)
	}
}

func TestMarksClearedOnRegenerate(t *testing.T) {
	b := newTestBoard(t, 2)
	tk, _ := b.Ticket(1)
	if _, err := b.ToggleMark(1, firstFilled(t, tk)); err != nil {
		t.Fatalf("ToggleMark() error = %v", err)
	}

	if err := b.NewTickets(2); err != nil {
		t.Fatalf("NewTickets() error = %v", err)
	}
	marks, _ := b.Marks(1)
	if marks.Count() != 0 {
		t.Fatalf("marks survived regeneration: %d", marks.Count())
	}
}

func TestStatsDeriveFromSession(t *testing.T) {
	b := newTestBoard(t, 4)

	stats := b.Stats()
	want := Stats{Tickets: 4, Called: 0, Remaining: tambola.MaxNumber, Status: tambola.DrawStatusIdle}
	if stats != want {
		t.Fatalf("Stats() = %+v, want %+v", stats, want)
	}

	for range 45 {
		if _, err := b.Session().DrawNext(); err != nil {
			t.Fatalf("DrawNext() error = %v", err)
		}
	}
	stats = b.Stats()
	if stats.Called != 45 || stats.Remaining != 45 || stats.Status != tambola.DrawStatusActive {
		t.Fatalf("Stats() = %+v after 45 draws", stats)
	}
	if stats.Progress != 0.5 {
		t.Fatalf("Progress = %v, want 0.5", stats.Progress)
	}

	b.Session().Reset()
	if stats := b.Stats(); stats.Called != 0 || stats.Tickets != 4 {
		t.Fatalf("Stats() after reset = %+v", stats)
	}
}
