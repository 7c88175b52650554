// Package ticket generates Tambola tickets.
package ticket

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/shuffler"
	"github.com/google/uuid"
)

// maxDrawAttempts caps the retry loop used to find an unused value for a
// cell. Each column range has ten values and a ticket uses at most three of
// them, so the cap is a safety net that should never be reached in practice.
const maxDrawAttempts = 1_000

// Generator produces Tambola tickets. A single Generator is safe to share
// between goroutines.
type Generator struct {
	shuffler *shuffler.Shuffler
	mtx      *sync.Mutex
}

// NewGenerator creates a new ticket generator. Generators created with the
// same seed produce the same sequence of ticket grids.
func NewGenerator(rngSeed int64) *Generator {
	return &Generator{
		shuffler: shuffler.NewShuffler(rngSeed),
		mtx:      &sync.Mutex{},
	}
}

// Generate creates a single valid ticket. It cannot fail.
func (g *Generator) Generate() tambola.Ticket {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	return tambola.Ticket{
		ID:   uuid.New(),
		Grid: g.generateGrid(),
	}
}

// GenerateSet creates n tickets, each generated independently from the
// others. Numbers are allowed to repeat across tickets in the same set.
func (g *Generator) GenerateSet(n int) ([]tambola.Ticket, error) {
	if n < tambola.MinTickets || n > tambola.MaxTickets {
		return nil, fmt.Errorf("requested %d tickets, must be between %d and %d: %w", n, tambola.MinTickets, tambola.MaxTickets, tambola.ErrInvalidTicketCount)
	}

	tickets := make([]tambola.Ticket, 0, n)
	for i := 0; i < n; i++ {
		tickets = append(tickets, g.Generate())
	}
	return tickets, nil
}

func (g *Generator) generateGrid() tambola.Grid {
	var grid tambola.Grid
	used := make(map[tambola.Number]bool, tambola.NumbersPerTicket)

	// Each row picks its five columns independently of the other rows. That
	// means a column can end up holding anywhere from zero to three numbers
	// across the whole ticket, and that is allowed
	for row := 0; row < tambola.Rows; row++ {
		for _, col := range g.shuffler.Subset(tambola.Columns, tambola.NumbersPerRow) {
			n := g.drawUnused(col, used)
			used[n] = true
			grid[row][col] = n
		}
	}

	// Sort every column from top to bottom, without changing which rows
	// actually have a number in that column
	for col := 0; col < tambola.Columns; col++ {
		var filledRows []int
		var values []tambola.Number
		for row := 0; row < tambola.Rows; row++ {
			if n := grid[row][col]; n != tambola.Blank {
				filledRows = append(filledRows, row)
				values = append(values, n)
			}
		}

		slices.Sort(values)
		for i, row := range filledRows {
			grid[row][col] = values[i]
		}
	}

	return grid
}

// drawUnused keeps drawing uniformly from the column's range until it finds
// a value that isn't already on the ticket.
func (g *Generator) drawUnused(col int, used map[tambola.Number]bool) tambola.Number {
	lo, hi := tambola.ColumnRange(col)
	for attempt := 0; attempt < maxDrawAttempts; attempt++ {
		n := tambola.Number(g.shuffler.IntInRange(lo, hi))
		if !used[n] {
			return n
		}
	}

	for _, n := range tambola.NumbersForRange(lo, hi) {
		if !used[n] {
			return n
		}
	}

	// Only reachable if a column were asked for more than ten values, which the
	// row layout makes impossible
	panic(fmt.Sprintf("column %d has no unused values left", col))
}
