// Package render turns tickets and draw state into styled terminal text.
// Every function here is pure: it reads its inputs and returns a string.
package render

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/board"
	"github.com/charmbracelet/lipgloss"
)

// cellWidth fits a two-digit number with a space of padding on each side
const cellWidth = 4

// Theme defines the colors used when rendering. All colors are ANSI 256-color
// codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Numbers that have been called but not marked by the player
	CalledForeground lipgloss.Color

	// Numbers the player has marked
	MarkedForeground lipgloss.Color
	MarkedBackground lipgloss.Color

	// The cell under the cursor
	CursorBackground lipgloss.Color

	// Candidate numbers shown while a draw is animating
	RollingForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	FocusBorderColor lipgloss.Color
	HelpText         lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme
var DefaultTheme = Theme{
	NormalText:        lipgloss.Color("252"),
	FaintText:         lipgloss.Color("240"),
	CalledForeground:  lipgloss.Color("214"),
	MarkedForeground:  lipgloss.Color("16"),
	MarkedBackground:  lipgloss.Color("78"),
	CursorBackground:  lipgloss.Color("238"),
	RollingForeground: lipgloss.Color("177"),
	HeaderForeground:  lipgloss.Color("75"),
	BorderColor:       lipgloss.Color("240"),
	FocusBorderColor:  lipgloss.Color("75"),
	HelpText:          lipgloss.Color("243"),
}

// Renderer renders draw state using a single theme
type Renderer struct {
	theme Theme
}

// New creates a renderer for theme
func New(theme Theme) Renderer {
	return Renderer{theme: theme}
}

// Theme returns the renderer's theme
func (r Renderer) Theme() Theme {
	return r.theme
}

// TicketView describes everything about a ticket's presentation that isn't
// part of the ticket itself. The zero value renders a plain ticket.
type TicketView struct {
	Title string
	Marks board.MarkState
	// IsCalled highlights numbers that have been called. Nil highlights
	// nothing.
	IsCalled func(tambola.Number) bool
	// Cursor is the focused cell. Nil means the ticket isn't focused.
	Cursor *board.Position
}

// Ticket renders a ticket as a bordered 3x9 grid
func (r Renderer) Ticket(t tambola.Ticket, view TicketView) string {
	base := lipgloss.NewStyle().
		Width(cellWidth).
		Align(lipgloss.Center).
		Foreground(r.theme.NormalText)

	rows := make([]string, 0, tambola.Rows)
	for row := range tambola.Rows {
		cells := make([]string, 0, tambola.Columns)
		for col := range tambola.Columns {
			pos := board.Position{Row: row, Col: col}
			style := base
			text := "·"

			n, filled := t.Cell(row, col)
			if filled {
				text = strconv.Itoa(int(n))
				switch {
				case view.Marks.IsMarked(pos):
					style = style.
						Foreground(r.theme.MarkedForeground).
						Background(r.theme.MarkedBackground).
						Bold(true)
				case view.IsCalled != nil && view.IsCalled(n):
					style = style.Foreground(r.theme.CalledForeground).Bold(true)
				}
			} else {
				style = style.Foreground(r.theme.FaintText)
			}
			if view.Cursor != nil && *view.Cursor == pos {
				style = style.Background(r.theme.CursorBackground).Underline(true)
			}

			cells = append(cells, style.Render(text))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	borderColor := r.theme.BorderColor
	if view.Cursor != nil {
		borderColor = r.theme.FocusBorderColor
	}
	grid := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(strings.Join(rows, "\n"))

	if view.Title == "" {
		return grid
	}
	title := lipgloss.NewStyle().Foreground(r.theme.HeaderForeground).Bold(true).Render(view.Title)
	return lipgloss.JoinVertical(lipgloss.Left, title, grid)
}

// TicketTitle is the heading shown above the i-th ticket of a set
func TicketTitle(i int, t tambola.Ticket) string {
	return fmt.Sprintf("Ticket %d  %s", i+1, t.ID.String()[:8])
}

// ColumnHeader returns the "lo-hi" range label for a column
func ColumnHeader(col int) string {
	lo, hi := tambola.ColumnRange(col)
	return fmt.Sprintf("%d-%d", lo, hi)
}

// ColumnLabel describes a column for screen readers and help text, e.g.
// "Column 1 (1-10)"
func ColumnLabel(col int) string {
	return fmt.Sprintf("Column %d (%s)", col+1, ColumnHeader(col))
}

// CalledBoard renders every called number grouped by column, with each
// column sorted ascending. The most recent call is highlighted.
func (r Renderer) CalledBoard(called []tambola.Number) string {
	var latest tambola.Number
	if len(called) > 0 {
		latest = called[len(called)-1]
	}

	var byColumn [tambola.Columns][]tambola.Number
	for _, n := range called {
		col := n.Column()
		if col == -1 {
			continue
		}
		byColumn[col] = append(byColumn[col], n)
	}

	headerStyle := lipgloss.NewStyle().
		Width(cellWidth + 3).
		Align(lipgloss.Center).
		Foreground(r.theme.HeaderForeground).
		Bold(true)
	numberStyle := lipgloss.NewStyle().
		Width(cellWidth + 3).
		Align(lipgloss.Center).
		Foreground(r.theme.NormalText)
	latestStyle := numberStyle.Foreground(r.theme.CalledForeground).Bold(true)

	columns := make([]string, 0, tambola.Columns)
	for col := range tambola.Columns {
		numbers := byColumn[col]
		slices.Sort(numbers)

		lines := []string{headerStyle.Render(ColumnHeader(col))}
		for _, n := range numbers {
			style := numberStyle
			if n == latest {
				style = latestStyle
			}
			lines = append(lines, style.Render(strconv.Itoa(int(n))))
		}
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Center, lines...))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// Recent renders the most recent calls, newest first
func (r Renderer) Recent(recent []tambola.Number) string {
	label := lipgloss.NewStyle().Foreground(r.theme.FaintText).Render("Recent:")
	if len(recent) == 0 {
		return label + " " + lipgloss.NewStyle().Foreground(r.theme.FaintText).Render("none")
	}

	parts := make([]string, 0, len(recent))
	for i, n := range recent {
		style := lipgloss.NewStyle().Foreground(r.theme.NormalText)
		if i == 0 {
			style = style.Foreground(r.theme.CalledForeground).Bold(true)
		}
		parts = append(parts, style.Render(strconv.Itoa(int(n))))
	}
	return label + " " + strings.Join(parts, " ")
}

// Current renders the number in the spotlight. While rolling is true the
// number is an animation frame rather than a committed call.
func (r Renderer) Current(n tambola.Number, rolling bool) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch {
	case rolling:
		return style.Foreground(r.theme.RollingForeground).Render(fmt.Sprintf("Drawing… %2d", n))
	case n == tambola.Blank:
		return style.Foreground(r.theme.FaintText).Render("No numbers called yet")
	default:
		return style.Foreground(r.theme.CalledForeground).Render(fmt.Sprintf("Last called: %d", n))
	}
}

// Status renders the one-line summary of the counters
func (r Renderer) Status(stats board.Stats) string {
	return lipgloss.NewStyle().Foreground(r.theme.NormalText).Render(StatusLine(stats))
}

// StatusLine is the unstyled text behind Status
func StatusLine(stats board.Stats) string {
	return fmt.Sprintf(
		"Tickets: %d | Called: %d/%d | Remaining: %d | Status: %s",
		stats.Tickets, stats.Called, tambola.MaxNumber, stats.Remaining, stats.Status,
	)
}

// Help renders a line of help text
func (r Renderer) Help(text string) string {
	return lipgloss.NewStyle().Foreground(r.theme.HelpText).Render(text)
}
