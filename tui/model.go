// Package tui implements the interactive terminal game screen. Built on
// bubbletea (Elm architecture), it shows the player's tickets, lets them mark
// cells, and runs animated draws against a draw session.
//
// Data flow for a draw:
//
//	[Draw key] -> runDraw (tea.Cmd, blocks on Animator.Draw)
//	                 | onFrame (ephemeral)      | commit (authoritative)
//	             frameMsg stream             drawnMsg
//	                 \                          /
//	                  [Model] <- bubbletea event loop
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/board"
	"github.com/Parkreiner/tambola/draw"
	"github.com/Parkreiner/tambola/render"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// recentCalls is how many of the latest calls are listed under the
	// spotlight number.
	recentCalls = 10

	// ticketsPerRow is how many tickets are laid out side by side
	ticketsPerRow = 2

	maxProgressWidth = 60
)

// frameMsg carries one animation frame. frames identifies the draw it came
// from, so frames from an abandoned draw can be told apart.
type frameMsg struct {
	number tambola.Number
	frames <-chan tambola.Number
}

// drawnMsg reports how an animated draw ended.
type drawnMsg struct {
	number tambola.Number
	err    error
}

// Model is the bubbletea model for the game screen.
type Model struct {
	board       *board.Board
	animator    *draw.Animator
	ticketCount int

	renderer render.Renderer
	keys     KeyMap
	help     help.Model
	progress progress.Model

	focused int
	cursor  board.Position

	// Animation state. frames is non-nil only while a draw is rolling.
	rolling      bool
	frame        tambola.Number
	frames       chan tambola.Number
	cancelDraw   context.CancelFunc
	pendingReset bool

	message  string
	width    int
	quitting bool
}

// NewModel creates a game screen for b. The board should already hold a
// ticket set; ticketCount is how many tickets get generated when the player
// asks for a fresh set.
func NewModel(b *board.Board, animator *draw.Animator, ticketCount int) Model {
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(maxProgressWidth),
	)

	return Model{
		board:       b,
		animator:    animator,
		ticketCount: ticketCount,
		renderer:    render.New(render.DefaultTheme),
		keys:        DefaultKeyMap,
		help:        help.New(),
		progress:    bar,
	}
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// runDraw returns a tea.Cmd that blocks for the duration of one animated
// draw. Frames are forwarded to the frames channel without blocking (a slow
// UI just skips frames), and the channel is closed once the draw ends.
func runDraw(ctx context.Context, animator *draw.Animator, frames chan tambola.Number) tea.Cmd {
	return func() tea.Msg {
		n, err := animator.Draw(ctx, func(n tambola.Number) {
			select {
			case frames <- n:
			default:
			}
		})
		close(frames)
		return drawnMsg{number: n, err: err}
	}
}

// listenForFrame returns a tea.Cmd that blocks until the next animation frame
// arrives. It returns nil once the draw has finished.
func listenForFrame(frames <-chan tambola.Number) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-frames
		if !ok {
			return nil
		}
		return frameMsg{number: n, frames: frames}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case frameMsg:
		if !model.rolling || message.frames != model.frames {
			return model, nil
		}
		model.frame = message.number
		return model, listenForFrame(model.frames)

	case drawnMsg:
		return model.finishDraw(message), nil

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.help.Width = message.Width
		model.progress.Width = min(maxProgressWidth, max(message.Width-4, 10))
		return model, nil
	}

	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		if model.cancelDraw != nil {
			model.cancelDraw()
		}
		model.quitting = true
		return model, tea.Quit

	case key.Matches(message, model.keys.Draw):
		return model.startDraw()

	case key.Matches(message, model.keys.Reset):
		if model.rolling {
			// The session can only be reset once the animator lets go of it
			model.cancelDraw()
			model.pendingReset = true
			return model, nil
		}
		model.board.Session().Reset()
		model.message = "Draw reset"
		return model, nil

	case key.Matches(message, model.keys.Regenerate):
		if err := model.board.NewTickets(model.ticketCount); err != nil {
			model.message = err.Error()
			return model, nil
		}
		model.focused = 0
		model.cursor = board.Position{}
		model.message = fmt.Sprintf("Generated %d new tickets", model.ticketCount)
		return model, nil

	case key.Matches(message, model.keys.NextTicket):
		model.moveFocus(1)
	case key.Matches(message, model.keys.PrevTicket):
		model.moveFocus(-1)

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1, 0)
	case key.Matches(message, model.keys.Down):
		model.moveCursor(1, 0)
	case key.Matches(message, model.keys.Left):
		model.moveCursor(0, -1)
	case key.Matches(message, model.keys.Right):
		model.moveCursor(0, 1)

	case key.Matches(message, model.keys.Mark):
		model.toggleMark()
	}

	return model, nil
}

// startDraw kicks off an animated draw, unless one is already running or
// there is nothing left to draw.
func (model Model) startDraw() (tea.Model, tea.Cmd) {
	if model.rolling || model.animator.InFlight() {
		return model, nil
	}
	if model.animator.Session().RemainingCount() == 0 {
		model.message = "All numbers have been called"
		return model, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan tambola.Number, 1)

	model.rolling = true
	model.frame = tambola.Blank
	model.frames = frames
	model.cancelDraw = cancel
	model.message = ""

	return model, tea.Batch(
		runDraw(ctx, model.animator, frames),
		listenForFrame(frames),
	)
}

func (model Model) finishDraw(message drawnMsg) Model {
	if model.cancelDraw != nil {
		model.cancelDraw()
	}
	model.rolling = false
	model.frame = tambola.Blank
	model.frames = nil
	model.cancelDraw = nil

	if model.pendingReset {
		model.pendingReset = false
		model.board.Session().Reset()
		model.message = "Draw reset"
		return model
	}

	switch {
	case message.err == nil:
		model.message = fmt.Sprintf("Called %d", message.number)
	case errors.Is(message.err, tambola.ErrExhausted):
		model.message = "All numbers have been called"
	case errors.Is(message.err, context.Canceled):
		model.message = "Draw cancelled"
	default:
		model.message = message.err.Error()
	}
	return model
}

func (model *Model) moveFocus(delta int) {
	count := len(model.board.Tickets())
	if count == 0 {
		return
	}
	model.focused = (model.focused + delta + count) % count
}

func (model *Model) moveCursor(rowDelta int, colDelta int) {
	model.cursor.Row = min(max(model.cursor.Row+rowDelta, 0), tambola.Rows-1)
	model.cursor.Col = min(max(model.cursor.Col+colDelta, 0), tambola.Columns-1)
}

func (model *Model) toggleMark() {
	marked, err := model.board.ToggleMark(model.focused, model.cursor)
	switch {
	case errors.Is(err, board.ErrBlankCell):
		model.message = "That cell is blank"
	case err != nil:
		model.message = err.Error()
	case marked:
		model.message = fmt.Sprintf("Marked %s, row %d", render.ColumnLabel(model.cursor.Col), model.cursor.Row+1)
	default:
		model.message = fmt.Sprintf("Unmarked %s, row %d", render.ColumnLabel(model.cursor.Col), model.cursor.Row+1)
	}
}

// View implements tea.Model.
func (model Model) View() string {
	if model.quitting {
		return ""
	}

	session := model.board.Session()
	stats := model.board.Stats()

	var spotlight string
	if model.rolling {
		spotlight = model.renderer.Current(model.frame, true)
	} else {
		last, _ := session.Last()
		spotlight = model.renderer.Current(last, false)
	}

	sections := []string{
		spotlight,
		model.renderer.Recent(session.Recent(recentCalls)),
		model.progress.ViewAs(stats.Progress),
		model.renderer.Status(stats),
		"",
		model.renderer.CalledBoard(session.History()),
		"",
		model.ticketsView(session.IsCalled),
	}
	if model.message != "" {
		sections = append(sections, model.message)
	}
	sections = append(sections, model.help.View(model.keys))

	return strings.Join(sections, "\n")
}

func (model Model) ticketsView(isCalled func(tambola.Number) bool) string {
	tickets := model.board.Tickets()
	rendered := make([]string, 0, len(tickets))
	for i, t := range tickets {
		marks, _ := model.board.Marks(i)
		view := render.TicketView{
			Title:    fmt.Sprintf("%s  %d/%d marked", render.TicketTitle(i, t), marks.Count(), tambola.NumbersPerTicket),
			Marks:    marks,
			IsCalled: isCalled,
		}
		if i == model.focused {
			cursor := model.cursor
			view.Cursor = &cursor
		}
		rendered = append(rendered, model.renderer.Ticket(t, view))
	}

	var rows []string
	for start := 0; start < len(rendered); start += ticketsPerRow {
		end := min(start+ticketsPerRow, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced(rendered[start:end])...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// spaced puts a gap between side-by-side blocks
func spaced(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, block := range blocks {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, block)
	}
	return out
}
