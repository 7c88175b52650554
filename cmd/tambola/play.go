package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/board"
	"github.com/Parkreiner/tambola/config"
	"github.com/Parkreiner/tambola/draw"
	"github.com/Parkreiner/tambola/eventlogger"
	"github.com/Parkreiner/tambola/logging"
	"github.com/Parkreiner/tambola/subscriptions"
	"github.com/Parkreiner/tambola/ticket"
	"github.com/Parkreiner/tambola/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func runPlay(args []string, stdout io.Writer, stderr io.Writer) error {
	var global globalFlags
	var count int
	var logFile string

	flagSet := newFlagSet("play", stderr, &global)
	flagSet.IntVarP(&count, "tickets", "n", tambola.MinTickets, "number of tickets to play with (1-6)")
	flagSet.StringVar(&logFile, "log-file", "", "write JSON draw logs to this file (the screen belongs to the game)")

	ok, err := parseFlags(flagSet, args)
	if !ok {
		return err
	}

	cfg, err := loadConfig(flagSet, &global, func(cfg *config.Config) {
		if flagSet.Changed("tickets") {
			cfg.Tickets = count
		}
	})
	if err != nil {
		return err
	}

	var opts []draw.Option
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer file.Close()

		logger, err := logging.New(cfg.Log.Level, logging.FormatJSON, file)
		if err != nil {
			return usageError{err: err}
		}

		manager := subscriptions.New()
		defer manager.Dispose()
		events, err := eventlogger.New(eventlogger.Init{Subscriber: manager, Logger: logger})
		if err != nil {
			return err
		}
		defer events.Close()

		opts = append(opts, draw.WithDispatcher(manager))
	}

	seed := cfg.ResolveSeed()
	session := draw.NewSession(drawSeed(seed), opts...)
	b := board.New(ticket.NewGenerator(seed), session)
	if err := b.NewTickets(cfg.Tickets); err != nil {
		return usageError{err: err}
	}

	animator := draw.NewAnimator(session, cfg.Animation.Interval, cfg.Animation.Window)
	model := tui.NewModel(b, animator, cfg.Tickets)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(stdout))
	_, err = program.Run()
	return err
}
