package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/draw"
	"github.com/Parkreiner/tambola/eventlogger"
	"github.com/Parkreiner/tambola/logging"
	"github.com/Parkreiner/tambola/render"
	"github.com/Parkreiner/tambola/subscriptions"
	"go.uber.org/zap"
)

const recentCalls = 10

func runDraw(args []string, stdout io.Writer, stderr io.Writer) error {
	var global globalFlags
	var count int
	var all bool
	var format string

	flagSet := newFlagSet("draw", stderr, &global)
	flagSet.IntVar(&count, "count", 1, "how many numbers to draw (1-90)")
	flagSet.BoolVar(&all, "all", false, "draw until every number has been called")
	flagSet.StringVar(&format, "format", formatText, "output format (text, json)")

	ok, err := parseFlags(flagSet, args)
	if !ok {
		return err
	}
	if all {
		count = tambola.MaxNumber
	}
	if count < 1 || count > tambola.MaxNumber {
		return usagef("--count must be between 1 and %d, got %d", tambola.MaxNumber, count)
	}
	if format != formatText && format != formatJSON {
		return usagef("unknown format %q", format)
	}

	cfg, err := loadConfig(flagSet, &global, nil)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return usageError{err: err}
	}

	manager := subscriptions.New()
	defer manager.Dispose()

	events, err := eventlogger.New(eventlogger.Init{Subscriber: manager, Logger: logger})
	if err != nil {
		return err
	}

	seed := cfg.ResolveSeed()
	session := draw.NewSession(drawSeed(seed), draw.WithDispatcher(manager))
	logger.Debug("draw started", zap.Int64("seed", seed), zap.Int("count", count))

	for range count {
		if _, err := session.DrawNext(); err != nil {
			if errors.Is(err, tambola.ErrExhausted) {
				break
			}
			events.Close()
			return err
		}
	}

	// Every event has to be logged before the summary goes out
	if err := events.Close(); err != nil {
		return err
	}

	snapshot := session.Snapshot()
	if format == formatJSON {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(&snapshot)
	}

	renderer := render.New(render.DefaultTheme)
	fmt.Fprintln(stdout, renderer.CalledBoard(snapshot.Called))
	fmt.Fprintln(stdout, renderer.Recent(session.Recent(recentCalls)))
	fmt.Fprintf(stdout, "Called: %d/%d | Remaining: %d | Status: %s\n",
		len(snapshot.Called), tambola.MaxNumber, snapshot.Remaining, snapshot.Status)
	return nil
}
