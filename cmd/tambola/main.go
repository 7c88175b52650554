// tambola generates Tambola (90-ball bingo) tickets and runs number draws.
//
// Subcommands:
//
//	tambola tickets [-n 1..6] [--format text|json|yaml] [--seed N]
//	tambola draw [--count K | --all] [--format text|json] [--seed N]
//	tambola play [-n 1..6] [--seed N] [--log-file path]
//
// Every subcommand also accepts --config, --log-level, and --log-format.
// Settings are resolved from defaults, then the config file, then .env and
// TAMBOLA_* environment variables, then flags.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Parkreiner/tambola/config"
	"github.com/spf13/pflag"
)

const (
	exitRuntime = 1
	exitUsage   = 2
)

// usageError marks errors caused by bad input rather than runtime failures
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }
func (e usageError) ExitCode() int { return exitUsage }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(exitRuntime)
	}
}

func run(args []string, stdout io.Writer, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return usagef("missing subcommand")
	}

	switch args[0] {
	case "tickets":
		return runTickets(args[1:], stdout, stderr)
	case "draw":
		return runDraw(args[1:], stdout, stderr)
	case "play":
		return runPlay(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return usagef("unknown subcommand %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `tambola generates Tambola tickets and runs number draws.

Usage:
  tambola tickets [-n 1..6] [--format text|json|yaml] [--seed N]
  tambola draw [--count K | --all] [--format text|json] [--seed N]
  tambola play [-n 1..6] [--seed N] [--log-file path]

Run "tambola <subcommand> --help" for the flags of a subcommand.
`)
}

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	seed       int64
}

func newFlagSet(name string, stderr io.Writer, global *globalFlags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("tambola "+name, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&global.configPath, "config", "", "path to a YAML config file")
	flagSet.StringVar(&global.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flagSet.StringVar(&global.logFormat, "log-format", "", "log format (auto, console, json)")
	flagSet.Int64Var(&global.seed, "seed", 0, "random seed (0 picks one from the clock)")
	return flagSet
}

// parseFlags parses args, translating pflag's errors into usage errors.
// It returns false when --help was requested and the caller should stop.
func parseFlags(flagSet *pflag.FlagSet, args []string) (bool, error) {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, usageError{err: err}
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return false, usagef("unexpected argument: %s", extra[0])
	}
	return true, nil
}

// loadConfig resolves the configuration, applying any flags that were set
// explicitly. apply is called after the global flags so subcommands can layer
// their own overrides on top.
func loadConfig(flagSet *pflag.FlagSet, global *globalFlags, apply func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(global.configPath)
	if err != nil {
		return config.Config{}, usageError{err: err}
	}

	if flagSet.Changed("log-level") {
		cfg.Log.Level = global.logLevel
	}
	if flagSet.Changed("log-format") {
		cfg.Log.Format = global.logFormat
	}
	if flagSet.Changed("seed") {
		cfg.Seed = global.seed
	}
	if apply != nil {
		apply(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, usageError{err: err}
	}
	return cfg, nil
}

// drawSeed derives the draw session's seed from the configured one, so that
// tickets and draws made with the same --seed don't share a random stream.
func drawSeed(seed int64) int64 {
	return seed ^ 0x5deece66d
}
