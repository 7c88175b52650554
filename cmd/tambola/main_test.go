package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/config"
	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		config.EnvTickets, config.EnvSeed, config.EnvAnimationInterval,
		config.EnvAnimationWindow, config.EnvLogLevel, config.EnvLogFormat,
	}
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return exitRuntime
}

type jsonTicketSet struct {
	Seed    int64 `json:"seed"`
	Tickets []struct {
		ID   string     `json:"id"`
		Grid [3][9]*int `json:"grid"`
	} `json:"tickets"`
}

func TestTicketsJSON(t *testing.T) {
	stdout, _, err := runCommand(t, "tickets", "-n", "3", "--seed", "42", "--format", "json")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var set jsonTicketSet
	if err := json.Unmarshal([]byte(stdout), &set); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if set.Seed != 42 {
		t.Fatalf("seed = %d, want 42", set.Seed)
	}
	if len(set.Tickets) != 3 {
		t.Fatalf("got %d tickets, want 3", len(set.Tickets))
	}
	for _, tk := range set.Tickets {
		filled := 0
		for _, row := range tk.Grid {
			for _, cell := range row {
				if cell != nil {
					filled++
				}
			}
		}
		if filled != tambola.NumbersPerTicket {
			t.Fatalf("ticket %s has %d numbers, want %d", tk.ID, filled, tambola.NumbersPerTicket)
		}
	}
}

func TestTicketsSeedIsReproducible(t *testing.T) {
	first, _, err := runCommand(t, "tickets", "-n", "2", "--seed", "7", "--format", "json")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	second, _, err := runCommand(t, "tickets", "-n", "2", "--seed", "7", "--format", "json")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var a, b jsonTicketSet
	json.Unmarshal([]byte(first), &a)
	json.Unmarshal([]byte(second), &b)
	for i := range a.Tickets {
		if a.Tickets[i].ID == b.Tickets[i].ID {
			t.Fatal("two runs produced the same ticket ID")
		}
		for row := range tambola.Rows {
			for col := range tambola.Columns {
				x, y := a.Tickets[i].Grid[row][col], b.Tickets[i].Grid[row][col]
				if (x == nil) != (y == nil) || (x != nil && *x != *y) {
					t.Fatalf("ticket %d differs at (%d, %d) for the same seed", i, row, col)
				}
			}
		}
	}
}

func TestTicketsYAML(t *testing.T) {
	stdout, _, err := runCommand(t, "tickets", "-n", "2", "--format", "yaml")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var set struct {
		Tickets []struct {
			ID   string   `yaml:"id"`
			Grid [][]*int `yaml:"grid"`
		} `yaml:"tickets"`
	}
	if err := yaml.Unmarshal([]byte(stdout), &set); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, stdout)
	}
	if len(set.Tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(set.Tickets))
	}
	if len(set.Tickets[0].Grid) != tambola.Rows || len(set.Tickets[0].Grid[0]) != tambola.Columns {
		t.Fatalf("grid has the wrong shape: %v", set.Tickets[0].Grid)
	}
}

func TestTicketsText(t *testing.T) {
	stdout, _, err := runCommand(t, "tickets", "-n", "2", "--seed", "3")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	plain := ansi.Strip(stdout)
	if !strings.Contains(plain, "Ticket 1") || !strings.Contains(plain, "Ticket 2") {
		t.Fatalf("text output is missing ticket titles:\n%s", plain)
	}
}

func TestTicketsRejectsBadCounts(t *testing.T) {
	for _, n := range []string{"0", "7", "-2"} {
		_, _, err := runCommand(t, "tickets", "-n", n)
		if exitCode(err) != exitUsage {
			t.Fatalf("tickets -n %s: exit code %d, want %d (err = %v)", n, exitCode(err), exitUsage, err)
		}
		if !errors.Is(err, tambola.ErrInvalidTicketCount) {
			t.Fatalf("tickets -n %s: error = %v, want ErrInvalidTicketCount", n, err)
		}
	}
}

func TestDrawJSONAndLogs(t *testing.T) {
	stdout, stderr, err := runCommand(t, "draw", "--count", "5", "--seed", "11", "--format", "json", "--log-format", "json")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var snapshot struct {
		Status    string `json:"status"`
		Called    []int  `json:"called"`
		Remaining int    `json:"remaining"`
	}
	if err := json.Unmarshal([]byte(stdout), &snapshot); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if len(snapshot.Called) != 5 || snapshot.Remaining != 85 || snapshot.Status != string(tambola.DrawStatusActive) {
		t.Fatalf("snapshot = %+v", snapshot)
	}

	// One reset event plus one line per call
	var events []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(stderr))
	for scanner.Scan() {
		var line map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("log line %q is not JSON: %v", scanner.Text(), err)
		}
		events = append(events, line)
	}
	if len(events) != 6 {
		t.Fatalf("logged %d events, want 6:\n%s", len(events), stderr)
	}
	for i, called := range snapshot.Called {
		line := events[i+1]
		if line["event"] != string(tambola.EventTypeCalled) || line["number"] != float64(called) {
			t.Fatalf("log line %d = %v, want call of %d", i+1, line, called)
		}
	}
}

func TestDrawAll(t *testing.T) {
	stdout, _, err := runCommand(t, "draw", "--all", "--log-level", "error")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout, "Called: 90/90 | Remaining: 0 | Status: complete") {
		t.Fatalf("draw --all output:\n%s", stdout)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no subcommand", nil},
		{"unknown subcommand", []string{"shuffle"}},
		{"unknown flag", []string{"tickets", "--colour"}},
		{"stray argument", []string{"draw", "now"}},
		{"zero count", []string{"draw", "--count", "0"}},
		{"too many", []string{"draw", "--count", "91"}},
		{"bad format", []string{"tickets", "--format", "xml"}},
		{"bad log level", []string{"draw", "--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCommand(t, tt.args...)
			if got := exitCode(err); got != exitUsage {
				t.Fatalf("exit code = %d, want %d (err = %v)", got, exitUsage, err)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	if _, _, err := runCommand(t, "help"); err != nil {
		t.Fatalf("help error = %v", err)
	}
	if _, _, err := runCommand(t, "tickets", "--help"); err != nil {
		t.Fatalf("tickets --help error = %v", err)
	}
}
