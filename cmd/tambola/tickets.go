package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/config"
	"github.com/Parkreiner/tambola/render"
	"github.com/Parkreiner/tambola/ticket"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// ticketSet is the machine-readable output of the tickets subcommand
type ticketSet struct {
	Seed    int64            `json:"seed" yaml:"seed"`
	Tickets []tambola.Ticket `json:"tickets" yaml:"tickets"`
}

func runTickets(args []string, stdout io.Writer, stderr io.Writer) error {
	var global globalFlags
	var count int
	var format string

	flagSet := newFlagSet("tickets", stderr, &global)
	flagSet.IntVarP(&count, "tickets", "n", tambola.MinTickets, "number of tickets to generate (1-6)")
	flagSet.StringVar(&format, "format", formatText, "output format (text, json, yaml)")

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

	seed := cfg.ResolveSeed()
	tickets, err := ticket.NewGenerator(seed).GenerateSet(cfg.Tickets)
	if err != nil {
		return usageError{err: err}
	}

	set := ticketSet{Seed: seed, Tickets: tickets}
	switch format {
	case formatText:
		renderer := render.New(render.DefaultTheme)
		for i, t := range tickets {
			fmt.Fprintln(stdout, renderer.Ticket(t, render.TicketView{Title: render.TicketTitle(i, t)}))
		}
		return nil
	case formatJSON:
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(set)
	case formatYAML:
		encoder := yaml.NewEncoder(stdout)
		defer encoder.Close()
		return encoder.Encode(set)
	default:
		return usagef("unknown format %q", format)
	}
}
