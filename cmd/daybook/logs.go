package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/five82/daybook/internal/logtail"
)

type logOptions struct {
	path  string
	lines int
	run   string // "" for all runs, "last" for the most recent one
	level string
}

func showLog(w io.Writer, opts logOptions) error {
	var filters []logtail.Filter
	if opts.level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(opts.level)); err != nil {
			return fmt.Errorf("invalid level %q: %w", opts.level, err)
		}
		filters = append(filters, logtail.MinLevel(lvl))
	}

	run := opts.run
	if run == "last" {
		id, err := logtail.LastRun(opts.path)
		if err != nil {
			return err
		}
		if id == "" {
			fmt.Fprintln(w, "No runs logged yet.")
			return nil
		}
		run = id
	}
	if run != "" {
		filters = append(filters, logtail.Run(run))
	}

	lines, err := logtail.Read(opts.path, opts.lines, filters...)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}
