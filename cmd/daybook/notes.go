package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/five82/daybook/internal/days"
	"github.com/five82/daybook/internal/notes"
	"github.com/five82/daybook/internal/storage"
)

// noteStore is the slice of storage.Store the subcommands need.
type noteStore interface {
	ListNotes(ctx context.Context) ([]notes.Record, error)
	LoadNote(ctx context.Context, id days.ID) (notes.Record, error)
	DeleteNote(ctx context.Context, id days.ID) error
}

func listNotes(ctx context.Context, store noteStore, w io.Writer, logger *slog.Logger) error {
	recs, err := store.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, "No notes yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tWORDS\tCHARS\tUPDATED")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			rec.Day,
			humanize.Comma(int64(len(strings.Fields(rec.Content)))),
			humanize.Comma(int64(utf8.RuneCountInString(rec.Content))),
			humanize.Time(rec.UpdatedAt))
	}
	logger.Debug("listed notes", slog.Int("count", len(recs)))
	return tw.Flush()
}

func showNote(ctx context.Context, store noteStore, w io.Writer, arg string) error {
	id, err := days.Parse(arg)
	if err != nil {
		return err
	}
	rec, err := store.LoadNote(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no note for %s", id)
	}
	if err != nil {
		return err
	}
	content := rec.Content
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	_, err = io.WriteString(w, content)
	return err
}

func deleteNote(ctx context.Context, store noteStore, w io.Writer, arg string, logger *slog.Logger) error {
	id, err := days.Parse(arg)
	if err != nil {
		return err
	}
	if err := store.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no note for %s", id)
		}
		return err
	}
	logger.Info("note deleted", slog.String("day", id.String()))
	fmt.Fprintf(w, "Deleted note for %s\n", id)
	return nil
}
