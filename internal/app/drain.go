package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/daybook/internal/days"
	"github.com/five82/daybook/internal/editor"
	"github.com/five82/daybook/internal/notes"
)

// ErrUnsaved is returned when notes could not be written before exit.
var ErrUnsaved = errors.New("notes not saved")

// drain makes a last attempt to write everything the editor still holds and
// waits for in-flight writes. It must run after the UI loop has stopped.
func drain(ed *editor.Editor, syncer *notes.Synchronizer, timeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
	defer cancel()

	fx := ed.Drain()
	results := make([]notes.Result, len(fx.Writes))
	var g errgroup.Group
	for i, w := range fx.Writes {
		g.Go(func() error {
			results[i] = syncer.Flush(ctx, w)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		ed.Resolve(res)
	}

	if err := syncer.Wait(ctx); err != nil {
		logger.Warn("timed out waiting for note saves", slog.String("error", err.Error()))
	}

	st := ed.State()
	failed := st.Unsynced
	if st.Selected && !st.Status.Clean() {
		failed = append(failed, st.Day)
	}
	if len(failed) == 0 {
		if len(fx.Writes) > 0 {
			logger.Info("saved notes on exit", slog.Int("writes", len(fx.Writes)))
		}
		return nil
	}

	ids := unique(failed)
	logger.Error("exiting with unsaved notes", slog.String("days", strings.Join(ids, ",")))
	return fmt.Errorf("%w: %s", ErrUnsaved, strings.Join(ids, ", "))
}

func unique(ids []days.ID) []string {
	seen := make(map[days.ID]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id.String())
	}
	return out
}
