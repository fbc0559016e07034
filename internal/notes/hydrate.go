package notes

import (
	"context"
	"strings"

	"github.com/five82/daybook/internal/days"
)

// Hydrate issues one bulk read for ids and replaces the matching cache
// entries with the result. On failure the cache is left as it was and a
// *HydrationError is returned.
//
// Concurrent calls for the same ids share a single read. The shared read
// keeps the first caller's deadline but not its cancellation, and each caller
// stops waiting when its own ctx is done.
func (c *Cache) Hydrate(ctx context.Context, loader Loader, ids []days.ID) error {
	if len(ids) == 0 {
		return nil
	}
	key := hydrationKey(ids)
	ch := c.group.DoChan(key, func() (any, error) {
		readCtx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			readCtx, cancel = context.WithDeadline(readCtx, deadline)
			defer cancel()
		}

		since := c.mark()
		recs, err := loader.LoadNotesForDays(readCtx, ids)
		if err != nil {
			herr := &HydrationError{Days: append([]days.ID(nil), ids...), Err: err}
			c.recordFailure(herr)
			return nil, herr
		}
		c.replace(ids, recs, since)
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return &HydrationError{Days: append([]days.ID(nil), ids...), Err: ctx.Err()}
	}
}

func hydrationKey(ids []days.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}
