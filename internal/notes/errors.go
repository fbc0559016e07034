package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/daybook/internal/days"
)

// HydrationError reports a failed bulk read. The cache keeps serving its
// previous contents when this is returned.
type HydrationError struct {
	Days []days.ID
	Err  error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("hydrate %d days: %v", len(e.Days), e.Err)
}

func (e *HydrationError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed save. The caller still holds the content.
type WriteError struct {
	Day days.ID
	Err error
}

func (e *WriteError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("save note %s: timed out: %v", e.Day, e.Err)
	}
	return fmt.Sprintf("save note %s: %v", e.Day, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the save hit its deadline.
func (e *WriteError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// IsTimeout reports whether err is a WriteError caused by a deadline.
func IsTimeout(err error) bool {
	var we *WriteError
	return errors.As(err, &we) && we.Timeout()
}
