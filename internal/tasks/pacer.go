package tasks

import (
	"context"
	"time"
)

// Pacer spaces out dictionary lookups.
type Pacer interface {
	// Wait blocks for d or until ctx is done, returning the context error in the latter case.
	Wait(ctx context.Context, d time.Duration) error
}

// SleepPacer waits on a timer.
type SleepPacer struct{}

func (SleepPacer) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
