package jobmanager

import (
	"context"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
)

const (
	pollInitial = 50 * time.Microsecond
	pollMax     = 10 * time.Millisecond
)

// Poll blocks until cond returns true or ctx is done, sleeping with an
// exponential backoff between checks.
//
// Fences should be waited on with State.Wait; Poll is for callers that
// observe a flag set by a job body instead.
func Poll(ctx context.Context, cond func() bool) error {
	bo := boff.New(pollInitial, pollMax, time.Now().UnixNano())
	for {
		if cond() {
			return nil
		}
		timer := time.NewTimer(bo.Next())
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			if cond() {
				return nil
			}
			return ctx.Err()
		}
	}
}
