package game

import (
	"context"
	"errors"
	"time"
)

// settleTimer enforces the grace delay between the first submission closing a
// round and forced scoring: if the remaining players have not submitted by
// the deadline, expire fires and the round is scored with whatever arrived.
type settleTimer struct {
	cancel context.CancelFunc
}

func startSettleTimer(d time.Duration, expire func()) *settleTimer {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	go func() {
		<-ctx.Done()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			expire()
		}
	}()
	return &settleTimer{cancel: cancel}
}

// Stop cancels the timer. Safe on nil and after expiry.
func (t *settleTimer) Stop() {
	if t != nil {
		t.cancel()
	}
}
