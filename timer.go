package main

import (
	"sync"
	"time"
)

// timerEvent is posted back into the owning session's loop. Expiry and
// ticks carry the epoch of the question they were started for; the
// session drops anything whose epoch has moved on.
type timerEvent struct {
	epoch    int
	timeLeft int
	expired  bool
}

// roundTimer is the per-question countdown. Exactly one is active per
// session at a time; cancellation closes the stop channel, which halts
// further delivery. Posts that raced a cancel are caught by the
// session's epoch check, so cancel here is advisory rather than a hard
// synchronization point.
type roundTimer struct {
	stop chan struct{}
	once sync.Once
}

func startRoundTimer(d time.Duration, epoch int, post func(timerEvent)) *roundTimer {
	t := &roundTimer{
		stop: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		remaining := int(d.Round(time.Second) / time.Second)

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				remaining--

				select {
				case <-t.stop:
					return
				default:
				}

				if remaining <= 0 {
					post(timerEvent{epoch: epoch, expired: true})
					return
				}

				post(timerEvent{epoch: epoch, timeLeft: remaining})
			}
		}
	}()

	return t
}

func (t *roundTimer) cancel() {
	t.once.Do(func() {
		close(t.stop)
	})
}
