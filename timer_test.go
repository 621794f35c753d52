package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTimerCountsDownAndExpires(t *testing.T) {
	events := make(chan timerEvent, 16)
	startRoundTimer(3*time.Second, 7, func(ev timerEvent) {
		events <- ev
	})

	var got []timerEvent
	deadline := time.After(5 * time.Second)
	for len(got) < 3 {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-deadline:
			t.Fatalf("expected 3 timer events, got %d", len(got))
		}
	}

	assert.Equal(t, timerEvent{epoch: 7, timeLeft: 2}, got[0])
	assert.Equal(t, timerEvent{epoch: 7, timeLeft: 1}, got[1])
	assert.Equal(t, timerEvent{epoch: 7, expired: true}, got[2])
}

func TestRoundTimerCancelStopsDelivery(t *testing.T) {
	events := make(chan timerEvent, 16)
	timer := startRoundTimer(time.Second, 1, func(ev timerEvent) {
		events <- ev
	})

	timer.cancel()

	select {
	case ev := <-events:
		t.Fatalf("cancelled timer delivered %+v", ev)
	case <-time.After(1500 * time.Millisecond):
	}
}

func TestRoundTimerCancelIsIdempotent(t *testing.T) {
	timer := startRoundTimer(time.Second, 1, func(timerEvent) {})

	require.NotPanics(t, func() {
		timer.cancel()
		timer.cancel()
	})
}
