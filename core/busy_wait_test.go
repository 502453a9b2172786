package core

import (
	"testing"
	"time"
)

// TestBusyWait_NeverReturnsEarly tests the deadline guarantee
// Given: several short durations
// When: BusyWait spins for each
// Then: the measured time is at least the duration and at least one chunk ran
func TestBusyWait_NeverReturnsEarly(t *testing.T) {
	for _, d := range []time.Duration{0, time.Millisecond, 5 * time.Millisecond, 20 * time.Millisecond} {
		start := time.Now()
		chunks := BusyWait(d)
		elapsed := time.Since(start)

		if elapsed < d {
			t.Errorf("BusyWait(%v) returned after %v", d, elapsed)
		}
		if chunks < 1 {
			t.Errorf("BusyWait(%v) chunks: got = %d, want >= 1", d, chunks)
		}
	}
}

func TestBusyWait_BoundedOverhead(t *testing.T) {
	const d = 20 * time.Millisecond
	start := time.Now()
	BusyWait(d)
	elapsed := time.Since(start)

	// Generous bound: one chunk is far below a millisecond on any test machine,
	// the rest is scheduler noise.
	if elapsed > d+500*time.Millisecond {
		t.Errorf("BusyWait(%v) took %v", d, elapsed)
	}
}
