package core

import "time"

// SpinChunk is the number of empty iterations between two clock samples.
const SpinChunk = 100000

// BusyWait keeps the calling thread on the CPU for at least d.
//
// It spins instead of sleeping so the thread stays runnable and the kernel
// scheduler, not the Go runtime or a timer, decides when it makes progress.
// There is no cancellation. The deadline uses the monotonic clock reading
// carried by time.Now, so wall-clock adjustments do not shorten the wait.
// At least one chunk is always spun. It returns the number of chunks spun.
func BusyWait(d time.Duration) uint64 {
	deadline := time.Now().Add(d)
	var chunks uint64
	for {
		spin(SpinChunk)
		chunks++
		if !time.Now().Before(deadline) {
			return chunks
		}
	}
}

//go:noinline
func spin(n int) {
	for i := 0; i < n; i++ {
	}
}
