package core

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestBarrier_ReleasesAllTogether tests the rendezvous behavior
// Given: a barrier for 4 parties
// When: 3 parties arrive and then the 4th
// Then: nobody passes before the 4th arrives, and everybody passes after
func TestBarrier_ReleasesAllTogether(t *testing.T) {
	// Arrange
	var tripped atomic.Int32
	b, err := NewBarrier(4, func() { tripped.Add(1) })
	if err != nil {
		t.Fatalf("NewBarrier failed: %v", err)
	}

	var passed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.Wait(); err != nil {
				t.Errorf("Wait failed: %v", err)
			}
			passed.Add(1)
		}()
	}

	// Act - wait until 3 parties are blocked
	deadline := time.Now().Add(2 * time.Second)
	for b.Arrived() != 3 {
		if time.Now().After(deadline) {
			t.Fatalf("arrived: got = %d, want 3", b.Arrived())
		}
		time.Sleep(time.Millisecond)
	}
	if got := passed.Load(); got != 0 {
		t.Fatalf("passed before release: got = %d, want 0", got)
	}
	if err := b.Wait(); err != nil {
		t.Fatalf("last Wait failed: %v", err)
	}
	wg.Wait()

	// Assert
	if got := passed.Load(); got != 3 {
		t.Errorf("passed: got = %d, want 3", got)
	}
	if got := tripped.Load(); got != 1 {
		t.Errorf("action runs: got = %d, want 1", got)
	}
	if got := b.Arrived(); got != 0 {
		t.Errorf("arrived after release: got = %d, want 0", got)
	}
}

func TestBarrier_ActionRunsBeforeRelease(t *testing.T) {
	var actionDone atomic.Bool
	b, _ := NewBarrier(2, func() {
		time.Sleep(10 * time.Millisecond)
		actionDone.Store(true)
	})

	done := make(chan bool)
	go func() {
		_ = b.Wait()
		done <- actionDone.Load()
	}()
	_ = b.Wait()

	if !<-done {
		t.Error("waiter released before the barrier action finished")
	}
}

func TestBarrier_SingleParty(t *testing.T) {
	b, err := NewBarrier(1, nil)
	if err != nil {
		t.Fatalf("NewBarrier failed: %v", err)
	}
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if err := b.Wait(); err != nil {
		t.Fatalf("reuse Wait failed: %v", err)
	}
}

func TestBarrier_InvalidParties(t *testing.T) {
	if _, err := NewBarrier(0, nil); err == nil {
		t.Error("NewBarrier(0): got = nil error, want error")
	}
}

// TestBarrier_Break tests breaking a barrier with blocked waiters
// Given: a barrier for 3 parties with one blocked waiter
// When: Break is called with an OpError
// Then: the waiter and later callers get ErrBarrierBroken carrying the OpError
func TestBarrier_Break(t *testing.T) {
	b, _ := NewBarrier(3, nil)
	errCh := make(chan error, 1)
	go func() { errCh <- b.Wait() }()

	for b.Arrived() != 1 {
		time.Sleep(time.Millisecond)
	}
	cause := newOpError(OpSetAffinity, 0, errors.New("boom"))
	b.Break(cause)
	b.Break(errors.New("second cause is ignored"))

	err := <-errCh
	if !errors.Is(err, ErrBarrierBroken) {
		t.Fatalf("waiter error: got = %v, want ErrBarrierBroken", err)
	}
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != OpSetAffinity {
		t.Fatalf("waiter error cause: got = %v, want OpError(%s)", err, OpSetAffinity)
	}
	if err := b.Wait(); !errors.Is(err, ErrBarrierBroken) {
		t.Errorf("late Wait: got = %v, want ErrBarrierBroken", err)
	}
	if b.Arrived() != 0 {
		t.Errorf("arrived after break: got = %d, want 0", b.Arrived())
	}
}

func TestBarrier_Destroy(t *testing.T) {
	b, _ := NewBarrier(2, nil)
	errCh := make(chan error, 1)
	go func() { errCh <- b.Wait() }()
	for b.Arrived() != 1 {
		time.Sleep(time.Millisecond)
	}

	if err := b.Destroy(); !errors.Is(err, ErrBarrierBusy) {
		t.Fatalf("Destroy with waiter: got = %v, want ErrBarrierBusy", err)
	}
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("waiter failed: %v", err)
	}

	if err := b.Destroy(); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if err := b.Destroy(); !errors.Is(err, ErrBarrierDestroyed) {
		t.Errorf("second Destroy: got = %v, want ErrBarrierDestroyed", err)
	}
	if err := b.Wait(); !errors.Is(err, ErrBarrierDestroyed) {
		t.Errorf("Wait after Destroy: got = %v, want ErrBarrierDestroyed", err)
	}
}
