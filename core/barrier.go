package core

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Barrier is a rendezvous point for a fixed number of parties.
// Wait blocks until every party has arrived, then releases all of them together.
//
// The optional action runs on the last arriving party, before anyone is released,
// so it observes the moment every party is known to be ready.
type Barrier struct {
	mu        sync.Mutex
	cond      *sync.Cond
	parties   int
	waiting   int
	gen       uint64
	action    func()
	broken    error
	destroyed bool
}

// NewBarrier creates a barrier for parties participants.
func NewBarrier(parties int, action func()) (*Barrier, error) {
	if parties < 1 {
		return nil, errors.Errorf("barrier needs at least one party, got %d", parties)
	}
	b := &Barrier{parties: parties, action: action}
	b.cond = sync.NewCond(&b.mu)
	return b, nil
}

// Parties returns the number of participants the barrier was created for.
func (b *Barrier) Parties() int {
	return b.parties
}

// Arrived returns the number of parties currently blocked in Wait.
func (b *Barrier) Arrived() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.waiting
}

// Wait blocks until all parties have called Wait or the barrier is broken.
// A broken barrier returns an error wrapping ErrBarrierBroken.
func (b *Barrier) Wait() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return ErrBarrierDestroyed
	}
	if b.broken != nil {
		return b.broken
	}

	gen := b.gen
	b.waiting++
	if b.waiting == b.parties {
		if b.action != nil {
			b.action()
		}
		b.waiting = 0
		b.gen++
		b.cond.Broadcast()
		return nil
	}

	for gen == b.gen && b.broken == nil {
		b.cond.Wait()
	}
	if gen == b.gen {
		// Released by Break, not by the last party.
		b.waiting--
		return b.broken
	}
	return nil
}

// Break releases every blocked party and makes later Wait calls fail.
// Only the first cause is kept; it stays reachable through errors.Is and errors.As.
func (b *Barrier) Break(cause error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.broken != nil {
		return
	}
	if cause == nil {
		b.broken = ErrBarrierBroken
	} else {
		b.broken = fmt.Errorf("%w: %w", ErrBarrierBroken, cause)
	}
	b.cond.Broadcast()
}

// Broken returns the break cause, or nil.
func (b *Barrier) Broken() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.broken
}

// Destroy releases the barrier. It fails while parties are blocked in Wait.
func (b *Barrier) Destroy() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return ErrBarrierDestroyed
	}
	if b.waiting > 0 {
		return errors.Wrapf(ErrBarrierBusy, "%d parties waiting", b.waiting)
	}
	b.destroyed = true
	return nil
}
