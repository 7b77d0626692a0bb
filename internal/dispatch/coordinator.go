package dispatch

import "sync"

// Coordinator hands out per-lead leases so that at most one dispatch or
// cancellation action is in flight for a given lead at any instant. It
// guarantees mutual exclusion only, not ordering; the loser of a race is
// expected to retry on a later tick.
type Coordinator struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCoordinator creates an empty lease table.
func NewCoordinator() *Coordinator {
	return &Coordinator{inFlight: make(map[string]struct{})}
}

// TryAcquire takes the lease for a lead phone. Returns false if another
// action already holds it.
func (c *Coordinator) TryAcquire(phone string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.inFlight[phone]; held {
		return false
	}
	c.inFlight[phone] = struct{}{}
	return true
}

// Release returns the lease. Releasing a lease that is not held is a no-op.
func (c *Coordinator) Release(phone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, phone)
}

// Held reports whether a lease is currently taken for the lead.
func (c *Coordinator) Held(phone string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, held := c.inFlight[phone]
	return held
}
