package courierstate

import (
	"sync"

	"courier-sync.com/courier-sync/pkg/constants"
)

// StatusSnapshot is the view observers receive after every cache change.
type StatusSnapshot struct {
	Status            constants.AvailabilityStatus
	CanChangeManually bool
	Err               error
}

// StatusCache holds the last server-confirmed availability of one courier.
// It starts offline and is only ever overwritten with values the server
// returned; there is no way to set the status locally.
type StatusCache struct {
	mu        sync.RWMutex
	status    constants.AvailabilityStatus
	canChange bool
	lastErr   error

	nextSub   int
	observers map[int]func(StatusSnapshot)
}

func newStatusCache() *StatusCache {
	return &StatusCache{
		status:    constants.AvailabilityOffline,
		canChange: true,
		observers: make(map[int]func(StatusSnapshot)),
	}
}

// Current returns the cached availability.
func (c *StatusCache) Current() constants.AvailabilityStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// CanChangeManually reports whether the server currently permits a manual
// online/offline change.
func (c *StatusCache) CanChangeManually() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.canChange
}

// Err returns the most recent operation error, or nil after a success.
func (c *StatusCache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Snapshot returns the cache contents as one consistent view.
func (c *StatusCache) Snapshot() StatusSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return StatusSnapshot{Status: c.status, CanChangeManually: c.canChange, Err: c.lastErr}
}

// Subscribe registers an observer and returns its cancel function. Observers
// run after every mutation, on the mutating goroutine.
func (c *StatusCache) Subscribe(fn func(StatusSnapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// apply overwrites the cache with a server-confirmed value and clears the
// last error.
func (c *StatusCache) apply(status constants.AvailabilityStatus, canChange bool) {
	c.mu.Lock()
	c.status = status
	c.canChange = canChange
	c.lastErr = nil
	c.mu.Unlock()

	c.notify()
}

// fail records an error without touching the cached status.
func (c *StatusCache) fail(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	c.notify()
}

func (c *StatusCache) notify() {
	c.mu.RLock()
	snap := StatusSnapshot{Status: c.status, CanChangeManually: c.canChange, Err: c.lastErr}
	fns := make([]func(StatusSnapshot), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}
