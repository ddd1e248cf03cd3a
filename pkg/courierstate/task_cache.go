package courierstate

import (
	"sync"
	"time"

	"courier-sync.com/courier-sync/pkg/constants"
	model "courier-sync.com/courier-sync/pkg/models"
)

// TaskCache mirrors the server's task list for one courier. Loads replace
// the list wholesale; every derived view is recomputed from the full list on
// each call, never kept as a separate counter.
type TaskCache struct {
	mu          sync.RWMutex
	tasks       []model.Task
	lastErr     error
	needsReload bool

	nextSub   int
	observers map[int]func()
}

func newTaskCache() *TaskCache {
	return &TaskCache{
		observers: make(map[int]func()),
	}
}

// All returns a copy of the cached task list in server order.
func (c *TaskCache) All() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Get returns the cached task with the given id.
func (c *TaskCache) Get(id string) (model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return c.tasks[i], true
		}
	}
	return model.Task{}, false
}

// Err returns the most recent operation error, or nil after a success.
func (c *TaskCache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// NeedsReload reports whether a confirmed mutation could not be mirrored and
// the list should be loaded again.
func (c *TaskCache) NeedsReload() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.needsReload
}

// AssignedCount counts tasks awaiting acceptance.
func (c *TaskCache) AssignedCount() int {
	return c.countByStatus(constants.StatusAssigned)
}

// InTransitCount counts tasks currently on the road.
func (c *TaskCache) InTransitCount() int {
	return c.countByStatus(constants.StatusInTransit)
}

// CompletedCount counts finished tasks.
func (c *TaskCache) CompletedCount() int {
	return c.countByStatus(constants.StatusCompleted)
}

func (c *TaskCache) countByStatus(s constants.TaskStatus) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for i := range c.tasks {
		if c.tasks[i].Status == s {
			n++
		}
	}
	return n
}

// Urgent returns tasks approaching their deadline at the given instant.
func (c *TaskCache) Urgent(now time.Time) []model.Task {
	return c.filter(func(t *model.Task) bool { return t.IsUrgent(now) })
}

// Overdue returns tasks past their deadline at the given instant.
func (c *TaskCache) Overdue(now time.Time) []model.Task {
	return c.filter(func(t *model.Task) bool { return t.IsOverdue(now) })
}

func (c *TaskCache) filter(pred func(*model.Task) bool) []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Task
	for i := range c.tasks {
		if pred(&c.tasks[i]) {
			out = append(out, c.tasks[i])
		}
	}
	return out
}

// Subscribe registers an observer and returns its cancel function.
func (c *TaskCache) Subscribe(fn func()) func() {
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

// replace swaps in a freshly loaded list and clears error and reload state.
func (c *TaskCache) replace(tasks []model.Task) {
	copied := make([]model.Task, len(tasks))
	copy(copied, tasks)

	c.mu.Lock()
	c.tasks = copied
	c.lastErr = nil
	c.needsReload = false
	c.mu.Unlock()

	c.notify()
}

// applyEcho mirrors a server-confirmed task record over the cached entry
// with the same id. It reports whether the id was present.
func (c *TaskCache) applyEcho(id string, upd model.Task) bool {
	c.mu.Lock()
	found := false
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i] = upd
			found = true
			break
		}
	}
	if found {
		c.lastErr = nil
	}
	c.mu.Unlock()

	if found {
		c.notify()
	}
	return found
}

// fail records an error without touching the cached list.
func (c *TaskCache) fail(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	c.notify()
}

// flagReload marks the cache stale after a confirmed mutation missed it.
func (c *TaskCache) flagReload(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.needsReload = true
	c.mu.Unlock()

	c.notify()
}

func (c *TaskCache) notify() {
	c.mu.RLock()
	fns := make([]func(), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
