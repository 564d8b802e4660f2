package view

import "github.com/roach88/todos/internal/task"

// VisibleTasks returns the in-memory collection filtered by the active
// filter, in collection order.
func (c *Controller) VisibleTasks() []task.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return task.Apply(c.filter, c.tasks)
}

// Tasks returns the whole in-memory collection.
func (c *Controller) Tasks() []task.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return task.Clone(c.tasks)
}

// Stats counts over the whole in-memory collection, ignoring the filter.
func (c *Controller) Stats() task.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return task.ComputeStats(c.tasks)
}

// Filter returns the active filter.
func (c *Controller) Filter() task.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Loading reports whether a Refresh is in flight.
func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the message recorded by the last failed action, or "" if the
// last action succeeded.
func (c *Controller) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Snapshot returns all readable state at once.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	return State{
		Filter:  c.filter,
		Loading: c.loading,
		Error:   c.err,
		Visible: task.Apply(c.filter, c.tasks),
		Stats:   task.ComputeStats(c.tasks),
	}
}
