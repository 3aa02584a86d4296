// Package lazy provides memoized first-access evaluation.
package lazy

import "errors"

// ErrNoThunk is returned by Get when the cell was built without a thunk.
var ErrNoThunk = errors.New("lazy: thunk is required")

// Cell defers a computation until Get is first called. A successful result is
// kept for every later call; a failed one is not, so the next Get tries again.
// A Cell is not safe for concurrent use.
type Cell[T any] struct {
	thunk    func() (T, error)
	value    T
	resolved bool
}

// New wraps thunk without invoking it.
func New[T any](thunk func() (T, error)) *Cell[T] {
	return &Cell[T]{thunk: thunk}
}

// Get returns the memoized value, invoking the thunk on first use.
func (c *Cell[T]) Get() (T, error) {
	if c.resolved {
		return c.value, nil
	}
	if c.thunk == nil {
		var zero T
		return zero, ErrNoThunk
	}
	value, err := c.thunk()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = value
	c.resolved = true
	return value, nil
}

// Resolved reports whether Get has produced a value.
func (c *Cell[T]) Resolved() bool {
	return c.resolved
}
