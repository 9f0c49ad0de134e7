// Package types contains small generic containers shared by the module packages.
package types

import (
	"iter"
	"slices"
	"sync"
	"sync/atomic"
)

// Callbacks is an ordered list of observers.
//
// Registration copies the list, iteration reads the current copy without locking,
// so observers on a hot path cost one atomic load per call.
// The zero value is ready to use.
type Callbacks[T any] struct {
	mu   sync.Mutex
	seq  uint64
	list atomic.Pointer[[]observer[T]]
}

type observer[T any] struct {
	id uint64
	fn T
}

func (c *Callbacks[T]) load() []observer[T] {
	if c == nil {
		return nil
	}
	if p := c.list.Load(); p != nil {
		return *p
	}
	return nil
}

// Add registers fn after the already registered observers.
// The returned cancel func is idempotent.
func (c *Callbacks[T]) Add(fn T) (cancel func()) {
	c.mu.Lock()
	c.seq++
	id := c.seq
	next := append(slices.Clone(c.load()), observer[T]{id, fn})
	c.list.Store(&next)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		cur := c.load()
		i := slices.IndexFunc(cur, func(o observer[T]) bool { return o.id == id })
		if i < 0 {
			return
		}
		next := slices.Delete(slices.Clone(cur), i, i+1)
		c.list.Store(&next)
	}
}

// All yields the observers registered at the moment of the call.
// Observers added or cancelled while iterating take effect on the next call.
func (c *Callbacks[T]) All() iter.Seq[T] {
	snap := c.load()
	return func(yield func(T) bool) {
		for _, o := range snap {
			if !yield(o.fn) {
				return
			}
		}
	}
}
