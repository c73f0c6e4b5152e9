package services

import (
	"sync"

	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
)

// callbacks is a registry of subscribers to one event type.
// Emit calls subscribers in registration order outside the lock.
type callbacks[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// subscribe registers fn and returns a func that removes it.
func (c *callbacks[T]) subscribe(fn func(T)) driving.Unsubscribe {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *callbacks[T]) emit(event T) {
	c.mu.Lock()
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(event)
	}
}
