package reactive

import (
	"sync"

	"observer-patterns/internal/domain/ports"
)

// Handle identifies one subscription on a Channel
type Handle uint64

type subscription[T any] struct {
	handle Handle
	fn     func(T)
}

// Channel is a synchronous in-process publish/subscribe primitive.
//
// Publish calls every subscriber on the caller's goroutine, in subscription
// order. All subscribers of one Publish receive the same value, so a mutable
// T changed by one subscriber is seen changed by the ones after it.
//
// Publish iterates over the subscriber list as it was when Publish started:
// Subscribe and Unsubscribe called from inside a callback only affect later
// Publish calls.
type Channel[T any] struct {
	mu          sync.RWMutex
	subscribers []subscription[T]
	lastHandle  Handle
}

// NewChannel creates an empty channel
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// Subscribe registers fn and returns the handle to remove it later
func (c *Channel[T]) Subscribe(fn func(T)) (Handle, error) {
	if fn == nil {
		return 0, ports.ErrNilCallback
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastHandle++
	c.subscribers = append(c.subscribers, subscription[T]{
		handle: c.lastHandle,
		fn:     fn,
	})
	return c.lastHandle, nil
}

// Unsubscribe removes the subscriber registered under h.
// Unknown or already removed handles are ignored.
func (c *Channel[T]) Unsubscribe(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subscribers {
		if s.handle != h {
			continue
		}
		// copy-on-write: in-flight Publish calls keep iterating the old slice
		next := make([]subscription[T], 0, len(c.subscribers)-1)
		next = append(next, c.subscribers[:i]...)
		next = append(next, c.subscribers[i+1:]...)
		c.subscribers = next
		return
	}
}

// Publish delivers v to every current subscriber
func (c *Channel[T]) Publish(v T) {
	c.mu.RLock()
	subscribers := c.subscribers
	c.mu.RUnlock()

	for _, s := range subscribers {
		s.fn(v)
	}
}

// Len returns the number of current subscribers
func (c *Channel[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subscribers)
}
