package patterns

import "sync"

// Number is the set of types an Aggregate can sum
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValueObserver holds the latest value it was given
type ValueObserver[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewValueObserver creates an observer holding initial
func NewValueObserver[T any](initial T) *ValueObserver[T] {
	return &ValueObserver[T]{value: initial}
}

// Next replaces the held value
func (o *ValueObserver[T]) Next(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = v
}

// Value returns the held value
func (o *ValueObserver[T]) Value() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Aggregate pulls the current value of each subscribed observer and sums them
type Aggregate[T Number] struct {
	mu         sync.RWMutex
	observers  []aggregated[T]
	lastHandle Handle
}

type aggregated[T Number] struct {
	handle   Handle
	observer *ValueObserver[T]
}

// NewAggregate creates an empty aggregate
func NewAggregate[T Number]() *Aggregate[T] {
	return &Aggregate[T]{}
}

// Subscribe adds o to the aggregate. A nil observer is ignored and gets
// handle 0, which Unsubscribe treats as unknown.
func (a *Aggregate[T]) Subscribe(o *ValueObserver[T]) Handle {
	if o == nil {
		return 0
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastHandle++
	a.observers = append(a.observers, aggregated[T]{handle: a.lastHandle, observer: o})
	return a.lastHandle
}

// Unsubscribe removes the observer subscribed under h, if any
func (a *Aggregate[T]) Unsubscribe(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, o := range a.observers {
		if o.handle == h {
			a.observers = append(a.observers[:i:i], a.observers[i+1:]...)
			return
		}
	}
}

// Compute returns the sum of all current values, zero when empty
func (a *Aggregate[T]) Compute() T {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var sum T
	for _, o := range a.observers {
		sum += o.observer.Value()
	}
	return sum
}

// Len returns the number of subscribed observers
func (a *Aggregate[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.observers)
}
