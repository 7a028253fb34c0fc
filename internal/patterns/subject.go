package patterns

import (
	"sync"

	"observer-patterns/internal/domain/ports"
)

// Handle identifies a registered observer
type Handle uint64

// Observer is notified every time its Subject broadcasts
type Observer interface {
	// Notify is called once per NotifyObservers call
	Notify()
}

// ObserverFunc adapts a plain function to Observer
type ObserverFunc func()

// Notify implements Observer
func (f ObserverFunc) Notify() { f() }

// NamedObserver reports its name to a sink when notified
type NamedObserver struct {
	Name string
	Sink func(name string)
}

// Notify implements Observer. A nil observer does nothing.
func (o *NamedObserver) Notify() {
	if o != nil && o.Sink != nil {
		o.Sink(o.Name)
	}
}

type registration struct {
	handle   Handle
	observer Observer
}

// Subject broadcasts a bare notification to its observers in registration order
type Subject struct {
	mu         sync.RWMutex
	observers  []registration
	lastHandle Handle
}

// NewSubject creates a subject with no observers
func NewSubject() *Subject {
	return &Subject{}
}

// Register adds an observer. The same observer may be registered twice,
// each registration gets its own handle.
func (s *Subject) Register(o Observer) (Handle, error) {
	if o == nil {
		return 0, ports.ErrNilCallback
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastHandle++
	s.observers = append(s.observers, registration{handle: s.lastHandle, observer: o})
	return s.lastHandle, nil
}

// Unregister removes the observer registered under h, if any
func (s *Subject) Unregister(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.observers {
		if r.handle == h {
			next := make([]registration, 0, len(s.observers)-1)
			next = append(next, s.observers[:i]...)
			s.observers = append(next, s.observers[i+1:]...)
			return
		}
	}
}

// NotifyObservers calls Notify on every registered observer
func (s *Subject) NotifyObservers() {
	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()

	for _, r := range observers {
		r.observer.Notify()
	}
}

// Len returns the number of registered observers
func (s *Subject) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}
