package reactive

import (
	"reflect"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"observer-patterns/internal/domain/ports"
)

// maxKeyAttempts bounds retries when the generator returns a live key
const maxKeyAttempts = 3

// Entry is one keyed item of a List
type Entry[T any] struct {
	Key  string `json:"key"`
	Body T      `json:"body"`
}

// Snapshot is the full ordered content of a List at one point in time
type Snapshot[T any] []Entry[T]

// Validator is implemented by bodies that can check themselves before insert
type Validator interface {
	Validate() error
}

// KeyGenerator produces keys for new entries
type KeyGenerator func() (string, error)

// NewUUIDKey returns a time ordered UUIDv7 string
func NewUUIDKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", errors.Wrap(err, "failed to generate uuid")
	}
	return id.String(), nil
}

// Option configures a List
type Option func(*options)

type options struct {
	keyGen KeyGenerator
	logger logr.Logger
}

// WithKeyGenerator replaces the default UUIDv7 key generator
func WithKeyGenerator(gen KeyGenerator) Option {
	return func(o *options) {
		if gen != nil {
			o.keyGen = gen
		}
	}
}

// WithLogger sets the logger used for mutation traces
func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// List is a keyed, insertion ordered collection that publishes its full
// content after every successful mutation.
//
// Every publish carries a newly allocated Snapshot, so a snapshot kept by a
// subscriber never changes afterwards. Subscribers of the same publish share
// that snapshot and must not modify it.
//
// Get, Entries and Len may be called from a change callback. Insert, Update
// and Remove must not: they would deadlock waiting for the publish in
// progress.
type List[T any] struct {
	// publishMu serialises mutate-then-publish so publishes never interleave
	publishMu sync.Mutex
	mu        sync.RWMutex
	entries   []Entry[T]
	changes   *Channel[Snapshot[T]]
	keyGen    KeyGenerator
	logger    logr.Logger
}

// NewList creates an empty list
func NewList[T any](opts ...Option) *List[T] {
	o := options{
		keyGen: NewUUIDKey,
		logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &List[T]{
		changes: NewChannel[Snapshot[T]](),
		keyGen:  o.keyGen,
		logger:  o.logger,
	}
}

// Insert appends body under a new key and returns the key
func (l *List[T]) Insert(body T) (string, error) {
	if err := validateBody(body); err != nil {
		return "", err
	}

	l.publishMu.Lock()
	defer l.publishMu.Unlock()

	l.mu.Lock()
	key, err := l.newKey()
	if err != nil {
		l.mu.Unlock()
		return "", err
	}
	l.entries = append(l.entries, Entry[T]{Key: key, Body: body})
	snapshot := l.snapshot()
	l.mu.Unlock()

	l.logger.V(4).Info("entry inserted", "key", key, "size", len(snapshot))
	l.changes.Publish(snapshot)
	return key, nil
}

// Update merges patch into the body stored under key. The patched body is
// validated like an inserted one; on failure nothing is stored or published.
func (l *List[T]) Update(key string, patch Patch[T]) error {
	if patch == nil {
		return errors.Wrap(ports.ErrInvalidBody, "nil patch")
	}

	l.publishMu.Lock()
	defer l.publishMu.Unlock()

	l.mu.Lock()
	i := l.indexOf(key)
	if i < 0 {
		l.mu.Unlock()
		return errors.Wrapf(ports.ErrNotFound, "key %s", key)
	}
	body, err := patch.Apply(l.entries[i].Body)
	if err != nil {
		l.mu.Unlock()
		return errors.Wrapf(err, "failed to patch entry %s", key)
	}
	if err := validateBody(body); err != nil {
		l.mu.Unlock()
		return errors.Wrapf(err, "failed to patch entry %s", key)
	}
	l.entries[i] = Entry[T]{Key: key, Body: body}
	snapshot := l.snapshot()
	l.mu.Unlock()

	l.logger.V(4).Info("entry updated", "key", key)
	l.changes.Publish(snapshot)
	return nil
}

// Remove deletes the entry stored under key and returns its body.
// The boolean is false, and nothing is published, when key is unknown.
func (l *List[T]) Remove(key string) (T, bool) {
	l.publishMu.Lock()
	defer l.publishMu.Unlock()

	l.mu.Lock()
	i := l.indexOf(key)
	if i < 0 {
		l.mu.Unlock()
		var zero T
		return zero, false
	}
	removed := l.entries[i].Body
	last := len(l.entries) - 1
	copy(l.entries[i:], l.entries[i+1:])
	// release the body held by the vacated tail slot
	l.entries[last] = Entry[T]{}
	l.entries = l.entries[:last]
	snapshot := l.snapshot()
	l.mu.Unlock()

	l.logger.V(4).Info("entry removed", "key", key, "size", len(snapshot))
	l.changes.Publish(snapshot)
	return removed, true
}

// Get returns the body stored under key
func (l *List[T]) Get(key string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexOf(key); i >= 0 {
		return l.entries[i].Body, true
	}
	var zero T
	return zero, false
}

// Entries returns the current content in insertion order
func (l *List[T]) Entries() Snapshot[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot()
}

// Len returns the number of entries
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// SubscribeToChanges registers fn to receive a snapshot after every mutation
func (l *List[T]) SubscribeToChanges(fn func(Snapshot[T])) (Handle, error) {
	return l.changes.Subscribe(fn)
}

// UnsubscribeFromChanges removes a subscription made with SubscribeToChanges
func (l *List[T]) UnsubscribeFromChanges(h Handle) {
	l.changes.Unsubscribe(h)
}

func (l *List[T]) indexOf(key string) int {
	for i := range l.entries {
		if l.entries[i].Key == key {
			return i
		}
	}
	return -1
}

func (l *List[T]) snapshot() Snapshot[T] {
	s := make(Snapshot[T], len(l.entries))
	copy(s, l.entries)
	return s
}

// newKey must be called with mu held
func (l *List[T]) newKey() (string, error) {
	var key string
	attempt := 0
	generate := func() error {
		attempt++
		k, err := l.keyGen()
		if err != nil {
			return backoff.Permanent(err)
		}
		if k == "" || l.indexOf(k) >= 0 {
			return errors.Wrapf(ports.ErrKeyCollision, "generated key %q rejected", k)
		}
		key = k
		return nil
	}
	notify := func(err error, _ time.Duration) {
		l.logger.Info("generated key rejected", "attempt", attempt, "reason", err.Error())
	}

	policy := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, maxKeyAttempts-1)
	if err := backoff.RetryNotify(generate, policy, notify); err != nil {
		if errors.Is(err, ports.ErrKeyCollision) {
			return "", errors.Wrapf(err, "no unique key after %d attempts", attempt)
		}
		return "", err
	}
	return key, nil
}

func validateBody(body any) error {
	v := reflect.ValueOf(body)
	if !v.IsValid() {
		return errors.Wrap(ports.ErrInvalidBody, "body is nil")
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return errors.Wrapf(ports.ErrInvalidBody, "body is a nil %s", v.Kind())
		}
	}
	if validator, ok := body.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return errors.Wrap(ports.ErrInvalidBody, err.Error())
		}
	}
	return nil
}
