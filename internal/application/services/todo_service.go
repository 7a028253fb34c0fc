package services

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"k8s.io/utils/clock"

	"observer-patterns/internal/domain/models"
	"observer-patterns/internal/domain/ports"
	"observer-patterns/internal/reactive"
)

// TodoService manages one reactive todo list
type TodoService struct {
	todos  *reactive.List[models.Todo]
	clock  clock.PassiveClock
	logger logr.Logger
}

// NewTodoService creates a service with an empty list.
// A nil clock falls back to the real clock.
func NewTodoService(clk clock.PassiveClock, logger logr.Logger, opts ...reactive.Option) *TodoService {
	if clk == nil {
		clk = clock.RealClock{}
	}
	opts = append([]reactive.Option{reactive.WithLogger(logger.WithName("todos"))}, opts...)
	return &TodoService{
		todos:  reactive.NewList[models.Todo](opts...),
		clock:  clk,
		logger: logger,
	}
}

// Add stores a new todo and returns its key
func (s *TodoService) Add(title, description string) (string, error) {
	now := s.clock.Now()
	key, err := s.todos.Insert(models.Todo{
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to add todo")
	}
	s.logger.V(2).Info("todo added", "key", key, "title", title)
	return key, nil
}

// Edit applies patch to the todo stored under key and stamps UpdatedAt.
// An empty patch changes nothing and publishes nothing.
func (s *TodoService) Edit(key string, patch models.TodoPatch) error {
	if patch.IsEmpty() {
		if _, ok := s.todos.Get(key); !ok {
			return errors.Wrapf(ports.ErrNotFound, "todo %s", key)
		}
		return nil
	}

	now := s.clock.Now()
	err := s.todos.Update(key, reactive.PatchFunc[models.Todo](func(t *models.Todo) {
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		t.UpdatedAt = now
	}))
	if err != nil {
		return errors.Wrap(err, "failed to edit todo")
	}
	s.logger.V(2).Info("todo edited", "key", key)
	return nil
}

// Delete removes the todo stored under key
func (s *TodoService) Delete(key string) (models.Todo, bool) {
	todo, ok := s.todos.Remove(key)
	if ok {
		s.logger.V(2).Info("todo deleted", "key", key)
	}
	return todo, ok
}

// Get returns the todo stored under key
func (s *TodoService) Get(key string) (models.Todo, bool) {
	return s.todos.Get(key)
}

// List returns all todos in insertion order
func (s *TodoService) List() reactive.Snapshot[models.Todo] {
	return s.todos.Entries()
}

// Watch registers fn to receive the full list after every change
func (s *TodoService) Watch(fn func(reactive.Snapshot[models.Todo])) (reactive.Handle, error) {
	h, err := s.todos.SubscribeToChanges(fn)
	if err != nil {
		return 0, errors.Wrap(err, "failed to watch todos")
	}
	return h, nil
}

// Unwatch removes a watcher registered with Watch
func (s *TodoService) Unwatch(h reactive.Handle) {
	s.todos.UnsubscribeFromChanges(h)
}
