package demo

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"k8s.io/utils/clock"

	"observer-patterns/internal/app/render"
	"observer-patterns/internal/application/services"
	"observer-patterns/internal/config"
	"observer-patterns/internal/domain/models"
	"observer-patterns/internal/patterns"
	"observer-patterns/internal/reactive"
)

// Scenario names
const (
	ScenarioSubject   = "subject"
	ScenarioAggregate = "aggregate"
	ScenarioTodos     = "todos"
)

// Scenarios lists all scenarios in the order Run executes them
var Scenarios = []string{ScenarioSubject, ScenarioAggregate, ScenarioTodos}

// Runner executes demo scenarios against a printer
type Runner struct {
	printer *render.Printer
	cfg     config.DemoConfig
	clock   clock.PassiveClock
	logger  logr.Logger
}

// NewRunner creates a runner
func NewRunner(printer *render.Printer, cfg config.DemoConfig, clk clock.PassiveClock, logger logr.Logger) *Runner {
	return &Runner{
		printer: printer,
		cfg:     cfg,
		clock:   clk,
		logger:  logger,
	}
}

// Run executes the named scenario
func (r *Runner) Run(name string) error {
	r.logger.V(1).Info("running scenario", "scenario", name)

	var err error
	switch name {
	case ScenarioSubject:
		err = r.Subject()
	case ScenarioAggregate:
		err = r.Aggregate()
	case ScenarioTodos:
		err = r.Todos()
	default:
		return errors.Errorf("unknown scenario %q", name)
	}
	return errors.Wrapf(err, "scenario %s", name)
}

// RunAll executes every scenario in order
func (r *Runner) RunAll() error {
	for _, name := range Scenarios {
		if err := r.Run(name); err != nil {
			return err
		}
	}
	return nil
}

// Subject registers two named observers, broadcasts, drops one and broadcasts again
func (r *Runner) Subject() error {
	subject := patterns.NewSubject()

	var printErr error
	sink := func(name string) {
		if err := r.printer.Print(name, nil); err != nil && printErr == nil {
			printErr = err
		}
	}

	ha, err := subject.Register(&patterns.NamedObserver{Name: "ConcreteObserverA", Sink: sink})
	if err != nil {
		return err
	}
	if _, err := subject.Register(&patterns.NamedObserver{Name: "ConcreteObserverB", Sink: sink}); err != nil {
		return err
	}

	if err := r.printer.Print("subject.NotifyObservers()", nil); err != nil {
		return err
	}
	subject.NotifyObservers()

	subject.Unregister(ha)
	if err := r.printer.Separator(); err != nil {
		return err
	}
	if err := r.printer.Print("subject.NotifyObservers()", nil); err != nil {
		return err
	}
	subject.NotifyObservers()

	return printErr
}

// Aggregate sums value observers while their values change
func (r *Runner) Aggregate() error {
	if len(r.cfg.Values) == 0 {
		return errors.New("no values to aggregate")
	}
	agg := patterns.NewAggregate[int]()

	observers := make([]*patterns.ValueObserver[int], len(r.cfg.Values))
	handles := make([]patterns.Handle, len(r.cfg.Values))
	for i, v := range r.cfg.Values {
		observers[i] = patterns.NewValueObserver(v)
		handles[i] = agg.Subscribe(observers[i])
	}

	step := 0
	compute := func() error {
		step++
		return r.printer.Print(fmt.Sprintf("computation %d", step), agg.Compute())
	}

	if err := compute(); err != nil {
		return err
	}

	first := observers[0]
	first.Next(first.Value() + 40)
	if err := compute(); err != nil {
		return err
	}

	last := observers[len(observers)-1]
	first.Next(1)
	last.Next(last.Value() + 363)
	if err := compute(); err != nil {
		return err
	}

	first.Next(64)
	if len(handles) > 1 {
		agg.Unsubscribe(handles[len(handles)-1])
	}
	return compute()
}

// Todos seeds a todo list, edits the last todo and deletes the second one,
// printing the full list after every change
func (r *Runner) Todos() error {
	svc := services.NewTodoService(r.clock, r.logger)

	var printErr error
	if _, err := svc.Watch(func(s reactive.Snapshot[models.Todo]) {
		if err := r.printer.Print("todos changed", s); err != nil && printErr == nil {
			printErr = err
		}
	}); err != nil {
		return err
	}

	keys := make([]string, 0, len(r.cfg.Todos))
	for _, seed := range r.cfg.Todos {
		key, err := svc.Add(seed.Title, seed.Description)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}

	if len(keys) > 2 {
		last := keys[len(keys)-1]
		todo, _ := svc.Get(last)
		description := todo.Description + "!!!"
		if err := svc.Edit(last, models.TodoPatch{Description: &description}); err != nil {
			return err
		}
	}
	if len(keys) > 1 {
		if _, ok := svc.Delete(keys[1]); !ok {
			return errors.Errorf("todo %s vanished", keys[1])
		}
	}

	return printErr
}
