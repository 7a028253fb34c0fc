package config

import (
	"fmt"
	"strings"
)

// DemoConfig holds the inputs of the demo scenarios
type DemoConfig struct {
	// Output is the print format: text, json or yaml
	Output string `yaml:"output" env:"DEMO_OUTPUT"`

	// Values are the initial values of the aggregate demo observers
	Values []int `yaml:"values" env:"DEMO_VALUES" env-separator:","`

	// Todos seed the todo demo list
	Todos []TodoSeed `yaml:"todos"`
}

// TodoSeed is one todo added by the todo demo
type TodoSeed struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// DefaultDemoConfig returns the demo inputs used when nothing is configured
func DefaultDemoConfig() DemoConfig {
	return DemoConfig{
		Output: "text",
		Values: []int{1, 1},
		Todos: []TodoSeed{
			{Title: "Learn Go channels", Description: "A Go channel is cool!!!"},
			{Title: "Learn Go generics", Description: "Go generics are cool too!!!"},
			{Title: "Learn Go iterators", Description: "Go iterators can do a lot of cool stuff"},
		},
	}
}

// Validate validates the demo configuration
func (c *DemoConfig) Validate() error {
	if len(c.Values) == 0 {
		return fmt.Errorf("demo values must not be empty")
	}

	for i, todo := range c.Todos {
		if strings.TrimSpace(todo.Title) == "" {
			return fmt.Errorf("demo todo %d has no title", i)
		}
	}

	return nil
}
