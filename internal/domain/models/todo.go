package models

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Todo is a single item of a todo list
type Todo struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the todo before it is stored
func (t Todo) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("todo title is required")
	}
	return nil
}

// TodoPatch carries the todo fields to change; nil fields are left as they are
type TodoPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil
}
