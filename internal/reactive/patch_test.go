package reactive

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"observer-patterns/internal/domain/ports"
)

type task struct {
	Title     string            `json:"title"`
	Labels    map[string]string `json:"labels,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func TestFields_Apply(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	body := task{Title: "old", Labels: map[string]string{"a": "1", "b": "2"}}

	tests := []struct {
		name     string
		patch    Fields[task]
		expected task
	}{
		{
			name:     "overwrite one field",
			patch:    Fields[task]{"title": "new"},
			expected: task{Title: "new", Labels: map[string]string{"a": "1", "b": "2"}},
		},
		{
			name:     "shallow replace of nested object",
			patch:    Fields[task]{"labels": map[string]string{"c": "3"}},
			expected: task{Title: "old", Labels: map[string]string{"c": "3"}},
		},
		{
			name:     "time field",
			patch:    Fields[task]{"updatedAt": stamp},
			expected: task{Title: "old", Labels: map[string]string{"a": "1", "b": "2"}, UpdatedAt: stamp},
		},
		{
			name:     "empty patch",
			patch:    Fields[task]{},
			expected: body,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.patch.Apply(body)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	assert.Equal(t, "old", body.Title, "original body must be left alone")
}

type withHidden struct {
	Title  string `json:"title"`
	Secret string `json:"-"`
	count  int
}

type audited struct {
	Author string `json:"author"`
}

type document struct {
	audited
	Name string `json:"name"`
}

func TestFields_ApplyKeepsFieldsOutsideJSON(t *testing.T) {
	body := withHidden{Title: "old", Secret: "s", count: 7}

	got, err := Fields[withHidden]{"title": "new"}.Apply(body)
	require.NoError(t, err)
	assert.Equal(t, withHidden{Title: "new", Secret: "s", count: 7}, got)
}

func TestFields_ApplyRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name  string
		patch Fields[withHidden]
	}{
		{name: "go field name", patch: Fields[withHidden]{"Title": "new"}},
		{name: "unknown name", patch: Fields[withHidden]{"subtitle": "x"}},
		{name: "ignored field", patch: Fields[withHidden]{"Secret": "x"}},
		{name: "unexported field", patch: Fields[withHidden]{"count": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.patch.Apply(withHidden{Title: "old"})
			assert.True(t, errors.Is(err, ports.ErrInvalidBody), "got %v", err)
		})
	}
}

func TestFields_ApplyReplacesMapsWithoutTouchingOriginal(t *testing.T) {
	labels := map[string]string{"a": "1"}
	body := task{Title: "x", Labels: labels}

	got, err := Fields[task]{"labels": map[string]string{"b": "2"}}.Apply(body)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, got.Labels)
	assert.Equal(t, map[string]string{"a": "1"}, labels)
}

func TestFields_ApplyPointerBody(t *testing.T) {
	body := &withHidden{Title: "old", count: 3}

	got, err := Fields[*withHidden]{"title": "new"}.Apply(body)
	require.NoError(t, err)
	assert.Equal(t, &withHidden{Title: "new", count: 3}, got)
	assert.Equal(t, "old", body.Title)
}

func TestFields_ApplyPromotedField(t *testing.T) {
	body := document{audited: audited{Author: "ann"}, Name: "doc"}

	got, err := Fields[document]{"author": "bob"}.Apply(body)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Author)
	assert.Equal(t, "doc", got.Name)
}

func TestFields_ApplyTypeMismatch(t *testing.T) {
	_, err := Fields[task]{"title": 42}.Apply(task{Title: "x"})
	assert.Error(t, err)
}

func TestFields_ApplyNonObjectBody(t *testing.T) {
	_, err := Fields[int]{"x": 1}.Apply(5)
	assert.Error(t, err)
}

func TestMergePatch_Apply(t *testing.T) {
	body := task{Title: "old", Labels: map[string]string{"a": "1", "b": "2"}}

	got, err := MergePatch[task](`{"labels":{"b":null,"c":"3"}}`).Apply(body)
	require.NoError(t, err)
	assert.Equal(t, task{Title: "old", Labels: map[string]string{"a": "1", "c": "3"}}, got)

	_, err = MergePatch[task](`{broken`).Apply(body)
	assert.Error(t, err)
}

func TestMergePatch_ApplyKeepsFieldsOutsideJSON(t *testing.T) {
	body := withHidden{Title: "old", Secret: "s", count: 7}

	got, err := MergePatch[withHidden](`{"title":"new"}`).Apply(body)
	require.NoError(t, err)
	assert.Equal(t, withHidden{Title: "new", Secret: "s", count: 7}, got)
}

func TestMergePatch_ApplyNullClearsField(t *testing.T) {
	body := task{Title: "old", Labels: map[string]string{"a": "1"}}

	got, err := MergePatch[task](`{"labels":null}`).Apply(body)
	require.NoError(t, err)
	assert.Equal(t, task{Title: "old"}, got)
}

func TestMergePatch_ApplyRejects(t *testing.T) {
	for name, patch := range map[string]string{
		"unknown field": `{"Title":"new"}`,
		"array":         `[1]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := MergePatch[task](patch).Apply(task{Title: "old"})
			assert.True(t, errors.Is(err, ports.ErrInvalidBody), "got %v", err)
		})
	}
}

func TestPatchFunc_Apply(t *testing.T) {
	body := task{Title: "old"}

	got, err := PatchFunc[task](func(b *task) { b.Title = "new" }).Apply(body)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "old", body.Title)
}
