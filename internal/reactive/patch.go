package reactive

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	jsonpatch "gopkg.in/evanphx/json-patch.v4"

	"observer-patterns/internal/domain/ports"
)

// Patch is a partial body applied by List.Update
type Patch[T any] interface {
	// Apply returns body with the patch applied. body must not be modified.
	Apply(body T) (T, error)
}

// PatchFunc mutates a copy of the current body
type PatchFunc[T any] func(body *T)

// Apply implements Patch
func (f PatchFunc[T]) Apply(body T) (T, error) {
	f(&body)
	return body, nil
}

// Fields is a shallow patch keyed by JSON field name. Each present field
// replaces the body's field as a whole; every other field, including
// unexported and `json:"-"` ones, is kept. Keys that are not JSON field
// names of T are rejected.
type Fields[T any] map[string]any

// Apply implements Patch
func (p Fields[T]) Apply(body T) (T, error) {
	values := make(map[string]json.RawMessage, len(p))
	for name, value := range p {
		encoded, err := json.Marshal(value)
		if err != nil {
			var zero T
			return zero, errors.Wrapf(err, "failed to marshal field %q", name)
		}
		values[name] = encoded
	}
	return setFields(body, values)
}

// MergePatch is an RFC 7386 JSON merge patch document. It must be a JSON
// object; its top level keys select the fields that change, nested objects
// are merged and null removes. Fields the patch does not name are kept.
type MergePatch[T any] []byte

// Apply implements Patch
func (p MergePatch[T]) Apply(body T) (T, error) {
	var zero T

	var top map[string]json.RawMessage
	if err := json.Unmarshal(p, &top); err != nil {
		return zero, errors.Wrap(ports.ErrInvalidBody, "merge patch is not a JSON object: "+err.Error())
	}

	current, err := json.Marshal(body)
	if err != nil {
		return zero, errors.Wrap(err, "failed to marshal body")
	}

	patched, err := jsonpatch.MergePatch(current, p)
	if err != nil {
		return zero, errors.Wrap(err, "failed to apply merge patch")
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(patched, &merged); err != nil {
		return zero, errors.Wrap(err, "patched body is not a JSON object")
	}

	values := make(map[string]json.RawMessage, len(top))
	for name := range top {
		if value, ok := merged[name]; ok {
			values[name] = value
		} else {
			values[name] = json.RawMessage("null")
		}
	}
	return setFields(body, values)
}

// setFields decodes every value into a fresh value of the matching struct
// field and stores it on a copy of body
func setFields[T any](body T, values map[string]json.RawMessage) (T, error) {
	var zero T

	result := reflect.ValueOf(&body).Elem()
	target := result
	if target.Kind() == reflect.Pointer {
		if target.IsNil() {
			return zero, errors.Wrap(ports.ErrInvalidBody, "body is nil")
		}
		cp := reflect.New(target.Type().Elem())
		cp.Elem().Set(target.Elem())
		result.Set(cp)
		target = cp.Elem()
	}
	if target.Kind() != reflect.Struct {
		return zero, errors.Wrapf(ports.ErrInvalidBody, "%s is not a struct", target.Type())
	}

	index := jsonFields(target.Type())
	for name, raw := range values {
		fieldIndex, ok := index[name]
		if !ok {
			return zero, errors.Wrapf(ports.ErrInvalidBody, "%s has no field %q", target.Type(), name)
		}
		field, err := target.FieldByIndexErr(fieldIndex)
		if err != nil {
			return zero, errors.Wrapf(ports.ErrInvalidBody, "field %q: %s", name, err)
		}
		if !field.CanSet() {
			return zero, errors.Wrapf(ports.ErrInvalidBody, "field %q is not settable", name)
		}

		fresh := reflect.New(field.Type())
		if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
			return zero, errors.Wrapf(ports.ErrInvalidBody, "field %q: %s", name, err)
		}
		field.Set(fresh.Elem())
	}
	return body, nil
}

// jsonFields maps JSON field names of a struct type to field indexes
func jsonFields(t reflect.Type) map[string][]int {
	index := map[string][]int{}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				// promoted fields are listed on their own
				continue
			}
		}
		if name == "" {
			name = f.Name
		}
		if prev, ok := index[name]; ok && len(prev) <= len(f.Index) {
			continue
		}
		index[name] = f.Index
	}
	return index
}
