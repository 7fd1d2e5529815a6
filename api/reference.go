package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Reference is a backend field that is sometimes a bare string id and
// sometimes a populated record, depending on whether the server expanded it.
// It decodes either shape with an explicit discriminator instead of ad hoc
// type sniffing at render time.
type Reference[T any] struct {
	id    string
	value *T
}

// RefID builds an unexpanded Reference.
func RefID[T any](id string) Reference[T] {
	return Reference[T]{id: id}
}

// RefExpanded builds an expanded Reference.
func RefExpanded[T any](v T) Reference[T] {
	return Reference[T]{value: &v}
}

// IsExpanded reports whether the server sent the full record.
func (r Reference[T]) IsExpanded() bool {
	return r.value != nil
}

// Expanded returns the full record when present.
func (r Reference[T]) Expanded() (T, bool) {
	if r.value != nil {
		return *r.value, true
	}
	var zero T
	return zero, false
}

// ID returns the raw identifier for an unexpanded reference. For an
// expanded reference it returns the empty string; read the record instead.
func (r Reference[T]) ID() string {
	return r.id
}

// IsZero reports whether the field was absent or null.
func (r Reference[T]) IsZero() bool {
	return r.id == "" && r.value == nil
}

func (r *Reference[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Reference[T]{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("reference id: %w", err)
		}
		*r = Reference[T]{id: id}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("reference record: %w", err)
	}
	*r = Reference[T]{value: &v}
	return nil
}

func (r Reference[T]) MarshalJSON() ([]byte, error) {
	if r.value != nil {
		return json.Marshal(*r.value)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}
