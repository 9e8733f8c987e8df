// Package normalize converts stored and fetched data into the single response shape.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OneOrMany decodes a JSON value that may be null, a single object or a list of objects.
// Relational joins report one-to-one sub-records either way depending on how the
// relation was declared, so the store decodes through this type and never branches on shape.
type OneOrMany[T any] struct {
	Items []T
}

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		o.Items = nil
		return nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decode list: %w", err)
		}
		o.Items = items
		return nil
	}

	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return fmt.Errorf("decode object: %w", err)
	}
	o.Items = []T{item}
	return nil
}

// First returns the first element, or nil when the value was null or an empty list.
func (o OneOrMany[T]) First() *T {
	if len(o.Items) == 0 {
		return nil
	}
	first := o.Items[0]
	return &first
}
