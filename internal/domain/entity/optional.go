package entity

import (
	"bytes"
	"encoding/json"
)

type optionalState uint8

const (
	optionalOmitted optionalState = iota
	optionalSet
	optionalUndefined
)

// Optional is a patch field with three states: omitted (zero value), set, or
// explicitly undefined. An explicitly undefined field in a TabPatch is rejected
// by TabStore.Update rather than silently clearing data.
type Optional[T any] struct {
	value T
	state optionalState
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, state: optionalSet}
}

// Undefined returns an Optional that is present but carries no value.
func Undefined[T any]() Optional[T] {
	return Optional[T]{state: optionalUndefined}
}

// IsSet reports whether the field carries a value.
func (o Optional[T]) IsSet() bool { return o.state == optionalSet }

// IsOmitted reports whether the field was left out of the patch.
func (o Optional[T]) IsOmitted() bool { return o.state == optionalOmitted }

// IsUndefined reports whether the field is present without a value.
func (o Optional[T]) IsUndefined() bool { return o.state == optionalUndefined }

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == optionalSet
}

// UnmarshalJSON maps JSON null to Undefined. Absent keys never reach this
// method and stay omitted.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Undefined[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalJSON writes the value, or null when unset.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != optionalSet {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// IsZero lets `omitzero` drop omitted fields when encoding.
func (o Optional[T]) IsZero() bool { return o.state == optionalOmitted }
