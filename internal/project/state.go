package project

import (
	"errors"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidState is returned when a snapshot is not valid JSON.
var ErrInvalidState = errors.New("project: state snapshot is not valid JSON")

// State is an opaque, immutable JSON snapshot of a project's editable
// data. The zero value is the empty snapshot.
//
// State is a value type; copying it is cheap and safe. Mutating methods
// return a new State and never modify the receiver.
type State struct {
	raw []byte
}

// NewState wraps a JSON document as a snapshot.
// The input is copied, so the caller may reuse its buffer.
func NewState(raw []byte) (State, error) {
	if len(raw) == 0 {
		return State{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return State{}, ErrInvalidState
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return State{raw: cp}, nil
}

// MustState is NewState for literals in tests and fixtures.
// It panics on invalid JSON.
func MustState(raw string) State {
	s, err := NewState([]byte(raw))
	if err != nil {
		panic(err)
	}
	return s
}

// IsZero returns true for the empty snapshot.
func (s State) IsZero() bool {
	return len(s.raw) == 0
}

// Raw returns a copy of the underlying JSON document.
func (s State) Raw() []byte {
	if len(s.raw) == 0 {
		return nil
	}
	cp := make([]byte, len(s.raw))
	copy(cp, s.raw)
	return cp
}

// String returns the snapshot as a JSON string.
func (s State) String() string {
	return string(s.raw)
}

// Equal reports whether two snapshots hold byte-identical documents.
func (s State) Equal(other State) bool {
	return string(s.raw) == string(other.raw)
}

// Get reads a field by gjson path, e.g. "clips.2.duration".
func (s State) Get(path string) gjson.Result {
	return gjson.GetBytes(s.raw, path)
}

// Set returns a new snapshot with the field at path replaced.
// The receiver is never modified.
func (s State) Set(path string, value any) (State, error) {
	raw := s.raw
	if len(raw) == 0 {
		raw = []byte(`{}`)
	}
	out, err := sjson.SetBytes(raw, path, value)
	if err != nil {
		return State{}, err
	}
	return State{raw: out}, nil
}

// Delete returns a new snapshot with the field at path removed.
func (s State) Delete(path string) (State, error) {
	if len(s.raw) == 0 {
		return State{}, nil
	}
	out, err := sjson.DeleteBytes(s.raw, path)
	if err != nil {
		return State{}, err
	}
	return State{raw: out}, nil
}

// ClipCount returns the number of clips in the snapshot.
func (s State) ClipCount() int {
	return int(s.Get("clips.#").Int())
}

// Duration returns the project duration in seconds, or zero when the
// snapshot does not record one.
func (s State) Duration() float64 {
	return s.Get("duration").Float()
}

// AspectRatio returns the ratio recorded in the snapshot, or the
// project default when absent.
func (s State) AspectRatio() AspectRatio {
	if r := s.Get("aspectRatio"); r.Exists() {
		return AspectRatio(r.String())
	}
	return DefaultAspectRatio
}

// MarshalJSON emits the snapshot document itself.
func (s State) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.Raw(), nil
}

// UnmarshalJSON validates and adopts the document.
func (s *State) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = State{}
		return nil
	}
	st, err := NewState(data)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
