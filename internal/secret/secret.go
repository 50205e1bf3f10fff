// Package secret provides a write-once container for sensitive values
// (card numbers, CVCs, API keys). Any generic textual formatting of a
// Secret renders a fixed redaction marker; the raw value can only be
// recovered through an explicit Expose call.
package secret

import "encoding/json"

// Redacted is the marker emitted in place of a wrapped value by every
// textual formatting path.
const Redacted = "*** REDACTED ***"

// Secret wraps a single sensitive value. The zero value wraps the zero
// value of T. Secrets are immutable after construction.
type Secret[T any] struct {
	inner T
}

// New takes ownership of v and returns it wrapped.
func New[T any](v T) Secret[T] {
	return Secret[T]{inner: v}
}

// Expose returns the wrapped value. Callers must treat the result as
// sensitive; it must not be logged or embedded in error messages.
func (s Secret[T]) Expose() T {
	return s.inner
}

// String implements fmt.Stringer. It always returns the redaction marker.
func (s Secret[T]) String() string {
	return Redacted
}

// GoString implements fmt.GoStringer so that %#v is redacted as well.
func (s Secret[T]) GoString() string {
	return Redacted
}

// MarshalJSON serializes the wrapped value. Serialization is an explicit
// act: connector wire requests must carry the real value, while debug
// formatting never does.
func (s Secret[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.inner)
}

// UnmarshalJSON wraps the decoded value.
func (s *Secret[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.inner)
}

// Equal reports whether two secrets wrap the same value. Intended for
// tests; the comparison result must not be used to leak the value into
// error messages.
func Equal[T comparable](a, b Secret[T]) bool {
	return a.inner == b.inner
}
