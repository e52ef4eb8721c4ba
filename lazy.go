// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

// fieldState is the state of a field cache slot
type fieldState uint8

const (
	// fieldUnset marks a field that was not computed yet
	fieldUnset fieldState = iota
	// fieldAbsent marks a field that was computed to no value
	fieldAbsent
	// fieldPresent marks a field that was computed to a value
	fieldPresent
)

// field is a compute-once cache slot for a derived Message field. The zero value is
// an unset field.
//
// Once a field is absent or present it never changes. A field is not safe for
// concurrent use and a compute function must not read its own field.
type field[T any] struct {
	state fieldState
	val   T
}

// get returns the cached value of the field. On first access compute is called and
// its result stored. The boolean result reports whether the field has a value.
func (f *field[T]) get(compute func() (T, bool)) (T, bool) {
	if f.state == fieldUnset {
		v, ok := compute()
		f.set(v, ok)
	}
	return f.val, f.state == fieldPresent
}

// getErr works like get, but for computations that can fail. A failed computation
// leaves the field unset, so the next access computes it again.
func (f *field[T]) getErr(compute func() (T, bool, error)) (T, bool, error) {
	if f.state == fieldUnset {
		v, ok, err := compute()
		if err != nil {
			var zero T
			return zero, false, err
		}
		f.set(v, ok)
	}
	return f.val, f.state == fieldPresent, nil
}

// peek returns the cached value without computing it
func (f *field[T]) peek() (T, bool) {
	return f.val, f.state == fieldPresent
}

// initialized reports whether the field was computed
func (f *field[T]) initialized() bool {
	return f.state != fieldUnset
}

func (f *field[T]) set(v T, ok bool) {
	if !ok {
		var zero T
		f.val, f.state = zero, fieldAbsent
		return
	}
	f.val, f.state = v, fieldPresent
}
