// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

// Dirty is a one-shot edge detector for coalescing per-frame GPU writes.
//
// It tracks a current value and the last value the render goroutine
// observed: Delta reports a new value exactly once per distinct change and
// nothing otherwise, so an unchanged GPU state-configuration call can be
// skipped every frame. It is an edge detector, not a continuous diff:
// writing the observed value back produces no edge.
//
// Dirty has no internal locking. Writers and the render goroutine must
// synchronize through the owning object's lock, which is how the staging
// collections it sits beside are guarded anyway.
type Dirty[T comparable] struct {
	current T
	last    T
}

// NewDirty returns a detector with current == last == initial, so the
// initial value produces no edge.
func NewDirty[T comparable](initial T) Dirty[T] {
	return Dirty[T]{current: initial, last: initial}
}

// Set updates the current value.
func (d *Dirty[T]) Set(v T) { d.current = v }

// Value returns the current value.
func (d *Dirty[T]) Value() T { return d.current }

// Delta returns (current, true) if the current value differs from the last
// observed one, marking it observed; otherwise it returns (zero, false).
// Render goroutine only.
func (d *Dirty[T]) Delta() (T, bool) {
	if d.current == d.last {
		var zero T
		return zero, false
	}
	d.last = d.current
	return d.current, true
}
