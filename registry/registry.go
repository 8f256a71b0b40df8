// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package registry provides a concurrent directory of live objects.
//
// A Registry tracks every object of one kind that the render loop must visit
// each frame, independent of who holds the long-lived owning reference.
// Ownership is explicit: Add returns an [Owned] wrapper with a reference
// count of one, and the release that drops the count to zero removes the
// directory entry and runs the object's teardown exactly once, from whichever
// goroutine released last. The directory entry itself holds no reference, so
// registration never keeps an abandoned object alive.
package registry

import (
	"sync"
	"sync/atomic"
)

// Registry is a concurrent directory of live objects of type T.
// The zero value is not usable; call [New].
type Registry[T any] struct {
	mu      sync.Mutex
	nextID  uint64
	entries map[uint64]*Owned[T]
}

// Owned is a reference-counted strong owner of a registered value.
// Copies of the pointer share one count; each Retain must be paired
// with exactly one Release.
type Owned[T any] struct {
	value   T
	refs    atomic.Int64
	id      uint64
	reg     *Registry[T]
	destroy func()
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[uint64]*Owned[T])}
}

// Add registers value and returns its owner with a reference count of one.
// destroy runs exactly once, when the last reference is released. It may be
// nil. The value is fully constructed before it becomes visible to Snapshot,
// so a concurrent frame pass can never observe a half-built object.
func (r *Registry[T]) Add(value T, destroy func()) *Owned[T] {
	o := &Owned[T]{value: value, reg: r, destroy: destroy}
	o.refs.Store(1)

	r.mu.Lock()
	r.nextID++
	o.id = r.nextID
	r.entries[o.id] = o
	r.mu.Unlock()
	return o
}

// Len reports the number of live entries.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Snapshot returns a strong owner for every entry alive at call time.
// Entries concurrently releasing their last reference are skipped, never
// duplicated or half-exposed. Membership of the returned set is fixed for
// its lifetime: the snapshot's references keep every member alive until
// [Snapshot.Release].
func (r *Registry[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	out := make(Snapshot[T], 0, len(r.entries))
	for _, o := range r.entries {
		if o.tryRetain() {
			out = append(out, o)
		}
	}
	r.mu.Unlock()
	return out
}

func (r *Registry[T]) remove(id uint64) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Snapshot is the result of [Registry.Snapshot]: a fixed set of strong owners.
type Snapshot[T any] []*Owned[T]

// Release drops the snapshot's reference on every member.
// The snapshot must not be used afterwards.
func (s Snapshot[T]) Release() {
	for _, o := range s {
		o.Release()
	}
}

// Value returns the owned value.
func (o *Owned[T]) Value() T { return o.value }

// Retain adds a reference. The caller must already hold one; retaining an
// object whose count reached zero is a bug.
func (o *Owned[T]) Retain() {
	if o.refs.Add(1) <= 1 {
		panic("registry: retain after release")
	}
}

// Release drops one reference. The release that drops the count to zero
// removes the directory entry and runs the destroy callback. Safe to call
// from any goroutine; teardown that must happen on a particular thread is
// the destroy callback's business (typically it defers to a destroy queue).
func (o *Owned[T]) Release() {
	n := o.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("registry: release without matching retain")
	}
	o.reg.remove(o.id)
	if o.destroy != nil {
		o.destroy()
	}
}

// tryRetain adds a reference only if the count is still positive.
// Used by Snapshot to race safely against a concurrent final Release.
func (o *Owned[T]) tryRetain() bool {
	for {
		n := o.refs.Load()
		if n <= 0 {
			return false
		}
		if o.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}
