// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "sync"

// DestroyQueue defers teardown of graphics-bound resources to the render
// goroutine.
//
// Object drop may happen on any client-handling goroutine, but graphics-API
// deletion is only valid on the goroutine owning the graphics context, so
// destruction is relocated rather than inlined: droppers hand ownership of
// the resource to the queue, and the render goroutine drains it once per
// frame. Multi-producer, single-consumer.
type DestroyQueue struct {
	mu      sync.Mutex
	pending []Resource
}

// NewDestroyQueue creates an empty queue.
func NewDestroyQueue() *DestroyQueue {
	return &DestroyQueue{}
}

// Add transfers sole ownership of r to the queue. Safe from any goroutine,
// non-blocking, never fails. A nil resource is ignored.
func (q *DestroyQueue) Add(r Resource) {
	if r == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, r)
	q.mu.Unlock()
}

// Drain destroys every queued resource in enqueue order and returns the
// count. Render goroutine only: this is the one place graphics-API deletion
// is permitted to run.
func (q *DestroyQueue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, r := range batch {
		r.Destroy()
	}
	return len(batch)
}

// Len reports the number of resources awaiting destruction.
func (q *DestroyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
