// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "sync/atomic"

// SharedMaterial reference-counts a material used as a cross-object
// replacement, e.g. a compositor surface's material applied onto several
// models. Holders never mutate the underlying material through the shared
// reference; mutation goes through copy-on-write in the drawable layer.
//
// The release that drops the count to zero hands the material to the destroy
// queue, so the last holder may release from any goroutine.
type SharedMaterial struct {
	refs atomic.Int64
	mat  Material
	dq   *DestroyQueue
}

// NewSharedMaterial wraps mat with a reference count of one.
func NewSharedMaterial(mat Material, dq *DestroyQueue) *SharedMaterial {
	s := &SharedMaterial{mat: mat, dq: dq}
	s.refs.Store(1)
	return s
}

// Material returns the shared material. The caller must hold a reference
// and must not mutate the material in place.
func (s *SharedMaterial) Material() Material { return s.mat }

// Retain adds a reference.
func (s *SharedMaterial) Retain() {
	if s.refs.Add(1) <= 1 {
		panic("render: retain of released shared material")
	}
}

// Release drops one reference; the last release queues the material for
// deferred destruction.
func (s *SharedMaterial) Release() {
	n := s.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("render: release without matching retain")
	}
	s.dq.Add(s.mat)
}
