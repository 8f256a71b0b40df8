// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package drawable implements the render-affecting objects clients create
// and mutate: 3D models and compositor surfaces.
//
// Mutation requests arrive on arbitrary client goroutines and are staged in
// per-object lock-protected collections; the render goroutine drains each
// object's staging exactly once per frame, in a fixed order, against the
// object's lazily realized GPU resource. Parameter mutations are
// last-write-wins per (slot, name); material replacements are strict FIFO.
// Mutating a material always copies it first, so a material shared across
// objects (a surface's material applied to several models) is never written
// through the shared reference.
//
// [System] is the explicitly constructed context tying the registries, the
// destroy queue, the graphics driver, and the scene graph together; one
// System is created at startup and handed to both the connection handlers
// and the render loop.
package drawable
