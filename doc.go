// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package holos is an XR display server built on the gogpu stack.
//
// holos accepts client connections over a unix socket and lets each client
// create and mutate GPU-backed scene content: 3D models, material parameters,
// and compositor surface textures. Client handlers run concurrently, but every
// graphics call happens on exactly one render goroutine, once per frame.
// The packages in this module implement the machinery that makes that safe:
//
//   - registry: a concurrent directory of live render-affecting objects
//   - render: the graphics capability interface, the deferred destroy queue,
//     and one-shot change detection for coalescing GPU writes
//   - drawable: models and surfaces with per-object mutation staging drained
//     once per frame
//   - scene: the node arena that gives objects a spatial attachment
//   - server: the accept loop and per-connection protocol handlers
//   - backend: graphics drivers (pure-Go software, gogpu/wgpu)
//
// The root package carries only cross-cutting plumbing such as [SetLogger].
package holos
