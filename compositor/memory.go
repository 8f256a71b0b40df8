// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/holos/render"
)

// MemorySource is an in-process Source fed by direct Commit calls. It backs
// tests and local demo clients; a wayland-backed Source plugs into the same
// interface.
type MemorySource struct {
	mu        sync.Mutex
	latest    *render.Buffer
	committed bool
	dirty     bool

	frames atomic.Int64
}

// NewMemorySource creates a source with no committed content.
func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// Commit publishes new buffer content. Safe from any goroutine.
func (s *MemorySource) Commit(width, height uint32, pix []byte) {
	buf := &render.Buffer{
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Pix:    pix,
	}
	s.mu.Lock()
	s.latest = buf
	s.committed = true
	s.dirty = true
	s.mu.Unlock()
}

// HasCommittedContent implements Source.
func (s *MemorySource) HasCommittedContent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// ImportLatestBuffer implements Source.
func (s *MemorySource) ImportLatestBuffer() (*render.Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil, false
	}
	s.dirty = false
	return s.latest, true
}

// NotifyFrameServed implements Source.
func (s *MemorySource) NotifyFrameServed() {
	s.frames.Add(1)
}

// FramesServed reports how many frames presented this source's content.
func (s *MemorySource) FramesServed() int64 {
	return s.frames.Load()
}
