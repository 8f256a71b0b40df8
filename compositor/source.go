// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package compositor defines the display-protocol capability consumed by
// surface drawables. The protocol state machine itself (commit/ack cycles,
// buffer management) lives with the collaborator; the render loop only polls
// for committed content and imports it.
package compositor

import "github.com/gogpu/holos/render"

// Source is one guest surface's committed-content feed.
//
// HasCommittedContent and ImportLatestBuffer are polled by the render
// goroutine every frame; implementations must make both cheap and safe
// against concurrent commits from the protocol side.
type Source interface {
	// HasCommittedContent reports whether the surface has ever committed
	// content. Until it does, the surface stays unrealized and its
	// per-frame processing is a no-op poll, not an error.
	HasCommittedContent() bool

	// ImportLatestBuffer returns the newest committed buffer if a commit
	// happened since the previous import, else (nil, false). Import is
	// opaque to the render core; whatever copying or handle translation
	// it needs is the implementation's business.
	ImportLatestBuffer() (*render.Buffer, bool)

	// NotifyFrameServed tells the protocol side its content was presented,
	// releasing the guest to draw the next frame.
	NotifyFrameServed()
}
