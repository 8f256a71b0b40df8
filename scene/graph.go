// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scene provides the node arena that gives render-affecting objects
// a spatial attachment and a stable address.
//
// Nodes live in a generational arena: a [NodeID] pairs a slot index with a
// generation counter, and a stale ID (its node removed, its slot possibly
// reused) resolves to nothing rather than to the new occupant. This replaces
// a web of weak references with liveness checks that are a single integer
// compare.
package scene

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// NodeID addresses a node in a Graph. The zero NodeID is never valid.
type NodeID struct {
	index uint32
	gen   uint32
}

// Errors returned by graph mutations. Each fails the specific request only;
// the graph stays consistent.
var (
	ErrNodeGone         = errors.New("scene: node is gone")
	ErrNameTaken        = errors.New("scene: sibling with that name exists")
	ErrBadName          = errors.New("scene: node name must be non-empty and slash-free")
	ErrNoSpatial        = errors.New("scene: node has no spatial attachment")
	ErrDrawableAttached = errors.New("scene: node already has a drawable attached")
)

type node struct {
	gen      uint32
	alive    bool
	name     string
	path     string
	parent   NodeID
	children map[string]NodeID

	spatial   bool
	transform [16]float32

	// enabled is shared with drawables by pointer so the render goroutine
	// reads it without touching the graph lock. A fresh flag is allocated
	// per occupancy; an orphaned pointer after removal stays safe to read.
	enabled *atomic.Bool

	drawable any
}

// Graph is a concurrent arena of scene nodes. The zero value is not usable;
// call [NewGraph].
type Graph struct {
	mu    sync.RWMutex
	nodes []node
	free  []uint32
}

// NewGraph creates a graph containing only the root node "/",
// which is spatial, enabled, and cannot be removed.
func NewGraph() *Graph {
	g := &Graph{}
	root := node{
		gen:      1,
		alive:    true,
		name:     "",
		path:     "/",
		children: make(map[string]NodeID),
		spatial:  true,
		enabled:  new(atomic.Bool),
	}
	root.transform = Identity()
	root.enabled.Store(true)
	g.nodes = append(g.nodes, root)
	return g
}

// Root returns the ID of the root node.
func (g *Graph) Root() NodeID { return NodeID{index: 0, gen: 1} }

// Add creates a child of parent. A spatial node carries a local transform;
// a non-spatial node ignores it and inherits the parent frame. New nodes
// start enabled.
func (g *Graph) Add(parent NodeID, name string, spatial bool, transform [16]float32) (NodeID, error) {
	if name == "" || strings.Contains(name, "/") {
		return NodeID{}, ErrBadName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.lookup(parent)
	if p == nil {
		return NodeID{}, ErrNodeGone
	}
	if _, exists := p.children[name]; exists {
		return NodeID{}, ErrNameTaken
	}

	var idx uint32
	if n := len(g.free); n > 0 {
		idx = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		g.nodes = append(g.nodes, node{})
		idx = uint32(len(g.nodes) - 1)
	}
	// The append may have moved the arena; re-acquire the parent pointer.
	p = g.lookup(parent)

	nd := &g.nodes[idx]
	nd.gen++ // slot reuse invalidates any stale ID
	nd.alive = true
	nd.name = name
	if p.path == "/" {
		nd.path = "/" + name
	} else {
		nd.path = p.path + "/" + name
	}
	nd.parent = parent
	nd.children = make(map[string]NodeID)
	nd.spatial = spatial
	if spatial {
		nd.transform = transform
	} else {
		nd.transform = Identity()
	}
	nd.enabled = new(atomic.Bool)
	nd.enabled.Store(true)
	nd.drawable = nil

	id := NodeID{index: idx, gen: nd.gen}
	p.children[name] = id
	return id, nil
}

// Resolve maps an absolute path to a live node.
func (g *Graph) Resolve(path string) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if path == "/" {
		return g.Root(), true
	}
	if !strings.HasPrefix(path, "/") {
		return NodeID{}, false
	}
	cur := g.Root()
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		nd := g.lookup(cur)
		if nd == nil {
			return NodeID{}, false
		}
		next, ok := nd.children[part]
		if !ok {
			return NodeID{}, false
		}
		cur = next
	}
	return cur, true
}

// Remove deletes the node and its whole subtree. Removing the root or an
// already-gone node is a no-op. Stale IDs held elsewhere resolve to nothing
// from this point on.
func (g *Graph) Remove(id NodeID) {
	if id.index == 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	nd := g.lookup(id)
	if nd == nil {
		return
	}
	if p := g.lookup(nd.parent); p != nil {
		delete(p.children, nd.name)
	}
	g.removeLocked(id)
}

func (g *Graph) removeLocked(id NodeID) {
	nd := g.lookup(id)
	if nd == nil {
		return
	}
	for _, child := range nd.children {
		g.removeLocked(child)
	}
	nd.alive = false
	nd.gen++
	nd.children = nil
	nd.drawable = nil
	g.free = append(g.free, id.index)
}

// Alive reports whether id addresses a live node.
func (g *Graph) Alive(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lookup(id) != nil
}

// Path returns the absolute path of a live node.
func (g *Graph) Path(id NodeID) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nd := g.lookup(id)
	if nd == nil {
		return "", false
	}
	return nd.path, true
}

// EnabledFlag returns the node's shared enabled flag, or nil for a stale ID.
// Drawables cache this pointer at creation so per-frame gating never takes
// the graph lock.
func (g *Graph) EnabledFlag(id NodeID) *atomic.Bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nd := g.lookup(id)
	if nd == nil {
		return nil
	}
	return nd.enabled
}

// SetEnabled flips the node's enabled gate. Safe from any goroutine.
func (g *Graph) SetEnabled(id NodeID, enabled bool) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nd := g.lookup(id)
	if nd == nil {
		return false
	}
	nd.enabled.Store(enabled)
	return true
}

// HasSpatial reports whether the node carries a spatial attachment.
func (g *Graph) HasSpatial(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nd := g.lookup(id)
	return nd != nil && nd.spatial
}

// SetTransform replaces the node's local transform.
func (g *Graph) SetTransform(id NodeID, transform [16]float32) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	nd := g.lookup(id)
	if nd == nil || !nd.spatial {
		return false
	}
	nd.transform = transform
	return true
}

// GlobalTransform returns the product of local transforms from the root down
// to the node. A stale ID yields the identity.
func (g *Graph) GlobalTransform(id NodeID) [16]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := Identity()
	cur := id
	for cur.index != 0 {
		nd := g.lookup(cur)
		if nd == nil {
			return Identity()
		}
		out = Mul(nd.transform, out)
		cur = nd.parent
	}
	return out
}

// SetDrawable attaches a drawable to the node, at most once, and only when
// the node has a spatial attachment. A violation fails this request, never
// the process.
func (g *Graph) SetDrawable(id NodeID, d any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	nd := g.lookup(id)
	if nd == nil {
		return ErrNodeGone
	}
	if !nd.spatial {
		return ErrNoSpatial
	}
	if nd.drawable != nil {
		return ErrDrawableAttached
	}
	nd.drawable = d
	return nil
}

// Drawable returns the drawable attached to the node, if any.
func (g *Graph) Drawable(id NodeID) (any, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nd := g.lookup(id)
	if nd == nil || nd.drawable == nil {
		return nil, false
	}
	return nd.drawable, true
}

// lookup returns the node for id, or nil if the ID is stale.
// Callers hold g.mu.
func (g *Graph) lookup(id NodeID) *node {
	if int(id.index) >= len(g.nodes) {
		return nil
	}
	nd := &g.nodes[id.index]
	if !nd.alive || nd.gen != id.gen {
		return nil
	}
	return nd
}
