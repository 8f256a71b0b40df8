// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package drawable

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/holos/compositor"
	"github.com/gogpu/holos/render"
	"github.com/gogpu/holos/scene"
)

// Surface is the drawable side of one compositor surface: a textured quad
// whose content is re-imported from the display-protocol collaborator on
// every frame that reports a new commit.
//
// Realization additionally waits for the source to report committed content;
// until then the per-frame call is a cheap no-op poll, not an error. The
// surface has a single material slot (0); its material can be shared into
// other objects as a replacement via SharedMaterialRef.
type Surface struct {
	node    scene.NodeID
	graph   *scene.Graph
	enabled *atomic.Bool
	layer   render.Layer
	source  compositor.Source

	mu          sync.Mutex
	state       objectState
	staging     staging
	gpu         render.SurfaceResource
	slots       slotMaterials
	textures    []render.Texture
	queueOffset render.Dirty[int32]
	destroyq    *render.DestroyQueue
}

func newSurface(graph *scene.Graph, node scene.NodeID, source compositor.Source, layer render.Layer, dq *render.DestroyQueue) *Surface {
	return &Surface{
		node:        node,
		graph:       graph,
		enabled:     graph.EnabledFlag(node),
		layer:       layer,
		source:      source,
		slots:       newSlotMaterials(),
		queueOffset: render.NewDirty[int32](0),
		destroyq:    dq,
	}
}

// StageParameter stages a material parameter write on slot 0 (other slots
// are dropped at drain time). Safe from any goroutine.
func (s *Surface) StageParameter(slot int, name string, v render.ParamValue, prefixes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateDestroyed {
		return
	}
	s.staging.stageParam(slot, name, v, prefixes)
}

// StageReplacement stages a shared material replacement, taking ownership of
// one reference on sm.
func (s *Surface) StageReplacement(slot int, sm *render.SharedMaterial) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateDestroyed {
		sm.Release()
		return
	}
	s.staging.stageReplacement(slot, sm)
}

// SetQueueOffset stages the surface's render-ordering offset. The GPU call
// is issued only when the value actually changed since the last one the
// render goroutine committed.
func (s *Surface) SetQueueOffset(offset int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateDestroyed {
		return
	}
	s.queueOffset.Set(offset)
}

// SharedMaterialRef returns a retained reference to the surface's current
// material for use as a cross-object replacement, or false while the surface
// is not realized. The caller owns the returned reference.
func (s *Surface) SharedMaterialRef() (*render.SharedMaterial, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateRealized {
		return nil, false
	}
	if shared, ok := s.slots.shared[0]; ok {
		shared.Retain()
		return shared, true
	}
	// Slot 0 holds an object-owned copy; promote it to shared, moving the
	// slot's ownership into the new wrapper.
	mat, ok := s.slots.owned[0]
	if !ok {
		return nil, false
	}
	delete(s.slots.owned, 0)
	shared := render.NewSharedMaterial(mat, s.destroyq)
	s.slots.shared[0] = shared
	shared.Retain()
	return shared, true
}

// frame is the surface's once-per-frame entry point. Render goroutine only.
func (s *Surface) frame(env *frameEnv) {
	if !s.enabled.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateFailed || s.state == stateDestroyed {
		return
	}
	if !s.source.HasCommittedContent() {
		return
	}

	buf, fresh := s.source.ImportLatestBuffer()
	if s.state == statePending {
		if !fresh || buf == nil {
			return
		}
		s.realize(env, buf)
		if s.state != stateRealized {
			return
		}
	} else if fresh && buf != nil {
		if err := s.gpu.UpdateTexture(buf); err != nil {
			env.log.Debug("surface texture update failed", "err", err)
		}
	}

	if offset, changed := s.queueOffset.Delta(); changed {
		s.gpu.SetQueueOffset(offset)
	}

	env.keep = func(t render.Texture) { s.textures = append(s.textures, t) }
	params, repls := s.staging.take()
	drainInto(params, repls, (*surfaceTarget)(s), &s.slots, env)

	s.gpu.Draw(s.graph.GlobalTransform(s.node), s.layer)
	if fresh {
		s.source.NotifyFrameServed()
	}
}

func (s *Surface) realize(env *frameEnv, buf *render.Buffer) {
	format := buf.Format
	if format == 0 {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	gpu, err := env.driver.CreateSurface(render.SurfaceConfig{
		Label:  s.describe(),
		Width:  buf.Width,
		Height: buf.Height,
		Format: format,
	})
	if err != nil {
		s.state = stateFailed
		env.log.Warn("surface construction failed", "surface", s.describe(), "err", err)
		return
	}
	if err := gpu.UpdateTexture(buf); err != nil {
		env.log.Debug("surface texture update failed", "err", err)
	}
	s.gpu = gpu
	s.slots.shared[0] = render.NewSharedMaterial(gpu.Material(), s.destroyq)
	s.state = stateRealized
}

func (s *Surface) describe() string {
	if path, ok := s.graph.Path(s.node); ok {
		return path
	}
	return "(detached surface)"
}

// destroy runs when the last strong owner releases, from any goroutine.
func (s *Surface) destroy(dq *render.DestroyQueue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateDestroyed {
		return
	}
	s.staging.releaseAll()
	s.slots.dispose(dq)
	for _, t := range s.textures {
		dq.Add(t)
	}
	s.textures = nil
	if s.gpu != nil {
		dq.Add(s.gpu)
		s.gpu = nil
	}
	s.state = stateDestroyed
}

// surfaceTarget adapts Surface to the staging drain. Only slot 0 exists.
type surfaceTarget Surface

func (t *surfaceTarget) hasSlot(slot int) bool { return slot == 0 && t.gpu != nil }

func (t *surfaceTarget) setMaterial(_ int, m render.Material) {
	t.gpu.SetMaterial(m)
}
