// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package drawable

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/holos/assets"
	"github.com/gogpu/holos/render"
	"github.com/gogpu/holos/scene"
)

// Model is a client-created 3D model drawable. Its GPU resource is realized
// lazily by the render loop from an immutable creation-time descriptor (the
// resolved asset path); mutations arriving between frames sit in staging
// until the next frame pass.
type Model struct {
	node    scene.NodeID
	graph   *scene.Graph
	enabled *atomic.Bool
	layer   render.Layer

	// assetPath is resolved before the model is published; empty means the
	// resource did not resolve and the model will never realize.
	assetPath string
	resource  assets.ResourceID

	mu       sync.Mutex
	state    objectState
	staging  staging
	gpu      render.Model
	slots    slotMaterials
	textures []render.Texture
}

func newModel(graph *scene.Graph, node scene.NodeID, resource assets.ResourceID, assetPath string, layer render.Layer) *Model {
	return &Model{
		node:      node,
		graph:     graph,
		enabled:   graph.EnabledFlag(node),
		layer:     layer,
		assetPath: assetPath,
		resource:  resource,
		slots:     newSlotMaterials(),
	}
}

// StageParameter stages a material parameter write. Last write wins per
// (slot, name). Safe from any goroutine; a disabled or not-yet-realized
// model accepts staging and applies it when it next draws.
func (m *Model) StageParameter(slot int, name string, v render.ParamValue, prefixes []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == stateDestroyed {
		return
	}
	m.staging.stageParam(slot, name, v, prefixes)
}

// StageReplacement stages a shared material replacement, taking ownership of
// one reference on sm. Replacements apply in FIFO order, each exactly once.
func (m *Model) StageReplacement(slot int, sm *render.SharedMaterial) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == stateDestroyed {
		sm.Release()
		return
	}
	m.staging.stageReplacement(slot, sm)
}

// frame is the model's once-per-frame entry point. Render goroutine only.
func (m *Model) frame(env *frameEnv) {
	if !m.enabled.Load() {
		// Staged mutations are kept; they become visible when re-enabled.
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case statePending:
		m.realize(env)
		if m.state != stateRealized {
			return
		}
	case stateFailed, stateDestroyed:
		return
	}

	env.keep = func(t render.Texture) { m.textures = append(m.textures, t) }
	params, repls := m.staging.take()
	drainInto(params, repls, (*modelTarget)(m), &m.slots, env)

	m.gpu.Draw(m.graph.GlobalTransform(m.node), m.layer)
}

// realize attempts GPU construction, at most once ever. Failure is terminal:
// logged here and the model is skipped on every later frame. A missing
// resource never aborts the frame.
func (m *Model) realize(env *frameEnv) {
	if m.assetPath == "" {
		m.state = stateFailed
		env.log.Warn("model resource not found", "resource", m.resource.String())
		return
	}
	gpu, err := env.driver.LoadModel(m.assetPath)
	if err != nil {
		m.state = stateFailed
		env.log.Warn("model construction failed", "path", m.assetPath, "err", err)
		return
	}
	m.gpu = gpu
	for slot := 0; slot < gpu.MaterialCount(); slot++ {
		if mat, ok := gpu.Material(slot); ok {
			m.slots.owned[slot] = mat
		}
	}
	m.state = stateRealized
}

// destroy runs when the last strong owner releases, from any goroutine.
// The GPU handle and every owned material move to the destroy queue; real
// teardown happens on the next render-thread drain.
func (m *Model) destroy(dq *render.DestroyQueue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == stateDestroyed {
		return
	}
	m.staging.releaseAll()
	m.slots.dispose(dq)
	for _, t := range m.textures {
		dq.Add(t)
	}
	m.textures = nil
	if m.gpu != nil {
		dq.Add(m.gpu)
		m.gpu = nil
	}
	m.state = stateDestroyed
}

// modelTarget adapts Model to the staging drain. Methods run with m.mu held
// on the render goroutine.
type modelTarget Model

func (t *modelTarget) hasSlot(slot int) bool {
	return t.gpu != nil && slot >= 0 && slot < t.gpu.MaterialCount()
}

func (t *modelTarget) setMaterial(slot int, m render.Material) {
	t.gpu.SetMaterial(slot, m)
}
