// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package drawable

import (
	"log/slog"

	"github.com/gogpu/holos/assets"
	"github.com/gogpu/holos/render"
)

// objectState is the lifecycle of a renderable object's GPU side.
type objectState uint8

const (
	statePending objectState = iota // no GPU resource yet
	stateRealized
	stateFailed // construction failed; never retried
	stateDestroyed
)

// paramKey keys staged parameter mutations. A later write for the same key
// overwrites an earlier unconsumed one.
type paramKey struct {
	slot int
	name string
}

// stagedParam is one staged parameter value. Texture values resolve against
// the prefixes of the client that staged them, so those travel with the
// entry.
type stagedParam struct {
	value    render.ParamValue
	prefixes []string
}

// replacement is one staged material replacement. The entry owns one
// reference on the shared material until it is consumed or the object drops.
type replacement struct {
	slot int
	mat  *render.SharedMaterial
}

// staging holds one object's pending out-of-band mutations. Guarded by the
// owning object's lock.
type staging struct {
	params map[paramKey]stagedParam
	repls  []replacement
}

func (st *staging) stageParam(slot int, name string, v render.ParamValue, prefixes []string) {
	if st.params == nil {
		st.params = make(map[paramKey]stagedParam)
	}
	st.params[paramKey{slot: slot, name: name}] = stagedParam{value: v, prefixes: prefixes}
}

func (st *staging) stageReplacement(slot int, m *render.SharedMaterial) {
	st.repls = append(st.repls, replacement{slot: slot, mat: m})
}

// take moves the staged collections out, leaving staging empty.
func (st *staging) take() (map[paramKey]stagedParam, []replacement) {
	params, repls := st.params, st.repls
	st.params = nil
	st.repls = nil
	return params, repls
}

// releaseAll drops the references held by unconsumed replacement entries,
// used when the owning object is dropped before the next frame.
func (st *staging) releaseAll() {
	for _, r := range st.repls {
		r.mat.Release()
	}
	st.repls = nil
	st.params = nil
}

// slotMaterials tracks who owns the material in each slot of a realized
// resource: materials the object created itself (asset originals and
// copy-on-write copies) versus shared replacements it only references.
// Displaced owned materials go to the destroy queue; displaced shared ones
// just drop their reference.
type slotMaterials struct {
	owned  map[int]render.Material
	shared map[int]*render.SharedMaterial
}

func newSlotMaterials() slotMaterials {
	return slotMaterials{
		owned:  make(map[int]render.Material),
		shared: make(map[int]*render.SharedMaterial),
	}
}

// current returns the material visible in slot.
func (sm *slotMaterials) current(slot int) (render.Material, bool) {
	if s, ok := sm.shared[slot]; ok {
		return s.Material(), true
	}
	m, ok := sm.owned[slot]
	return m, ok
}

// putShared installs a shared replacement, transferring the staged
// reference, and disposes whatever the slot held.
func (sm *slotMaterials) putShared(slot int, m *render.SharedMaterial, dq *render.DestroyQueue) {
	sm.displace(slot, dq)
	sm.shared[slot] = m
}

// putOwned installs an object-owned material (a copy-on-write copy) and
// disposes whatever the slot held.
func (sm *slotMaterials) putOwned(slot int, m render.Material, dq *render.DestroyQueue) {
	sm.displace(slot, dq)
	sm.owned[slot] = m
}

func (sm *slotMaterials) displace(slot int, dq *render.DestroyQueue) {
	if old, ok := sm.shared[slot]; ok {
		old.Release()
		delete(sm.shared, slot)
	}
	if old, ok := sm.owned[slot]; ok {
		dq.Add(old)
		delete(sm.owned, slot)
	}
}

// dispose releases every slot, queueing owned materials and dropping shared
// references. Safe from any goroutine.
func (sm *slotMaterials) dispose(dq *render.DestroyQueue) {
	for slot, m := range sm.owned {
		dq.Add(m)
		delete(sm.owned, slot)
	}
	for slot, s := range sm.shared {
		s.Release()
		delete(sm.shared, slot)
	}
}

// target is the realized resource a staging drain applies to.
type target interface {
	// hasSlot reports whether the material slot exists on the resource.
	hasSlot(slot int) bool
	// setMaterial installs a material into an existing slot.
	setMaterial(slot int, m render.Material)
}

// drainInto applies staged mutations to a realized target in the fixed
// per-frame order: replacements first (FIFO, whole list cleared regardless
// of per-entry outcome), then parameter mutations (copy-on-write per entry).
// Unknown slots are dropped silently: slot counts come from asset content
// outside server control. Render goroutine only.
func drainInto(
	params map[paramKey]stagedParam,
	repls []replacement,
	tgt target,
	slots *slotMaterials,
	env *frameEnv,
) {
	for _, r := range repls {
		if !tgt.hasSlot(r.slot) {
			r.mat.Release()
			continue
		}
		tgt.setMaterial(r.slot, r.mat.Material())
		slots.putShared(r.slot, r.mat, env.destroy)
	}

	for key, value := range params {
		cur, ok := slots.current(key.slot)
		if !ok || !tgt.hasSlot(key.slot) {
			continue
		}
		next := cur.Copy()
		applyParam(next, key.name, value, env)
		tgt.setMaterial(key.slot, next)
		slots.putOwned(key.slot, next, env.destroy)
	}
}

// frameEnv carries the per-frame capabilities a drain needs.
type frameEnv struct {
	driver   render.Driver
	destroy  *render.DestroyQueue
	resolver *assets.Resolver
	log      *slog.Logger

	// keep takes ownership of a texture loaded during the drain; the owning
	// object queues it for destruction when it drops.
	keep func(render.Texture)
}

// applyParam writes one parameter onto a material copy. Texture parameters
// resolve and upload through the asset layer; a missing or undecodable
// texture is a transient absence, skipped without error.
func applyParam(m render.Material, name string, sp stagedParam, env *frameEnv) {
	tid, isTexture := sp.value.(render.TextureID)
	if !isTexture {
		if err := m.SetParameter(name, sp.value); err != nil {
			env.log.Debug("material parameter rejected", "name", name, "err", err)
		}
		return
	}

	path, found := env.resolver.Resolve(assets.ParseResourceID(string(tid)), sp.prefixes, assets.TextureExtensions)
	if !found {
		return
	}
	img, err := assets.DecodeImage(path)
	if err != nil {
		env.log.Debug("texture decode failed", "path", path, "err", err)
		return
	}
	t, err := env.driver.LoadTexture(img, path)
	if err != nil {
		env.log.Debug("texture upload failed", "path", path, "err", err)
		return
	}
	env.keep(t)
	if err := m.SetTexture(name, t); err != nil {
		env.log.Debug("texture bind rejected", "name", name, "err", err)
	}
}
