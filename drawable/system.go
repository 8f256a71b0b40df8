// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package drawable

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	holos "github.com/gogpu/holos"
	"github.com/gogpu/holos/assets"
	"github.com/gogpu/holos/compositor"
	"github.com/gogpu/holos/registry"
	"github.com/gogpu/holos/render"
	"github.com/gogpu/holos/scene"
)

// Errors returned by client entry points. Each fails the specific request
// only; no client mistake can reach the render goroutine.
var (
	ErrNotFound    = errors.New("drawable: no such object")
	ErrNotSurface  = errors.New("drawable: object is not a surface")
	ErrNotDrawable = errors.New("drawable: object has no drawable attached")
)

// System ties together everything the lifecycle layer shares: the scene
// graph, the object registries, the destroy queue, the graphics driver, and
// asset resolution. One System is constructed at startup and passed to the
// connection handlers (producers) and the render loop (the single consumer);
// there is no process-wide mutable state.
type System struct {
	log      *slog.Logger
	driver   render.Driver
	graph    *scene.Graph
	resolver *assets.Resolver
	destroy  *render.DestroyQueue

	models   *registry.Registry[*Model]
	surfaces *registry.Registry[*Surface]

	mu     sync.Mutex
	owners map[scene.NodeID]releaser
}

type releaser interface{ Release() }

// NewSystem creates a System on the given driver and graph. The driver must
// already be initialized on the goroutine that will call Frame.
func NewSystem(driver render.Driver, graph *scene.Graph) *System {
	return &System{
		log:      holos.Logger(),
		driver:   driver,
		graph:    graph,
		resolver: assets.NewResolver(),
		destroy:  render.NewDestroyQueue(),
		models:   registry.New[*Model](),
		surfaces: registry.New[*Surface](),
		owners:   make(map[scene.NodeID]releaser),
	}
}

// Graph returns the scene graph.
func (s *System) Graph() *scene.Graph { return s.graph }

// DestroyQueue returns the shared deferred-destruction queue.
func (s *System) DestroyQueue() *render.DestroyQueue { return s.destroy }

// CreateModel creates a model drawable under parentPath. The resource is
// resolved against the calling client's prefixes now, before the object is
// published; an unresolvable resource still creates the object, which then
// stays unrealized forever and is skipped each frame.
func (s *System) CreateModel(parentPath, name string, transform [16]float32, resource assets.ResourceID, prefixes []string) (string, error) {
	parent, ok := s.graph.Resolve(parentPath)
	if !ok {
		return "", fmt.Errorf("%w: parent %s", ErrNotFound, parentPath)
	}
	node, err := s.graph.Add(parent, name, true, transform)
	if err != nil {
		return "", err
	}

	assetPath, _ := s.resolver.Resolve(resource, prefixes, assets.ModelExtensions)
	m := newModel(s.graph, node, resource, assetPath, render.LayerDefault)
	owner := s.models.Add(m, func() { m.destroy(s.destroy) })
	if err := s.graph.SetDrawable(node, m); err != nil {
		s.graph.Remove(node)
		owner.Release()
		return "", err
	}
	s.trackOwner(node, owner)

	path, _ := s.graph.Path(node)
	s.log.Debug("model created", "path", path, "resource", resource.String())
	return path, nil
}

// CreateSurface creates a surface drawable under parentPath fed by source.
// Surfaces come from the display-protocol side rather than the wire
// protocol, but share the object lifecycle with models.
func (s *System) CreateSurface(parentPath, name string, transform [16]float32, source compositor.Source) (string, error) {
	parent, ok := s.graph.Resolve(parentPath)
	if !ok {
		return "", fmt.Errorf("%w: parent %s", ErrNotFound, parentPath)
	}
	node, err := s.graph.Add(parent, name, true, transform)
	if err != nil {
		return "", err
	}

	sf := newSurface(s.graph, node, source, render.LayerDefault, s.destroy)
	owner := s.surfaces.Add(sf, func() { sf.destroy(s.destroy) })
	if err := s.graph.SetDrawable(node, sf); err != nil {
		s.graph.Remove(node)
		owner.Release()
		return "", err
	}
	s.trackOwner(node, owner)

	path, _ := s.graph.Path(node)
	s.log.Debug("surface created", "path", path)
	return path, nil
}

// SetMaterialParameter stages a parameter write on the object at path.
func (s *System) SetMaterialParameter(path string, slot int, name string, value render.ParamValue, prefixes []string) error {
	d, err := s.drawableAt(path)
	if err != nil {
		return err
	}
	switch obj := d.(type) {
	case *Model:
		obj.StageParameter(slot, name, value, prefixes)
	case *Surface:
		obj.StageParameter(slot, name, value, prefixes)
	}
	return nil
}

// ApplySurfaceMaterial stages the surface's material as a replacement on the
// target object's slot. A surface with no realized material yet is a
// transient absence: the request is dropped silently, matching how unknown
// slots behave.
func (s *System) ApplySurfaceMaterial(surfacePath, targetPath string, slot int) error {
	d, err := s.drawableAt(surfacePath)
	if err != nil {
		return err
	}
	surface, ok := d.(*Surface)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSurface, surfacePath)
	}

	sm, ok := surface.SharedMaterialRef()
	if !ok {
		s.log.Debug("surface material not yet available", "surface", surfacePath)
		return nil
	}
	tgt, err := s.drawableAt(targetPath)
	if err != nil {
		sm.Release()
		return err
	}
	switch obj := tgt.(type) {
	case *Model:
		obj.StageReplacement(slot, sm)
	case *Surface:
		obj.StageReplacement(slot, sm)
	}
	return nil
}

// SetSurfaceQueueOffset stages the render-ordering offset of a surface.
func (s *System) SetSurfaceQueueOffset(path string, offset int32) error {
	d, err := s.drawableAt(path)
	if err != nil {
		return err
	}
	surface, ok := d.(*Surface)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSurface, path)
	}
	surface.SetQueueOffset(offset)
	return nil
}

// SetEnabled flips an object's per-frame enabled gate. A disabled object
// still accepts staged mutations; it just issues no GPU calls.
func (s *System) SetEnabled(path string, enabled bool) error {
	node, ok := s.graph.Resolve(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	s.graph.SetEnabled(node, enabled)
	return nil
}

// RemoveObject drops the object (and scene subtree) at path. Safe from any
// goroutine at any time: the directory entry goes away synchronously, while
// GPU teardown is deferred to the next destroy-queue drain.
func (s *System) RemoveObject(path string) error {
	node, ok := s.graph.Resolve(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	s.graph.Remove(node)

	// The removal may have taken a whole subtree with it; release every
	// owner whose node is gone.
	s.mu.Lock()
	var dropped []releaser
	for id, owner := range s.owners {
		if !s.graph.Alive(id) {
			dropped = append(dropped, owner)
			delete(s.owners, id)
		}
	}
	s.mu.Unlock()
	for _, owner := range dropped {
		owner.Release()
	}
	return nil
}

// DrawAllModels runs every live model's per-frame pass. Render goroutine
// only. Each object's work is isolated: one faulty object cannot take down
// the frame.
func (s *System) DrawAllModels() {
	snap := s.models.Snapshot()
	for _, owned := range snap {
		s.visit(func(env *frameEnv) { owned.Value().frame(env) })
	}
	snap.Release()
}

// ProcessAllSurfaces runs every live surface's per-frame pass. Render
// goroutine only.
func (s *System) ProcessAllSurfaces() {
	snap := s.surfaces.Snapshot()
	for _, owned := range snap {
		s.visit(func(env *frameEnv) { owned.Value().frame(env) })
	}
	snap.Release()
}

// DrainDestroyQueue tears down every resource dropped since the last drain.
// Render goroutine only; this is the sole site of graphics-API deletion.
func (s *System) DrainDestroyQueue() {
	if n := s.destroy.Drain(); n > 0 {
		s.log.Debug("destroy queue drained", "resources", n)
	}
}

// Frame runs one complete render-side pass in the fixed order: models,
// surfaces, destroy queue.
func (s *System) Frame() {
	s.DrawAllModels()
	s.ProcessAllSurfaces()
	s.DrainDestroyQueue()
}

// Shutdown releases every remaining object, drains the destroy queue so no
// GPU handle outlives the context, and closes the driver, in that order.
// Render goroutine only, after the last Frame.
func (s *System) Shutdown() {
	s.mu.Lock()
	owners := s.owners
	s.owners = make(map[scene.NodeID]releaser)
	s.mu.Unlock()
	for node, owner := range owners {
		s.graph.Remove(node)
		owner.Release()
	}
	s.DrainDestroyQueue()
	s.driver.Close()
}

func (s *System) trackOwner(node scene.NodeID, owner releaser) {
	s.mu.Lock()
	s.owners[node] = owner
	s.mu.Unlock()
}

func (s *System) drawableAt(path string) (any, error) {
	node, ok := s.graph.Resolve(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	d, ok := s.graph.Drawable(node)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDrawable, path)
	}
	return d, nil
}

// visit runs one object's frame work, containing panics so a single object
// cannot halt the render thread.
func (s *System) visit(fn func(*frameEnv)) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("drawable frame pass panicked", "panic", r)
		}
	}()
	fn(&frameEnv{
		driver:   s.driver,
		destroy:  s.destroy,
		resolver: s.resolver,
		log:      s.log,
	})
}
