// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software provides a CPU-only driver that keeps every resource in
// process memory. It backs headless runs and tests; nothing here touches a
// GPU.
package software

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gogpu/holos/backend"
	"github.com/gogpu/holos/render"
)

func init() {
	backend.Register(backend.DriverSoftware, func() render.Driver { return New() })
}

var errDestroyed = errors.New("software: resource destroyed")

// Driver implements render.Driver in memory.
type Driver struct {
	initialized atomic.Bool
	live        atomic.Int64
}

// New creates an uninitialized software driver.
func New() *Driver {
	return &Driver{}
}

// Name returns the driver identifier.
func (d *Driver) Name() string { return backend.DriverSoftware }

// Init marks the driver ready. It cannot fail.
func (d *Driver) Init() error {
	d.initialized.Store(true)
	return nil
}

// Close shuts the driver down. Live resources are a caller bug; the count is
// retained so tests can assert on leaks.
func (d *Driver) Close() {
	d.initialized.Store(false)
}

// LiveResources reports how many created resources have not been destroyed.
func (d *Driver) LiveResources() int64 { return d.live.Load() }

// LoadModel reads the model file and builds one material slot per manifest
// entry.
func (d *Driver) LoadModel(path string) (render.Model, error) {
	if !d.initialized.Load() {
		return nil, errors.New("software: driver not initialized")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("software: load model: %w", err)
	}
	m := &Model{driver: d, path: path}
	for _, name := range backend.MaterialNames(data) {
		m.materials = append(m.materials, d.newMaterial(name))
	}
	d.live.Add(1)
	return m, nil
}

// CreateSurface builds a textured quad with one material slot.
func (d *Driver) CreateSurface(cfg render.SurfaceConfig) (render.SurfaceResource, error) {
	if !d.initialized.Load() {
		return nil, errors.New("software: driver not initialized")
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("software: surface %q has zero size", cfg.Label)
	}
	d.live.Add(1)
	return &Surface{driver: d, cfg: cfg, material: d.newMaterial("")}, nil
}

// LoadTexture retains the decoded image as the texture content.
func (d *Driver) LoadTexture(img *image.RGBA, label string) (render.Texture, error) {
	b := img.Bounds()
	d.live.Add(1)
	return &Texture{driver: d, label: label, width: uint32(b.Dx()), height: uint32(b.Dy()), pix: img.Pix}, nil
}

func (d *Driver) newMaterial(name string) *Material {
	d.live.Add(1)
	return &Material{
		driver: d,
		name:   name,
		params: make(map[string]render.ParamValue),
		tex:    make(map[string]render.Texture),
	}
}

// Model is an in-memory model resource.
type Model struct {
	driver    *Driver
	path      string
	materials []render.Material

	mu        sync.Mutex
	draws     int
	destroyed bool
}

func (m *Model) MaterialCount() int { return len(m.materials) }

func (m *Model) Material(slot int) (render.Material, bool) {
	if slot < 0 || slot >= len(m.materials) {
		return nil, false
	}
	return m.materials[slot], true
}

func (m *Model) SetMaterial(slot int, mat render.Material) {
	m.materials[slot] = mat
}

func (m *Model) Draw(transform [16]float32, layer render.Layer) {
	m.mu.Lock()
	m.draws++
	m.mu.Unlock()
}

// Draws reports how many times the model was drawn.
func (m *Model) Draws() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draws
}

// Destroy releases the mesh. Slot materials are owned by the drawable layer
// and destroyed separately.
func (m *Model) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.driver.live.Add(-1)
}

// Material is an in-memory material resource.
type Material struct {
	driver *Driver
	name   string

	mu        sync.Mutex
	params    map[string]render.ParamValue
	tex       map[string]render.Texture
	destroyed bool
}

func (m *Material) Copy() render.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := m.driver.newMaterial(m.name)
	for k, v := range m.params {
		cp.params[k] = v
	}
	for k, v := range m.tex {
		cp.tex[k] = v
	}
	return cp
}

func (m *Material) SetParameter(name string, v render.ParamValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return errDestroyed
	}
	m.params[name] = v
	return nil
}

func (m *Material) SetTexture(name string, t render.Texture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return errDestroyed
	}
	m.tex[name] = t
	return nil
}

// Parameter returns the current value of a parameter, for inspection.
func (m *Material) Parameter(name string) (render.ParamValue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.params[name]
	return v, ok
}

func (m *Material) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.driver.live.Add(-1)
}

// Surface is an in-memory surface quad.
type Surface struct {
	driver *Driver
	cfg    render.SurfaceConfig

	mu        sync.Mutex
	material  render.Material
	content   []byte
	offset    int32
	draws     int
	destroyed bool
}

func (s *Surface) UpdateTexture(buf *render.Buffer) error {
	need := int(buf.Width) * int(buf.Height) * 4
	if len(buf.Pix) < need {
		return fmt.Errorf("software: buffer %dx%d needs %d bytes, got %d", buf.Width, buf.Height, need, len(buf.Pix))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return errDestroyed
	}
	s.content = append(s.content[:0], buf.Pix[:need]...)
	return nil
}

func (s *Surface) Material() render.Material {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.material
}

func (s *Surface) SetMaterial(m render.Material) {
	s.mu.Lock()
	s.material = m
	s.mu.Unlock()
}

func (s *Surface) SetQueueOffset(offset int32) {
	s.mu.Lock()
	s.offset = offset
	s.mu.Unlock()
}

func (s *Surface) Draw(transform [16]float32, layer render.Layer) {
	s.mu.Lock()
	s.draws++
	s.mu.Unlock()
}

// Destroy releases the quad. The surface material is owned by the drawable
// layer and destroyed separately.
func (s *Surface) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.driver.live.Add(-1)
}

// Texture is an in-memory texture resource.
type Texture struct {
	driver *Driver
	label  string
	width  uint32
	height uint32
	pix    []byte

	destroyed atomic.Bool
}

func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }

func (t *Texture) Destroy() {
	if t.destroyed.CompareAndSwap(false, true) {
		t.driver.live.Add(-1)
	}
}
