package drawable

import (
	"errors"
	"image"
	"sync"

	"github.com/gogpu/holos/render"
)

// fakeDriver records every graphics call so tests can assert on exactly
// what reached the "GPU" and when.
type fakeDriver struct {
	mu sync.Mutex

	slotCount    int   // material slots per loaded model
	loadModelErr error // forced construction failure

	modelLoads   int
	surfaceMakes int
	closed       bool
}

func newFakeDriver(slots int) *fakeDriver {
	return &fakeDriver{slotCount: slots}
}

func (d *fakeDriver) Name() string { return "fake" }
func (d *fakeDriver) Init() error  { return nil }
func (d *fakeDriver) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *fakeDriver) LoadModel(path string) (render.Model, error) {
	d.mu.Lock()
	d.modelLoads++
	d.mu.Unlock()
	if d.loadModelErr != nil {
		return nil, d.loadModelErr
	}
	m := &fakeModel{path: path}
	for i := 0; i < d.slotCount; i++ {
		m.materials = append(m.materials, newFakeMaterial())
	}
	return m, nil
}

func (d *fakeDriver) CreateSurface(cfg render.SurfaceConfig) (render.SurfaceResource, error) {
	d.mu.Lock()
	d.surfaceMakes++
	d.mu.Unlock()
	return &fakeSurface{cfg: cfg, material: newFakeMaterial()}, nil
}

func (d *fakeDriver) LoadTexture(img *image.RGBA, label string) (render.Texture, error) {
	return &fakeTexture{w: uint32(img.Bounds().Dx()), h: uint32(img.Bounds().Dy())}, nil
}

type fakeModel struct {
	path      string
	materials []render.Material
	draws     []drawCall
	destroyed bool
}

type drawCall struct {
	transform [16]float32
	layer     render.Layer
}

func (m *fakeModel) MaterialCount() int { return len(m.materials) }

func (m *fakeModel) Material(slot int) (render.Material, bool) {
	if slot < 0 || slot >= len(m.materials) {
		return nil, false
	}
	return m.materials[slot], true
}

func (m *fakeModel) SetMaterial(slot int, mat render.Material) {
	m.materials[slot] = mat
}

func (m *fakeModel) Draw(transform [16]float32, layer render.Layer) {
	m.draws = append(m.draws, drawCall{transform: transform, layer: layer})
}

func (m *fakeModel) Destroy() { m.destroyed = true }

type fakeMaterial struct {
	params    map[string]render.ParamValue
	textures  map[string]render.Texture
	destroyed bool
}

func newFakeMaterial() *fakeMaterial {
	return &fakeMaterial{
		params:   make(map[string]render.ParamValue),
		textures: make(map[string]render.Texture),
	}
}

func (m *fakeMaterial) Copy() render.Material {
	cp := newFakeMaterial()
	for k, v := range m.params {
		cp.params[k] = v
	}
	for k, v := range m.textures {
		cp.textures[k] = v
	}
	return cp
}

func (m *fakeMaterial) SetParameter(name string, v render.ParamValue) error {
	if m.destroyed {
		return errors.New("set on destroyed material")
	}
	m.params[name] = v
	return nil
}

func (m *fakeMaterial) SetTexture(name string, t render.Texture) error {
	m.textures[name] = t
	return nil
}

func (m *fakeMaterial) Destroy() { m.destroyed = true }

type fakeSurface struct {
	cfg      render.SurfaceConfig
	material render.Material

	updates   []*render.Buffer
	offsets   []int32
	draws     int
	destroyed bool
}

func (s *fakeSurface) UpdateTexture(buf *render.Buffer) error {
	s.updates = append(s.updates, buf)
	return nil
}

func (s *fakeSurface) Material() render.Material     { return s.material }
func (s *fakeSurface) SetMaterial(m render.Material) { s.material = m }
func (s *fakeSurface) SetQueueOffset(offset int32)   { s.offsets = append(s.offsets, offset) }

func (s *fakeSurface) Draw(transform [16]float32, layer render.Layer) { s.draws++ }

func (s *fakeSurface) Destroy() { s.destroyed = true }

type fakeTexture struct {
	w, h      uint32
	destroyed bool
}

func (t *fakeTexture) Width() uint32  { return t.w }
func (t *fakeTexture) Height() uint32 { return t.h }
func (t *fakeTexture) Destroy()       { t.destroyed = true }
