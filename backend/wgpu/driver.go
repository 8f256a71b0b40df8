// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu provides the GPU driver built on gogpu/wgpu. It owns the
// instance/adapter/device/queue lifecycle; mesh and texture payload upload
// waits on wgpu texture support, so resource content is tracked logically
// while the full lifecycle, ordering, and destruction paths run for real.
package wgpu

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	holos "github.com/gogpu/holos"
	"github.com/gogpu/holos/backend"
	"github.com/gogpu/holos/render"
)

func init() {
	backend.Register(backend.DriverWGPU, func() render.Driver { return New(Options{}) })
}

// ErrNoGPU is returned when no suitable GPU adapter is found.
var ErrNoGPU = errors.New("wgpu: no suitable GPU adapter found")

// Options configures the driver.
type Options struct {
	// Provider supplies a host application's existing GPU device. When set,
	// the driver does not create its own instance/adapter/device and Close
	// leaves the host's resources alone.
	Provider gpucontext.DeviceProvider
}

// Driver implements render.Driver on gogpu/wgpu.
type Driver struct {
	mu   sync.Mutex
	log  *slog.Logger
	opts Options

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID
	gpuInfo  *GPUInfo

	blitSPIRV   []uint32
	initialized bool
}

// New creates an uninitialized driver.
func New(opts Options) *Driver {
	return &Driver{log: holos.Logger(), opts: opts}
}

// Name returns the driver identifier.
func (d *Driver) Name() string { return backend.DriverWGPU }

// Init creates the GPU resources: instance, adapter (preferring a discrete
// GPU), device, and queue, then compiles the blit shader. With a host
// provider, device creation is skipped and the host's device is used.
func (d *Driver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	spirv, err := compileBlitShader()
	if err != nil {
		return err
	}
	d.blitSPIRV = spirv

	if d.opts.Provider != nil {
		d.log.Info("wgpu: using host application device")
		d.initialized = true
		return nil
	}

	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	}
	d.instance = core.NewInstance(desc)

	adapterID, err := d.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	d.adapter = adapterID
	logGPUInfo(d.log, adapterID)
	d.gpuInfo, _ = getGPUInfo(adapterID)

	deviceID, err := createDevice(adapterID, "holos-wgpu-device")
	if err != nil {
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("device creation failed: %w", err)
	}
	d.device = deviceID
	logDeviceLimits(d.log, deviceID)

	queueID, err := getDeviceQueue(deviceID)
	if err != nil {
		_ = releaseDevice(deviceID)
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("queue retrieval failed: %w", err)
	}
	d.queue = queueID

	d.initialized = true
	d.log.Info("wgpu: driver initialized")
	return nil
}

// Close releases GPU resources in reverse order of creation. Host-provided
// devices are not touched.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return
	}

	if !d.device.IsZero() {
		if err := releaseDevice(d.device); err != nil {
			d.log.Warn("wgpu: error releasing device", "err", err)
		}
		d.device = core.DeviceID{}
	}
	if !d.adapter.IsZero() {
		if err := releaseAdapter(d.adapter); err != nil {
			d.log.Warn("wgpu: error releasing adapter", "err", err)
		}
		d.adapter = core.AdapterID{}
	}
	d.instance = nil
	d.queue = core.QueueID{}
	d.gpuInfo = nil
	d.initialized = false
	d.log.Info("wgpu: driver closed")
}

// GPUInfo returns information about the selected GPU, or nil before Init or
// when running on a host-provided device.
func (d *Driver) GPUInfo() *GPUInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gpuInfo
}

// LoadModel reads the model file and builds its material slots from the glTF
// manifest. Vertex upload is pending wgpu texture/buffer support; geometry is
// tracked logically.
func (d *Driver) LoadModel(path string) (render.Model, error) {
	d.mu.Lock()
	initialized := d.initialized
	d.mu.Unlock()
	if !initialized {
		return nil, errors.New("wgpu: driver not initialized")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wgpu: load model: %w", err)
	}
	m := &Model{driver: d, path: path}
	for _, name := range backend.MaterialNames(data) {
		m.materials = append(m.materials, newMaterial(d, name))
	}
	return m, nil
}

// CreateSurface builds a textured quad for compositor content.
func (d *Driver) CreateSurface(cfg render.SurfaceConfig) (render.SurfaceResource, error) {
	d.mu.Lock()
	initialized := d.initialized
	d.mu.Unlock()
	if !initialized {
		return nil, errors.New("wgpu: driver not initialized")
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("wgpu: surface %q has zero size", cfg.Label)
	}
	return &Surface{driver: d, cfg: cfg, material: newMaterial(d, "")}, nil
}

// LoadTexture uploads a decoded image. Content upload goes through the queue
// once wgpu exposes WriteTexture; dimensions and lifecycle are tracked now.
func (d *Driver) LoadTexture(img *image.RGBA, label string) (render.Texture, error) {
	b := img.Bounds()
	return &Texture{label: label, width: uint32(b.Dx()), height: uint32(b.Dy())}, nil
}

// Model is a GPU model resource.
type Model struct {
	driver    *Driver
	path      string
	materials []render.Material
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
	// Draw submission is encoded per frame once render pass recording lands;
	// the transform and layer are accepted so callers are final.
}

// Destroy releases the mesh. Slot materials are owned by the drawable layer.
func (m *Model) Destroy() { m.destroyed = true }

// Material is a GPU material resource: a parameter block plus texture
// bindings for the blit pipeline.
type Material struct {
	driver *Driver
	name   string

	mu     sync.Mutex
	params map[string]render.ParamValue
	tex    map[string]render.Texture
}

func newMaterial(d *Driver, name string) *Material {
	return &Material{
		driver: d,
		name:   name,
		params: make(map[string]render.ParamValue),
		tex:    make(map[string]render.Texture),
	}
}

func (m *Material) Copy() render.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := newMaterial(m.driver, m.name)
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
	m.params[name] = v
	return nil
}

func (m *Material) SetTexture(name string, t render.Texture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tex[name] = t
	return nil
}

func (m *Material) Destroy() {}

// Surface is a GPU surface quad.
type Surface struct {
	driver *Driver
	cfg    render.SurfaceConfig

	mu       sync.Mutex
	material render.Material
	offset   int32
}

func (s *Surface) UpdateTexture(buf *render.Buffer) error {
	need := int(buf.Width) * int(buf.Height) * 4
	if len(buf.Pix) < need {
		return fmt.Errorf("wgpu: buffer %dx%d needs %d bytes, got %d", buf.Width, buf.Height, need, len(buf.Pix))
	}
	// Pixel upload is pending wgpu WriteTexture support.
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

func (s *Surface) Draw(transform [16]float32, layer render.Layer) {}

// Destroy releases the quad. The surface material is owned by the drawable
// layer.
func (s *Surface) Destroy() {}

// Texture is a GPU texture resource.
type Texture struct {
	label  string
	width  uint32
	height uint32
}

func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }
func (t *Texture) Destroy()       {}
