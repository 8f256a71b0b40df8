// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Layer selects the render layer a draw is submitted to.
type Layer uint32

// LayerDefault is the layer ordinary scene content draws to.
const LayerDefault Layer = 1

// Resource is a graphics-context-bound object. Destroy releases the
// underlying GPU handle and must only ever run on the render goroutine;
// the sole permitted call site is [DestroyQueue.Drain].
type Resource interface {
	Destroy()
}

// Driver is the graphics capability consumed by the render loop.
//
// All methods except Name are render-goroutine-only. The driver RECEIVES
// work from the frame pass, it never sees client goroutines: staging in the
// drawable layer guarantees that construction, mutation, and destruction
// requests reach the driver serialized.
type Driver interface {
	// Name returns the driver identifier (e.g. "software", "wgpu").
	Name() string

	// Init acquires the graphics context. Must be called once, on the
	// goroutine that will run frames, before any resource construction.
	Init() error

	// Close releases the graphics context. The destroy queue must be
	// drained first; Close after outstanding resources is a driver fault,
	// not a crash.
	Close()

	// LoadModel constructs a model resource from an asset file on disk.
	LoadModel(path string) (Model, error)

	// CreateSurface constructs the texture+material pair backing one
	// compositor surface.
	CreateSurface(cfg SurfaceConfig) (SurfaceResource, error)

	// LoadTexture uploads an RGBA image as a texture resource.
	LoadTexture(img *image.RGBA, label string) (Texture, error)
}

// Model is a realized 3D model: a mesh with a fixed number of material slots
// determined by asset content.
type Model interface {
	Resource

	// MaterialCount reports the number of material slots.
	MaterialCount() int

	// Material returns the material at slot, or false if the slot does not
	// exist on this model.
	Material(slot int) (Material, bool)

	// SetMaterial replaces the material at slot. The slot must exist.
	SetMaterial(slot int, m Material)

	// Draw submits the model with the given world transform.
	Draw(transform [16]float32, layer Layer)
}

// Material is a realized material. Parameter writes go through the staging
// protocol in the drawable layer, which copies shared materials before
// mutating (copy-on-write), so implementations need no internal locking.
type Material interface {
	Resource

	// Copy returns an independent duplicate of this material.
	Copy() Material

	// SetParameter writes a named shader parameter.
	SetParameter(name string, v ParamValue) error

	// SetTexture binds a texture to a named parameter.
	SetTexture(name string, t Texture) error
}

// Texture is a realized texture resource.
type Texture interface {
	Resource

	Width() uint32
	Height() uint32
}

// SurfaceConfig describes the texture+material pair backing a compositor
// surface.
type SurfaceConfig struct {
	Label  string
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// SurfaceResource is the realized GPU side of one compositor surface.
type SurfaceResource interface {
	Resource

	// UpdateTexture re-imports committed buffer content. Called once per
	// frame that reports a new commit.
	UpdateTexture(buf *Buffer) error

	// Material returns the surface's material (slot 0). The same material
	// may be shared into other objects as a replacement; see SharedMaterial.
	Material() Material

	// SetMaterial replaces the surface's material (slot 0).
	SetMaterial(m Material)

	// SetQueueOffset configures the surface's render-ordering offset.
	// Callers coalesce through [Dirty] so unchanged offsets never reach
	// the driver.
	SetQueueOffset(offset int32)

	// Draw submits the surface quad with the given world transform.
	Draw(transform [16]float32, layer Layer)
}

// Buffer is committed pixel content imported from the display-protocol
// collaborator, tightly packed (BytesPerRow == Width * bytes-per-pixel).
type Buffer struct {
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
	Pix    []byte
}
