package backend

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/holos/render"
)

type nullDriver struct {
	name  string
	inits int
}

func (d *nullDriver) Name() string { return d.name }
func (d *nullDriver) Init() error  { d.inits++; return nil }
func (d *nullDriver) Close()       {}
func (d *nullDriver) LoadModel(path string) (render.Model, error) {
	return nil, errors.New("null")
}
func (d *nullDriver) CreateSurface(cfg render.SurfaceConfig) (render.SurfaceResource, error) {
	return nil, errors.New("null")
}
func (d *nullDriver) LoadTexture(img *image.RGBA, label string) (render.Texture, error) {
	return nil, errors.New("null")
}

func TestGetUnknownDriver(t *testing.T) {
	if _, err := Get("no-such-driver"); !errors.Is(err, ErrDriverNotAvailable) {
		t.Errorf("got %v, want ErrDriverNotAvailable", err)
	}
}

func TestRegisterAndGet(t *testing.T) {
	Register("test-null", func() render.Driver { return &nullDriver{name: "test-null"} })
	defer Unregister("test-null")

	d, err := Get("test-null")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Name() != "test-null" {
		t.Errorf("Name() = %q", d.Name())
	}
}

func TestDefaultPrefersGPU(t *testing.T) {
	Register(DriverSoftware, func() render.Driver { return &nullDriver{name: DriverSoftware} })
	Register(DriverWGPU, func() render.Driver { return &nullDriver{name: DriverWGPU} })
	defer Unregister(DriverSoftware)
	defer Unregister(DriverWGPU)

	if d := Default(); d == nil || d.Name() != DriverWGPU {
		t.Errorf("Default() = %v, want wgpu", d)
	}

	Unregister(DriverWGPU)
	if d := Default(); d == nil || d.Name() != DriverSoftware {
		t.Errorf("Default() without wgpu = %v, want software", d)
	}
}

func TestOpenInitializes(t *testing.T) {
	null := &nullDriver{name: "test-open"}
	Register("test-open", func() render.Driver { return null })
	defer Unregister("test-open")

	d, err := Open("test-open")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d != render.Driver(null) || null.inits != 1 {
		t.Errorf("Open did not initialize the named driver (inits=%d)", null.inits)
	}

	if _, err := Open("test-missing"); !errors.Is(err, ErrDriverNotAvailable) {
		t.Errorf("Open(missing) = %v, want ErrDriverNotAvailable", err)
	}
}

func TestMaterialNames(t *testing.T) {
	gltf := []byte(`{"asset":{"version":"2.0"},"materials":[{"name":"wood"},{"name":"glass"}]}`)
	names := MaterialNames(gltf)
	if len(names) != 2 || names[0] != "wood" || names[1] != "glass" {
		t.Errorf("MaterialNames = %v", names)
	}

	// Binary containers and manifest-less models get one unnamed slot.
	if names := MaterialNames([]byte("glTF\x02binary")); len(names) != 1 || names[0] != "" {
		t.Errorf("binary fallback = %v", names)
	}
	if names := MaterialNames([]byte(`{"asset":{"version":"2.0"}}`)); len(names) != 1 {
		t.Errorf("no-materials fallback = %v", names)
	}
}
