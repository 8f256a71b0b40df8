package software

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/holos/render"
)

func newDriver(t *testing.T) *Driver {
	t.Helper()
	d := New()
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	return d
}

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.gltf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadModelSlotsFromManifest(t *testing.T) {
	d := newDriver(t)
	path := writeModel(t, `{"asset":{"version":"2.0"},"materials":[{"name":"a"},{"name":"b"},{"name":"c"}]}`)

	m, err := d.LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if m.MaterialCount() != 3 {
		t.Errorf("MaterialCount = %d, want 3", m.MaterialCount())
	}
	if _, ok := m.Material(2); !ok {
		t.Error("slot 2 missing")
	}
	if _, ok := m.Material(3); ok {
		t.Error("slot 3 exists")
	}
}

func TestLoadModelBinaryFallback(t *testing.T) {
	d := newDriver(t)
	m, err := d.LoadModel(writeModel(t, "glTF\x02not json"))
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if m.MaterialCount() != 1 {
		t.Errorf("MaterialCount = %d, want 1", m.MaterialCount())
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	d := newDriver(t)
	if _, err := d.LoadModel(filepath.Join(t.TempDir(), "nope.glb")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestSurfaceUpdateValidatesBuffer(t *testing.T) {
	d := newDriver(t)
	s, err := d.CreateSurface(render.SurfaceConfig{Label: "s", Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateTexture(&render.Buffer{Width: 4, Height: 4, Pix: make([]byte, 64)}); err != nil {
		t.Errorf("full buffer rejected: %v", err)
	}
	if err := s.UpdateTexture(&render.Buffer{Width: 4, Height: 4, Pix: make([]byte, 10)}); err == nil {
		t.Error("short buffer accepted")
	}
	if _, err := d.CreateSurface(render.SurfaceConfig{Label: "zero"}); err == nil {
		t.Error("zero-size surface created")
	}
}

func TestLiveResourceAccounting(t *testing.T) {
	d := newDriver(t)
	path := writeModel(t, `{"materials":[{"name":"a"},{"name":"b"}]}`)

	m, err := d.LoadModel(path)
	if err != nil {
		t.Fatal(err)
	}
	// One mesh plus two materials.
	if n := d.LiveResources(); n != 3 {
		t.Fatalf("LiveResources = %d, want 3", n)
	}

	m.Destroy()
	for slot := 0; slot < m.MaterialCount(); slot++ {
		mat, _ := m.Material(slot)
		mat.Destroy()
	}
	if n := d.LiveResources(); n != 0 {
		t.Errorf("LiveResources after destroy = %d, want 0", n)
	}

	// Destroy is idempotent.
	m.Destroy()
	if n := d.LiveResources(); n != 0 {
		t.Errorf("LiveResources after double destroy = %d, want 0", n)
	}
}

func TestMaterialCopyIsIndependent(t *testing.T) {
	d := newDriver(t)
	orig := d.newMaterial("m")
	if err := orig.SetParameter("alpha", render.Float(1)); err != nil {
		t.Fatal(err)
	}

	cp := orig.Copy().(*Material)
	if err := cp.SetParameter("alpha", render.Float(0.5)); err != nil {
		t.Fatal(err)
	}

	if v, _ := orig.Parameter("alpha"); v != render.Float(1) {
		t.Errorf("original alpha = %v, want 1", v)
	}
	if v, _ := cp.Parameter("alpha"); v != render.Float(0.5) {
		t.Errorf("copy alpha = %v, want 0.5", v)
	}

	orig.Destroy()
	if err := orig.SetParameter("alpha", render.Float(0)); err == nil {
		t.Error("write to destroyed material accepted")
	}
	if err := cp.SetParameter("beta", render.Float(2)); err != nil {
		t.Errorf("copy unusable after original destroyed: %v", err)
	}
}
