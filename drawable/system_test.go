package drawable

import (
	"errors"
	"testing"

	"github.com/gogpu/holos/compositor"
	"github.com/gogpu/holos/render"
	"github.com/gogpu/holos/scene"
)

func TestClientErrorsStayOnTheRequest(t *testing.T) {
	d := newFakeDriver(1)
	sys, prefixes := newTestSystem(t, d)
	modelPath, _ := sys.CreateModel("/", "m", scene.Identity(), cubeID(), prefixes)

	if err := sys.SetMaterialParameter("/nope", 0, "x", render.Float(1), nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown path: got %v, want ErrNotFound", err)
	}
	if err := sys.SetMaterialParameter("/", 0, "x", render.Float(1), nil); !errors.Is(err, ErrNotDrawable) {
		t.Errorf("bare node: got %v, want ErrNotDrawable", err)
	}
	if err := sys.SetSurfaceQueueOffset(modelPath, 1); !errors.Is(err, ErrNotSurface) {
		t.Errorf("offset on a model: got %v, want ErrNotSurface", err)
	}
	if err := sys.ApplySurfaceMaterial(modelPath, modelPath, 0); !errors.Is(err, ErrNotSurface) {
		t.Errorf("material from a model: got %v, want ErrNotSurface", err)
	}
	if err := sys.RemoveObject("/nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove unknown: got %v, want ErrNotFound", err)
	}

	// None of the failed requests disturbed the live object.
	sys.DrawAllModels()
	if d.modelLoads != 1 {
		t.Errorf("modelLoads = %d, want 1", d.modelLoads)
	}
}

func TestApplySurfaceMaterialToMissingTargetReleasesRef(t *testing.T) {
	d := newFakeDriver(1)
	sys := NewSystem(d, scene.NewGraph())
	src := compositor.NewMemorySource()
	path, _ := sys.CreateSurface("/", "s", scene.Identity(), src)
	src.Commit(4, 4, make([]byte, 64))
	sys.ProcessAllSurfaces()

	if err := sys.ApplySurfaceMaterial(path, "/nope", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// The surface remains the only holder of its material: dropping it must
	// reach refcount zero and queue the material, which would not happen if
	// the failed request leaked its reference.
	mat := sys.surfaceAt(t, path).gpu.(*fakeSurface).material.(*fakeMaterial)
	sys.RemoveObject(path)
	sys.DrainDestroyQueue()
	if !mat.destroyed {
		t.Error("surface material not destroyed; the failed request leaked a reference")
	}
}

func TestRemoveSubtreeDropsAllDrawables(t *testing.T) {
	d := newFakeDriver(1)
	sys, prefixes := newTestSystem(t, d)

	parent, _ := sys.CreateModel("/", "parent", scene.Identity(), cubeID(), prefixes)
	if _, err := sys.CreateModel(parent, "child", scene.Identity(), cubeID(), prefixes); err != nil {
		t.Fatal(err)
	}
	if sys.models.Len() != 2 {
		t.Fatalf("models.Len() = %d, want 2", sys.models.Len())
	}

	if err := sys.RemoveObject(parent); err != nil {
		t.Fatal(err)
	}
	if sys.models.Len() != 0 {
		t.Errorf("models.Len() after subtree removal = %d, want 0", sys.models.Len())
	}
}

func TestShutdownDrainsThenClosesDriver(t *testing.T) {
	d := newFakeDriver(1)
	sys, prefixes := newTestSystem(t, d)
	path, _ := sys.CreateModel("/", "m", scene.Identity(), cubeID(), prefixes)
	sys.DrawAllModels()
	gpu := sys.modelAt(t, path).gpu.(*fakeModel)

	sys.Shutdown()

	if !gpu.destroyed {
		t.Error("shutdown left a GPU resource alive")
	}
	if !d.closed {
		t.Error("shutdown did not close the driver")
	}
	if sys.destroy.Len() != 0 {
		t.Errorf("destroy queue holds %d entries after shutdown", sys.destroy.Len())
	}
	if sys.models.Len() != 0 {
		t.Errorf("models.Len() after shutdown = %d, want 0", sys.models.Len())
	}
}

func TestFrameSurvivesPanickingObject(t *testing.T) {
	d := newFakeDriver(1)
	sys, prefixes := newTestSystem(t, d)

	bad, _ := sys.CreateModel("/", "bad", scene.Identity(), cubeID(), prefixes)
	good, _ := sys.CreateModel("/", "good", scene.Identity(), cubeID(), prefixes)
	sys.DrawAllModels()

	// Break one model's realized state so its next pass panics.
	sys.modelAt(t, bad).gpu = nil
	sys.modelAt(t, bad).state = stateRealized

	sys.DrawAllModels()
	if draws := len(sys.modelAt(t, good).gpu.(*fakeModel).draws); draws != 2 {
		t.Errorf("healthy model drew %d times, want 2", draws)
	}
}
