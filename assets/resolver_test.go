package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveNamespaced(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "demo", "models", "cube.glb"))
	r := NewResolver()

	id := ResourceID{Namespace: "demo", Path: "models/cube"}
	got, ok := r.Resolve(id, []string{dir}, ModelExtensions)
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	want := filepath.Join(dir, "demo", "models", "cube.glb")
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}

	// Cached second lookup returns the same path.
	if got2, ok := r.Resolve(id, []string{dir}, ModelExtensions); !ok || got2 != want {
		t.Errorf("cached Resolve = (%q, %v)", got2, ok)
	}
}

func TestResolveExplicitExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "demo", "tex", "wood.png"))
	r := NewResolver()

	got, ok := r.Resolve(ResourceID{Namespace: "demo", Path: "tex/wood.png"}, []string{dir}, TextureExtensions)
	if !ok || got != filepath.Join(dir, "demo", "tex", "wood.png") {
		t.Errorf("Resolve = (%q, %v)", got, ok)
	}
}

func TestResolveDirectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.gltf")
	writeFile(t, path)
	r := NewResolver()

	if got, ok := r.Resolve(ResourceID{File: path}, nil, ModelExtensions); !ok || got != path {
		t.Errorf("Resolve = (%q, %v)", got, ok)
	}
	// Wrong extension class fails even though the file exists.
	if _, ok := r.Resolve(ResourceID{File: path}, nil, TextureExtensions); ok {
		t.Error("texture resolve of a model file succeeded")
	}
	// Relative paths are rejected.
	if _, ok := r.Resolve(ResourceID{File: "m.gltf"}, nil, ModelExtensions); ok {
		t.Error("relative direct path resolved")
	}
}

func TestResolveMissNotCached(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()
	id := ResourceID{Namespace: "demo", Path: "late"}

	if _, ok := r.Resolve(id, []string{dir}, ModelExtensions); ok {
		t.Fatal("expected miss")
	}
	writeFile(t, filepath.Join(dir, "demo", "late.glb"))
	if _, ok := r.Resolve(id, []string{dir}, ModelExtensions); !ok {
		t.Error("asset appearing later was not found")
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver()
	if _, ok := r.Resolve(ResourceID{Namespace: "demo", Path: "../secret"}, []string{dir}, ModelExtensions); ok {
		t.Error("path traversal resolved")
	}
}
