package scene

import "testing"

func TestAddResolveRemove(t *testing.T) {
	g := NewGraph()

	a, err := g.Add(g.Root(), "client0", true, Identity())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	b, err := g.Add(a, "model", true, Translation(1, 2, 3))
	if err != nil {
		t.Fatalf("Add child: %v", err)
	}

	if id, ok := g.Resolve("/client0/model"); !ok || id != b {
		t.Errorf("Resolve(/client0/model) = (%v, %v), want (%v, true)", id, ok, b)
	}
	if path, _ := g.Path(b); path != "/client0/model" {
		t.Errorf("Path = %q, want /client0/model", path)
	}

	g.Remove(a)
	if g.Alive(a) || g.Alive(b) {
		t.Error("subtree still alive after Remove")
	}
	if _, ok := g.Resolve("/client0/model"); ok {
		t.Error("removed path still resolves")
	}
}

func TestStaleIDAfterSlotReuse(t *testing.T) {
	g := NewGraph()
	old, _ := g.Add(g.Root(), "a", true, Identity())
	g.Remove(old)

	// The freed slot is reused; the stale ID must not resolve to the new node.
	fresh, err := g.Add(g.Root(), "b", true, Identity())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if g.Alive(old) {
		t.Error("stale ID reports alive")
	}
	if !g.Alive(fresh) {
		t.Error("fresh ID reports dead")
	}
	if g.EnabledFlag(old) != nil {
		t.Error("stale ID yields an enabled flag")
	}
}

func TestAddErrors(t *testing.T) {
	g := NewGraph()
	if _, err := g.Add(g.Root(), "", true, Identity()); err != ErrBadName {
		t.Errorf("empty name: err = %v, want ErrBadName", err)
	}
	if _, err := g.Add(g.Root(), "a/b", true, Identity()); err != ErrBadName {
		t.Errorf("slash in name: err = %v, want ErrBadName", err)
	}
	if _, err := g.Add(g.Root(), "x", true, Identity()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := g.Add(g.Root(), "x", true, Identity()); err != ErrNameTaken {
		t.Errorf("duplicate name: err = %v, want ErrNameTaken", err)
	}
	gone, _ := g.Add(g.Root(), "y", true, Identity())
	g.Remove(gone)
	if _, err := g.Add(gone, "z", true, Identity()); err != ErrNodeGone {
		t.Errorf("dead parent: err = %v, want ErrNodeGone", err)
	}
}

func TestDrawableAttachInvariants(t *testing.T) {
	g := NewGraph()
	spatial, _ := g.Add(g.Root(), "s", true, Identity())
	plain, _ := g.Add(g.Root(), "p", false, Identity())

	if err := g.SetDrawable(plain, "d"); err != ErrNoSpatial {
		t.Errorf("attach without spatial: err = %v, want ErrNoSpatial", err)
	}
	if err := g.SetDrawable(spatial, "d1"); err != nil {
		t.Fatalf("SetDrawable: %v", err)
	}
	if err := g.SetDrawable(spatial, "d2"); err != ErrDrawableAttached {
		t.Errorf("second attach: err = %v, want ErrDrawableAttached", err)
	}
	if d, ok := g.Drawable(spatial); !ok || d != "d1" {
		t.Errorf("Drawable = (%v, %v), want (d1, true)", d, ok)
	}
}

func TestEnabledFlagSharedAcrossRemoval(t *testing.T) {
	g := NewGraph()
	id, _ := g.Add(g.Root(), "n", true, Identity())
	flag := g.EnabledFlag(id)
	if flag == nil || !flag.Load() {
		t.Fatal("new node not enabled")
	}
	g.SetEnabled(id, false)
	if flag.Load() {
		t.Error("SetEnabled not visible through the shared flag")
	}
	// An orphaned flag stays safe to read after removal.
	g.Remove(id)
	_ = flag.Load()
}

func TestGlobalTransformComposes(t *testing.T) {
	g := NewGraph()
	a, _ := g.Add(g.Root(), "a", true, Translation(1, 0, 0))
	b, _ := g.Add(a, "b", true, Translation(0, 2, 0))

	got := g.GlobalTransform(b)
	if got[12] != 1 || got[13] != 2 || got[14] != 0 {
		t.Errorf("global translation = (%v, %v, %v), want (1, 2, 0)", got[12], got[13], got[14])
	}
}
