package render

import "testing"

func TestDirtyInitialProducesNoEdge(t *testing.T) {
	d := NewDirty(int32(3))
	if _, ok := d.Delta(); ok {
		t.Error("initial value produced an edge")
	}
	if d.Value() != 3 {
		t.Errorf("Value = %d, want 3", d.Value())
	}
}

func TestDirtyEdgeSequence(t *testing.T) {
	d := NewDirty(int32(0))

	d.Set(5)
	if v, ok := d.Delta(); !ok || v != 5 {
		t.Errorf("Delta after Set(5) = (%d, %v), want (5, true)", v, ok)
	}
	if _, ok := d.Delta(); ok {
		t.Error("second Delta reported an edge without a change")
	}

	// Rewriting the observed value is not a change.
	d.Set(5)
	if _, ok := d.Delta(); ok {
		t.Error("Delta reported an edge for an unchanged value")
	}

	d.Set(7)
	if v, ok := d.Delta(); !ok || v != 7 {
		t.Errorf("Delta after Set(7) = (%d, %v), want (7, true)", v, ok)
	}
}

func TestDirtyCoalescesIntermediateValues(t *testing.T) {
	d := NewDirty(int32(0))
	d.Set(1)
	d.Set(2)
	d.Set(3)
	if v, ok := d.Delta(); !ok || v != 3 {
		t.Errorf("Delta = (%d, %v), want (3, true)", v, ok)
	}
	if _, ok := d.Delta(); ok {
		t.Error("coalesced writes produced a second edge")
	}
}

func TestDirtyReturnToObservedValue(t *testing.T) {
	d := NewDirty(int32(0))
	d.Set(9)
	if _, ok := d.Delta(); !ok {
		t.Fatal("expected edge")
	}
	// 9 -> 0 -> still an edge: last observed is 9.
	d.Set(0)
	if v, ok := d.Delta(); !ok || v != 0 {
		t.Errorf("Delta = (%d, %v), want (0, true)", v, ok)
	}
}
