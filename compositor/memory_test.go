package compositor

import "testing"

func TestMemorySourceCommitLifecycle(t *testing.T) {
	s := NewMemorySource()

	if s.HasCommittedContent() {
		t.Error("fresh source reports content")
	}
	if _, fresh := s.ImportLatestBuffer(); fresh {
		t.Error("fresh source imported a buffer")
	}

	s.Commit(2, 2, make([]byte, 16))
	if !s.HasCommittedContent() {
		t.Fatal("commit not visible")
	}

	buf, fresh := s.ImportLatestBuffer()
	if !fresh || buf == nil || buf.Width != 2 || buf.Height != 2 {
		t.Fatalf("import = (%v, %v)", buf, fresh)
	}

	// Content stays committed, but the same commit imports only once.
	if !s.HasCommittedContent() {
		t.Error("content no longer committed after import")
	}
	if _, fresh := s.ImportLatestBuffer(); fresh {
		t.Error("same commit imported twice")
	}

	s.Commit(2, 2, make([]byte, 16))
	if _, fresh := s.ImportLatestBuffer(); !fresh {
		t.Error("new commit not importable")
	}

	s.NotifyFrameServed()
	s.NotifyFrameServed()
	if s.FramesServed() != 2 {
		t.Errorf("FramesServed = %d, want 2", s.FramesServed())
	}
}
