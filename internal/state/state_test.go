package state

import (
	"errors"
	"testing"

	"healthcare-chart/internal/svg"
)

func TestContainerMissing(t *testing.T) {
	s := NewSurface(".chart")
	if _, err := s.Container("#nope"); !errors.Is(err, ErrNoContainer) {
		t.Fatalf("err = %v, want ErrNoContainer", err)
	}
}

func TestReplaceKeepsSingleRoot(t *testing.T) {
	c, err := NewSurface(".chart").Container(".chart")
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	if snap := c.Snapshot(); snap.Phase != Empty {
		t.Fatalf("phase = %s, want EMPTY", snap.Phase)
	}

	for gen := uint64(1); gen <= 3; gen++ {
		if err := c.Replace(gen, svg.New("svg"), 5, 100, 100); err != nil {
			t.Fatalf("replace %d: %v", gen, err)
		}
		if n := c.Roots(); n != 1 {
			t.Fatalf("roots after pass %d = %d, want 1", gen, n)
		}
	}

	snap := c.Snapshot()
	if snap.Phase != Rendered || snap.Generation != 3 || snap.Marks != 5 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestReplaceRejectsStalePass(t *testing.T) {
	c, _ := NewSurface(".chart").Container(".chart")
	newer := svg.New("svg").Set("id", "newer")
	if err := c.Replace(2, newer, 1, 10, 10); err != nil {
		t.Fatalf("replace: %v", err)
	}
	err := c.Replace(1, svg.New("svg"), 1, 10, 10)
	if !errors.Is(err, ErrStale) {
		t.Fatalf("err = %v, want ErrStale", err)
	}
	if c.Snapshot().Root != newer {
		t.Fatal("stale pass replaced newer root")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	c, _ := NewSurface(".chart").Container(".chart")
	c.Clear()
	c.Replace(1, svg.New("svg"), 1, 10, 10)
	c.Clear()
	c.Clear()
	if n := c.Roots(); n != 0 {
		t.Fatalf("roots = %d, want 0", n)
	}
	if snap := c.Snapshot(); snap.Phase != Empty {
		t.Fatalf("phase = %s, want EMPTY", snap.Phase)
	}
}
