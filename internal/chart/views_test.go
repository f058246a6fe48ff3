package chart

import (
	"context"
	"testing"
)

func TestViewsSameSessionSameRenderer(t *testing.T) {
	v, err := NewViews(&stubLoader{ds: fiftyRows()}, DefaultMargins(), 4)
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	a, _ := v.Renderer("a")
	again, _ := v.Renderer("a")
	if a != again {
		t.Fatal("same session returned a different renderer")
	}
	b, _ := v.Renderer("b")
	if a == b {
		t.Fatal("sessions share a renderer")
	}
}

func TestViewsSessionsAreIndependent(t *testing.T) {
	loader := &stubLoader{ds: fiftyRows()}
	v, err := NewViews(loader, DefaultMargins(), 4)
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	a, _ := v.Renderer("a")
	b, _ := v.Renderer("b")
	ctx := context.Background()

	// Session a's only pass is still loading when session b commits.
	release := make(chan struct{})
	started := make(chan struct{})
	loader.hook = func() {
		loader.mu.Lock()
		loader.hook = nil
		loader.mu.Unlock()
		close(started)
		<-release
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := a.Render(ctx, Viewport{Width: 800, Height: 600})
		done <- outcome{res, err}
	}()
	<-started

	if _, err := b.Render(ctx, Viewport{Width: 1200, Height: 900}); err != nil {
		t.Fatalf("session b render: %v", err)
	}
	close(release)

	got := <-done
	if got.err != nil {
		t.Fatalf("session a render: %v", got.err)
	}
	snap, _ := a.Current()
	if snap.Root != got.res.Root || snap.Width != 800 {
		t.Fatalf("session a snapshot = %+v", snap)
	}
	snap, _ = b.Current()
	if snap.Width != 1200 {
		t.Fatalf("session b width = %v, want 1200", snap.Width)
	}
}

func TestViewsEvictsLeastRecentlyUsed(t *testing.T) {
	v, err := NewViews(&stubLoader{ds: fiftyRows()}, DefaultMargins(), 2)
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	for _, s := range []string{"a", "b", "c"} {
		if _, err := v.Renderer(s); err != nil {
			t.Fatalf("renderer %s: %v", s, err)
		}
	}
	if v.Len() != 2 {
		t.Fatalf("live sessions = %d, want 2", v.Len())
	}
}

func TestNewViewsRejectsBadSize(t *testing.T) {
	if _, err := NewViews(&stubLoader{}, DefaultMargins(), 0); err == nil {
		t.Fatal("expected error for zero size")
	}
}
