package chart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"healthcare-chart/internal/models"
	"healthcare-chart/internal/state"
)

type stubLoader struct {
	mu   sync.Mutex
	ds   *models.Dataset
	err  error
	hook func()
}

func (s *stubLoader) Load(ctx context.Context) (*models.Dataset, error) {
	s.mu.Lock()
	hook, ds, err := s.hook, s.ds, s.err
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return ds, err
}

func (s *stubLoader) set(ds *models.Dataset, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds, s.err = ds, err
}

func newTestRenderer(t *testing.T, loader Loader) (*Renderer, *state.Container) {
	t.Helper()
	surface := state.NewSurface(ChartSelector, PlotSelector)
	r, err := NewRenderer(surface, ChartSelector, loader, DefaultMargins())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	c, _ := surface.Container(ChartSelector)
	return r, c
}

func TestNewRendererMissingContainer(t *testing.T) {
	_, err := NewRenderer(state.NewSurface(), ChartSelector, &stubLoader{}, DefaultMargins())
	if !errors.Is(err, state.ErrNoContainer) {
		t.Fatalf("err = %v, want ErrNoContainer", err)
	}
}

func TestRenderTwiceLeavesOneRoot(t *testing.T) {
	r, c := newTestRenderer(t, &stubLoader{ds: fiftyRows()})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := r.Render(ctx, Viewport{Width: 1000, Height: 800}); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}
	if n := c.Roots(); n != 1 {
		t.Fatalf("roots = %d, want 1", n)
	}
	snap := c.Snapshot()
	if snap.Phase != state.Rendered || snap.Generation != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestRenderResize(t *testing.T) {
	r, c := newTestRenderer(t, &stubLoader{ds: datasetOf([]float64{20, 25, 30}, []float64{5, 10, 15})})
	ctx := context.Background()

	first, err := r.Render(ctx, Viewport{Width: 1000, Height: 800})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := r.Render(ctx, Viewport{Width: 1200, Height: 900})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if second.Layout.Plot != (PlotArea{Width: 1100, Height: 800}) {
		t.Fatalf("plot = %+v, want 1100x800", second.Layout.Plot)
	}
	if got := second.Scales.X.Map(32); got != 1100 {
		t.Fatalf("x(32) = %v, want 1100", got)
	}
	if got := second.Scales.Y.Map(0); got != 800 {
		t.Fatalf("y(0) = %v, want 800", got)
	}

	before, _ := first.Root.ByName("circle")[0].Attr("cx")
	after, _ := c.Snapshot().Root.ByName("circle")[0].Attr("cx")
	if before == after {
		t.Fatalf("mark did not move on resize: %s", after)
	}
	if w, _ := c.Snapshot().Root.Attr("width"); w != "1200" {
		t.Fatalf("root width = %q, want 1200", w)
	}
}

func TestRenderCorrelationLabel(t *testing.T) {
	r, _ := newTestRenderer(t, &stubLoader{ds: fiftyRows()})
	res, err := r.Render(context.Background(), Viewport{Width: 1000, Height: 800})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(res.Root.String(), "Correlation: 0.574") {
		t.Fatal("correlation annotation missing 0.574")
	}
}

func TestRenderLoadFailureKeepsPriorChart(t *testing.T) {
	loader := &stubLoader{ds: fiftyRows()}
	r, c := newTestRenderer(t, loader)
	ctx := context.Background()

	ok, err := r.Render(ctx, Viewport{Width: 1000, Height: 800})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	loader.set(nil, errors.New("connection refused"))
	if _, err := r.Render(ctx, Viewport{Width: 1200, Height: 900}); err == nil {
		t.Fatal("expected load error")
	}
	if c.Snapshot().Root != ok.Root {
		t.Fatal("failed pass replaced the committed chart")
	}
	if n := c.Roots(); n != 1 {
		t.Fatalf("roots = %d, want 1", n)
	}
}

func TestRenderDomainErrorCommitsNothing(t *testing.T) {
	r, c := newTestRenderer(t, &stubLoader{ds: &models.Dataset{}})
	_, err := r.Render(context.Background(), Viewport{Width: 1000, Height: 800})
	if !errors.Is(err, ErrDomain) {
		t.Fatalf("err = %v, want ErrDomain", err)
	}
	if snap := c.Snapshot(); snap.Phase != state.Empty {
		t.Fatalf("phase = %s, want EMPTY", snap.Phase)
	}
}

func TestRenderViewportTooSmall(t *testing.T) {
	r, _ := newTestRenderer(t, &stubLoader{ds: fiftyRows()})
	_, err := r.Render(context.Background(), Viewport{Width: 80, Height: 80})
	if !errors.Is(err, ErrViewportTooSmall) {
		t.Fatalf("err = %v, want ErrViewportTooSmall", err)
	}
}

func TestRenderStalePassDiscarded(t *testing.T) {
	loader := &stubLoader{ds: fiftyRows()}
	r, c := newTestRenderer(t, loader)
	ctx := context.Background()

	// The first pass blocks inside Load until a second pass has committed.
	release := make(chan struct{})
	started := make(chan struct{})
	loader.hook = func() {
		loader.mu.Lock()
		loader.hook = nil
		loader.mu.Unlock()
		close(started)
		<-release
	}

	errc := make(chan error, 1)
	go func() {
		_, err := r.Render(ctx, Viewport{Width: 1000, Height: 800})
		errc <- err
	}()
	<-started

	newer, err := r.Render(ctx, Viewport{Width: 1200, Height: 900})
	if err != nil {
		t.Fatalf("newer render: %v", err)
	}
	close(release)

	if err := <-errc; !errors.Is(err, state.ErrStale) {
		t.Fatalf("stale pass err = %v, want ErrStale", err)
	}
	if c.Snapshot().Root != newer.Root {
		t.Fatal("stale pass replaced newer chart")
	}
}

func TestRenderCancelledContext(t *testing.T) {
	r, c := newTestRenderer(t, &stubLoader{ds: fiftyRows()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, Viewport{Width: 1000, Height: 800}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if c.Roots() != 0 {
		t.Fatal("cancelled pass committed a chart")
	}
}
