package chart

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"healthcare-chart/internal/models"
	"healthcare-chart/internal/state"
	"healthcare-chart/internal/svg"
)

// Mount selectors of the host page
const (
	ChartSelector = ".chart"
	PlotSelector  = "#plot"
)

// Loader fetches the dataset for a render pass
type Loader interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// Result is a committed render pass
type Result struct {
	Generation uint64
	Layout     Layout
	Scales     Scales
	Marks      int
	Dataset    *models.Dataset
	Root       *svg.Element
}

// Renderer runs render passes against one container of a surface
type Renderer struct {
	surface  *state.Surface
	selector string
	loader   Loader
	margins  Margins

	generation atomic.Uint64
}

// NewRenderer checks the mount point up front; a missing container is fatal
// for the caller.
func NewRenderer(surface *state.Surface, selector string, loader Loader, margins Margins) (*Renderer, error) {
	if _, err := surface.Container(selector); err != nil {
		return nil, err
	}
	return &Renderer{
		surface:  surface,
		selector: selector,
		loader:   loader,
		margins:  margins,
	}, nil
}

func (r *Renderer) Margins() Margins { return r.margins }

// Render runs teardown, layout, load and binding for viewport. Nothing is
// committed unless every stage succeeds, so a failed pass leaves the
// previous chart in place.
func (r *Renderer) Render(ctx context.Context, vp Viewport) (*Result, error) {
	gen := r.generation.Add(1)

	container, err := r.surface.Container(r.selector)
	if err != nil {
		return nil, err
	}

	layout, err := NewLayout(vp, r.margins)
	if err != nil {
		return nil, err
	}
	root, group := layout.Frame()

	ds, err := r.loader.Load(ctx)
	if err != nil {
		log.Printf("render pass %d: load failed: %v", gen, err)
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scales, marks, err := Bind(group, layout, ds)
	if err != nil {
		log.Printf("render pass %d: bind failed: %v", gen, err)
		return nil, fmt.Errorf("bind dataset: %w", err)
	}

	if err := container.Replace(gen, root, marks, vp.Width, vp.Height); err != nil {
		return nil, err
	}

	return &Result{
		Generation: gen,
		Layout:     layout,
		Scales:     scales,
		Marks:      marks,
		Dataset:    ds,
		Root:       root,
	}, nil
}

// Current returns the committed state of the renderer's container
func (r *Renderer) Current() (state.Snapshot, error) {
	container, err := r.surface.Container(r.selector)
	if err != nil {
		return state.Snapshot{}, err
	}
	return container.Snapshot(), nil
}
