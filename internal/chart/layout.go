package chart

import (
	"errors"
	"fmt"
	"math"

	"healthcare-chart/internal/svg"
)

// ErrViewportTooSmall is returned when the margins leave no drawable area
var ErrViewportTooSmall = errors.New("viewport smaller than margins")

// Margins around the plot area, in pixels
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// DefaultMargins is 50px on every side
func DefaultMargins() Margins {
	return UniformMargins(50)
}

func UniformMargins(px float64) Margins {
	return Margins{Top: px, Bottom: px, Left: px, Right: px}
}

// Viewport is the size of the display area
type Viewport struct {
	Width  float64
	Height float64
}

// PlotArea is the drawable area inside the margins
type PlotArea struct {
	Width  float64
	Height float64
}

// Layout is the geometry of one render pass
type Layout struct {
	Viewport Viewport
	Margins  Margins
	Plot     PlotArea
}

// NewLayout computes the plot area for viewport
func NewLayout(vp Viewport, m Margins) (Layout, error) {
	for _, v := range []float64{vp.Width, vp.Height, m.Top, m.Bottom, m.Left, m.Right} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Layout{}, fmt.Errorf("%w: non-finite dimension", ErrViewportTooSmall)
		}
	}

	plot := PlotArea{
		Width:  vp.Width - m.Left - m.Right,
		Height: vp.Height - m.Top - m.Bottom,
	}
	if plot.Width <= 0 || plot.Height <= 0 {
		return Layout{}, fmt.Errorf("%w: %gx%g with margins %g/%g/%g/%g",
			ErrViewportTooSmall, vp.Width, vp.Height, m.Top, m.Right, m.Bottom, m.Left)
	}

	return Layout{Viewport: vp, Margins: m, Plot: plot}, nil
}

// Frame builds a detached chart root sized to the viewport and the
// drawing group translated by the left/top margins
func (l Layout) Frame() (root, group *svg.Element) {
	root = svg.New("svg").
		Set("xmlns", svg.Namespace).
		Set("class", "chart-root").
		SetFloat("width", l.Viewport.Width).
		SetFloat("height", l.Viewport.Height)
	root.Append("style").SetText(stylesheet)

	group = root.Append("g").
		Set("class", "plot").
		Set("transform", svg.Translate(l.Margins.Left, l.Margins.Top))
	return root, group
}

const stylesheet = `.axisText{font:14px sans-serif;fill:#000}` +
	`.axis text{font:10px sans-serif}` +
	`.axis path,.axis line{fill:none;stroke:#000;shape-rendering:crispEdges}` +
	`.mark .tooltip{visibility:hidden;pointer-events:none}` +
	`.mark:hover .tooltip{visibility:visible}` +
	`.tooltip rect{fill:#000;opacity:.8;rx:4px}` +
	`.tooltip text{fill:#fff;font:12px sans-serif}`
