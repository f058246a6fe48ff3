package chart

import (
	"errors"
	"math"
	"testing"
)

func TestNewLayoutPlotArea(t *testing.T) {
	tests := []struct {
		vp   Viewport
		want PlotArea
	}{
		{Viewport{Width: 1000, Height: 800}, PlotArea{Width: 900, Height: 700}},
		{Viewport{Width: 1200, Height: 900}, PlotArea{Width: 1100, Height: 800}},
	}
	for _, tt := range tests {
		l, err := NewLayout(tt.vp, DefaultMargins())
		if err != nil {
			t.Fatalf("layout %v: %v", tt.vp, err)
		}
		if l.Plot != tt.want {
			t.Fatalf("plot = %+v, want %+v", l.Plot, tt.want)
		}
	}
}

func TestNewLayoutTooSmall(t *testing.T) {
	for _, vp := range []Viewport{
		{Width: 100, Height: 800},
		{Width: 800, Height: 60},
		{Width: 0, Height: 0},
		{Width: math.NaN(), Height: 500},
	} {
		if _, err := NewLayout(vp, DefaultMargins()); !errors.Is(err, ErrViewportTooSmall) {
			t.Fatalf("layout %v: err = %v, want ErrViewportTooSmall", vp, err)
		}
	}
}

func TestFrame(t *testing.T) {
	l, _ := NewLayout(Viewport{Width: 640, Height: 480}, DefaultMargins())
	root, group := l.Frame()

	if w, _ := root.Attr("width"); w != "640" {
		t.Fatalf("width = %q, want 640", w)
	}
	if h, _ := root.Attr("height"); h != "480" {
		t.Fatalf("height = %q, want 480", h)
	}
	if tr, _ := group.Attr("transform"); tr != "translate(50,50)" {
		t.Fatalf("transform = %q", tr)
	}
}
