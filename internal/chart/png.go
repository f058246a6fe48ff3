package chart

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"healthcare-chart/internal/models"
)

// WritePNG renders the scatter as a raster image with the same domains as
// the SVG chart
func WritePNG(w io.Writer, ds *models.Dataset, vp Viewport, m Margins) error {
	layout, err := NewLayout(vp, m)
	if err != nil {
		return err
	}
	xd, yd, err := Domains(ds)
	if err != nil {
		return err
	}
	if _, err := NewLinear(xd, [2]float64{0, layout.Plot.Width}); err != nil {
		return err
	}
	if _, err := NewLinear(yd, [2]float64{layout.Plot.Height, 0}); err != nil {
		return err
	}

	xs := make([]float64, 0, len(ds.Records))
	ys := make([]float64, 0, len(ds.Records))
	for _, r := range ds.Records {
		if !r.Valid() {
			continue
		}
		xs = append(xs, r.Occupation1)
		ys = append(ys, r.Healthcare)
	}

	ch := gochart.Chart{
		Width:  int(vp.Width),
		Height: int(vp.Height),
		Background: gochart.Style{Padding: gochart.Box{
			Top:    int(m.Top),
			Left:   int(m.Left),
			Right:  int(m.Right),
			Bottom: int(m.Bottom),
		}},
		XAxis: gochart.XAxis{
			Name:  XCaption,
			Range: &gochart.ContinuousRange{Min: xd[0], Max: xd[1]},
		},
		YAxis: gochart.YAxis{
			Name:  YCaption,
			Range: &gochart.ContinuousRange{Min: yd[0], Max: yd[1]},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    CorrelationPrefix + FormatValue(ds.Correlation),
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(drawing.ColorRed.WithAlpha(153)),
			},
		},
	}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

// pointStyle draws dots only, no connecting line
func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    MarkRadius,
		DotColor:    col,
	}
}
