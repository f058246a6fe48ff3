package chart

import (
	"fmt"
	"math"
	"strconv"

	"healthcare-chart/internal/analysis"
	"healthcare-chart/internal/models"
	"healthcare-chart/internal/svg"
)

const (
	// XDomainStart is the fixed lower bound of the occupation axis
	XDomainStart = 16
	// XDomainPad is added to the largest occupation value
	XDomainPad = 2
	// YTicks is the tick count requested for the healthcare axis
	YTicks = 6
	// XTicks is the default tick count for the occupation axis
	XTicks = 10

	MarkRadius = 7

	tickSize    = 6
	tickPadding = 3

	CorrelationPrefix = "Correlation: "
	// NotAvailable stands in for a coefficient that is not a finite number
	NotAvailable = "n/a"
	YCaption          = "Lack of Healthcare for monetary reasons"
	XCaption          = "Occupation category %"
)

// TooltipOffset is where the tooltip box sits relative to a mark
var TooltipOffset = struct{ X, Y float64 }{X: -50, Y: 40}

// Scales holds the two axis mappings of a pass
type Scales struct {
	X Linear
	Y Linear
}

// Domains computes the X and Y domains from the dataset
func Domains(ds *models.Dataset) (x, y [2]float64, err error) {
	if ds == nil || len(ds.Records) == 0 {
		return x, y, fmt.Errorf("%w: empty dataset", ErrDomain)
	}
	maxOcc := analysis.Max(ds.Occupation())
	maxHealth := analysis.Max(ds.Healthcare())
	x = [2]float64{XDomainStart, maxOcc + XDomainPad}
	y = [2]float64{0, maxHealth}
	return x, y, nil
}

// NewScales maps the dataset domains onto the plot area. Y is inverted so
// larger values draw higher.
func NewScales(ds *models.Dataset, plot PlotArea) (Scales, error) {
	xd, yd, err := Domains(ds)
	if err != nil {
		return Scales{}, err
	}
	x, err := NewLinear(xd, [2]float64{0, plot.Width})
	if err != nil {
		return Scales{}, fmt.Errorf("x scale: %w", err)
	}
	y, err := NewLinear(yd, [2]float64{plot.Height, 0})
	if err != nil {
		return Scales{}, fmt.Errorf("y scale: %w", err)
	}
	return Scales{X: x, Y: y}, nil
}

// Bind draws axes, marks, tooltips and labels into group and returns the
// scales used along with the number of marks drawn
func Bind(group *svg.Element, l Layout, ds *models.Dataset) (Scales, int, error) {
	scales, err := NewScales(ds, l.Plot)
	if err != nil {
		return Scales{}, 0, err
	}

	xAxis := group.Append("g").
		Set("class", "axis x-axis").
		Set("transform", svg.Translate(0, l.Plot.Height))
	axisBottom(xAxis, scales.X, XTicks)

	yAxis := group.Append("g").Set("class", "axis y-axis")
	axisLeft(yAxis, scales.Y, YTicks)

	group.Append("text").
		Set("class", "axisText correlation").
		Set("transform", svg.Translate(l.Plot.Width/1.25, l.Plot.Height+l.Margins.Top-90)).
		SetText(CorrelationPrefix + formatCorrelation(ds.Correlation))

	marks := drawMarks(group, scales, ds.Records)

	group.Append("text").
		Set("class", "axisText y-caption").
		Set("transform", "rotate(-90)").
		SetFloat("y", 0-l.Margins.Left+5).
		SetFloat("x", 0-(l.Plot.Height/1.2)).
		Set("dy", "1em").
		SetText(YCaption)

	group.Append("text").
		Set("class", "axisText x-caption").
		Set("transform", svg.Translate(l.Plot.Width/2.8, l.Plot.Height+l.Margins.Top-10)).
		SetText(XCaption)

	return scales, marks, nil
}

func drawMarks(group *svg.Element, scales Scales, records []models.Record) int {
	// Out-of-domain values are pinned to the plot edge
	x := scales.X.Clamped()
	y := scales.Y.Clamped()

	series := group.Append("g").Set("class", "marks")
	n := 0
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		cx, cy := x.Map(r.Occupation1), y.Map(r.Healthcare)

		mark := series.Append("g").
			Set("class", "mark").
			Set("data-state", r.State)
		mark.Append("circle").
			SetFloat("cx", cx).
			SetFloat("cy", cy).
			Set("r", strconv.Itoa(MarkRadius)).
			Set("fill", "red").
			Set("stroke-width", "1").
			Set("stroke", "black").
			Set("opacity", "0.6")

		tip := mark.Append("g").
			Set("class", "tooltip").
			Set("transform", svg.Translate(cx+TooltipOffset.X, cy+TooltipOffset.Y))
		tip.Append("rect").
			Set("width", "110").
			Set("height", "38")
		tip.Append("text").
			Set("x", "6").
			Set("y", "15").
			Set("font-weight", "bold").
			SetText(r.State)
		tip.Append("text").
			Set("x", "6").
			Set("y", "31").
			SetText(FormatValue(r.Occupation1) + ", " + FormatValue(r.Healthcare))
		n++
	}
	return n
}

func axisBottom(g *svg.Element, s Linear, count int) {
	r := s.Range()
	g.Append("path").
		Set("class", "domain").
		Set("d", fmt.Sprintf("M%s,%dV0H%sV%d", svg.Num(r[0]), tickSize, svg.Num(r[1]), tickSize))

	format := s.TickFormat(count)
	for _, v := range s.Ticks(count) {
		tick := g.Append("g").
			Set("class", "tick").
			Set("transform", svg.Translate(s.Map(v), 0))
		tick.Append("line").Set("y2", strconv.Itoa(tickSize))
		tick.Append("text").
			Set("y", strconv.Itoa(tickSize+tickPadding)).
			Set("dy", "0.71em").
			Set("text-anchor", "middle").
			SetText(format(v))
	}
}

func axisLeft(g *svg.Element, s Linear, count int) {
	r := s.Range()
	g.Append("path").
		Set("class", "domain").
		Set("d", fmt.Sprintf("M-%d,%sH0V%sH-%d", tickSize, svg.Num(r[0]), svg.Num(r[1]), tickSize))

	format := s.TickFormat(count)
	for _, v := range s.Ticks(count) {
		tick := g.Append("g").
			Set("class", "tick").
			Set("transform", svg.Translate(0, s.Map(v)))
		tick.Append("line").Set("x2", strconv.Itoa(-tickSize))
		tick.Append("text").
			Set("x", strconv.Itoa(-(tickSize + tickPadding))).
			Set("dy", "0.32em").
			Set("text-anchor", "end").
			SetText(format(v))
	}
}

// FormatValue prints a number in its shortest round-trip form
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCorrelation(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return FormatValue(v)
}
