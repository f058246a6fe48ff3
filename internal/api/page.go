package api

import (
	"strings"

	"healthcare-chart/internal/chart"
)

//go:generate templ generate

// Attributes of the chart mount point rendered by Page
var (
	mountID   = strings.TrimPrefix(chart.PlotSelector, "#")
	chartPath = "/chart.svg"
)
