// Package render turns a model result into plot specifications and summary
// statistics, and hands the plots to a Sink.
//
// A Sink follows a create-or-update contract: the Renderer calls NewPlot the
// first time it sees a plot id and UpdatePlot on every later render, so the
// sink never accumulates duplicate plot objects.
package render

// TraceKind is the geometry of a trace
type TraceKind string

const (
	KindLines   TraceKind = "scatter"
	KindContour TraceKind = "contour"
)

// Plot ids, one per chart of the results panel
const (
	PlotSAOD        = "saod_ts"
	PlotContour     = "saod_contour"
	PlotForcing     = "fair_rf_ts"
	PlotTemperature = "fair_temp_ts"
)

// ColorStop is one entry of a continuous colour scale
type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// ContourScale runs from white through yellow and red to black
var ContourScale = []ColorStop{
	{Offset: 0, Color: "rgb(255,255,255)"},
	{Offset: 0.3, Color: "rgb(255,210,0)"},
	{Offset: 0.6, Color: "rgb(230,0,0)"},
	{Offset: 1, Color: "rgb(0,0,0)"},
}

// LatitudeTicks are the fixed y-axis ticks of the contour plot
var LatitudeTicks = []float64{-80, -40, 0, 40, 80}

// Trace is one data series of a plot
type Trace struct {
	Kind TraceKind `json:"type"`
	Name string    `json:"name"`
	// X holds numeric positions (fractional years or years). XLabels, when
	// set, holds the calendar label of each position.
	X       []float64 `json:"x"`
	XLabels []string  `json:"xlabels,omitempty"`
	Y       []float64 `json:"y"`
	Color   string    `json:"color,omitempty"`
	// HoverText is one entry per point for line traces
	HoverText []string `json:"hovertext,omitempty"`

	// Contour only
	Z          [][]float64 `json:"z,omitempty"`
	ZMin       float64     `json:"zmin,omitempty"`
	ZMax       float64     `json:"zmax,omitempty"`
	ColorScale []ColorStop `json:"colorscale,omitempty"`
	// CellText is lat x time, matching Z
	CellText      [][]string `json:"text,omitempty"`
	ColorBarTitle string     `json:"colorbar_title,omitempty"`
}

// Layout holds the titles and axis settings of a plot
type Layout struct {
	Title     string    `json:"title"`
	XTitle    string    `json:"xtitle"`
	YTitle    string    `json:"ytitle"`
	YTickVals []float64 `json:"ytickvals,omitempty"`
	// LegendBottomLeft anchors the legend inside the plot area
	LegendBottomLeft bool `json:"legend_bottom_left,omitempty"`
}

// Plot is a complete plot specification
type Plot struct {
	ID     string  `json:"id"`
	Layout Layout  `json:"layout"`
	Traces []Trace `json:"traces"`
}

// Sink receives plot specifications
type Sink interface {
	NewPlot(id string, p Plot) error
	UpdatePlot(id string, p Plot) error
}
