package render

import (
	"fmt"
	"math"
	"strconv"

	"evah-sdk/models"
)

// Line colours of the fixed bands and of the with/without pairs
const (
	ColorWith    = "#ff7f0e"
	ColorWithout = "#1f77b4"
)

var bandColors = map[int]string{
	380:  "#2ca02c",
	550:  "#1f77b4",
	1020: "#ff7f0e",
}

var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// WavelengthColor returns the colour of the i-th band of a series plot
func WavelengthColor(wl, i int) string {
	if c, ok := bandColors[wl]; ok {
		return c
	}
	return palette[i%len(palette)]
}

// BuildPlots derives the four plot specifications from ds. It is
// deterministic: equal datasets give equal plots.
func BuildPlots(ds *models.ResultDataset) ([]Plot, error) {
	if ds == nil {
		return nil, fmt.Errorf("nil dataset")
	}
	plots := []Plot{saodSeriesPlot(ds)}
	if contour, ok := contourPlot(ds); ok {
		plots = append(plots, contour)
	}
	plots = append(plots,
		pairPlot(PlotForcing, ds, ds.FairRF, ds.FairRFWithout, Layout{
			Title:  "Volcanic radiative forcing, W m⁻²",
			XTitle: "Year",
			YTitle: "Radiative forcing (W m⁻²)",
		}, "Radiative forcing: %s W m⁻²"),
		pairPlot(PlotTemperature, ds, ds.FairTemp, ds.FairTempWithout, Layout{
			Title:  "RCP4.5 temperature anomaly, K",
			XTitle: "Year",
			YTitle: "Temperature anomaly (K)",
		}, "Temperature anomaly: %s K"),
	)
	return plots, nil
}

func saodSeriesPlot(ds *models.ResultDataset) Plot {
	p := Plot{
		ID:     PlotSAOD,
		Layout: Layout{Title: "Global mean SAOD", XTitle: "Date", YTitle: "SAOD"},
	}
	for i, wl := range ds.Wavelengths {
		series := ds.SAODSeries[i]
		hover := make([]string, len(series))
		for j, v := range series {
			hover[j] = fmt.Sprintf("Date: %s<br>SAOD at %dnm: %s", ds.TimeDates[j], wl, formatValue(v))
		}
		p.Traces = append(p.Traces, Trace{
			Kind:      KindLines,
			Name:      fmt.Sprintf("%dnm", wl),
			X:         ds.TimeYears,
			XLabels:   ds.TimeDates,
			Y:         series,
			Color:     WavelengthColor(wl, i),
			HoverText: hover,
		})
	}
	return p
}

func contourPlot(ds *models.ResultDataset) (Plot, bool) {
	idx := ds.NearestWavelength(models.ReferenceWavelength)
	if idx < 0 {
		return Plot{}, false
	}
	wl := ds.Wavelengths[idx]
	grid := ds.SAODGrids[wl]
	if len(grid) == 0 || len(grid[0]) == 0 {
		return Plot{}, false
	}

	zmin, zmax := math.Inf(1), math.Inf(-1)
	text := make([][]string, len(grid))
	for i, row := range grid {
		text[i] = make([]string, len(row))
		for j, v := range row {
			zmin = math.Min(zmin, v)
			zmax = math.Max(zmax, v)
			text[i][j] = fmt.Sprintf("Date: %s<br>Latitude: %s<br>SAOD at %dnm: %s",
				ds.TimeDates[j], formatValue(ds.Lat[i]), wl, formatValue(v))
		}
	}

	return Plot{
		ID: PlotContour,
		Layout: Layout{
			Title:     fmt.Sprintf("SAOD at %dnm", wl),
			XTitle:    "Date",
			YTitle:    "Latitude (° North)",
			YTickVals: LatitudeTicks,
		},
		Traces: []Trace{{
			Kind:          KindContour,
			Name:          fmt.Sprintf("%dnm", wl),
			X:             ds.TimeYears,
			XLabels:       ds.TimeDates,
			Y:             ds.Lat,
			Z:             grid,
			ZMin:          zmin,
			ZMax:          zmax,
			ColorScale:    ContourScale,
			CellText:      text,
			ColorBarTitle: "SAOD",
		}},
	}, true
}

func pairPlot(id string, ds *models.ResultDataset, with, without []float64, layout Layout, valueFormat string) Plot {
	years := make([]float64, len(ds.FairYears))
	for i, y := range ds.FairYears {
		years[i] = float64(y)
	}
	hover := func(series []float64) []string {
		out := make([]string, len(series))
		for i, v := range series {
			out[i] = fmt.Sprintf("Year: %d<br>"+valueFormat, ds.FairYears[i], formatValue(v))
		}
		return out
	}
	layout.LegendBottomLeft = true
	return Plot{
		ID:     id,
		Layout: layout,
		Traces: []Trace{
			{Kind: KindLines, Name: "With eruption", X: years, Y: with, Color: ColorWith, HoverText: hover(with)},
			{Kind: KindLines, Name: "Without eruption", X: years, Y: without, Color: ColorWithout, HoverText: hover(without)},
		},
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
