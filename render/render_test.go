package render

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evah-sdk/models"
)

func testDataset() *models.ResultDataset {
	return &models.ResultDataset{
		TimeDates:   []string{"2021-01-01", "2021-02-01", "2021-03-01"},
		TimeYears:   []float64{2021.0, 2021.083, 2021.167},
		Lat:         []float64{-45, 0, 45},
		Wavelengths: []int{380, 550, 1020},
		SAODSeries: [][]float64{
			{0.1, 0.3, 0.3},
			{0.05, 0.2, 0.1},
			{0.01, 0.02, 0.03},
		},
		SAODGrids: map[int][][]float64{
			550: {
				{0.1, 0.2, 0.3},
				{-0.01, 0.5, 0.4},
				{0.0, 0.9, 0.2},
			},
		},
		RFSeries:        []float64{-2, -5, -1},
		FairYears:       []int{2020, 2021},
		FairRF:          []float64{-0.1, -0.2},
		FairRFWithout:   []float64{-0.1, -0.1},
		FairTemp:        []float64{0.1, 0.3},
		FairTempWithout: []float64{0.0, 0.35},
	}
}

func TestRenderCreatesThenUpdates(t *testing.T) {
	sink := NewMemorySink()
	r := NewRenderer(sink)
	ds := testDataset()

	require.NoError(t, r.Render(ds))
	assert.Equal(t, []string{PlotForcing, PlotTemperature, PlotContour, PlotSAOD}, sink.IDs())
	creates, updates := sink.Counts()
	assert.Equal(t, 4, creates)
	assert.Equal(t, 0, updates)
	first, _ := sink.Plot(PlotSAOD)

	require.NoError(t, r.Render(ds))
	assert.Len(t, sink.IDs(), 4)
	creates, updates = sink.Counts()
	assert.Equal(t, 4, creates)
	assert.Equal(t, 4, updates)

	second, _ := sink.Plot(PlotSAOD)
	assert.Equal(t, first, second)
	assert.True(t, r.Created(PlotContour))
}

func TestSAODSeriesPlot(t *testing.T) {
	plots, err := BuildPlots(testDataset())
	require.NoError(t, err)

	p := plots[0]
	require.Equal(t, PlotSAOD, p.ID)
	require.Len(t, p.Traces, 3)
	assert.Equal(t, "380nm", p.Traces[0].Name)
	assert.Equal(t, "#2ca02c", p.Traces[0].Color)
	assert.Equal(t, "#1f77b4", p.Traces[1].Color)
	assert.Equal(t, "#ff7f0e", p.Traces[2].Color)
	assert.Equal(t, "Date: 2021-02-01<br>SAOD at 380nm: 0.3", p.Traces[0].HoverText[1])
}

func TestWavelengthColorPalette(t *testing.T) {
	assert.Equal(t, "#2ca02c", WavelengthColor(380, 5))
	assert.Equal(t, palette[1], WavelengthColor(500, 1))
	assert.Equal(t, palette[0], WavelengthColor(500, len(palette)))
}

func TestContourRangeIsExact(t *testing.T) {
	plots, err := BuildPlots(testDataset())
	require.NoError(t, err)

	p := plots[1]
	require.Equal(t, PlotContour, p.ID)
	tr := p.Traces[0]
	assert.Equal(t, -0.01, tr.ZMin)
	assert.Equal(t, 0.9, tr.ZMax)
	assert.Equal(t, LatitudeTicks, p.Layout.YTickVals)
	assert.Equal(t, "SAOD at 550nm", p.Layout.Title)
	assert.Equal(t, "Date: 2021-02-01<br>Latitude: 0<br>SAOD at 550nm: 0.5", tr.CellText[1][1])
}

func TestContourUsesNearestWavelength(t *testing.T) {
	ds := testDataset()
	ds.Wavelengths = []int{500, 600}
	ds.SAODSeries = ds.SAODSeries[:2]
	ds.SAODGrids = map[int][][]float64{600: ds.SAODGrids[550], 500: ds.SAODGrids[550]}

	plots, err := BuildPlots(ds)
	require.NoError(t, err)
	assert.Equal(t, "SAOD at 500nm", plots[1].Layout.Title)
}

func TestContourSkippedWithoutGrid(t *testing.T) {
	ds := testDataset()
	ds.SAODGrids = map[int][][]float64{}

	plots, err := BuildPlots(ds)
	require.NoError(t, err)
	for _, p := range plots {
		assert.NotEqual(t, PlotContour, p.ID)
	}
}

func TestPairPlots(t *testing.T) {
	plots, err := BuildPlots(testDataset())
	require.NoError(t, err)

	rf := plots[2]
	require.Equal(t, PlotForcing, rf.ID)
	assert.Equal(t, "With eruption", rf.Traces[0].Name)
	assert.Equal(t, ColorWith, rf.Traces[0].Color)
	assert.Equal(t, "Without eruption", rf.Traces[1].Name)
	assert.Equal(t, "Year: 2021<br>Radiative forcing: -0.2 W m⁻²", rf.Traces[0].HoverText[1])

	temp := plots[3]
	assert.Equal(t, "Year: 2020<br>Temperature anomaly: 0 K", temp.Traces[1].HoverText[0])
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(testDataset())
	require.NoError(t, err)

	require.Len(t, s.Bands, 3)
	assert.Equal(t, 0.3, s.Bands[0].Value)
	assert.Equal(t, 1, s.Bands[0].Index, "first occurrence wins")
	assert.Equal(t, "2021-02", s.Bands[0].Month)
	assert.Equal(t, 2, s.Bands[2].Index)

	assert.Equal(t, -5.0, s.Forcing.Value)
	assert.Equal(t, 1, s.Forcing.Index)
	assert.Equal(t, "2021-02", s.Forcing.Month)

	assert.True(t, s.Temperature.Valid)
	assert.Equal(t, 1, s.Temperature.Index)
	assert.Equal(t, 2021, s.Temperature.Year)
	assert.Equal(t, -0.05, s.Temperature.Difference)
}

func TestTemperaturePeakKeepsSign(t *testing.T) {
	peak := temperaturePeak(
		[]float64{0, 0.1, -0.4, 0.2},
		[]float64{0, 0.0, 0.0, 0.0},
		[]int{2000, 2001, 2002, 2003},
	)
	assert.Equal(t, 2, peak.Index)
	assert.Equal(t, 2002, peak.Year)
	assert.Equal(t, -0.4, peak.Difference)

	tie := temperaturePeak([]float64{0, 0.2, 0.2}, []float64{0, 0, 0}, []int{1, 2, 3})
	assert.Equal(t, 1, tie.Index)

	single := temperaturePeak([]float64{0.5}, []float64{0}, []int{2000})
	assert.False(t, single.Valid)
}

func TestStatsLines(t *testing.T) {
	s, err := Summarize(testDataset())
	require.NoError(t, err)

	lines := s.Lines()
	require.Len(t, lines, 5)
	assert.Equal(t, Line{Label: "Peak monthly SAOD at 380nm:", Value: "0.3 (2021-02)"}, lines[0])
	assert.Equal(t, Line{Label: "Peak monthly radiative forcing:", Value: "-5 W m⁻² (2021-02)"}, lines[3])
	assert.Equal(t, Line{Label: "Peak annual temperature anomaly:", Value: "-0.050000 K (2021)"}, lines[4])
}

func TestSummarizeEmptySeries(t *testing.T) {
	ds := testDataset()
	ds.RFSeries = nil
	_, err := Summarize(ds)
	assert.Error(t, err)

	_, err = Summarize(nil)
	assert.Error(t, err)
}

func TestImageSinkWritesPNG(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(NewImageSink(dir).WithSize(400, 240))

	require.NoError(t, r.Render(testDataset()))

	for _, id := range []string{PlotSAOD, PlotContour, PlotForcing, PlotTemperature} {
		data, err := os.ReadFile(filepath.Join(dir, id+".png"))
		require.NoError(t, err, id)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err, id)
		assert.Equal(t, 400, img.Bounds().Dx(), id)
	}
}

func TestScaleColor(t *testing.T) {
	stops, err := parseScale(ContourScale)
	require.NoError(t, err)

	assert.Equal(t, uint8(255), scaleColor(stops, 0).R)
	assert.Equal(t, uint8(255), scaleColor(stops, 0).B)
	assert.Equal(t, uint8(0), scaleColor(stops, 1).R)
	mid := scaleColor(stops, 0.3)
	assert.Equal(t, uint8(210), mid.G)

	_, err = parseScale([]ColorStop{{Offset: 0, Color: "red"}})
	assert.Error(t, err)
}

func TestHTMLSink(t *testing.T) {
	dir := t.TempDir()
	sink := NewHTMLSink(dir, "EVA_H results")
	r := NewRenderer(sink)

	require.NoError(t, r.Render(testDataset()))
	require.NoError(t, r.Render(testDataset()))

	data, err := os.ReadFile(sink.Path())
	require.NoError(t, err)
	page := string(data)

	assert.Equal(t, 4, strings.Count(page, "Plotly.newPlot("))
	assert.Contains(t, page, `"type":"contour"`)
	assert.Contains(t, page, `"tickvals":[-80,-40,0,40,80]`)
	assert.Contains(t, page, "<title>EVA_H results</title>")

	assert.Error(t, sink.UpdatePlot("missing", Plot{}))
}

func TestMultiSink(t *testing.T) {
	a, b := NewMemorySink(), NewMemorySink()
	r := NewRenderer(NewMultiSink(a, b))

	require.NoError(t, r.Render(testDataset()))
	assert.Equal(t, a.IDs(), b.IDs())

	// a sink that already holds the plot refuses a second create
	assert.Error(t, a.NewPlot(PlotSAOD, Plot{}))
}

// flakySink fails its first NewPlot call and behaves like a MemorySink after
type flakySink struct {
	*MemorySink
	failed bool
}

func (f *flakySink) NewPlot(id string, p Plot) error {
	if !f.failed {
		f.failed = true
		return errors.New("disk full")
	}
	return f.MemorySink.NewPlot(id, p)
}

func TestMultiSinkRecoversAfterPartialCreate(t *testing.T) {
	mem := NewMemorySink()
	flaky := &flakySink{MemorySink: NewMemorySink()}
	r := NewRenderer(NewMultiSink(mem, flaky))

	err := r.Render(testDataset())
	require.ErrorContains(t, err, "disk full")
	assert.False(t, r.Created(PlotSAOD))

	require.NoError(t, r.Render(testDataset()))
	assert.Equal(t, mem.IDs(), flaky.IDs())
	assert.Len(t, mem.IDs(), 4)

	// mem created saod_ts on the first render and updated it on the second
	creates, updates := mem.Counts()
	assert.Equal(t, 4, creates)
	assert.Equal(t, 1, updates)

	require.NoError(t, r.Render(testDataset()))
	_, updates = flaky.Counts()
	assert.Equal(t, 4, updates)
}

func TestContourSkippedForEmptyGrid(t *testing.T) {
	ds := testDataset()
	ds.Lat = nil
	ds.SAODGrids[550] = [][]float64{}

	plots, err := BuildPlots(ds)
	require.NoError(t, err)
	for _, p := range plots {
		assert.NotEqual(t, PlotContour, p.ID)
	}

	dir := t.TempDir()
	require.NoError(t, NewRenderer(NewHTMLSink(dir, "results")).Render(ds))
}

func TestImageSinkFlatSeries(t *testing.T) {
	ds := testDataset()
	ds.FairRF = []float64{-0.1, -0.1}

	dir := t.TempDir()
	require.NoError(t, NewRenderer(NewImageSink(dir).WithSize(400, 240)).Render(ds))
	_, err := os.Stat(filepath.Join(dir, PlotForcing+".png"))
	assert.NoError(t, err)
}
