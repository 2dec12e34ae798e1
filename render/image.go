package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default image size of a rendered plot
const (
	DefaultImageWidth  = 1000
	DefaultImageHeight = 420
)

// ImageSink renders every plot to <dir>/<id>.png. Updating a plot
// overwrites its file.
type ImageSink struct {
	mu     sync.Mutex
	dir    string
	width  int
	height int
	files  map[string]string
}

// NewImageSink creates an ImageSink writing into dir
func NewImageSink(dir string) *ImageSink {
	return &ImageSink{
		dir:    dir,
		width:  DefaultImageWidth,
		height: DefaultImageHeight,
		files:  make(map[string]string),
	}
}

// WithSize overrides the image size
func (s *ImageSink) WithSize(width, height int) *ImageSink {
	s.width, s.height = width, height
	return s
}

func (s *ImageSink) NewPlot(id string, p Plot) error {
	return s.write(id, p)
}

func (s *ImageSink) UpdatePlot(id string, p Plot) error {
	return s.write(id, p)
}

// Files returns the path written for each plot id
func (s *ImageSink) Files() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.files))
	for k, v := range s.files {
		out[k] = v
	}
	return out
}

func (s *ImageSink) write(id string, p Plot) error {
	data, err := RenderPNG(p, s.width, s.height)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}
	path := filepath.Join(s.dir, id+".png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.files[id] = path
	return nil
}

// RenderPNG encodes a plot as PNG. Line plots go through go-chart; contour
// plots are drawn as a colour-scaled heatmap.
func RenderPNG(p Plot, width, height int) ([]byte, error) {
	if len(p.Traces) == 0 {
		return nil, fmt.Errorf("plot %s has no traces", p.ID)
	}
	if p.Traces[0].Kind == KindContour {
		return renderHeatmap(p, width, height)
	}
	return renderLines(p, width, height)
}

func renderLines(p Plot, width, height int) ([]byte, error) {
	series := []chart.Series{}
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, t := range p.Traces {
		xs, ys := t.X, t.Y
		if len(xs) == 0 {
			continue
		}
		// go-chart needs at least two x values
		if len(xs) == 1 {
			xs = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
		}
		for _, y := range ys {
			ymin = math.Min(ymin, y)
			ymax = math.Max(ymax, y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    t.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: hexColor(t.Color),
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("plot %s has no data", p.ID)
	}

	// A nil *ContinuousRange in the Range interface is not a zero range
	yAxis := chart.YAxis{Name: p.Layout.YTitle}
	if ymin == ymax {
		yAxis.Range = &chart.ContinuousRange{Min: ymin - 1, Max: ymax + 1}
	}

	ch := chart.Chart{
		Title:      p.Layout.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: p.Layout.XTitle},
		YAxis:      yAxis,
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render plot %s: %w", p.ID, err)
	}
	return buf.Bytes(), nil
}

func hexColor(hex string) drawing.Color {
	if hex == "" {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// Heatmap margins in pixels
const (
	heatLeft   = 70
	heatTop    = 34
	heatRight  = 90
	heatBottom = 30
	barWidth   = 20
)

func renderHeatmap(p Plot, width, height int) ([]byte, error) {
	t := p.Traces[0]
	rows, cols := len(t.Z), 0
	if rows > 0 {
		cols = len(t.Z[0])
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("plot %s has an empty grid", p.ID)
	}
	stops, err := parseScale(t.ColorScale)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	pw := width - heatLeft - heatRight
	ph := height - heatTop - heatBottom
	if pw <= 0 || ph <= 0 {
		return nil, fmt.Errorf("image size %dx%d is too small", width, height)
	}

	latMin, latMax := minMax(t.Y)
	ascending := len(t.Y) < 2 || t.Y[0] <= t.Y[len(t.Y)-1]

	for py := 0; py < ph; py++ {
		r := py * rows / ph
		if ascending {
			r = rows - 1 - r
		}
		for px := 0; px < pw; px++ {
			c := px * cols / pw
			img.Set(heatLeft+px, heatTop+py, scaleColor(stops, normalize(t.Z[r][c], t.ZMin, t.ZMax)))
		}
	}

	// colour bar
	bx := heatLeft + pw + 20
	span := math.Max(1, float64(ph-1))
	for py := 0; py < ph; py++ {
		col := scaleColor(stops, 1-float64(py)/span)
		for px := 0; px < barWidth; px++ {
			img.Set(bx+px, heatTop+py, col)
		}
	}

	black := image.NewUniform(color.Black)
	drawText(img, black, heatLeft, heatTop-14, p.Layout.Title)
	drawText(img, black, heatLeft, height-8, fmt.Sprintf("%s: %s .. %s", p.Layout.XTitle, first(t.XLabels), last(t.XLabels)))
	drawText(img, black, bx, heatTop-4, formatValue(t.ZMax))
	drawText(img, black, bx, heatTop+ph+12, formatValue(t.ZMin))

	for _, tick := range p.Layout.YTickVals {
		if tick < latMin || tick > latMax || latMin == latMax {
			continue
		}
		frac := (tick - latMin) / (latMax - latMin)
		y := heatTop + ph - int(frac*float64(ph))
		drawText(img, black, 8, y+4, formatValue(tick))
		for px := heatLeft - 6; px < heatLeft; px++ {
			img.Set(px, y, color.Black)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode plot %s: %w", p.ID, err)
	}
	return buf.Bytes(), nil
}

func drawText(dst draw.Image, src image.Image, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

type stop struct {
	offset float64
	c      color.RGBA
}

func parseScale(scale []ColorStop) ([]stop, error) {
	if len(scale) == 0 {
		scale = ContourScale
	}
	stops := make([]stop, len(scale))
	for i, s := range scale {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s.Color, "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("invalid colour %q: %w", s.Color, err)
		}
		stops[i] = stop{offset: s.Offset, c: color.RGBA{R: r, G: g, B: b, A: 255}}
	}
	return stops, nil
}

// scaleColor interpolates linearly between the two stops around v
func scaleColor(stops []stop, v float64) color.RGBA {
	if v <= stops[0].offset {
		return stops[0].c
	}
	for i := 1; i < len(stops); i++ {
		if v <= stops[i].offset {
			a, b := stops[i-1], stops[i]
			f := (v - a.offset) / (b.offset - a.offset)
			return color.RGBA{
				R: lerp(a.c.R, b.c.R, f),
				G: lerp(a.c.G, b.c.G, f),
				B: lerp(a.c.B, b.c.B, f),
				A: 255,
			}
		}
	}
	return stops[len(stops)-1].c
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func last(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}
