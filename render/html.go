package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"
)

// HTMLFilename is the page written by HTMLSink
const HTMLFilename = "plots.html"

// PlotlyScript is the script tag source of the plotly bundle
const PlotlyScript = "https://cdn.plot.ly/plotly-2.35.2.min.js"

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <script src="{{.Script}}"></script>
  <style>
    body { font: 14px sans-serif; margin: 1em 2em; }
    .plot { width: 100%; height: 420px; margin-bottom: 1em; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  {{range .Plots}}<div class="plot" id="{{.ID}}"></div>
  {{end}}
  <script>
    var conf = {showLink: false, linkText: '', displaylogo: false, modeBarButtonsToRemove: ['autoScale2d', 'lasso2d', 'toggleSpikelines', 'select2d'], responsive: true};
    {{range .Plots}}Plotly.newPlot({{.ID}}, {{.Data}}, {{.Layout}}, conf);
    {{end}}
  </script>
</body>
</html>
`

var page = template.Must(template.New("plots").Parse(pageTemplate))

type pagePlot struct {
	ID     string
	Data   template.JS
	Layout template.JS
}

type pageData struct {
	Title  string
	Script string
	Plots  []pagePlot
}

// HTMLSink keeps every plot on one self-contained page, rewritten on each
// create or update.
type HTMLSink struct {
	mu    sync.Mutex
	dir   string
	title string
	order []string
	plots map[string]Plot
}

// NewHTMLSink creates an HTMLSink writing <dir>/plots.html
func NewHTMLSink(dir, title string) *HTMLSink {
	return &HTMLSink{
		dir:   dir,
		title: title,
		plots: make(map[string]Plot),
	}
}

// Path returns the file the sink writes
func (s *HTMLSink) Path() string {
	return filepath.Join(s.dir, HTMLFilename)
}

func (s *HTMLSink) NewPlot(id string, p Plot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plots[id]; !ok {
		s.order = append(s.order, id)
	}
	s.plots[id] = p
	return s.flush()
}

func (s *HTMLSink) UpdatePlot(id string, p Plot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plots[id]; !ok {
		return fmt.Errorf("plot %s does not exist", id)
	}
	s.plots[id] = p
	return s.flush()
}

func (s *HTMLSink) flush() error {
	var buf bytes.Buffer
	if err := s.writePage(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}
	if err := os.WriteFile(s.Path(), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path(), err)
	}
	return nil
}

func (s *HTMLSink) writePage(buf *bytes.Buffer) error {
	data := pageData{Title: s.title, Script: PlotlyScript}
	for _, id := range s.order {
		traces, layout := plotlyJSON(s.plots[id])
		tj, err := json.Marshal(traces)
		if err != nil {
			return fmt.Errorf("failed to encode traces of %s: %w", id, err)
		}
		lj, err := json.Marshal(layout)
		if err != nil {
			return fmt.Errorf("failed to encode layout of %s: %w", id, err)
		}
		data.Plots = append(data.Plots, pagePlot{ID: id, Data: template.JS(tj), Layout: template.JS(lj)})
	}
	return page.Execute(buf, data)
}

// plotlyJSON maps a plot onto plotly's trace and layout objects
func plotlyJSON(p Plot) ([]map[string]interface{}, map[string]interface{}) {
	traces := make([]map[string]interface{}, 0, len(p.Traces))
	for _, t := range p.Traces {
		switch t.Kind {
		case KindContour:
			scale := make([][]interface{}, len(t.ColorScale))
			for i, s := range t.ColorScale {
				scale[i] = []interface{}{s.Offset, s.Color}
			}
			traces = append(traces, map[string]interface{}{
				"type":       "contour",
				"name":       t.Name,
				"x":          t.X,
				"y":          t.Y,
				"z":          t.Z,
				"zmin":       t.ZMin,
				"zmax":       t.ZMax,
				"colorscale": scale,
				"colorbar": map[string]interface{}{
					"title":     map[string]interface{}{"text": t.ColorBarTitle, "side": "right"},
					"thickness": 20,
					"len":       0.9,
				},
				"hoverinfo": "text",
				"text":      t.CellText,
			})
		default:
			traces = append(traces, map[string]interface{}{
				"type":      "scatter",
				"name":      t.Name,
				"x":         t.X,
				"y":         t.Y,
				"mode":      "lines",
				"marker":    map[string]interface{}{"color": t.Color},
				"hoverinfo": "text",
				"hovertext": t.HoverText,
			})
		}
	}

	yaxis := map[string]interface{}{"title": p.Layout.YTitle, "zeroline": false}
	if len(p.Layout.YTickVals) > 0 {
		yaxis["tickvals"] = p.Layout.YTickVals
	}
	layout := map[string]interface{}{
		"title":     map[string]interface{}{"text": p.Layout.Title},
		"xaxis":     map[string]interface{}{"title": p.Layout.XTitle, "zeroline": false},
		"yaxis":     yaxis,
		"hovermode": "closest",
	}
	if p.Layout.LegendBottomLeft {
		layout["legend"] = map[string]interface{}{"x": 0, "y": 0, "xanchor": "left", "yanchor": "bottom"}
	}
	return traces, layout
}
