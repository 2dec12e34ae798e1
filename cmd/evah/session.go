package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	evah "evah-sdk"
	"evah-sdk/cmd/evah/internal/config"
	"evah-sdk/cmd/evah/internal/utils"
	"evah-sdk/export"
	"evah-sdk/history"
	"evah-sdk/models"
	"evah-sdk/params"
	"evah-sdk/render"
	"evah-sdk/run"
)

// Session holds the state shared by every view of one program run. View
// models are values; they all point at the same Session.
type Session struct {
	cfg        config.Config
	client     *evah.Client
	store      *params.Store
	controller *run.Controller
	preview    *render.MemorySink
	history    *history.Store

	// statusChan carries controller hook updates to the run view
	statusChan chan string

	lastOutcome *run.Outcome
}

func NewSession(cfg config.Config, hist *history.Store) *Session {
	s := &Session{
		cfg:        cfg,
		client:     cfg.NewClient(),
		store:      params.New(cfg.Variant),
		preview:    render.NewMemorySink(),
		history:    hist,
		statusChan: make(chan string, 16),
	}

	if models.ParamsFileExists(models.ParamsFilename) {
		if p, err := models.LoadParamsFile(models.ParamsFilename); err != nil {
			utils.LogDebug("Failed to load %s: %v", models.ParamsFilename, err)
		} else if !s.store.Load(p) {
			utils.LogDebug("Loaded %s with invalid fields: %v", models.ParamsFilename, s.store.Invalid())
		}
	}

	opts := run.Options{
		Hooks: run.Hooks{
			SetBusy: func(busy bool) {
				if busy {
					s.status("Running model...")
				} else {
					s.status("Model finished")
				}
			},
			SetTriggerEnabled: func(enabled bool) {
				utils.LogDebug("run trigger enabled=%v", enabled)
			},
		},
		Renderer: render.NewRenderer(s.preview),
		Logf:     utils.LogDebug,
	}
	if hist != nil {
		opts.Recorder = hist
	}
	s.controller = run.NewController(s.store, s.client.Model, opts)
	return s
}

// status forwards a message without ever blocking the controller
func (s *Session) status(msg string) {
	select {
	case s.statusChan <- msg:
	default:
	}
}

// ExportOptions selects which files to write
type ExportOptions struct {
	CSV    bool
	NetCDF bool
	PNG    bool
	HTML   bool
}

// exportResults writes the selected products of ds into dir and returns the
// paths written.
func exportResults(ds *models.ResultDataset, variant models.Variant, dir string, opts ExportOptions) ([]string, error) {
	if ds == nil {
		return nil, fmt.Errorf("no results to export, run the model first")
	}
	sink := export.NewDirSink(dir)
	exporter := export.New(variant, sink)
	var written []string

	if opts.CSV {
		names, err := exporter.CSV(ds)
		for _, n := range names {
			written = append(written, sink.Path(n))
		}
		if err != nil {
			return written, err
		}
	}

	if opts.NetCDF {
		name, err := exporter.Binary(ds)
		switch {
		case errors.Is(err, export.ErrNoBinary):
			utils.LogDebug("NetCDF export skipped: %v", err)
		case err != nil:
			return written, err
		default:
			written = append(written, sink.Path(name))
		}
	}

	sinks := render.NewMultiSink()
	var images *render.ImageSink
	var page *render.HTMLSink
	if opts.PNG {
		images = render.NewImageSink(dir)
		sinks.Add(images)
	}
	if opts.HTML {
		page = render.NewHTMLSink(dir, "EVA_H model results")
		sinks.Add(page)
	}
	if sinks.Len() > 0 {
		if err := render.NewRenderer(sinks).Render(ds); err != nil {
			return written, err
		}
		if images != nil {
			for _, id := range []string{render.PlotSAOD, render.PlotContour, render.PlotForcing, render.PlotTemperature} {
				if path, ok := images.Files()[id]; ok {
					written = append(written, path)
				}
			}
		}
		if page != nil {
			written = append(written, page.Path())
		}
	}

	return written, nil
}

// closeHistory closes the history store if one is open
func (s *Session) closeHistory() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			utils.LogDebug("Failed to close history: %v", err)
		}
	}
}

// recentRuns lists the latest recorded runs, or nil without a history store
func (s *Session) recentRuns(ctx context.Context, limit int) ([]history.Entry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(ctx, limit)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
