package render

import (
	"fmt"
	"sync"

	"evah-sdk/models"
)

// Renderer sends plots to a Sink, creating each plot once and updating it
// in place afterwards.
type Renderer struct {
	mu      sync.Mutex
	sink    Sink
	created map[string]bool
}

// NewRenderer creates a renderer over sink
func NewRenderer(sink Sink) *Renderer {
	return &Renderer{
		sink:    sink,
		created: make(map[string]bool),
	}
}

// Render builds the plots of ds and pushes them to the sink
func (r *Renderer) Render(ds *models.ResultDataset) error {
	plots, err := BuildPlots(ds)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range plots {
		if r.created[p.ID] {
			if err := r.sink.UpdatePlot(p.ID, p); err != nil {
				return fmt.Errorf("failed to update plot %s: %w", p.ID, err)
			}
			continue
		}
		if err := r.sink.NewPlot(p.ID, p); err != nil {
			return fmt.Errorf("failed to create plot %s: %w", p.ID, err)
		}
		r.created[p.ID] = true
	}
	return nil
}

// Created reports whether a plot with id has been created
func (r *Renderer) Created(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created[id]
}
