package render

import (
	"fmt"
	"sort"
	"sync"
)

// MemorySink keeps the current plot objects in memory
type MemorySink struct {
	mu      sync.Mutex
	plots   map[string]Plot
	creates int
	updates int
}

// NewMemorySink creates an empty MemorySink
func NewMemorySink() *MemorySink {
	return &MemorySink{plots: make(map[string]Plot)}
}

func (m *MemorySink) NewPlot(id string, p Plot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plots[id]; ok {
		return fmt.Errorf("plot %s already exists", id)
	}
	m.plots[id] = p
	m.creates++
	return nil
}

func (m *MemorySink) UpdatePlot(id string, p Plot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plots[id]; !ok {
		return fmt.Errorf("plot %s does not exist", id)
	}
	m.plots[id] = p
	m.updates++
	return nil
}

// Plot returns the current specification of a plot
func (m *MemorySink) Plot(id string) (Plot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plots[id]
	return p, ok
}

// IDs returns the sorted ids of all plots
func (m *MemorySink) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.plots))
	for id := range m.plots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Counts returns how many creates and updates the sink has seen
func (m *MemorySink) Counts() (creates, updates int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates, m.updates
}

// MultiSink fans every call out to several sinks, stopping at the first
// error. It remembers which sinks hold each plot, so a plot that one sink
// accepted before another failed is updated there rather than created twice.
type MultiSink struct {
	mu    sync.Mutex
	sinks []Sink
	held  []map[string]bool
}

// NewMultiSink creates a sink over sinks
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		m.Add(s)
	}
	return m
}

// Add appends a sink
func (m *MultiSink) Add(s Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
	m.held = append(m.held, make(map[string]bool))
}

// Len returns the number of sinks
func (m *MultiSink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sinks)
}

func (m *MultiSink) NewPlot(id string, p Plot) error {
	return m.put(id, p)
}

func (m *MultiSink) UpdatePlot(id string, p Plot) error {
	return m.put(id, p)
}

// put creates the plot on sinks that do not hold it yet and updates it on
// the others
func (m *MultiSink) put(id string, p Plot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sinks {
		if m.held[i][id] {
			if err := s.UpdatePlot(id, p); err != nil {
				return err
			}
			continue
		}
		if err := s.NewPlot(id, p); err != nil {
			return err
		}
		m.held[i][id] = true
	}
	return nil
}
