package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Sink receives named file payloads
type Sink interface {
	WriteFile(name string, data []byte) error
}

// DirSink writes files into a directory, creating it when missing
type DirSink struct {
	Dir string
}

// NewDirSink creates a DirSink for dir
func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

func (d *DirSink) WriteFile(name string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Path returns where a file of the given name ends up
func (d *DirSink) Path(name string) string {
	return filepath.Join(d.Dir, filepath.Base(name))
}

// MemorySink keeps files in memory
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySink creates an empty MemorySink
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (m *MemorySink) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return nil
}

// File returns the payload written under name
func (m *MemorySink) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// Names returns the sorted names of all files
func (m *MemorySink) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
