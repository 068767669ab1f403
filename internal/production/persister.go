package production

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/comalice/formx/internal/core"
)

// JSONPersister stores one JSON file per form.
type JSONPersister struct {
	dir string
}

var _ core.Persister = (*JSONPersister)(nil)

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(_ context.Context, snapshot core.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeSnapshot(filepath.Join(p.dir, snapshot.FormID+".json"), data)
}

func (p *JSONPersister) Load(_ context.Context, formID string) (core.Snapshot, error) {
	data, err := readSnapshot(filepath.Join(p.dir, formID+".json"), formID)
	if err != nil {
		return core.Snapshot{}, err
	}
	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.FormID = formID
	return snapshot, nil
}

// YAMLPersister stores one YAML file per form.
type YAMLPersister struct {
	dir string
}

var _ core.Persister = (*YAMLPersister)(nil)

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(_ context.Context, snapshot core.Snapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeSnapshot(filepath.Join(p.dir, snapshot.FormID+".yaml"), data)
}

func (p *YAMLPersister) Load(_ context.Context, formID string) (core.Snapshot, error) {
	data, err := readSnapshot(filepath.Join(p.dir, formID+".yaml"), formID)
	if err != nil {
		return core.Snapshot{}, err
	}
	var snapshot core.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.FormID = formID
	return snapshot, nil
}

func writeSnapshot(fn string, data []byte) error {
	tmp := fn + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, fn); err != nil {
		return fmt.Errorf("rename %s: %w", fn, err)
	}
	return nil
}

func readSnapshot(fn, formID string) ([]byte, error) {
	data, err := os.ReadFile(fn)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("form %q: %w", formID, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}

// MemoryPersister keeps the latest snapshot per form in memory.
type MemoryPersister struct {
	mu        sync.Mutex
	snapshots map[string]core.Snapshot
	saves     int
}

var _ core.Persister = (*MemoryPersister)(nil)

// NewMemoryPersister creates an empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{snapshots: map[string]core.Snapshot{}}
}

func (p *MemoryPersister) Save(_ context.Context, snapshot core.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots[snapshot.FormID] = snapshot
	p.saves++
	return nil
}

func (p *MemoryPersister) Load(_ context.Context, formID string) (core.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.snapshots[formID]
	if !ok {
		return core.Snapshot{}, fmt.Errorf("form %q: %w", formID, core.ErrNotFound)
	}
	return s, nil
}

// Saves returns the number of Save calls.
func (p *MemoryPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
