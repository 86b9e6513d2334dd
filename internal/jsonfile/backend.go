// Package jsonfile implements a types.Backend that keeps the snapshot
// envelope in a single JSON file under the data directory.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/storagequest/internal/snapshot"
	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// FileName is the snapshot file inside the data directory.
const FileName = snapshot.Name + ".json"

// Backend stores the inventory in <DataDir>/storage-quest-v1.json.
type Backend struct {
	mu       sync.Mutex
	attached bool
	path     string
}

// NewBackend creates a detached backend. Call Attach before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates DataDir if needed and binds the backend to its snapshot
// file. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	b.path = filepath.Join(dataDir, FileName)
	b.attached = true
	return nil
}

// Path returns the snapshot file path, or "" when detached.
func (b *Backend) Path() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}

// Load reads and decodes the snapshot file. ok is false when the file does
// not exist yet.
func (b *Backend) Load(ctx context.Context) (types.State, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.State{}, false, types.ErrDetached
	}
	if err := ctx.Err(); err != nil {
		return types.State{}, false, err
	}

	data, ok, err := snapshot.ReadFile(b.path)
	if err != nil || !ok {
		return types.State{}, false, err
	}
	st, err := snapshot.Decode(data)
	if err != nil {
		return types.State{}, false, fmt.Errorf("loading %s: %w", b.path, err)
	}
	return st, true, nil
}

// Save atomically replaces the snapshot file.
func (b *Backend) Save(ctx context.Context, state types.State) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := snapshot.Encode(state)
	if err != nil {
		return err
	}
	return snapshot.WriteFile(b.path, data)
}

// Detach releases the backend. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	b.path = ""
	return nil
}
