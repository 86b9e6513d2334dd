// Package sqlite implements a types.Backend that keeps the snapshot envelope
// in a SQLite database. The schema is managed with golang-migrate from
// migrations embedded in the binary.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/storagequest/internal/snapshot"
	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// DBFileName is the database file inside the data directory.
const DBFileName = "storage-quest.db"

// Backend stores snapshot envelopes in the snapshots table, one row per
// envelope name.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	path     string
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates DataDir if it does not exist, opens the database and
// migrates its schema.
// Returns ErrAlreadyAttached if already attached.
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

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.path = dbPath
	b.attached = true
	return nil
}

// Path returns the database file path, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// Load returns the stored state. ok is false when no snapshot row exists.
func (b *Backend) Load(ctx context.Context) (types.State, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.State{}, false, types.ErrDetached
	}

	var payload string
	err := b.db.QueryRowContext(ctx,
		"SELECT payload FROM snapshots WHERE name = ?", snapshot.Name,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return types.State{}, false, nil
	}
	if err != nil {
		return types.State{}, false, fmt.Errorf("querying snapshot: %w", err)
	}

	st, err := snapshot.Decode([]byte(payload))
	if err != nil {
		return types.State{}, false, err
	}
	return st, true, nil
}

// Save upserts the snapshot row.
func (b *Backend) Save(ctx context.Context, state types.State) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}

	data, err := snapshot.Encode(state)
	if err != nil {
		return err
	}
	_, err = b.db.ExecContext(ctx, `
		INSERT INTO snapshots (name, version, payload, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			saved_at = excluded.saved_at`,
		snapshot.Name, snapshot.Version, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	b.path = ""
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}
