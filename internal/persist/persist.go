// Package persist connects an inventory store to a storage backend: it
// selects and attaches the backend, loads the saved state, seeds a fresh
// inventory, and saves snapshots through a Syncer.
package persist

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storagequest/internal/inventory"
	"github.com/mesh-intelligence/storagequest/internal/jsonfile"
	"github.com/mesh-intelligence/storagequest/internal/sqlite"
	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// NewBackend returns a detached backend for the named backend type.
func NewBackend(name string) (types.Backend, error) {
	switch name {
	case types.BackendJSON:
		return jsonfile.NewBackend(), nil
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, name)
	}
}

// Inventory is an open, persisted store.
type Inventory struct {
	Store   *inventory.Store
	Backend types.Backend
	Syncer  *Syncer

	// Seeded is true when Open populated the starter dataset.
	Seeded bool

	unsubscribe func()
}

// Open attaches the configured backend, loads the saved state (or starts
// empty), seeds an empty inventory and wires the syncer to the store. A
// loaded state whose cells name unknown or duplicate instances is repaired
// before use; any other inconsistency fails with inventory.ErrInconsistent.
// Callers must Close the result.
func Open(ctx context.Context, cfg types.Config, log logrus.FieldLogger, opts ...inventory.Option) (*Inventory, error) {
	backend, err := NewBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach %s backend: %w", cfg.Backend, err)
	}

	state, found, err := backend.Load(ctx)
	if err != nil {
		backend.Detach()
		return nil, fmt.Errorf("load state: %w", err)
	}
	if !found {
		state = types.NewState()
	}
	if state, err = sanitize(state, log); err != nil {
		backend.Detach()
		return nil, fmt.Errorf("load state: %w", err)
	}

	opts = append([]inventory.Option{inventory.WithLogger(log)}, opts...)
	store := inventory.New(state, opts...)
	syncer := NewSyncer(backend, cfg.Sync, log)
	inv := &Inventory{
		Store:       store,
		Backend:     backend,
		Syncer:      syncer,
		unsubscribe: store.Subscribe(syncer.Notify),
	}

	seeded, err := inventory.Seed(store)
	if err != nil {
		inv.Close(ctx)
		return nil, fmt.Errorf("seed: %w", err)
	}
	inv.Seeded = seeded

	log.WithFields(logrus.Fields{
		"backend":  cfg.Backend,
		"data_dir": cfg.DataDir,
		"sync":     syncer.Strategy(),
		"found":    found,
		"seeded":   seeded,
	}).Debug("inventory opened")
	return inv, nil
}

// sanitize repairs placement violations in a loaded state and rejects any
// other inconsistency. Repaired cells are logged; the repaired state is
// saved with the next change.
func sanitize(state types.State, log logrus.FieldLogger) (types.State, error) {
	if inventory.Check(state) == nil {
		return state, nil
	}
	repaired, cleared := inventory.Repair(state)
	if err := inventory.Check(repaired); err != nil {
		return types.State{}, err
	}
	log.WithField("cleared_cells", cleared).Warn("repaired inconsistent snapshot")
	return repaired, nil
}

// Close detaches the store from the syncer, flushes pending snapshots and
// detaches the backend.
func (inv *Inventory) Close(ctx context.Context) error {
	inv.unsubscribe()
	flushErr := inv.Syncer.Close(ctx)
	detachErr := inv.Backend.Detach()
	if flushErr != nil {
		return flushErr
	}
	return detachErr
}
