// Package sqlite exposes the SQLite snapshot backend to programs embedding
// Storage Quest, keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/storagequest/internal/sqlite"
	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".storage-quest",
//	})
//	defer backend.Detach()
func NewBackend() types.Backend {
	return sqlite.NewBackend()
}
