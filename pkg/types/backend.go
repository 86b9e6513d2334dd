package types

import "context"

// Backend persists the inventory state as a single versioned snapshot.
// Callers attach to a backend, load and save whole states, and detach when
// done.
type Backend interface {
	// Attach connects the backend to the storage described by config.
	// Creates DataDir if it does not exist. Returns ErrAlreadyAttached if
	// called while attached.
	Attach(config Config) error

	// Load returns the stored state. ok is false when nothing has been saved
	// yet. Returns ErrSnapshotVersion for a snapshot this build cannot read.
	Load(ctx context.Context) (state State, ok bool, err error)

	// Save replaces the stored snapshot with state.
	Save(ctx context.Context, state State) error

	// Detach releases backend resources. Idempotent. After Detach, Load and
	// Save return ErrDetached.
	Detach() error
}
