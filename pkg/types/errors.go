package types

import (
	"errors"
	"fmt"
)

// Lookup errors. The specific errors wrap ErrNotFound so callers can test for
// either.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnitNotFound       = fmt.Errorf("unit %w", ErrNotFound)
	ErrItemNotFound       = fmt.Errorf("item %w", ErrNotFound)
	ErrDefinitionNotFound = fmt.Errorf("definition %w", ErrNotFound)
)

// Geometry errors.
var (
	// ErrInvalidGeometry reports rows or cols below 1 at unit creation, or a
	// row/col outside the unit's grid.
	ErrInvalidGeometry = errors.New("invalid grid geometry")
)

// Snapshot and backend lifecycle errors.
var (
	ErrSnapshotVersion = errors.New("unsupported snapshot name or version")
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrDetached        = errors.New("backend is detached")
)
