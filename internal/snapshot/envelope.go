// Package snapshot encodes the persisted form of the inventory: a named,
// versioned JSON envelope around types.State.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// Envelope identity. A build reads only envelopes it wrote itself.
const (
	Name    = "storage-quest-v1"
	Version = 1
)

// Envelope is the on-disk wrapper around a state.
type Envelope struct {
	Name    string      `json:"name"`
	Version int         `json:"version"`
	State   types.State `json:"state"`
}

// Encode wraps state in an envelope and marshals it.
func Encode(state types.State) ([]byte, error) {
	data, err := json.MarshalIndent(Envelope{
		Name:    Name,
		Version: Version,
		State:   state,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode unmarshals an envelope and returns its normalized state. It returns
// ErrSnapshotVersion when the envelope name or version is not ours.
func Decode(data []byte) (types.State, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return types.State{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if env.Name != Name || env.Version != Version {
		return types.State{}, fmt.Errorf("%w: got %q version %d, want %q version %d",
			types.ErrSnapshotVersion, env.Name, env.Version, Name, Version)
	}
	return env.State.Normalize(), nil
}
