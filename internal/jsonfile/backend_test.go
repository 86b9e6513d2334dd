package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

func attached(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendJSON, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func TestAttach(t *testing.T) {
	b, dir := attached(t)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "data dir is created")
	assert.Equal(t, filepath.Join(dir, "storage-quest-v1.json"), b.Path())

	err = b.Attach(types.Config{Backend: types.BackendJSON, DataDir: dir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestAttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "tape", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestLoadBeforeSave(t *testing.T) {
	b, _ := attached(t)

	_, ok, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoad(t *testing.T) {
	b, _ := attached(t)
	ctx := context.Background()

	st := types.NewState()
	u := types.NewStorageUnit("u1", "Shelf A", 2, 2)
	st.ItemInstances["i1"] = types.ItemInstance{ID: "i1", DefID: "d1"}
	st.ItemOrder = []string{"i1"}
	u.Slots[1][1] = "i1"
	st.Units["u1"] = u
	st.UnitOrder = []string{"u1"}

	require.NoError(t, b.Save(ctx, st))
	got, ok, err := b.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "i1", got.Units["u1"].Slots[1][1])
	assert.Equal(t, []string{"u1"}, got.UnitOrder)
}

func TestLoadRejectsForeignEnvelope(t *testing.T) {
	b, _ := attached(t)
	require.NoError(t, os.WriteFile(b.Path(), []byte(`{"name":"storage-quest-v1","version":9,"state":{}}`), 0o644))

	_, _, err := b.Load(context.Background())
	assert.ErrorIs(t, err, types.ErrSnapshotVersion)
}

func TestDetached(t *testing.T) {
	b, _ := attached(t)
	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "idempotent")

	_, _, err := b.Load(context.Background())
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, b.Save(context.Background(), types.NewState()), types.ErrDetached)
}

func TestCanceledContext(t *testing.T) {
	b, _ := attached(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Save(ctx, types.NewState()), context.Canceled)
}
