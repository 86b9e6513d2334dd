package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileBase), []byte(body), 0o644))
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	v, err := Load(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, FileBase))
	require.NoError(t, err, "config.yaml is written on first run")

	s, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, types.BackendJSON, s.Store.Backend)
	assert.Equal(t, types.SyncImmediate, s.Store.Sync.Strategy)
	assert.Equal(t, 10, s.Store.Sync.BatchSize)
	assert.Equal(t, 5, s.Store.Sync.BatchInterval)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, ":8080", s.ListenAddr)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `backend: sqlite
data_dir: /srv/quest
sync:
  strategy: batch
  batch_size: 3
log:
  level: debug
  format: json
server:
  listen_addr: "127.0.0.1:9000"
`)

	v, err := Load(dir)
	require.NoError(t, err)
	s, err := Decode(v)
	require.NoError(t, err)

	assert.Equal(t, types.BackendSQLite, s.Store.Backend)
	assert.Equal(t, types.SyncBatch, s.Store.Sync.Strategy)
	assert.Equal(t, 3, s.Store.Sync.BatchSize)
	assert.Equal(t, 5, s.Store.Sync.BatchInterval, "unset keys keep defaults")
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, "127.0.0.1:9000", s.ListenAddr)

	dataDir, err := DataDir(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/quest", dataDir)
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "backend: json\ndata_dir: /from/file\n")
	t.Setenv("STORAGE_QUEST_BACKEND", "sqlite")
	t.Setenv("STORAGE_QUEST_SYNC_STRATEGY", "on_close")
	t.Setenv("STORAGE_QUEST_SERVER_LISTEN_ADDR", ":9999")
	t.Setenv("STORAGE_QUEST_DATA_DIR", "/from/env")

	v, err := Load(dir)
	require.NoError(t, err)
	s, err := Decode(v)
	require.NoError(t, err)

	assert.Equal(t, types.BackendSQLite, s.Store.Backend)
	assert.Equal(t, types.SyncOnClose, s.Store.Sync.Strategy)
	assert.Equal(t, ":9999", s.ListenAddr)

	dataDir, err := DataDir(v)
	require.NoError(t, err)
	assert.Equal(t, "/from/file", dataDir, "config file data_dir ranks above the environment")
}

func TestDataDirUnset(t *testing.T) {
	v, err := Load(t.TempDir())
	require.NoError(t, err)

	dataDir, err := DataDir(v)
	require.NoError(t, err)
	assert.Empty(t, dataDir)
}

func TestDecodeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "unknown backend", body: "backend: tape\n", wantErr: types.ErrBackendUnknown},
		{name: "unknown strategy", body: "sync:\n  strategy: hourly\n", wantErr: types.ErrSyncStrategyUnknown},
		{name: "negative batch size", body: "sync:\n  strategy: batch\n  batch_size: -2\n", wantErr: types.ErrBatchSizeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.body)
			v, err := Load(dir)
			require.NoError(t, err)
			_, err = Decode(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "backend: [unclosed\n")
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestWriteIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileBase)

	wrote, err := WriteIfMissing(path, DefaultFile("/data"))
	require.NoError(t, err)
	assert.True(t, wrote)

	v, err := Load(filepath.Dir(path))
	require.NoError(t, err)
	dataDir, err := DataDir(v)
	require.NoError(t, err)
	assert.Equal(t, "/data", dataDir)

	wrote, err = WriteIfMissing(path, DefaultFile("/elsewhere"))
	require.NoError(t, err)
	assert.False(t, wrote, "existing config is kept")
}
