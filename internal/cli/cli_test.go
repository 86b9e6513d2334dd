package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storagequest/internal/config"
	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// env is an isolated config and data directory pair.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	return env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// run executes the CLI with args and returns stdout, stderr and the exit
// code.
func (e env) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := run(root, &stderr)
	return stdout.String(), stderr.String(), code
}

// mustRun runs the CLI and fails the test on a non-zero exit code.
func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, code := e.run(t, args...)
	require.Equal(t, exitSuccess, code, "args %v\nstderr: %s", args, errOut)
	return out
}

func jsonOut[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "version")
	assert.Contains(t, out, "storage-quest v")
	assert.Contains(t, out, "github.com/mesh-intelligence/storagequest")
}

func TestInit(t *testing.T) {
	e := newEnv(t)

	res := jsonOut[initResult](t, e.mustRun(t, "--json", "init"))
	assert.True(t, res.ConfigWritten)
	assert.True(t, res.Seeded)
	assert.Equal(t, types.BackendJSON, res.Backend)
	assert.Equal(t, e.dataDir, res.DataDir)

	_, err := os.Stat(filepath.Join(e.configDir, config.FileBase))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(e.dataDir, "storage-quest-v1.json"))
	require.NoError(t, err, "seeded state is saved")

	res = jsonOut[initResult](t, e.mustRun(t, "--json", "init"))
	assert.False(t, res.ConfigWritten)
	assert.False(t, res.Seeded, "second init keeps existing data")
}

func TestUnitCommands(t *testing.T) {
	e := newEnv(t)

	units := jsonOut[[]types.StorageUnit](t, e.mustRun(t, "--json", "unit", "list"))
	require.Len(t, units, 2, "first use seeds the starter units")
	assert.Equal(t, "Shelf A", units[0].Name)

	created := jsonOut[map[string]string](t, e.mustRun(t, "--json", "unit", "create"))
	id := created["id"]
	require.NotEmpty(t, id)

	e.mustRun(t, "unit", "rename", id, "Drawer")
	u := jsonOut[types.StorageUnit](t, e.mustRun(t, "--json", "unit", "show", id))
	assert.Equal(t, "Drawer", u.Name)
	assert.Equal(t, 3, u.Rows)
	assert.Equal(t, 6, u.Cols)

	out := e.mustRun(t, "unit", "list")
	assert.Contains(t, out, "Drawer")
	assert.Contains(t, out, "5/18 used")

	released := jsonOut[map[string][]string](t, e.mustRun(t, "--json", "unit", "delete", units[0].ID))
	assert.Len(t, released["released"], 5)
	assert.Len(t, jsonOut[[]string](t, e.mustRun(t, "--json", "unplaced")), 5)
}

func TestUnitShowRendersGrid(t *testing.T) {
	e := newEnv(t)
	units := jsonOut[[]types.StorageUnit](t, e.mustRun(t, "--json", "unit", "list"))

	out := e.mustRun(t, "unit", "show", units[1].ID)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "Bin B (2x4)", lines[0])
	assert.Equal(t, "🧰 · · ·", lines[1])
	assert.Equal(t, "· · · ·", lines[2])
	assert.Contains(t, lines[3], "Raspberry Pi 4")
}

func TestItemAndPlacementCommands(t *testing.T) {
	e := newEnv(t)
	defs := jsonOut[[]types.ItemDefinition](t, e.mustRun(t, "--json", "def", "list"))
	require.Len(t, defs, 5)
	units := jsonOut[[]types.StorageUnit](t, e.mustRun(t, "--json", "unit", "list"))
	bin := units[1].ID

	item := jsonOut[map[string]string](t, e.mustRun(t, "--json", "item", "create", defs[3].ID, "--label", "Polaroid"))["id"]
	assert.Equal(t, []string{item}, jsonOut[[]string](t, e.mustRun(t, "--json", "unplaced")))

	e.mustRun(t, "place", item, bin, "1", "2")
	loc := jsonOut[types.ItemLocation](t, e.mustRun(t, "--json", "locate", item))
	assert.Equal(t, types.InSlot(bin, 1, 2), loc)

	e.mustRun(t, "item", "update", item, "--notes", "needs film")
	items := jsonOut[[]itemRow](t, e.mustRun(t, "--json", "item", "list"))
	require.Len(t, items, 7)
	last := items[len(items)-1]
	assert.Equal(t, "Polaroid", last.Label, "label kept when only notes change")
	assert.Equal(t, "needs film", last.Notes)
	assert.Equal(t, types.InSlot(bin, 1, 2), last.Location)

	e.mustRun(t, "remove", bin, "1", "2")
	assert.Equal(t, "inventory\n", e.mustRun(t, "locate", item))

	e.mustRun(t, "place", item, bin, "0", "0")
	unplaced := jsonOut[[]string](t, e.mustRun(t, "--json", "unplaced"))
	require.Len(t, unplaced, 1, "the Raspberry Pi was displaced")
	assert.NotEqual(t, item, unplaced[0])

	e.mustRun(t, "return", item)
	e.mustRun(t, "item", "delete", item)
	_, _, code := e.run(t, "locate", item)
	assert.Equal(t, exitUserError, code)
}

func TestDefCreate(t *testing.T) {
	e := newEnv(t)
	id := jsonOut[map[string]string](t, e.mustRun(t, "--json", "def", "create", "Cable", "--emoji", "🔌"))["id"]

	out := e.mustRun(t, "def", "list")
	assert.Contains(t, out, id+"  🔌 Cable")
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "init")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown unit", []string{"unit", "show", "ghost"}, exitUserError},
		{"unknown item", []string{"locate", "ghost"}, exitUserError},
		{"bad geometry", []string{"unit", "create", "Flat", "--rows", "0"}, exitUserError},
		{"non-numeric row", []string{"remove", "u", "x", "0"}, exitUserError},
		{"unknown definition", []string{"item", "create", "ghost"}, exitUserError},
		{"missing args", []string{"place", "a"}, exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := e.run(t, tt.args...)
			assert.Equal(t, tt.want, code)
			assert.Contains(t, stderr, "error:")
		})
	}
}

func TestInvalidConfigIsUserError(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, config.FileBase), []byte("backend: tape\n"), 0o644))

	_, stderr, code := e.run(t, "unit", "list")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "unknown backend")
}

func TestSQLiteBackendFromEnvironment(t *testing.T) {
	e := newEnv(t)
	t.Setenv("STORAGE_QUEST_BACKEND", "sqlite")

	created := jsonOut[map[string]string](t, e.mustRun(t, "--json", "unit", "create", "Crate", "--rows", "1", "--cols", "2"))
	units := jsonOut[[]types.StorageUnit](t, e.mustRun(t, "--json", "unit", "list"))
	require.Len(t, units, 3)
	assert.Equal(t, created["id"], units[2].ID)

	_, err := os.Stat(filepath.Join(e.dataDir, "storage-quest.db"))
	require.NoError(t, err)
}
