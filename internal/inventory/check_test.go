package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

func validState() types.State {
	st := types.NewState()
	st.ItemDefinitions["d"] = types.ItemDefinition{ID: "d", Name: "Book"}
	st.DefinitionOrder = []string{"d"}
	st.ItemInstances["a"] = types.ItemInstance{ID: "a", DefID: "d"}
	st.ItemInstances["b"] = types.ItemInstance{ID: "b", DefID: "d"}
	st.ItemOrder = []string{"a", "b"}
	u := types.NewStorageUnit("u", "Shelf", 2, 2)
	u.Slots[0][0] = "a"
	st.Units["u"] = u
	st.UnitOrder = []string{"u"}
	return st
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(st *types.State)
		wantErr bool
	}{
		{name: "valid state", mutate: func(*types.State) {}},
		{
			name:    "duplicate placement",
			mutate:  func(st *types.State) { st.Units["u"].Slots[1][1] = "a" },
			wantErr: true,
		},
		{
			name:    "ghost reference",
			mutate:  func(st *types.State) { st.Units["u"].Slots[1][0] = "ghost" },
			wantErr: true,
		},
		{
			name:    "unit missing from order",
			mutate:  func(st *types.State) { st.UnitOrder = nil },
			wantErr: true,
		},
		{
			name:    "order lists unknown unit",
			mutate:  func(st *types.State) { st.UnitOrder = append(st.UnitOrder, "ghost") },
			wantErr: true,
		},
		{
			name:    "duplicate order entry",
			mutate:  func(st *types.State) { st.ItemOrder = append(st.ItemOrder, "a") },
			wantErr: true,
		},
		{
			name: "ragged grid",
			mutate: func(st *types.State) {
				u := st.Units["u"]
				u.Slots[1] = u.Slots[1][:1]
				st.Units["u"] = u
			},
			wantErr: true,
		},
		{
			name: "zero geometry",
			mutate: func(st *types.State) {
				st.Units["u"] = types.StorageUnit{ID: "u", Name: "Flat"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := validState()
			tt.mutate(&st)
			err := Check(st)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInconsistent))
		})
	}
}

func TestCheckReportsEveryViolation(t *testing.T) {
	st := validState()
	st.Units["u"].Slots[1][1] = "a"
	st.Units["u"].Slots[1][0] = "ghost"

	err := Check(st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
}

func TestCheckScansUnitsMissingFromOrder(t *testing.T) {
	st := validState()
	v := types.NewStorageUnit("v", "Bin", 1, 2)
	v.Slots[0][0] = "a"
	v.Slots[0][1] = "ghost"
	st.Units["v"] = v

	err := Check(st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit v missing from order")
	assert.Contains(t, err.Error(), "item a placed at u(0,0) and v(0,0)")
	assert.Contains(t, err.Error(), "cell v(0,1) holds unknown item ghost")
}

func TestRepair(t *testing.T) {
	st := validState()
	st.Units["u"].Slots[0][1] = "a"
	st.Units["u"].Slots[1][0] = "ghost"
	st.Units["u"].Slots[1][1] = "b"
	v := types.NewStorageUnit("v", "Bin", 1, 1)
	v.Slots[0][0] = "b"
	st.Units["v"] = v
	st.UnitOrder = append(st.UnitOrder, "v")

	repaired, cleared := Repair(st)
	assert.Equal(t, 3, cleared)
	require.NoError(t, Check(repaired))
	assert.Equal(t, [][]string{{"a", ""}, {"", "b"}}, repaired.Units["u"].Slots)
	assert.Equal(t, [][]string{{""}}, repaired.Units["v"].Slots)
	assert.Equal(t, "a", st.Units["u"].Slots[0][1], "input is not modified")
}

func TestRepairLeavesConsistentStateAlone(t *testing.T) {
	repaired, cleared := Repair(validState())
	assert.Zero(t, cleared)
	assert.Equal(t, validState(), repaired)
}
