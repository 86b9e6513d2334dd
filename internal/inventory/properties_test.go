// Property tests over random operation sequences.
package inventory

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// randomOps applies n random operations to s, some of them invalid, and
// calls after each one.
func randomOps(t *testing.T, s *Store, rng *rand.Rand, n int, after func(op string)) {
	t.Helper()

	pick := func(ids []string) string {
		if len(ids) == 0 || rng.Intn(10) == 0 {
			return "ghost"
		}
		return ids[rng.Intn(len(ids))]
	}

	for i := 0; i < n; i++ {
		st := s.Snapshot()
		var op string
		switch rng.Intn(9) {
		case 0:
			op = "create_unit"
			_, _ = s.CreateUnit("u", rng.Intn(4), rng.Intn(5))
		case 1:
			op = "create_item"
			_, _ = s.CreateItem("def", "")
		case 2, 3, 4:
			op = "place"
			uid := pick(st.UnitOrder)
			_ = s.PlaceItem(pick(st.ItemOrder), uid, rng.Intn(4)-1, rng.Intn(5)-1)
		case 5:
			op = "remove"
			_ = s.RemoveItemFromSlot(pick(st.UnitOrder), rng.Intn(3), rng.Intn(4))
		case 6:
			op = "return"
			_ = s.ReturnToInventory(pick(st.ItemOrder))
		case 7:
			op = "delete_item"
			if rng.Intn(3) == 0 {
				_ = s.DeleteItem(pick(st.ItemOrder))
			}
		case 8:
			op = "delete_unit"
			if rng.Intn(4) == 0 {
				_, _ = s.DeleteUnit(pick(st.UnitOrder))
			}
		}
		after(op)
	}
}

func TestInvariantsHoldOverRandomSequences(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		s := newTestStore(t)
		rng := rand.New(rand.NewSource(seed))
		randomOps(t, s, rng, 200, func(op string) {
			require.NoError(t, Check(s.Snapshot()), "seed %d after %s", seed, op)
		})
	}
}

func TestUnplacedIsComplementOfPlaced(t *testing.T) {
	s := newTestStore(t)
	rng := rand.New(rand.NewSource(42))
	randomOps(t, s, rng, 300, func(string) {
		st := s.Snapshot()
		placed := placedSet(&st)
		unplaced := s.ListUnplacedItems()

		for _, id := range unplaced {
			assert.False(t, placed[id])
		}
		all := append(append([]string{}, unplaced...), keys(placed)...)
		sort.Strings(all)
		want := append([]string{}, st.ItemOrder...)
		sort.Strings(want)
		assert.Equal(t, want, all)
	})
}

func TestMovesPreserveCatalogueSize(t *testing.T) {
	s := newTestStore(t)
	units := []string{mustUnit(t, s, "A", 3, 3), mustUnit(t, s, "B", 2, 2)}
	var items []string
	for i := 0; i < 6; i++ {
		items = append(items, mustItem(t, s, ""))
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		item := items[rng.Intn(len(items))]
		switch rng.Intn(3) {
		case 0:
			_ = s.ReturnToInventory(item)
		case 1:
			_ = s.RemoveItemFromSlot(units[1], rng.Intn(2), rng.Intn(2))
		default:
			u := units[rng.Intn(len(units))]
			_ = s.PlaceItem(item, u, rng.Intn(2), rng.Intn(2))
		}
		st := s.Snapshot()
		require.Len(t, st.ItemInstances, len(items))
		require.Len(t, st.ItemOrder, len(items))
	}
}

func TestFindAgreesWithGrid(t *testing.T) {
	s := newTestStore(t)
	rng := rand.New(rand.NewSource(99))
	randomOps(t, s, rng, 250, func(string) {
		st := s.Snapshot()
		for _, id := range st.ItemOrder {
			loc, err := s.FindItemLocation(id)
			require.NoError(t, err)
			if loc.Placed() {
				assert.Equal(t, id, st.Units[loc.UnitID].Slots[loc.Row][loc.Col])
			} else {
				assert.Equal(t, types.InInventory(), loc)
			}
		}
	})
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
