package inventory

import (
	"fmt"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// PlaceItem moves an instance into (row, col) of a unit. The source cell is
// cleared first when the instance is already placed. An occupied target is
// overwritten and its previous occupant becomes unplaced. Placing an
// instance onto the cell it already holds is a no-op.
func (s *Store) PlaceItem(itemID, unitID string, row, col int) error {
	return s.mutate("place_item", func(st *types.State) error {
		u, ok := st.Units[unitID]
		if !ok {
			return types.ErrUnitNotFound
		}
		if _, ok := st.ItemInstances[itemID]; !ok {
			return types.ErrItemNotFound
		}
		if !u.InBounds(row, col) {
			return outOfRange(u, row, col)
		}

		clearItem(st, itemID)
		st.Units[unitID].Slots[row][col] = itemID
		return nil
	})
}

// RemoveItemFromSlot empties (row, col) of a unit. Clearing an empty cell
// succeeds.
func (s *Store) RemoveItemFromSlot(unitID string, row, col int) error {
	return s.mutate("remove_item_from_slot", func(st *types.State) error {
		u, ok := st.Units[unitID]
		if !ok {
			return types.ErrUnitNotFound
		}
		if !u.InBounds(row, col) {
			return outOfRange(u, row, col)
		}
		u.Slots[row][col] = ""
		return nil
	})
}

// ReturnToInventory clears whichever cell holds the instance. An unplaced
// instance is left as is.
func (s *Store) ReturnToInventory(itemID string) error {
	return s.mutate("return_to_inventory", func(st *types.State) error {
		if _, ok := st.ItemInstances[itemID]; !ok {
			return types.ErrItemNotFound
		}
		clearItem(st, itemID)
		return nil
	})
}

// FindItemLocation reports where an instance is. Units are scanned in unit
// order, rows then columns.
func (s *Store) FindItemLocation(itemID string) (types.ItemLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.state.ItemInstances[itemID]; !ok {
		return types.ItemLocation{}, types.ErrItemNotFound
	}
	return locate(&s.state, itemID), nil
}

// ListUnplacedItems returns the ids of instances that occupy no cell, in
// insertion order.
func (s *Store) ListUnplacedItems() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	placed := placedSet(&s.state)
	out := []string{}
	for _, id := range s.state.ItemOrder {
		if !placed[id] {
			out = append(out, id)
		}
	}
	return out
}

func locate(st *types.State, itemID string) types.ItemLocation {
	for _, uid := range st.UnitOrder {
		u := st.Units[uid]
		for r, row := range u.Slots {
			for c, cell := range row {
				if cell == itemID {
					return types.InSlot(uid, r, c)
				}
			}
		}
	}
	return types.InInventory()
}

func placedSet(st *types.State) map[string]bool {
	placed := make(map[string]bool)
	for _, u := range st.Units {
		for _, row := range u.Slots {
			for _, cell := range row {
				if cell != "" {
					placed[cell] = true
				}
			}
		}
	}
	return placed
}

// clearItem empties every cell holding itemID. Grids are shared with the
// map values, so writes land in st.
func clearItem(st *types.State, itemID string) {
	for _, u := range st.Units {
		for _, row := range u.Slots {
			for c, cell := range row {
				if cell == itemID {
					row[c] = ""
				}
			}
		}
	}
}

func outOfRange(u types.StorageUnit, row, col int) error {
	return fmt.Errorf("%w: cell (%d,%d) outside %dx%d unit %s",
		types.ErrInvalidGeometry, row, col, u.Rows, u.Cols, u.ID)
}
