package inventory

import (
	"fmt"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// CreateUnit adds a unit with an empty rows x cols grid at the end of the
// unit order and returns its id.
func (s *Store) CreateUnit(name string, rows, cols int) (string, error) {
	if !types.ValidGeometry(rows, cols) {
		s.log.WithField("rows", rows).WithField("cols", cols).Debug("create unit rejected")
		return "", fmt.Errorf("%w: %dx%d", types.ErrInvalidGeometry, rows, cols)
	}

	var id string
	err := s.mutate("create_unit", func(st *types.State) error {
		id = s.newID()
		st.Units[id] = types.NewStorageUnit(id, name, rows, cols)
		st.UnitOrder = append(st.UnitOrder, id)
		return nil
	})
	return id, err
}

// RenameUnit replaces the name of a unit.
func (s *Store) RenameUnit(unitID, name string) error {
	return s.mutate("rename_unit", func(st *types.State) error {
		u, ok := st.Units[unitID]
		if !ok {
			return types.ErrUnitNotFound
		}
		u.Name = name
		st.Units[unitID] = u
		return nil
	})
}

// DeleteUnit removes a unit and its order entry. Instances placed in the
// unit stay in the catalogue and return to the inventory pool; their ids are
// returned in row-major order.
func (s *Store) DeleteUnit(unitID string) ([]string, error) {
	var released []string
	err := s.mutate("delete_unit", func(st *types.State) error {
		u, ok := st.Units[unitID]
		if !ok {
			return types.ErrUnitNotFound
		}
		for _, row := range u.Slots {
			for _, cell := range row {
				if cell != "" {
					released = append(released, cell)
				}
			}
		}
		delete(st.Units, unitID)
		st.UnitOrder = removeID(st.UnitOrder, unitID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// Unit returns a copy of one unit.
func (s *Store) Unit(unitID string) (types.StorageUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.state.Units[unitID]
	if !ok {
		return types.StorageUnit{}, types.ErrUnitNotFound
	}
	return u.Clone(), nil
}

// Units returns copies of all units in unit order.
func (s *Store) Units() []types.StorageUnit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.StorageUnit, 0, len(s.state.UnitOrder))
	for _, id := range s.state.UnitOrder {
		out = append(out, s.state.Units[id].Clone())
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
