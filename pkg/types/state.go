package types

import "sort"

// State is the complete inventory: the catalogue, the units and their
// display order. It is the value persisted inside a snapshot envelope and the
// value readers receive from the store. A State obtained from the store is a
// private copy; mutating it does not affect the store.
type State struct {
	ItemDefinitions map[string]ItemDefinition `json:"itemDefinitions"`
	ItemInstances   map[string]ItemInstance   `json:"itemInstances"`
	Units           map[string]StorageUnit    `json:"units"`
	UnitOrder       []string                  `json:"unitOrder"`

	// Insertion order of definitions and instances. Listings follow these.
	DefinitionOrder []string `json:"definitionOrder,omitempty"`
	ItemOrder       []string `json:"itemOrder,omitempty"`
}

// NewState returns an empty state with all maps allocated.
func NewState() State {
	return State{
		ItemDefinitions: map[string]ItemDefinition{},
		ItemInstances:   map[string]ItemInstance{},
		Units:           map[string]StorageUnit{},
		UnitOrder:       []string{},
		DefinitionOrder: []string{},
		ItemOrder:       []string{},
	}
}

// Empty reports whether the state holds no units and no item instances.
// Seeding keys off this condition; definitions alone do not count.
func (s State) Empty() bool {
	return len(s.Units) == 0 && len(s.ItemInstances) == 0
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{
		ItemDefinitions: make(map[string]ItemDefinition, len(s.ItemDefinitions)),
		ItemInstances:   make(map[string]ItemInstance, len(s.ItemInstances)),
		Units:           make(map[string]StorageUnit, len(s.Units)),
		UnitOrder:       append([]string{}, s.UnitOrder...),
		DefinitionOrder: append([]string{}, s.DefinitionOrder...),
		ItemOrder:       append([]string{}, s.ItemOrder...),
	}
	for k, v := range s.ItemDefinitions {
		out.ItemDefinitions[k] = v
	}
	for k, v := range s.ItemInstances {
		out.ItemInstances[k] = v
	}
	for k, v := range s.Units {
		out.Units[k] = v.Clone()
	}
	return out
}

// Normalize repairs a state decoded from an older or hand-edited snapshot:
// nil maps are allocated, order slices are rebuilt as permutations of their
// id sets (dropping dangling ids and duplicates, appending missing ones),
// and unit grids are reshaped to rows x cols. It does not resolve duplicate
// placements; see inventory.Repair.
func (s State) Normalize() State {
	if s.ItemDefinitions == nil {
		s.ItemDefinitions = map[string]ItemDefinition{}
	}
	if s.ItemInstances == nil {
		s.ItemInstances = map[string]ItemInstance{}
	}
	if s.Units == nil {
		s.Units = map[string]StorageUnit{}
	}

	s.UnitOrder = normalizeOrder(s.UnitOrder, s.Units, func(a, b string) bool { return a < b })
	s.DefinitionOrder = normalizeOrder(s.DefinitionOrder, s.ItemDefinitions, func(a, b string) bool { return a < b })
	s.ItemOrder = normalizeOrder(s.ItemOrder, s.ItemInstances, func(a, b string) bool {
		ia, ib := s.ItemInstances[a], s.ItemInstances[b]
		if !ia.CreatedAt.Equal(ib.CreatedAt) {
			return ia.CreatedAt.Before(ib.CreatedAt)
		}
		return a < b
	})

	for id, u := range s.Units {
		s.Units[id] = reshape(u)
	}
	return s
}

// normalizeOrder keeps the first occurrence of every id present in set, in
// the given order, then appends ids missing from order sorted by less.
func normalizeOrder[V any](order []string, set map[string]V, less func(a, b string) bool) []string {
	seen := make(map[string]bool, len(set))
	out := make([]string, 0, len(set))
	for _, id := range order {
		if _, ok := set[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	var missing []string
	for id := range set {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return less(missing[i], missing[j]) })
	return append(out, missing...)
}

// reshape pads or truncates the grid so it is exactly Rows x Cols.
func reshape(u StorageUnit) StorageUnit {
	if u.Rows < 0 {
		u.Rows = 0
	}
	if u.Cols < 0 {
		u.Cols = 0
	}
	grid := EmptyGrid(u.Rows, u.Cols)
	for r := 0; r < u.Rows && r < len(u.Slots); r++ {
		copy(grid[r], u.Slots[r])
	}
	u.Slots = grid
	return u
}
