package inventory

import (
	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// CreateDefinition appends an item definition and returns its id. Names are
// not deduplicated. An empty emoji falls back to types.DefaultEmoji.
func (s *Store) CreateDefinition(name, emoji, color string) (string, error) {
	if emoji == "" {
		emoji = types.DefaultEmoji
	}

	var id string
	err := s.mutate("create_definition", func(st *types.State) error {
		id = s.newID()
		st.ItemDefinitions[id] = types.ItemDefinition{
			ID:    id,
			Name:  name,
			Emoji: emoji,
			Color: color,
		}
		st.DefinitionOrder = append(st.DefinitionOrder, id)
		return nil
	})
	return id, err
}

// CreateItem allocates an unplaced instance of defID and returns its id.
// defID is not checked against the catalogue.
func (s *Store) CreateItem(defID, label string) (string, error) {
	var id string
	err := s.mutate("create_item", func(st *types.State) error {
		id = s.newID()
		st.ItemInstances[id] = types.ItemInstance{
			ID:        id,
			DefID:     defID,
			Label:     label,
			CreatedAt: s.now().UTC(),
		}
		st.ItemOrder = append(st.ItemOrder, id)
		return nil
	})
	return id, err
}

// UpdateItem replaces the label and notes of an instance.
func (s *Store) UpdateItem(itemID, label, notes string) error {
	return s.mutate("update_item", func(st *types.State) error {
		it, ok := st.ItemInstances[itemID]
		if !ok {
			return types.ErrItemNotFound
		}
		it.Label = label
		it.Notes = notes
		st.ItemInstances[itemID] = it
		return nil
	})
}

// DeleteItem clears the slot holding the instance, if any, then removes it
// from the catalogue.
func (s *Store) DeleteItem(itemID string) error {
	return s.mutate("delete_item", func(st *types.State) error {
		if _, ok := st.ItemInstances[itemID]; !ok {
			return types.ErrItemNotFound
		}
		clearItem(st, itemID)
		delete(st.ItemInstances, itemID)
		st.ItemOrder = removeID(st.ItemOrder, itemID)
		return nil
	})
}

// Definition returns one item definition.
func (s *Store) Definition(defID string) (types.ItemDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.state.ItemDefinitions[defID]
	if !ok {
		return types.ItemDefinition{}, types.ErrDefinitionNotFound
	}
	return d, nil
}

// Definitions returns all definitions in insertion order.
func (s *Store) Definitions() []types.ItemDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.ItemDefinition, 0, len(s.state.DefinitionOrder))
	for _, id := range s.state.DefinitionOrder {
		out = append(out, s.state.ItemDefinitions[id])
	}
	return out
}

// Item returns one item instance.
func (s *Store) Item(itemID string) (types.ItemInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.state.ItemInstances[itemID]
	if !ok {
		return types.ItemInstance{}, types.ErrItemNotFound
	}
	return it, nil
}

// Items returns all instances in insertion order.
func (s *Store) Items() []types.ItemInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.ItemInstance, 0, len(s.state.ItemOrder))
	for _, id := range s.state.ItemOrder {
		out = append(out, s.state.ItemInstances[id])
	}
	return out
}
