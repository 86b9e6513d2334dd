package inventory

import (
	"errors"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// seedDefinition describes a definition created on first startup.
type seedDefinition struct {
	key   string
	name  string
	emoji string
}

// seedUnit describes a unit created on first startup.
type seedUnit struct {
	key        string
	name       string
	rows, cols int
}

// seedItem describes an instance created on first startup and the cell it
// is placed in.
type seedItem struct {
	def      string
	label    string
	unit     string
	row, col int
}

var errAlreadySeeded = errors.New("store already populated")

var seedDefinitions = []seedDefinition{
	{"console", "Console", "🎮"},
	{"book", "Book", "📚"},
	{"hardware", "Hardware", "🧰"},
	{"camera", "Camera", "📷"},
	{"game", "Game", "🕹️"},
}

var seedUnits = []seedUnit{
	{"shelf", "Shelf A", 3, 6},
	{"bin", "Bin B", 2, 4},
}

var seedItems = []seedItem{
	{"console", "SNES", "shelf", 0, 0},
	{"console", "N64", "shelf", 0, 1},
	{"console", "GameCube", "shelf", 0, 2},
	{"console", "PS2", "shelf", 1, 0},
	{"book", "Clean Code", "shelf", 2, 0},
	{"hardware", "Raspberry Pi 4", "bin", 0, 0},
}

// Seed populates the starter dataset when the store holds no units and no
// item instances, and reports whether it ran. The whole dataset is applied
// as one mutation. Seeding is idempotent: a store that already has units or
// instances is left alone.
func Seed(s *Store) (bool, error) {
	seeded := false
	err := s.mutate("seed", func(st *types.State) error {
		if !st.Empty() {
			return errAlreadySeeded
		}

		defIDs := make(map[string]string, len(seedDefinitions))
		for _, d := range seedDefinitions {
			id := s.newID()
			defIDs[d.key] = id
			st.ItemDefinitions[id] = types.ItemDefinition{ID: id, Name: d.name, Emoji: d.emoji}
			st.DefinitionOrder = append(st.DefinitionOrder, id)
		}

		unitIDs := make(map[string]string, len(seedUnits))
		for _, u := range seedUnits {
			id := s.newID()
			unitIDs[u.key] = id
			st.Units[id] = types.NewStorageUnit(id, u.name, u.rows, u.cols)
			st.UnitOrder = append(st.UnitOrder, id)
		}

		now := s.now().UTC()
		for _, it := range seedItems {
			id := s.newID()
			st.ItemInstances[id] = types.ItemInstance{
				ID:        id,
				DefID:     defIDs[it.def],
				Label:     it.label,
				CreatedAt: now,
			}
			st.ItemOrder = append(st.ItemOrder, id)
			st.Units[unitIDs[it.unit]].Slots[it.row][it.col] = id
		}

		seeded = true
		return nil
	})
	if errors.Is(err, errAlreadySeeded) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.WithField("units", len(seedUnits)).WithField("items", len(seedItems)).Info("seeded starter inventory")
	return seeded, nil
}
