package types

import "encoding/json"

// StorageUnit is a named rows x cols grid container. Each cell of Slots holds
// either the empty string or exactly one item instance id.
type StorageUnit struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Rows  int        `json:"rows"`
	Cols  int        `json:"cols"`
	Slots [][]string `json:"slots"`
}

// NewStorageUnit returns a unit with an empty rows x cols grid.
// Callers validate rows and cols; see ValidGeometry.
func NewStorageUnit(id, name string, rows, cols int) StorageUnit {
	return StorageUnit{
		ID:    id,
		Name:  name,
		Rows:  rows,
		Cols:  cols,
		Slots: EmptyGrid(rows, cols),
	}
}

// EmptyGrid allocates a rows x cols grid of empty cells.
func EmptyGrid(rows, cols int) [][]string {
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
	}
	return grid
}

// ValidGeometry reports whether rows and cols describe a usable grid.
func ValidGeometry(rows, cols int) bool {
	return rows >= 1 && cols >= 1
}

// InBounds reports whether (row, col) addresses a cell of the unit.
func (u *StorageUnit) InBounds(row, col int) bool {
	return row >= 0 && row < u.Rows && col >= 0 && col < u.Cols &&
		row < len(u.Slots) && col < len(u.Slots[row])
}

// Cell returns the item id held at (row, col), or "" when the cell is empty
// or out of range.
func (u *StorageUnit) Cell(row, col int) string {
	if !u.InBounds(row, col) {
		return ""
	}
	return u.Slots[row][col]
}

// Occupied returns the number of non-empty cells.
func (u *StorageUnit) Occupied() int {
	n := 0
	for _, row := range u.Slots {
		for _, cell := range row {
			if cell != "" {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the unit, including its grid.
func (u StorageUnit) Clone() StorageUnit {
	out := u
	out.Slots = make([][]string, len(u.Slots))
	for r, row := range u.Slots {
		out.Slots[r] = append([]string(nil), row...)
	}
	return out
}

// MarshalJSON writes empty cells as null.
func (u StorageUnit) MarshalJSON() ([]byte, error) {
	type unit StorageUnit
	slots := make([][]*string, len(u.Slots))
	for r, row := range u.Slots {
		slots[r] = make([]*string, len(row))
		for c := range row {
			if row[c] != "" {
				slots[r][c] = &row[c]
			}
		}
	}
	return json.Marshal(struct {
		unit
		Slots [][]*string `json:"slots"`
	}{unit: unit(u), Slots: slots})
}
