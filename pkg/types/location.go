package types

import "fmt"

// Location kinds.
const (
	LocationInventory = "inventory"
	LocationSlot      = "slot"
)

// ItemLocation is the derived placement of an item instance: either the
// inventory pool or one cell of one unit. It is computed from the grids on
// demand and never stored.
type ItemLocation struct {
	Kind   string `json:"type"`
	UnitID string `json:"unitId,omitempty"`
	Row    int    `json:"r"`
	Col    int    `json:"c"`
}

// InInventory returns the location of an unplaced item.
func InInventory() ItemLocation {
	return ItemLocation{Kind: LocationInventory}
}

// InSlot returns the location of an item placed at (row, col) of unitID.
func InSlot(unitID string, row, col int) ItemLocation {
	return ItemLocation{Kind: LocationSlot, UnitID: unitID, Row: row, Col: col}
}

// Placed reports whether the location is a grid cell.
func (l ItemLocation) Placed() bool {
	return l.Kind == LocationSlot
}

func (l ItemLocation) String() string {
	if !l.Placed() {
		return LocationInventory
	}
	return fmt.Sprintf("slot %s (%d,%d)", l.UnitID, l.Row, l.Col)
}
