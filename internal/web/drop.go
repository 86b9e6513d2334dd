package web

import (
	"fmt"
	"strconv"
	"strings"
)

// Drop target encodings used by the UI's drag-and-drop layer.
const (
	TargetInventory  = "inventory"
	targetSlotPrefix = "slot:"
)

// DropTarget is a decoded drop destination: the inventory pool or one cell.
type DropTarget struct {
	Inventory bool
	UnitID    string
	Row, Col  int
}

// ParseDropTarget decodes "inventory" or "slot:<unitId>:<row>:<col>". Row
// and col are taken from the right so unit ids may contain colons.
func ParseDropTarget(s string) (DropTarget, error) {
	if s == TargetInventory {
		return DropTarget{Inventory: true}, nil
	}
	rest, ok := strings.CutPrefix(s, targetSlotPrefix)
	if !ok {
		return DropTarget{}, fmt.Errorf("%w: unknown drop target %q", errBadRequest, s)
	}

	i := strings.LastIndexByte(rest, ':')
	if i < 0 {
		return DropTarget{}, fmt.Errorf("%w: malformed slot target %q", errBadRequest, s)
	}
	col, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return DropTarget{}, fmt.Errorf("%w: bad column in %q", errBadRequest, s)
	}
	rest = rest[:i]

	j := strings.LastIndexByte(rest, ':')
	if j <= 0 {
		return DropTarget{}, fmt.Errorf("%w: malformed slot target %q", errBadRequest, s)
	}
	row, err := strconv.Atoi(rest[j+1:])
	if err != nil {
		return DropTarget{}, fmt.Errorf("%w: bad row in %q", errBadRequest, s)
	}

	return DropTarget{UnitID: rest[:j], Row: row, Col: col}, nil
}

// String encodes the target in the UI's format.
func (t DropTarget) String() string {
	if t.Inventory {
		return TargetInventory
	}
	return fmt.Sprintf("%s%s:%d:%d", targetSlotPrefix, t.UnitID, t.Row, t.Col)
}
