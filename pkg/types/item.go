package types

import "time"

// ItemInstance is one concrete, placeable object referencing a definition.
// DefID is a caller contract: the store does not check that it exists.
type ItemInstance struct {
	ID        string    `json:"id"`
	DefID     string    `json:"defId"`
	Label     string    `json:"label,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
