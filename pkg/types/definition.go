package types

// DefaultEmoji is used when a definition is created without a glyph.
const DefaultEmoji = "🎮"

// ItemDefinition is a reusable template describing a category of object.
// Many item instances may reference one definition.
type ItemDefinition struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color,omitempty"`
}
