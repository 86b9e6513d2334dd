// Package types defines the entity types, persisted state, backend interface
// and standard errors for the Storage Quest inventory system.
//
// Item definitions are templates, item instances are the placeable objects,
// and storage units are fixed-size grids of optional item instance ids. Where
// an instance sits is never stored on the instance itself; it is derived from
// the grids (see ItemLocation).
package types
