// Package storagequest holds build metadata for Storage Quest.
package storagequest

// Version is the release version. Overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/storagequest/pkg/storagequest.Version=...".
var Version = "0.1.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/storagequest"
