// Package effects defines effect types as data structures representing I/O operations.
// Planners return effects; only the executor in the app layer performs them.
package effects

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Log levels understood by the executor.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
)

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect represents a ledger persistence operation.
type PersistEffect struct {
	Entity    string // e.g., "guard_record"
	Operation string // e.g., "create"
	Data      any    // The entity data
}

func (e PersistEffect) EffectType() string { return "persist" }

// File operations.
const (
	FileWrite = "write"
	FileMkdir = "mkdir"
)

// FileEffect represents a file system operation. Paths are relative to
// the project root.
type FileEffect struct {
	Operation string // FileWrite or FileMkdir
	Path      string
	Content   []byte // For write operations
	Mode      uint32 // File permissions
}

func (e FileEffect) EffectType() string { return "file" }
