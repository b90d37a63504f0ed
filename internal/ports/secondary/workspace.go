// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

import (
	"context"
	"os"
)

// ProjectFS defines the secondary port for reading and writing files in the
// host project. Paths are relative to the project root.
type ProjectFS interface {
	// Root returns the absolute project root.
	Root() string

	// ReadFile returns a file's content. Missing files yield an error
	// matching os.ErrNotExist.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces a file's content, creating parent directories.
	WriteFile(ctx context.Context, path string, content []byte, mode os.FileMode) error

	// MkdirAll creates a directory with all parent directories.
	MkdirAll(ctx context.Context, path string) error

	// FileExists reports whether a regular file exists at path.
	FileExists(ctx context.Context, path string) (bool, error)

	// DirectoryExists reports whether a directory exists at path.
	DirectoryExists(ctx context.Context, path string) (bool, error)

	// ListDir returns the file names in a directory, sorted. A missing
	// directory yields no names and no error.
	ListDir(ctx context.Context, path string) ([]string, error)
}
