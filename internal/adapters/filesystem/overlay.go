package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/example/guardgen/internal/ports/secondary"
)

// Overlay is a secondary.ProjectFS that reads through to a base project
// but keeps every write in memory. Dry runs use it so later guards see the
// edits planned for earlier ones while nothing reaches disk.
type Overlay struct {
	base secondary.ProjectFS

	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewOverlay wraps base.
func NewOverlay(base secondary.ProjectFS) *Overlay {
	return &Overlay{
		base:  base,
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// Root returns the base project root.
func (o *Overlay) Root() string {
	return o.base.Root()
}

// ReadFile returns the overlaid content if the path was written, or the
// base content otherwise.
func (o *Overlay) ReadFile(ctx context.Context, path string) ([]byte, error) {
	o.mu.Lock()
	content, ok := o.files[filepath.Clean(path)]
	o.mu.Unlock()
	if ok {
		return append([]byte(nil), content...), nil
	}
	return o.base.ReadFile(ctx, path)
}

// WriteFile records content in memory.
func (o *Overlay) WriteFile(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	path = filepath.Clean(path)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[path] = append([]byte(nil), content...)
	for dir := filepath.Dir(path); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		o.dirs[dir] = true
	}
	return nil
}

// MkdirAll records the directory in memory.
func (o *Overlay) MkdirAll(ctx context.Context, path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for dir := filepath.Clean(path); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		o.dirs[dir] = true
	}
	return nil
}

// FileExists checks the overlay, then the base.
func (o *Overlay) FileExists(ctx context.Context, path string) (bool, error) {
	o.mu.Lock()
	_, ok := o.files[filepath.Clean(path)]
	o.mu.Unlock()
	if ok {
		return true, nil
	}
	return o.base.FileExists(ctx, path)
}

// DirectoryExists checks the overlay, then the base.
func (o *Overlay) DirectoryExists(ctx context.Context, path string) (bool, error) {
	o.mu.Lock()
	ok := o.dirs[filepath.Clean(path)]
	o.mu.Unlock()
	if ok {
		return true, nil
	}
	return o.base.DirectoryExists(ctx, path)
}

// ListDir merges overlaid files into the base listing.
func (o *Overlay) ListDir(ctx context.Context, path string) ([]string, error) {
	names, err := o.base.ListDir(ctx, path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}

	dir := filepath.Clean(path)
	o.mu.Lock()
	for p := range o.files {
		if filepath.Dir(p) == dir && !seen[filepath.Base(p)] {
			names = append(names, filepath.Base(p))
			seen[filepath.Base(p)] = true
		}
	}
	o.mu.Unlock()

	sort.Strings(names)
	return names, nil
}

// Ensure Overlay implements the interface
var _ secondary.ProjectFS = (*Overlay)(nil)
