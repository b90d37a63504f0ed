// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/guardgen/internal/ports/secondary"
)

// ProjectAdapter implements secondary.ProjectFS on the real filesystem.
type ProjectAdapter struct {
	root string
}

// NewProjectAdapter creates a new filesystem project adapter.
// If root is empty, the current working directory is used.
func NewProjectAdapter(root string) (*ProjectAdapter, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	return &ProjectAdapter{root: abs}, nil
}

// Root returns the absolute project root.
func (a *ProjectAdapter) Root() string {
	return a.root
}

// resolve joins a project-relative path onto the root and refuses paths
// that would escape it.
func (a *ProjectAdapter) resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("path %s must be relative to the project root", path)
	}
	full := filepath.Join(a.root, path)
	rel, err := filepath.Rel(a.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside the project root", path)
	}
	return full, nil
}

// ReadFile returns a file's content.
func (a *ProjectAdapter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	full, err := a.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// WriteFile replaces a file's content. The content is written to a
// temporary file in the same directory and renamed into place, so readers
// never observe a half-written file.
func (a *ProjectAdapter) WriteFile(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	full, err := a.resolve(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, full); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// MkdirAll creates a directory with all parent directories.
func (a *ProjectAdapter) MkdirAll(ctx context.Context, path string) error {
	full, err := a.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// FileExists checks if a regular file exists.
func (a *ProjectAdapter) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := a.stat(path)
	if err != nil || info == nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirectoryExists checks if a directory exists.
func (a *ProjectAdapter) DirectoryExists(ctx context.Context, path string) (bool, error) {
	info, err := a.stat(path)
	if err != nil || info == nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (a *ProjectAdapter) stat(path string) (os.FileInfo, error) {
	full, err := a.resolve(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info, nil
}

// ListDir returns the file names in a directory, sorted.
func (a *ProjectAdapter) ListDir(ctx context.Context, path string) ([]string, error) {
	full, err := a.resolve(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Ensure ProjectAdapter implements the interface
var _ secondary.ProjectFS = (*ProjectAdapter)(nil)
