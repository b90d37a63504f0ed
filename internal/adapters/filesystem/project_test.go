package filesystem_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/guardgen/internal/adapters/filesystem"
)

func newAdapter(t *testing.T) (*filesystem.ProjectAdapter, string) {
	t.Helper()
	root := t.TempDir()
	adapter, err := filesystem.NewProjectAdapter(root)
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}
	return adapter, root
}

func TestProjectAdapter_WriteCreatesParents(t *testing.T) {
	adapter, root := newAdapter(t)
	ctx := context.Background()
	path := filepath.Join("app", "Http", "Controllers", "admin", "AdminAuthController.php")

	if err := adapter.WriteFile(ctx, path, []byte("<?php\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if string(data) != "<?php\n" {
		t.Errorf("content = %q", data)
	}

	// Overwrite replaces the content and leaves no temp files behind.
	if err := adapter.WriteFile(ctx, path, []byte("<?php // v2\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	names, err := adapter.ListDir(ctx, filepath.Dir(path))
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if len(names) != 1 || names[0] != "AdminAuthController.php" {
		t.Errorf("ListDir = %v", names)
	}
	got, err := adapter.ReadFile(ctx, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "<?php // v2\n" {
		t.Errorf("content = %q", got)
	}
}

func TestProjectAdapter_ReadMissing(t *testing.T) {
	adapter, _ := newAdapter(t)

	_, err := adapter.ReadFile(context.Background(), filepath.Join("config", "auth.php"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestProjectAdapter_RejectsEscapingPaths(t *testing.T) {
	adapter, _ := newAdapter(t)
	ctx := context.Background()

	for _, path := range []string{"../outside.php", "/etc/passwd", filepath.Join("app", "..", "..", "x")} {
		if err := adapter.WriteFile(ctx, path, []byte("x"), 0644); err == nil {
			t.Errorf("WriteFile(%q) should fail", path)
		}
	}
}

func TestProjectAdapter_ExistenceChecks(t *testing.T) {
	adapter, root := newAdapter(t)
	ctx := context.Background()

	if err := os.MkdirAll(filepath.Join(root, "config"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "config", "auth.php"), []byte("<?php"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		check func(context.Context, string) (bool, error)
		path  string
		want  bool
	}{
		{"file exists", adapter.FileExists, filepath.Join("config", "auth.php"), true},
		{"dir is not a file", adapter.FileExists, "config", false},
		{"missing file", adapter.FileExists, filepath.Join("config", "app.php"), false},
		{"dir exists", adapter.DirectoryExists, "config", true},
		{"file is not a dir", adapter.DirectoryExists, filepath.Join("config", "auth.php"), false},
		{"missing dir", adapter.DirectoryExists, "bootstrap", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check(ctx, tt.path)
			if err != nil {
				t.Fatalf("check failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectAdapter_ListMissingDir(t *testing.T) {
	adapter, _ := newAdapter(t)

	names, err := adapter.ListDir(context.Background(), filepath.Join("database", "migrations"))
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no names, got %v", names)
	}
}

func TestOverlay_KeepsWritesInMemory(t *testing.T) {
	adapter, root := newAdapter(t)
	ctx := context.Background()
	authPath := filepath.Join("config", "auth.php")

	if err := adapter.WriteFile(ctx, authPath, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	overlay := filesystem.NewOverlay(adapter)
	if overlay.Root() != adapter.Root() {
		t.Errorf("Root() = %s, want %s", overlay.Root(), adapter.Root())
	}

	if err := overlay.WriteFile(ctx, authPath, []byte("patched"), 0644); err != nil {
		t.Fatal(err)
	}
	migration := filepath.Join("database", "migrations", "2026_01_01_000000_create_admins_table.php")
	if err := overlay.WriteFile(ctx, migration, []byte("<?php"), 0644); err != nil {
		t.Fatal(err)
	}

	// Reads through the overlay see the new content.
	got, err := overlay.ReadFile(ctx, authPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "patched" {
		t.Errorf("overlay read = %q, want patched", got)
	}

	// Disk is untouched.
	onDisk, err := os.ReadFile(filepath.Join(root, authPath))
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != "original" {
		t.Errorf("disk content = %q, want original", onDisk)
	}
	if _, err := os.Stat(filepath.Join(root, migration)); !os.IsNotExist(err) {
		t.Errorf("migration should not exist on disk, stat err = %v", err)
	}

	exists, err := overlay.FileExists(ctx, migration)
	if err != nil || !exists {
		t.Errorf("FileExists(migration) = %v, %v", exists, err)
	}
	dirExists, err := overlay.DirectoryExists(ctx, filepath.Join("database", "migrations"))
	if err != nil || !dirExists {
		t.Errorf("DirectoryExists(migrations) = %v, %v", dirExists, err)
	}

	names, err := overlay.ListDir(ctx, filepath.Join("database", "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != filepath.Base(migration) {
		t.Errorf("ListDir = %v", names)
	}

	controllers := filepath.Join("app", "Http", "Controllers", "admin")
	if err := overlay.MkdirAll(ctx, controllers); err != nil {
		t.Fatal(err)
	}
	dirExists, err = overlay.DirectoryExists(ctx, controllers)
	if err != nil || !dirExists {
		t.Errorf("DirectoryExists(controllers) = %v, %v", dirExists, err)
	}
	if _, err := os.Stat(filepath.Join(root, controllers)); !os.IsNotExist(err) {
		t.Errorf("controller dir should not exist on disk, stat err = %v", err)
	}
}

func TestProjectAdapter_MkdirAll(t *testing.T) {
	adapter, root := newAdapter(t)
	ctx := context.Background()
	dir := filepath.Join("app", "Http", "Controllers", "admin")

	if err := adapter.MkdirAll(ctx, dir); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, dir))
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	if err := adapter.MkdirAll(ctx, dir); err != nil {
		t.Errorf("MkdirAll on an existing dir failed: %v", err)
	}
	if err := adapter.MkdirAll(ctx, filepath.Join("..", "outside")); err == nil {
		t.Error("MkdirAll outside the root should fail")
	}
}
