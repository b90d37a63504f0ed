package guard

import (
	"path/filepath"

	"github.com/example/guardgen/internal/core/patch"
	"github.com/example/guardgen/internal/scaffold"
)

// Layout locates every file the planner reads or writes, relative to the
// project root.
type Layout struct {
	scaffold.Layout
	ConfigDir    string
	BootstrapDir string
}

// DefaultLayout returns the framework's stock project layout.
func DefaultLayout() Layout {
	return Layout{
		Layout:       scaffold.DefaultLayout(),
		ConfigDir:    "config",
		BootstrapDir: "bootstrap",
	}
}

// AuthConfigPath returns the path of the auth configuration document.
func (l Layout) AuthConfigPath() string {
	return filepath.Join(l.ConfigDir, "auth.php")
}

// RegistrationPath returns the document a dialect registers middleware in.
func (l Layout) RegistrationPath(kind patch.DialectKind) string {
	if kind == patch.DialectBootstrap {
		return filepath.Join(l.BootstrapDir, "app.php")
	}
	return filepath.Join(l.AppDir, "Http", "Kernel.php")
}
