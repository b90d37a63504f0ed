package scaffold

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	scaffoldtmpl "github.com/example/guardgen/internal/templates/scaffold"
)

// MigrationTimeFormat is the timestamp prefix of migration file names.
const MigrationTimeFormat = "2006_01_02_150405"

// Layout holds the project directories generated files are written to,
// relative to the project root.
type Layout struct {
	AppDir      string
	DatabaseDir string
}

// DefaultLayout returns the framework's stock directories.
func DefaultLayout() Layout {
	return Layout{AppDir: "app", DatabaseDir: "database"}
}

// ModelPath returns the path of the guard's model class.
func (l Layout) ModelPath(ids Identifiers) string {
	return filepath.Join(l.AppDir, "Models", ids.StudlyClass+".php")
}

// MigrationsDir returns the directory migrations are written to.
func (l Layout) MigrationsDir() string {
	return filepath.Join(l.DatabaseDir, "migrations")
}

// MigrationPath returns the path of a new migration created at ts.
func (l Layout) MigrationPath(ids Identifiers, ts time.Time) string {
	return filepath.Join(l.MigrationsDir(), ts.Format(MigrationTimeFormat)+"_"+MigrationSuffix(ids))
}

// MigrationSuffix is the timestamp-less part of the guard's migration name.
func MigrationSuffix(ids Identifiers) string {
	return "create_" + ids.TableNamePlural + "_table.php"
}

// MiddlewarePath returns the path of the guard's middleware class.
func (l Layout) MiddlewarePath(ids Identifiers) string {
	return filepath.Join(l.AppDir, "Http", "Middleware", ids.MiddlewareClass+".php")
}

// ControllerPath returns the path of the guard's controller. Controllers
// are grouped in a directory named after the guard key.
func (l Layout) ControllerPath(ids Identifiers) string {
	return filepath.Join(l.AppDir, "Http", "Controllers", ids.LowerKey, ids.ControllerClass+".php")
}

// GuardOptions controls per-guard generation.
type GuardOptions struct {
	Timestamp time.Time
	// MigrationPath overwrites an existing migration instead of creating a
	// new timestamped one.
	MigrationPath string
}

// Generator generates code from templates.
type Generator struct {
	layout     Layout
	namespaces Namespaces
}

// NewGenerator creates a new Generator.
func NewGenerator(layout Layout, namespaces Namespaces) *Generator {
	return &Generator{
		layout:     layout,
		namespaces: namespaces,
	}
}

// Layout returns the directories the generator writes to.
func (g *Generator) Layout() Layout { return g.layout }

// Namespaces returns the namespaces generated classes are placed in.
func (g *Generator) Namespaces() Namespaces { return g.namespaces }

// GenerateGuard renders all files for a guard.
func (g *Generator) GenerateGuard(ids Identifiers, opts GuardOptions) (*GeneratorResult, error) {
	result := &GeneratorResult{}

	migrationPath := opts.MigrationPath
	if migrationPath == "" {
		migrationPath = g.layout.MigrationPath(ids, opts.Timestamp)
	}

	paths := map[Kind]string{
		KindModel:      g.layout.ModelPath(ids),
		KindMigration:  migrationPath,
		KindMiddleware: g.layout.MiddlewarePath(ids),
		KindController: g.layout.ControllerPath(ids),
	}

	for _, kind := range Kinds {
		content, err := g.Render(kind, ids)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, GeneratedFile{
			Kind:    kind,
			Path:    paths[kind],
			Content: content,
		})
	}

	result.NextSteps = []string{
		"Run 'php artisan migrate' to create the " + ids.TableNamePlural + " table",
		fmt.Sprintf("Define the '%s.login' and '%s.dashboard' routes", ids.LowerKey, ids.LowerKey),
	}

	return result, nil
}

// Render renders one file kind for a guard.
func (g *Generator) Render(kind Kind, ids Identifiers) (string, error) {
	name := kind.String() + ".php"
	tmplContent, err := scaffoldtmpl.GetGuardTemplate(name)
	if err != nil {
		return "", fmt.Errorf("failed to load %s template: %w", kind, err)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", kind, err)
	}

	data := struct {
		Identifiers
		Namespaces Namespaces
	}{
		Identifiers: ids,
		Namespaces:  g.namespaces,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", kind, err)
	}

	return strings.TrimLeft(buf.String(), "\n"), nil
}
