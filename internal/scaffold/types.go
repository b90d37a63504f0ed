// Package scaffold renders the files generated for an authentication guard.
package scaffold

import "fmt"

// Identifiers holds every name derived from one raw guard name, shown
// here for "Super Admin".
type Identifiers struct {
	LowerKey        string // guard key: "super_admin"
	TableNameSnake  string // snake_case: "super_admin"
	TableNamePlural string // table name: "super_admins"
	StudlyClass     string // model class: "SuperAdmin"
	ProviderKey     string // auth provider key: "super_admins"
	MiddlewareClass string // "SuperAdminAuthMiddleware"
	ControllerClass string // "SuperAdminAuthController"
	AliasKey        string // route middleware alias: "super_admin.auth"
}

// Namespaces holds the PHP namespaces generated classes live in.
type Namespaces struct {
	Models      string `yaml:"models" validate:"required"`
	Middleware  string `yaml:"middleware" validate:"required"`
	Controllers string `yaml:"controllers" validate:"required"`
}

// DefaultNamespaces returns the framework's stock namespaces.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		Models:      `App\Models`,
		Middleware:  `App\Http\Middleware`,
		Controllers: `App\Http\Controllers`,
	}
}

// ModelClass returns the fully-qualified model class reference.
func (n Namespaces) ModelClass(ids Identifiers) string {
	return n.Models + `\` + ids.StudlyClass
}

// MiddlewareClass returns the fully-qualified middleware class reference.
func (n Namespaces) MiddlewareClass(ids Identifiers) string {
	return n.Middleware + `\` + ids.MiddlewareClass
}

// Kind identifies one of the generated file types.
type Kind int

const (
	KindModel Kind = iota
	KindMigration
	KindMiddleware
	KindController
)

// Kinds lists every generated file type in generation order.
var Kinds = []Kind{KindModel, KindMigration, KindMiddleware, KindController}

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindMigration:
		return "migration"
	case KindMiddleware:
		return "middleware"
	case KindController:
		return "controller"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// GeneratedFile represents a file to be written.
type GeneratedFile struct {
	Kind    Kind
	Path    string // File path relative to project root
	Content string // File content
}

// GeneratorResult contains the result of a scaffold operation.
type GeneratorResult struct {
	Files     []GeneratedFile
	NextSteps []string
}
