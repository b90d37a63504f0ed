// Package config loads the per-project guardgen configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/example/guardgen/internal/core/guard"
	"github.com/example/guardgen/internal/scaffold"
)

// Dir is the project-relative directory holding guardgen state.
const Dir = ".guardgen"

// FileName is the config file inside Dir.
const FileName = "config.yaml"

// Paths holds the project layout, relative to the project root.
type Paths struct {
	App       string `yaml:"app" validate:"required,relpath"`
	Config    string `yaml:"config" validate:"required,relpath"`
	Database  string `yaml:"database" validate:"required,relpath"`
	Bootstrap string `yaml:"bootstrap" validate:"required,relpath"`
	Vendor    string `yaml:"vendor" validate:"required,relpath"`
}

// Config represents .guardgen/config.yaml
type Config struct {
	Paths            Paths               `yaml:"paths"`
	Namespaces       scaffold.Namespaces `yaml:"namespaces"`
	FrameworkVersion string              `yaml:"framework_version,omitempty"` // skips detection when set
	Ledger           bool                `yaml:"ledger"`
	LedgerPath       string              `yaml:"ledger_path" validate:"required_if=Ledger true"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Paths: Paths{
			App:       "app",
			Config:    "config",
			Database:  "database",
			Bootstrap: "bootstrap",
			Vendor:    "vendor",
		},
		Namespaces: scaffold.DefaultNamespaces(),
		Ledger:     true,
		LedgerPath: filepath.Join(Dir, "ledger.db"),
	}
}

// Path returns the config file location for a project root.
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// Load reads the config from the project root. A missing file yields the
// defaults; fields absent from the file keep their default values.
func Load(root string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(root))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to the project root.
func Save(root string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(root, Dir), 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", Dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(root), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Exists reports whether the project already has a config file.
func Exists(root string) bool {
	_, err := os.Stat(Path(root))
	return err == nil
}

// Validate checks the config against its field rules.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Layout converts the configured paths into a planner layout.
func (c *Config) Layout() guard.Layout {
	l := guard.DefaultLayout()
	l.AppDir = c.Paths.App
	l.DatabaseDir = c.Paths.Database
	l.ConfigDir = c.Paths.Config
	l.BootstrapDir = c.Paths.Bootstrap
	return l
}

// ResolveLedgerPath returns the ledger location, absolute paths kept as-is.
func (c *Config) ResolveLedgerPath(root string) string {
	if filepath.IsAbs(c.LedgerPath) {
		return c.LedgerPath
	}
	return filepath.Join(root, c.LedgerPath)
}

func newValidator() *validator.Validate {
	v := validator.New()
	// relpath: a path inside the project root
	_ = v.RegisterValidation("relpath", func(fl validator.FieldLevel) bool {
		p := fl.Field().String()
		if filepath.IsAbs(p) {
			return false
		}
		clean := filepath.Clean(p)
		return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
	})
	return v
}
