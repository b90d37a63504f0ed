package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/example/guardgen/internal/core/guard"
	"github.com/example/guardgen/internal/core/patch"
	"github.com/example/guardgen/internal/ports/primary"
	"github.com/example/guardgen/internal/ports/secondary"
)

// Version sources, in resolution order.
const (
	SourceFlag     = "flag"
	SourceConfig   = "config"
	SourceVendor   = "vendor"
	SourceComposer = "composer.lock"
)

// frameworkPackage is the composer package that carries the version.
const frameworkPackage = "laravel/framework"

var versionConst = regexp.MustCompile(`const\s+VERSION\s*=\s*['"]([^'"]+)['"]`)

// applicationPath is where the installed framework declares its version.
func applicationPath(vendorDir string) string {
	return filepath.Join(vendorDir, "laravel", "framework", "src", "Illuminate", "Foundation", "Application.php")
}

type composerLock struct {
	Packages []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"packages"`
}

// frameworkDetector resolves the host framework version.
type frameworkDetector struct {
	fs        secondary.ProjectFS
	vendorDir string
	configVer string
	layout    guard.Layout
}

// detect resolves the version (override > config > vendor > composer.lock)
// and selects the dialect for it.
func (d frameworkDetector) detect(ctx context.Context, override string) (*primary.Framework, patch.Dialect, error) {
	version, source, err := d.resolveVersion(ctx, override)
	if err != nil {
		return nil, nil, err
	}

	dialect, err := patch.SelectDialect(version)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", source, err)
	}

	return &primary.Framework{
		Version:          version,
		Source:           source,
		Dialect:          dialect.Kind().String(),
		RegistrationPath: d.layout.RegistrationPath(dialect.Kind()),
	}, dialect, nil
}

func (d frameworkDetector) resolveVersion(ctx context.Context, override string) (string, string, error) {
	if v := strings.TrimSpace(override); v != "" {
		return v, SourceFlag, nil
	}
	if v := strings.TrimSpace(d.configVer); v != "" {
		return v, SourceConfig, nil
	}

	appPath := applicationPath(d.vendorDir)
	data, err := d.fs.ReadFile(ctx, appPath)
	switch {
	case err == nil:
		if m := versionConst.FindSubmatch(data); m != nil {
			return string(m[1]), SourceVendor, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", "", fmt.Errorf("read %s: %w", appPath, err)
	}

	data, err = d.fs.ReadFile(ctx, "composer.lock")
	switch {
	case err == nil:
		var lock composerLock
		if err := json.Unmarshal(data, &lock); err != nil {
			return "", "", fmt.Errorf("parse composer.lock: %w", err)
		}
		for _, pkg := range lock.Packages {
			if pkg.Name == frameworkPackage {
				return pkg.Version, SourceComposer, nil
			}
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", "", fmt.Errorf("read composer.lock: %w", err)
	}

	return "", "", fmt.Errorf("could not detect the framework version from %s or composer.lock: %w",
		appPath, &patch.DialectMismatchError{})
}
