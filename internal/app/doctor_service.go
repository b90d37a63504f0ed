package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/example/guardgen/internal/core/guard"
	"github.com/example/guardgen/internal/core/patch"
	"github.com/example/guardgen/internal/ports/primary"
	"github.com/example/guardgen/internal/ports/secondary"
	"github.com/example/guardgen/internal/scaffold"
)

// probeGuard is the name used to test-register middleware without writing.
const probeGuard = "guardgen probe"

// DoctorServiceImpl implements the DoctorService interface.
type DoctorServiceImpl struct {
	fs  secondary.ProjectFS
	cfg GuardServiceConfig
}

// NewDoctorService creates a new DoctorService with injected dependencies.
func NewDoctorService(fs secondary.ProjectFS, cfg GuardServiceConfig) *DoctorServiceImpl {
	return &DoctorServiceImpl{fs: fs, cfg: cfg}
}

// Check inspects the project and reports one result per check. Nothing is
// written; documents are patched in memory only.
func (s *DoctorServiceImpl) Check(ctx context.Context, req primary.DoctorRequest) ([]*primary.CheckResult, error) {
	results := []*primary.CheckResult{
		s.checkComposer(ctx),
	}

	detector := frameworkDetector{
		fs:        s.fs,
		vendorDir: s.cfg.VendorDir,
		configVer: s.cfg.FrameworkVersion,
		layout:    s.cfg.Layout,
	}
	fw, dialect, err := detector.detect(ctx, req.FrameworkVersion)
	if err != nil {
		results = append(results, &primary.CheckResult{
			Name:    "Framework",
			Status:  primary.CheckFail,
			Details: "  " + err.Error() + "\n  Pass --framework-version or set framework_version in the config",
		})
	} else {
		results = append(results, &primary.CheckResult{Name: "Framework", Status: primary.CheckOK,
			Details: fmt.Sprintf("  %s from %s (%s dialect)", fw.Version, fw.Source, fw.Dialect)})
	}

	results = append(results, s.checkAuthConfig(ctx))

	if dialect != nil {
		results = append(results, s.checkRegistration(ctx, dialect))
	} else {
		results = append(results, &primary.CheckResult{
			Name:    "Middleware",
			Status:  primary.CheckWarn,
			Details: "  Skipped: framework version unknown",
		})
	}

	results = append(results, s.checkMigrations(ctx))

	return results, nil
}

func (s *DoctorServiceImpl) checkComposer(ctx context.Context) *primary.CheckResult {
	ok, err := s.fs.FileExists(ctx, "composer.json")
	if err != nil {
		return &primary.CheckResult{Name: "Project", Status: primary.CheckFail, Details: "  " + err.Error()}
	}
	if !ok {
		return &primary.CheckResult{
			Name:    "Project",
			Status:  primary.CheckWarn,
			Details: "  composer.json not found in " + s.fs.Root(),
		}
	}
	return &primary.CheckResult{Name: "Project", Status: primary.CheckOK}
}

func (s *DoctorServiceImpl) checkAuthConfig(ctx context.Context) *primary.CheckResult {
	const name = "Auth config"
	path := s.cfg.Layout.AuthConfigPath()

	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return &primary.CheckResult{Name: name, Status: primary.CheckFail, Details: "  " + readFailure(path, err)}
	}

	doc, err := patch.Parse(string(data))
	if err != nil {
		return &primary.CheckResult{Name: name, Status: primary.CheckFail, Details: fmt.Sprintf("  %s: %v", path, err)}
	}

	var missing []string
	for _, region := range []string{"guards", "providers"} {
		if _, err := doc.Region(patch.Key(region)); err != nil {
			missing = append(missing, "  "+err.Error())
		}
	}
	if len(missing) > 0 {
		return &primary.CheckResult{
			Name:    name,
			Status:  primary.CheckWarn,
			Details: fmt.Sprintf("  %s:\n%s", path, strings.Join(missing, "\n")),
		}
	}
	return &primary.CheckResult{Name: name, Status: primary.CheckOK}
}

func (s *DoctorServiceImpl) checkRegistration(ctx context.Context, dialect patch.Dialect) *primary.CheckResult {
	const name = "Middleware"
	path := s.cfg.Layout.RegistrationPath(dialect.Kind())

	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return &primary.CheckResult{Name: name, Status: primary.CheckFail, Details: "  " + readFailure(path, err)}
	}

	ids, err := scaffold.Derive(probeGuard)
	if err != nil {
		return &primary.CheckResult{Name: name, Status: primary.CheckFail, Details: "  " + err.Error()}
	}
	_, err = dialect.RegisterAlias(string(data), guard.AliasEntry(ids, s.cfg.Namespaces))
	switch {
	case err == nil:
		return &primary.CheckResult{Name: name, Status: primary.CheckOK}
	case errors.Is(err, patch.ErrNotApplicable):
		return &primary.CheckResult{Name: name, Status: primary.CheckWarn, Details: fmt.Sprintf("  %s: %v", path, err)}
	default:
		return &primary.CheckResult{Name: name, Status: primary.CheckFail, Details: fmt.Sprintf("  %s: %v", path, err)}
	}
}

func (s *DoctorServiceImpl) checkMigrations(ctx context.Context) *primary.CheckResult {
	dir := s.cfg.Layout.MigrationsDir()
	ok, err := s.fs.DirectoryExists(ctx, dir)
	if err != nil {
		return &primary.CheckResult{Name: "Migrations", Status: primary.CheckFail, Details: "  " + err.Error()}
	}
	if !ok {
		return &primary.CheckResult{
			Name:    "Migrations",
			Status:  primary.CheckWarn,
			Details: fmt.Sprintf("  %s not found (it will be created)", dir),
		}
	}
	return &primary.CheckResult{Name: "Migrations", Status: primary.CheckOK}
}

func readFailure(path string, err error) string {
	if errors.Is(err, os.ErrNotExist) {
		return path + " not found"
	}
	return fmt.Sprintf("%s: %v", path, err)
}

// Ensure DoctorServiceImpl implements the interface.
var _ primary.DoctorService = (*DoctorServiceImpl)(nil)
