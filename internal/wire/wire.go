// Package wire provides dependency injection for the guardgen application.
// It creates singleton services with lazy initialization.
package wire

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	cliadapter "github.com/example/guardgen/internal/adapters/cli"
	"github.com/example/guardgen/internal/adapters/filesystem"
	"github.com/example/guardgen/internal/adapters/sqlite"
	"github.com/example/guardgen/internal/app"
	"github.com/example/guardgen/internal/config"
	"github.com/example/guardgen/internal/db"
	"github.com/example/guardgen/internal/ports/primary"
	"github.com/example/guardgen/internal/ports/secondary"
)

// Options controls how services are built. Set them with Configure before
// the first accessor call.
type Options struct {
	ProjectRoot string    // empty means the working directory
	Verbose     bool      // log at debug level
	NoLedger    bool      // never open the ledger, e.g. for dry runs
	LogOutput   io.Writer // defaults to stderr
}

var (
	opts Options

	guardService   primary.GuardService
	historyService primary.HistoryService
	doctorService  primary.DoctorService
	projectRoot    string
	initErr        error
	once           sync.Once
)

// Configure sets the options used to build the services.
func Configure(o Options) {
	opts = o
}

// Reset closes the ledger and forgets every singleton so the next accessor
// rebuilds them. Used between in-process command runs.
func Reset() error {
	err := db.Close()
	db.SetPath("")
	guardService, historyService, doctorService = nil, nil, nil
	projectRoot, initErr = "", nil
	once = sync.Once{}
	return err
}

// Close releases the ledger connection.
func Close() error {
	return db.Close()
}

// ProjectRoot returns the absolute project root the services operate on.
func ProjectRoot() (string, error) {
	once.Do(initServices)
	return projectRoot, initErr
}

// GuardService returns the singleton GuardService instance.
func GuardService() (primary.GuardService, error) {
	once.Do(initServices)
	return guardService, initErr
}

// HistoryService returns the singleton HistoryService instance.
func HistoryService() (primary.HistoryService, error) {
	once.Do(initServices)
	if initErr != nil {
		return nil, initErr
	}
	if historyService == nil {
		return nil, fmt.Errorf("the run ledger is disabled (set ledger: true in %s)", config.Path("."))
	}
	return historyService, nil
}

// DoctorService returns the singleton DoctorService instance.
func DoctorService() (primary.DoctorService, error) {
	once.Do(initServices)
	return doctorService, initErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	project, err := filesystem.NewProjectAdapter(opts.ProjectRoot)
	if err != nil {
		initErr = err
		return
	}
	projectRoot = project.Root()

	cfg, err := config.Load(projectRoot)
	if err != nil {
		initErr = err
		return
	}

	logger := newLogger()

	// Create repository adapters (secondary ports) - sqlite ledger with injected DB
	var ledger secondary.LedgerRepository
	if cfg.Ledger && !opts.NoLedger {
		db.SetPath(cfg.ResolveLedgerPath(projectRoot))
		database, err := db.GetDB()
		if err != nil {
			initErr = fmt.Errorf("failed to open ledger: %w", err)
			return
		}
		ledger = sqlite.NewLedgerRepository(database)
	}

	overlay := func(base secondary.ProjectFS) secondary.ProjectFS {
		return filesystem.NewOverlay(base)
	}
	svcCfg := app.GuardServiceConfig{
		Layout:           cfg.Layout(),
		Namespaces:       cfg.Namespaces,
		VendorDir:        cfg.Paths.Vendor,
		FrameworkVersion: cfg.FrameworkVersion,
	}

	// Create services (primary ports implementation)
	guardService = app.NewGuardService(project, ledger, overlay, svcCfg, logger)
	doctorService = app.NewDoctorService(project, svcCfg)
	if ledger != nil {
		historyService = app.NewHistoryService(ledger)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if opts.LogOutput != nil {
		logger.SetOutput(opts.LogOutput)
	}
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.ErrorLevel)
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// GuardAdapterWithOutput returns a new GuardAdapter writing to the given output.
// Each call creates a new adapter (adapters are stateless translators).
func GuardAdapterWithOutput(out io.Writer) (*cliadapter.GuardAdapter, error) {
	svc, err := GuardService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewGuardAdapter(svc, out), nil
}

// HistoryAdapterWithOutput returns a new HistoryAdapter writing to the given output.
func HistoryAdapterWithOutput(out io.Writer) (*cliadapter.HistoryAdapter, error) {
	svc, err := HistoryService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewHistoryAdapter(svc, out), nil
}

// DoctorAdapterWithOutput returns a new DoctorAdapter writing to the given output.
func DoctorAdapterWithOutput(out io.Writer) (*cliadapter.DoctorAdapter, error) {
	svc, err := DoctorService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewDoctorAdapter(svc, out), nil
}
