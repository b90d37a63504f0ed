package app

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

// Ensure mockProjectFS implements the interface
var _ secondary.ProjectFS = (*mockProjectFS)(nil)

// mockProjectFS implements secondary.ProjectFS over an in-memory tree.
type mockProjectFS struct {
	files     map[string]string
	dirs      map[string]bool
	writeErrs map[string]error // path -> error returned by WriteFile
	writes    []string
}

func newMockProjectFS(files map[string]string) *mockProjectFS {
	m := &mockProjectFS{
		files:     make(map[string]string),
		dirs:      make(map[string]bool),
		writeErrs: make(map[string]error),
	}
	for path, content := range files {
		m.put(path, content)
	}
	return m
}

func (m *mockProjectFS) put(path, content string) {
	m.files[path] = content
	for dir := filepath.Dir(path); dir != "." && dir != "/"; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
	}
}

// clone copies the tree; used as the dry-run overlay.
func (m *mockProjectFS) clone() *mockProjectFS {
	c := newMockProjectFS(m.files)
	for dir := range m.dirs {
		c.dirs[dir] = true
	}
	return c
}

func (m *mockProjectFS) Root() string { return "/srv/app" }

func (m *mockProjectFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return []byte(content), nil
}

func (m *mockProjectFS) WriteFile(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := m.writeErrs[path]; err != nil {
		return err
	}
	m.put(path, string(content))
	m.writes = append(m.writes, path)
	return nil
}

func (m *mockProjectFS) MkdirAll(ctx context.Context, path string) error {
	for dir := path; dir != "." && dir != "/"; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
	}
	return nil
}

func (m *mockProjectFS) FileExists(ctx context.Context, path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func (m *mockProjectFS) DirectoryExists(ctx context.Context, path string) (bool, error) {
	return m.dirs[path], nil
}

func (m *mockProjectFS) ListDir(ctx context.Context, path string) ([]string, error) {
	var names []string
	prefix := path + string(filepath.Separator)
	for p := range m.files {
		if strings.HasPrefix(p, prefix) && !strings.Contains(p[len(prefix):], string(filepath.Separator)) {
			names = append(names, p[len(prefix):])
		}
	}
	sort.Strings(names)
	return names, nil
}

// Ensure mockLedgerRepository implements the interface
var _ secondary.LedgerRepository = (*mockLedgerRepository)(nil)

// mockLedgerRepository implements secondary.LedgerRepository for testing.
type mockLedgerRepository struct {
	runs      map[string]*secondary.RunRecord
	runOrder  []string
	guards    map[string][]*secondary.GuardRecord
	createErr error
	recordErr error
	listErr   error
}

func newMockLedgerRepository() *mockLedgerRepository {
	return &mockLedgerRepository{
		runs:   make(map[string]*secondary.RunRecord),
		guards: make(map[string][]*secondary.GuardRecord),
	}
}

func (m *mockLedgerRepository) CreateRun(ctx context.Context, run *secondary.RunRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.runs[run.ID] = run
	m.runOrder = append(m.runOrder, run.ID)
	return nil
}

func (m *mockLedgerRepository) FinishRun(ctx context.Context, runID, status string) error {
	run, ok := m.runs[runID]
	if !ok {
		return errors.New("run not found")
	}
	run.Status = status
	run.FinishedAt = "2026-10-19T09:31:00Z"
	return nil
}

func (m *mockLedgerRepository) RecordGuard(ctx context.Context, rec *secondary.GuardRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	if _, ok := m.runs[rec.RunID]; !ok {
		return errors.New("run not found")
	}
	rec.ID = int64(len(m.guards[rec.RunID]) + 1)
	m.guards[rec.RunID] = append(m.guards[rec.RunID], rec)
	return nil
}

func (m *mockLedgerRepository) GetRun(ctx context.Context, runID string) (*secondary.RunRecord, error) {
	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return run, nil
}

func (m *mockLedgerRepository) ListRuns(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.RunRecord
	for i := len(m.runOrder) - 1; i >= 0; i-- {
		run := m.runs[m.runOrder[i]]
		if filters.ProjectRoot != "" && run.ProjectRoot != filters.ProjectRoot {
			continue
		}
		result = append(result, run)
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockLedgerRepository) ListGuards(ctx context.Context, runID string) ([]*secondary.GuardRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.guards[runID], nil
}

// Fixtures

const fixtureAuthConfig = `<?php

return [
    'defaults' => [
        'guard' => 'web',
        'passwords' => 'users',
    ],

    'guards' => [
        'web' => [
            'driver' => 'session',
            'provider' => 'users',
        ],
    ],

    'providers' => [
        'users' => [
            'driver' => 'eloquent',
            'model' => App\Models\User::class,
        ],
    ],
];
`

const fixtureKernel = `<?php

namespace App\Http;

use Illuminate\Foundation\Http\Kernel as HttpKernel;

class Kernel extends HttpKernel
{
    protected $middlewareAliases = [
        'auth' => \App\Http\Middleware\Authenticate::class,
        'guest' => \App\Http\Middleware\RedirectIfAuthenticated::class,
    ];
}
`

const fixtureBootstrap = `<?php

use Illuminate\Foundation\Application;
use Illuminate\Foundation\Configuration\Exceptions;
use Illuminate\Foundation\Configuration\Middleware;

return Application::configure(basePath: dirname(__DIR__))
    ->withRouting(
        web: __DIR__.'/../routes/web.php',
        health: '/up',
    )
    ->withMiddleware(function (Middleware $middleware) {
        $middleware->alias([
            'verified' => \App\Http\Middleware\EnsureEmailIsVerified::class,
        ]);
    })
    ->withExceptions(function (Exceptions $exceptions) {
        //
    })->create();
`
