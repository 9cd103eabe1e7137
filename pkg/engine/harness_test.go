package engine

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/arthur-debert/lbi/pkg/lock"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/registry"
	"github.com/arthur-debert/lbi/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }

type harness struct {
	env      *testutil.TestEnvironment
	fs       afero.Fs
	faulty   *testutil.FaultyFs
	resolver *paths.Resolver
	reg      registry.Registry
	regPath  string
	locker   lock.Locker
	engine   *Engine
}

type harnessOption func(*Config)

// newHarness builds an engine on a memory environment. All filesystem
// traffic goes through a FaultyFs so tests can inject failures.
func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	return newHarnessOn(t, env, lock.NewMemory(lock.Policy{Retries: 1, Backoff: time.Millisecond}), opts...)
}

func newHarnessOn(t *testing.T, env *testutil.TestEnvironment, locker lock.Locker, opts ...harnessOption) *harness {
	t.Helper()

	faulty := testutil.NewFaultyFs(env.FS)
	var fs afero.Fs = faulty
	if env.Type == testutil.EnvIsolated {
		// keep symlink support on the real filesystem
		fs = env.FS
	}

	resolver, err := paths.NewResolver(env.Root)
	require.NoError(t, err)

	regPath := resolver.RegistryPath(registry.BackendJSON)
	reg := registry.NewJSON(fs, regPath)

	cfg := Config{
		FS:       fs,
		Resolver: resolver,
		Host: paths.Host{
			MenuDir:    env.MenuDir,
			DesktopDir: env.DesktopDir,
			Prefix:     "lbi-",
		},
		MenuExport: true,
		Registry:   reg,
		Locker:     locker,
		Clock:      testClock,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e, err := New(cfg)
	require.NoError(t, err)

	return &harness{
		env:      env,
		fs:       fs,
		faulty:   faulty,
		resolver: resolver,
		reg:      cfg.Registry,
		regPath:  regPath,
		locker:   locker,
		engine:   e,
	}
}

// assertConsistent checks that every record's artifacts exist and that
// every file in the managed tree belongs to exactly one record.
func (h *harness) assertConsistent(t *testing.T) {
	t.Helper()

	records, err := h.reg.List()
	require.NoError(t, err)

	refs := map[string]int{}
	for _, rec := range records {
		for _, p := range rec.OwnedPaths() {
			testutil.AssertFileExists(t, h.env.FS, p.Path)
			refs[p.Path]++
		}
	}
	for _, dir := range h.resolver.ManagedDirs() {
		for _, name := range testutil.ListFiles(t, h.env.FS, dir) {
			path := filepath.Join(dir, name)
			assert.Equal(t, 1, refs[path], "%s should be owned by exactly one record", path)
		}
	}
}

func (h *harness) ids(t *testing.T) []string {
	t.Helper()
	records, err := h.reg.List()
	require.NoError(t, err)
	ids := []string{}
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids
}

var errNoSpace = syscall.ENOSPC

func readFile(t *testing.T, h *harness, path string) string {
	t.Helper()
	data, err := afero.ReadFile(h.env.FS, path)
	require.NoError(t, err)
	return string(data)
}
