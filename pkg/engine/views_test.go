package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/lock"
	"github.com/arthur-debert/lbi/pkg/registry"
	"github.com/arthur-debert/lbi/pkg/testutil"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	h := newHarness(t)
	src := h.env.WriteSource("app", "x")
	rec := installApp(t, h, types.InstallRequest{SourcePath: src, DisplayName: "App"})

	status, err := h.engine.Status(context.Background(), "app")
	require.NoError(t, err)
	assert.Equal(t, rec, status.Record)
	assert.False(t, status.Snapshot)
	require.Len(t, status.Artifacts, 3)
	for _, a := range status.Artifacts {
		assert.True(t, a.Present, "%s should be present", a.Kind)
	}

	_, err = h.engine.Status(context.Background(), "ghost")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestLockContention(t *testing.T) {
	h := newHarness(t)
	src := h.env.WriteSource("app", "x")
	rec := installApp(t, h, types.InstallRequest{SourcePath: src, DisplayName: "App"})

	// simulate another process in the middle of a mutation
	require.NoError(t, h.locker.Lock(context.Background()))
	defer func() { _ = h.locker.Unlock() }()

	_, err := h.engine.Install(context.Background(), types.InstallRequest{SourcePath: src, DisplayName: "Other"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockContention))

	_, err = h.engine.Uninstall(context.Background(), rec.ID)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockContention))

	_, err = h.engine.Reconcile(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockContention))

	t.Run("reads_fall_back_to_snapshot", func(t *testing.T) {
		list, err := h.engine.List(context.Background())
		require.NoError(t, err)
		assert.True(t, list.Snapshot)
		require.Len(t, list.Applications, 1)

		status, err := h.engine.Status(context.Background(), rec.ID)
		require.NoError(t, err)
		assert.True(t, status.Snapshot)
	})

	t.Run("snapshot_hides_missing_binaries", func(t *testing.T) {
		require.NoError(t, h.env.FS.Remove(rec.InstalledBinaryPath))
		list, err := h.engine.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list.Applications)

		// nothing was reconciled while the lock was held
		_, err = h.reg.Get(rec.ID)
		assert.NoError(t, err)
	})
}

func TestLockContention_CancelledContext(t *testing.T) {
	l := lock.NewMemory(lock.Policy{Retries: 50, Backoff: time.Second})
	h := newHarnessOn(t, testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly), l)
	src := h.env.WriteSource("app", "x")
	require.NoError(t, l.Lock(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.engine.Install(ctx, types.InstallRequest{SourcePath: src, DisplayName: "App"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockContention))
}

func TestRegistryCorrupt_RefusesEveryOperation(t *testing.T) {
	h := newHarness(t)
	src := h.env.WriteSource("app", "x")
	rec := installApp(t, h, types.InstallRequest{SourcePath: src, DisplayName: "App"})
	h.env.WriteFile(h.regPath, "{ truncated")
	ctx := context.Background()

	checks := map[string]func() error{
		"install":   func() error { _, err := h.engine.Install(ctx, types.InstallRequest{SourcePath: src, DisplayName: "Other"}); return err },
		"update":    func() error { _, err := h.engine.Update(ctx, rec.ID, types.UpdateRequest{}); return err },
		"uninstall": func() error { _, err := h.engine.Uninstall(ctx, rec.ID); return err },
		"list":      func() error { _, err := h.engine.List(ctx); return err },
		"status":    func() error { _, err := h.engine.Status(ctx, rec.ID); return err },
		"reconcile": func() error { _, err := h.engine.Reconcile(ctx); return err },
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			err := check()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrRegistryCorrupt))
		})
	}

	// the managed files are untouched while the registry is unreadable
	testutil.AssertFileExists(t, h.env.FS, rec.InstalledBinaryPath)

	t.Run("reset", func(t *testing.T) {
		aside, err := ResetRegistry(ctx, h.locker, h.fs, registry.BackendJSON, h.regPath, testClock())
		require.NoError(t, err)
		assert.Equal(t, h.regPath+".corrupt-20261018T093000Z", aside)
		testutil.AssertFileContent(t, h.env.FS, aside, "{ truncated")

		list, err := h.engine.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list.Applications)

		// with no record left, the old artifacts were swept as orphans
		testutil.AssertNoFile(t, h.env.FS, rec.InstalledBinaryPath)
		testutil.AssertNoFile(t, h.env.FS, rec.MenuEntryPath)
		h.assertConsistent(t)
	})
}

type recordingRefresher struct {
	dirs []string
}

func (r *recordingRefresher) Refresh(_ context.Context, dir string) error {
	r.dirs = append(r.dirs, dir)
	return assert.AnError
}

func TestRefresh(t *testing.T) {
	refresher := &recordingRefresher{}
	h := newHarness(t, func(c *Config) { c.Refresher = refresher })
	src := h.env.WriteSource("app", "x")

	// a failing refresh never fails the operation
	rec := installApp(t, h, types.InstallRequest{SourcePath: src, DisplayName: "App"})
	_, err := h.engine.Uninstall(context.Background(), rec.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{h.env.MenuDir, h.env.MenuDir}, refresher.dirs)

	// reads without changes do not refresh
	_, err = h.engine.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, refresher.dirs, 2)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{FS: afero.NewMemMapFs()})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestIsolated_FileLockAndSymlinkExport(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	l := lock.NewFileLock(filepath.Join(env.Root, ".lock"), lock.Policy{Retries: 1, Backoff: time.Millisecond})
	h := newHarnessOn(t, env, l)
	src := env.WriteSource("app.AppImage", "ELF")

	rec := installApp(t, h, types.InstallRequest{SourcePath: src, DisplayName: "MyApp", Categories: []string{"Utility"}})

	target, err := afero.NewOsFs().(afero.LinkReader).ReadlinkIfPossible(rec.MenuEntryPath)
	require.NoError(t, err)
	assert.Equal(t, rec.DesktopEntryPath, target)

	// a second process holding the lock blocks mutations
	other := lock.NewFileLock(filepath.Join(env.Root, ".lock"), lock.Policy{})
	ok, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	_, err = h.engine.Uninstall(context.Background(), rec.ID)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockContention))

	list, err := h.engine.List(context.Background())
	require.NoError(t, err)
	assert.True(t, list.Snapshot)
	require.Len(t, list.Applications, 1)

	require.NoError(t, other.Unlock())

	// the update rewrites the entry in place; the link keeps pointing at it
	_, err = h.engine.Update(context.Background(), rec.ID, types.UpdateRequest{DisplayName: strPtr("Renamed")})
	require.NoError(t, err)
	content, err := afero.ReadFile(env.FS, rec.MenuEntryPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Name=Renamed\n")

	_, err = h.engine.Uninstall(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Empty(t, testutil.ListFiles(t, env.FS, env.MenuDir))
	h.assertConsistent(t)
}
