package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/lbi/pkg/testutil"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_RemovesRecordWithMissingBinary(t *testing.T) {
	h := newHarness(t)
	src := h.env.WriteSource("app", "x")
	icon := h.env.WriteSource("app.png", "png")
	rec := installApp(t, h, types.InstallRequest{SourcePath: src, DisplayName: "App", IconPath: icon})
	keep := installApp(t, h, types.InstallRequest{SourcePath: src, DisplayName: "Keep"})

	require.NoError(t, h.env.FS.Remove(rec.InstalledBinaryPath))

	list, err := h.engine.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Applications, 1)
	assert.Equal(t, keep.ID, list.Applications[0].ID)

	for _, p := range rec.OwnedPaths() {
		testutil.AssertNoFile(t, h.env.FS, p.Path)
	}
	h.assertConsistent(t)
}

func TestReconcile_SweepsOrphans(t *testing.T) {
	h := newHarness(t)
	src := h.env.WriteSource("app", "x")
	rec := installApp(t, h, types.InstallRequest{SourcePath: src, DisplayName: "App"})

	stray := []string{
		filepath.Join(h.resolver.BinDir(), "stray"),
		filepath.Join(h.resolver.IconsDir(), ".lbi-tmp-app.png-123"),
		filepath.Join(h.resolver.ApplicationsDir(), "gone.desktop"),
		filepath.Join(h.resolver.Root(), ".lbi-tmp-registry.json-9"),
	}
	for _, p := range stray {
		h.env.WriteFile(p, "junk")
	}
	// an lbi export nobody references, and a foreign file that must stay
	staleExport := filepath.Join(h.env.MenuDir, "lbi-gone.desktop")
	h.env.WriteFile(staleExport, "[Desktop Entry]\nTryExec="+filepath.Join(h.resolver.BinDir(), "gone")+"\n")
	foreign := filepath.Join(h.env.MenuDir, "firefox.desktop")
	h.env.WriteFile(foreign, "[Desktop Entry]\nTryExec=/usr/bin/firefox\n")

	report, err := h.engine.Reconcile(context.Background())
	require.NoError(t, err)

	expected := append([]string{staleExport}, stray...)
	assert.ElementsMatch(t, expected, report.RemovedOrphans)
	assert.Empty(t, report.RemovedRecords)
	assert.Empty(t, report.RepairedRecords)

	for _, p := range expected {
		testutil.AssertNoFile(t, h.env.FS, p)
	}
	testutil.AssertFileExists(t, h.env.FS, foreign)
	testutil.AssertFileExists(t, h.env.FS, rec.MenuEntryPath)
	h.assertConsistent(t)

	report, err = h.engine.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Empty())
}

func TestReconcile_RepairsDerivedArtifacts(t *testing.T) {
	h := newHarness(t)
	src := h.env.WriteSource("app", "x")
	icon := h.env.WriteSource("app.png", "png")
	rec := installApp(t, h, types.InstallRequest{SourcePath: src, DisplayName: "App", IconPath: icon, DesktopShortcut: true})
	entry := readFile(t, h, rec.DesktopEntryPath)

	t.Run("missing_entry_and_menu", func(t *testing.T) {
		require.NoError(t, h.env.FS.Remove(rec.DesktopEntryPath))
		require.NoError(t, h.env.FS.Remove(rec.MenuEntryPath))

		report, err := h.engine.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"app"}, report.RepairedRecords)
		assert.Equal(t, entry, readFile(t, h, rec.DesktopEntryPath))
		testutil.AssertFileExists(t, h.env.FS, rec.MenuEntryPath)
		h.assertConsistent(t)
	})

	t.Run("missing_icon_and_shortcut", func(t *testing.T) {
		require.NoError(t, h.env.FS.Remove(rec.IconPath))
		require.NoError(t, h.env.FS.Remove(rec.DesktopShortcutPath))

		report, err := h.engine.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"app"}, report.RepairedRecords)

		got, err := h.reg.Get("app")
		require.NoError(t, err)
		assert.Empty(t, got.IconPath)
		assert.Empty(t, got.DesktopShortcutPath)
		assert.Contains(t, readFile(t, h, got.DesktopEntryPath), "Icon=application-x-executable\n")
		assert.Contains(t, readFile(t, h, got.MenuEntryPath), "Icon=application-x-executable\n")
		h.assertConsistent(t)
	})
}

// TestInvariants_Sequence drives a fixed sequence
// of operations and checks the registry/filesystem invariants after each.
func TestInvariants_Sequence(t *testing.T) {
	h := newHarness(t)
	srcA := h.env.WriteSource("a.sh", "echo a")
	srcB := h.env.WriteSource("b", "b")
	png := h.env.WriteSource("i.png", "png")
	svg := h.env.WriteSource("i.svg", testutil.SVG)
	ctx := context.Background()

	ops := []func() error{
		func() error { _, err := h.engine.Install(ctx, types.InstallRequest{SourcePath: srcA, DisplayName: "Alpha", IconPath: png}); return err },
		func() error { _, err := h.engine.Install(ctx, types.InstallRequest{SourcePath: srcB, DisplayName: "Beta", DesktopShortcut: true}); return err },
		func() error { _, err := h.engine.Install(ctx, types.InstallRequest{SourcePath: srcB, DisplayName: "Alpha"}); return err },
		func() error { _, err := h.engine.Update(ctx, "alpha", types.UpdateRequest{IconPath: &svg}); return err },
		func() error { _, err := h.engine.Install(ctx, types.InstallRequest{SourcePath: srcB, DisplayName: "Alpha", AsNew: true}); return err },
		func() error { _, err := h.engine.Update(ctx, "beta", types.UpdateRequest{DesktopShortcut: boolPtr(false), SourcePath: &srcA}); return err },
		func() error { _, err := h.engine.Uninstall(ctx, "alpha"); return err },
		func() error { _, err := h.engine.Update(ctx, "alpha-2", types.UpdateRequest{RemoveIcon: true}); return err },
		func() error { _, err := h.engine.Uninstall(ctx, "ghost"); return err },
		func() error { _, err := h.engine.Install(ctx, types.InstallRequest{SourcePath: srcA, DisplayName: "Alpha", IconPath: svg}); return err },
	}

	for i, op := range ops {
		_ = op()
		t.Logf("after op %d: %v", i, h.ids(t))
		h.assertConsistent(t)
	}
	assert.Equal(t, []string{"alpha", "alpha-2", "beta"}, h.ids(t))
}
