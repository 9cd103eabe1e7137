package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/lbi/pkg/artifact"
	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/spf13/afero"
)

// Reconcile restores the registry/filesystem invariants: no record points
// at a missing artifact and no managed file is unreferenced.
func (e *Engine) Reconcile(ctx context.Context) (types.ReconcileReport, error) {
	op, done := e.begin("reconcile")
	defer done()

	if err := e.locker.Lock(ctx); err != nil {
		return types.ReconcileReport{}, err
	}
	defer func() {
		if err := e.locker.Unlock(); err != nil {
			op.logger.Error().Err(err).Msg("Failed to release registry lock")
		}
	}()

	report, err := e.reconcile(op)
	if err != nil {
		return report, boundary(err)
	}
	if !report.Empty() {
		e.refresh(ctx, op)
	}
	return report, nil
}

// reconcile must run with the lock held.
func (e *Engine) reconcile(op *operation) (types.ReconcileReport, error) {
	report := types.ReconcileReport{
		RemovedRecords:  []string{},
		RepairedRecords: []string{},
		RemovedOrphans:  []string{},
	}

	records, err := e.registry.List()
	if err != nil {
		return report, err
	}

	referenced := make(map[string]bool)
	for _, rec := range records {
		if !e.exists(rec.InstalledBinaryPath) {
			if err := e.dropRecord(op, rec); err != nil {
				return report, err
			}
			report.RemovedRecords = append(report.RemovedRecords, rec.ID)
			continue
		}

		repaired, changed, err := e.repair(op, rec)
		if err != nil {
			return report, err
		}
		if changed {
			report.RepairedRecords = append(report.RepairedRecords, rec.ID)
		}
		for _, p := range repaired.OwnedPaths() {
			referenced[filepath.Clean(p.Path)] = true
		}
	}

	orphans, err := e.sweep(op, referenced)
	if err != nil {
		return report, err
	}
	report.RemovedOrphans = orphans

	if !report.Empty() {
		op.logger.Info().
			Int("removedRecords", len(report.RemovedRecords)).
			Int("repairedRecords", len(report.RepairedRecords)).
			Int("removedOrphans", len(report.RemovedOrphans)).
			Msg("Reconciled managed tree")
	}
	return report, nil
}

// dropRecord deletes what is left of an application whose binary is gone
// and then its record.
func (e *Engine) dropRecord(op *operation, rec types.ApplicationRecord) error {
	op.logger.Warn().Str("id", rec.ID).Str("binary", rec.InstalledBinaryPath).
		Msg("Installed binary is missing, removing record")
	if err := e.removeArtifacts(op, rec); err != nil {
		return err
	}
	return e.registry.Delete(rec.ID)
}

// repair regenerates missing derived artifacts and forgets missing
// optional ones. It returns the record as it stands afterwards.
func (e *Engine) repair(op *operation, rec types.ApplicationRecord) (types.ApplicationRecord, bool, error) {
	next := rec.Clone()
	changed := false

	if next.IconPath != "" && !e.exists(next.IconPath) {
		next.IconPath = ""
		changed = true
	}
	if next.DesktopShortcutPath != "" && !e.exists(next.DesktopShortcutPath) {
		next.DesktopShortcutPath = ""
		changed = true
	}

	// the entry embeds the icon, so it is rewritten when the icon went away
	entryMissing := !e.exists(next.DesktopEntryPath)
	if entryMissing || changed {
		if err := e.writer.WriteBytes(next.DesktopEntryPath, e.generator.Render(next), artifact.ModeRegular); err != nil {
			return rec, false, err
		}
		changed = true
	}

	if next.MenuEntryPath != "" && (!e.exists(next.MenuEntryPath) || (changed && !filesystem.IsSymlink(e.fs, next.MenuEntryPath))) {
		if _, err := e.writer.LinkOrCopy(next.DesktopEntryPath, next.MenuEntryPath, artifact.ModeRegular); err != nil {
			return rec, false, err
		}
		changed = true
	}

	if !changed {
		return rec, false, nil
	}
	if err := e.registry.Put(next); err != nil {
		return rec, false, err
	}
	op.logger.Info().Str("id", rec.ID).Msg("Repaired application artifacts")
	return next, true, nil
}

// sweep removes unreferenced files from the managed directories, stale
// scratch files at the root, and lbi exports nobody references.
func (e *Engine) sweep(op *operation, referenced map[string]bool) ([]string, error) {
	removed := []string{}

	remove := func(path string) error {
		if err := e.writer.Remove(path); err != nil {
			return err
		}
		op.logger.Info().Str("path", path).Msg("Removed orphaned file")
		removed = append(removed, path)
		return nil
	}

	for _, dir := range e.resolver.ManagedDirs() {
		files, err := e.files(dir)
		if err != nil {
			return removed, err
		}
		for _, path := range files {
			if !referenced[path] {
				if err := remove(path); err != nil {
					return removed, err
				}
			}
		}
	}

	rootFiles, err := e.files(e.resolver.Root())
	if err != nil {
		return removed, err
	}
	for _, path := range rootFiles {
		if artifact.IsScratch(filepath.Base(path)) {
			if err := remove(path); err != nil {
				return removed, err
			}
		}
	}

	for _, dir := range e.exportDirs() {
		files, err := e.files(dir)
		if err != nil {
			return removed, err
		}
		for _, path := range files {
			base := filepath.Base(path)
			if referenced[path] {
				continue
			}
			if artifact.IsScratch(base) || (strings.HasPrefix(base, e.host.Prefix) && e.ownedExport(path)) {
				if err := remove(path); err != nil {
					return removed, err
				}
			}
		}
	}

	sort.Strings(removed)
	return removed, nil
}

// exportDirs are the host directories lbi writes exports into. They are
// only swept when a prefix keeps lbi files apart from everyone else's.
func (e *Engine) exportDirs() []string {
	if e.host.Prefix == "" {
		return nil
	}
	var dirs []string
	for _, d := range []string{e.host.MenuDir, e.host.DesktopDir} {
		if d != "" {
			dirs = append(dirs, filepath.Clean(d))
		}
	}
	return dirs
}

// files lists the non-directory entries of dir. A missing dir is empty.
func (e *Engine) files(dir string) ([]string, error) {
	entries, err := afero.ReadDir(e.fs, dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, artifact.Classify(dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(filepath.Clean(dir), entry.Name()))
	}
	return files, nil
}

func (e *Engine) exists(path string) bool {
	if path == "" {
		return false
	}
	ok, err := filesystem.Exists(e.fs, path)
	return err == nil && ok
}
