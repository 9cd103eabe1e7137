package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lbi/pkg/artifact"
	"github.com/arthur-debert/lbi/pkg/desktopentry"
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/arthur-debert/lbi/pkg/types"
)

// ownedExport reports whether path is a menu export or desktop shortcut
// written by lbi: a symlink into the managed applications directory, or a
// desktop entry whose TryExec is a managed binary.
func (e *Engine) ownedExport(path string) bool {
	info, err := filesystem.Lstat(e.fs, path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := filesystem.Readlink(e.fs, path)
		return err == nil && within(e.resolver.ApplicationsDir(), target)
	}
	if !info.Mode().IsRegular() {
		return false
	}
	entry, err := desktopentry.ParseFile(e.fs, path)
	if err != nil {
		return false
	}
	return within(e.resolver.BinDir(), entry["TryExec"])
}

// claim checks that path is free for an export: absent, or already ours.
func (e *Engine) claim(kind types.ArtifactKind, path string) error {
	exists, err := filesystem.Exists(e.fs, path)
	if err != nil {
		return artifact.Classify(path, err)
	}
	if !exists || e.ownedExport(path) {
		return nil
	}
	return errors.Newf(errors.ErrDestinationUnwritable, "refusing to overwrite %s, it was not created by lbi", path).
		WithDetail("path", path).
		WithDetail("kind", string(kind))
}

// exportMenu links (or copies) the managed desktop entry into the menu dir.
func (e *Engine) exportMenu(j *journal, rec types.ApplicationRecord) error {
	return j.place(types.ArtifactMenuEntry, rec.MenuEntryPath, func() error {
		_, err := e.writer.LinkOrCopy(rec.DesktopEntryPath, rec.MenuEntryPath, artifact.ModeRegular)
		return err
	})
}

// writeShortcut writes the desktop launcher. It is always a copy so file
// managers treat it as a trusted launcher.
func (e *Engine) writeShortcut(j *journal, rec types.ApplicationRecord, entry []byte) error {
	return j.place(types.ArtifactDesktopShortcut, rec.DesktopShortcutPath, func() error {
		return e.writer.WriteBytes(rec.DesktopShortcutPath, entry, artifact.ModeExecutable)
	})
}

func within(dir, path string) bool {
	if path == "" || !filepath.IsAbs(path) {
		return false
	}
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

func withDetail(err error, key string, value interface{}) error {
	if lbiErr, ok := err.(*errors.LbiError); ok {
		return lbiErr.WithDetail(key, value)
	}
	return err
}
