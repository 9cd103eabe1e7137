package engine

import (
	"context"
	"strings"

	"github.com/arthur-debert/lbi/pkg/artifact"
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/types"
)

// Update applies req to the installed application id. The desktop entry
// is always regenerated; other artifacts are rewritten only when their
// inputs changed. Artifacts the update makes obsolete are deleted after
// the new record is committed.
func (e *Engine) Update(ctx context.Context, id string, req types.UpdateRequest) (types.ApplicationRecord, error) {
	op, done := e.begin("update")
	defer done()
	op.logger = op.logger.With().Str("id", id).Logger()

	var inputs []string
	if req.SourcePath != nil {
		inputs = append(inputs, *req.SourcePath)
	}
	if req.IconPath != nil {
		inputs = append(inputs, *req.IconPath)
	}
	if err := e.checkOutsideRoot(inputs...); err != nil {
		op.logger.Warn().Err(err).Msg("Update rejected")
		return types.ApplicationRecord{}, err
	}

	var rec types.ApplicationRecord
	err := e.mutate(ctx, op, func() error {
		var err error
		rec, err = e.update(op, id, req)
		return err
	})
	if err != nil {
		op.logger.Warn().Err(err).Msg("Update failed")
		return types.ApplicationRecord{}, err
	}
	op.logger.Info().Msg("Application updated")
	return rec, nil
}

func (e *Engine) update(op *operation, id string, req types.UpdateRequest) (types.ApplicationRecord, error) {
	if err := paths.ValidateID(id); err != nil {
		return types.ApplicationRecord{}, err
	}
	current, err := e.registry.Get(id)
	if err != nil {
		return types.ApplicationRecord{}, err
	}

	next := current.Clone()
	var obsolete []string

	// binary
	var newSource string
	if req.SourcePath != nil {
		if newSource, err = paths.NormalizePath(*req.SourcePath); err != nil {
			return current, err
		}
		if err := e.checkSource(newSource); err != nil {
			return current, err
		}
		next.SourcePath = newSource
		next.Interpreter = DetectInterpreter(e.fs, newSource)
	}

	// icon
	var iconSource string
	switch {
	case req.RemoveIcon:
		if next.IconPath != "" {
			obsolete = append(obsolete, next.IconPath)
			next.IconPath = ""
		}
	case req.IconPath != nil && *req.IconPath != "":
		if iconSource, err = paths.NormalizePath(*req.IconPath); err != nil {
			return current, err
		}
		if err := e.checkSource(iconSource); err != nil {
			return current, err
		}
		if err := artifact.ValidateIcon(e.fs, iconSource); err != nil {
			return current, err
		}
		iconPath, err := e.resolver.Path(id, types.ArtifactIcon, artifact.IconExt(iconSource))
		if err != nil {
			return current, err
		}
		if current.IconPath != "" && current.IconPath != iconPath {
			obsolete = append(obsolete, current.IconPath)
		}
		next.IconPath = iconPath
	}

	// metadata
	if req.DisplayName != nil {
		if name := strings.TrimSpace(*req.DisplayName); name != "" {
			next.DisplayName = name
		}
	}
	if req.Categories != nil {
		next.Categories = types.NormalizeCategories(req.Categories)
	}
	if req.Terminal != nil {
		next.Terminal = *req.Terminal
	}
	if req.AcceptsFileArgs != nil {
		next.AcceptsFileArgs = *req.AcceptsFileArgs
	}
	if req.Comment != nil {
		next.Comment = *req.Comment
	}
	if req.GenericName != nil {
		next.GenericName = *req.GenericName
	}
	if req.Keywords != nil {
		next.Keywords = cleanList(req.Keywords)
	}
	if req.StartupWMClass != nil {
		next.StartupWMClass = *req.StartupWMClass
	}

	// exports follow the current configuration
	if e.menuExport {
		menuPath, err := e.host.MenuEntryPath(id)
		if err != nil {
			return current, err
		}
		if menuPath != current.MenuEntryPath {
			if err := e.claim(types.ArtifactMenuEntry, menuPath); err != nil {
				return current, err
			}
			if current.MenuEntryPath != "" {
				obsolete = append(obsolete, current.MenuEntryPath)
			}
		}
		next.MenuEntryPath = menuPath
	} else if current.MenuEntryPath != "" {
		obsolete = append(obsolete, current.MenuEntryPath)
		next.MenuEntryPath = ""
	}

	if req.DesktopShortcut != nil {
		switch {
		case *req.DesktopShortcut && current.DesktopShortcutPath == "":
			if e.host.DesktopDir == "" {
				return current, errors.New(errors.ErrInvalidInput, "no desktop directory configured for shortcuts")
			}
			shortcut, err := e.host.DesktopShortcutPath(id)
			if err != nil {
				return current, err
			}
			if err := e.claim(types.ArtifactDesktopShortcut, shortcut); err != nil {
				return current, err
			}
			next.DesktopShortcutPath = shortcut
		case !*req.DesktopShortcut && current.DesktopShortcutPath != "":
			obsolete = append(obsolete, current.DesktopShortcutPath)
			next.DesktopShortcutPath = ""
		}
	}

	next.UpdatedAt = e.now()

	j := newJournal(e.writer, op.logger)

	if newSource != "" {
		if err := j.place(types.ArtifactBinary, next.InstalledBinaryPath, func() error {
			return e.writer.CopyBinary(newSource, next.InstalledBinaryPath)
		}); err != nil {
			return current, j.fail(err)
		}
	}
	if iconSource != "" {
		if err := j.place(types.ArtifactIcon, next.IconPath, func() error {
			return e.writer.CopyFile(iconSource, next.IconPath, artifact.ModeRegular)
		}); err != nil {
			return current, j.fail(err)
		}
	}

	entry := e.generator.Render(next)
	if err := j.place(types.ArtifactDesktopEntry, next.DesktopEntryPath, func() error {
		return e.writer.WriteBytes(next.DesktopEntryPath, entry, artifact.ModeRegular)
	}); err != nil {
		return current, j.fail(err)
	}
	if next.MenuEntryPath != "" {
		if err := e.exportMenu(j, next); err != nil {
			return current, j.fail(err)
		}
	}
	if next.DesktopShortcutPath != "" {
		if err := e.writeShortcut(j, next, entry); err != nil {
			return current, j.fail(err)
		}
	}

	if err := e.registry.Put(next); err != nil {
		return current, j.fail(err)
	}
	j.commit()

	for _, path := range obsolete {
		if err := e.writer.Remove(path); err != nil {
			// the next reconcile pass sweeps it as an orphan
			op.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove obsolete artifact")
		}
	}
	return next, nil
}
