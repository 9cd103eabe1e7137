package engine

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lbi/pkg/artifact"
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/types"
)

// Install copies req.SourcePath into the managed tree, writes its desktop
// entry and exports, and commits the new record.
func (e *Engine) Install(ctx context.Context, req types.InstallRequest) (types.ApplicationRecord, error) {
	op, done := e.begin("install")
	defer done()

	if err := e.checkOutsideRoot(req.SourcePath, req.IconPath); err != nil {
		op.logger.Warn().Err(err).Msg("Install rejected")
		return types.ApplicationRecord{}, err
	}

	var rec types.ApplicationRecord
	err := e.mutate(ctx, op, func() error {
		var err error
		rec, err = e.install(op, req)
		return err
	})
	if err != nil {
		op.logger.Warn().Err(err).Str("source", req.SourcePath).Msg("Install failed")
		return types.ApplicationRecord{}, err
	}
	op.logger.Info().Str("id", rec.ID).Msg("Application installed")
	return rec, nil
}

func (e *Engine) install(op *operation, req types.InstallRequest) (types.ApplicationRecord, error) {
	if strings.TrimSpace(req.SourcePath) == "" {
		return types.ApplicationRecord{}, errors.New(errors.ErrInvalidInput, "source path is required")
	}
	source, err := paths.NormalizePath(req.SourcePath)
	if err != nil {
		return types.ApplicationRecord{}, err
	}
	if err := e.checkSource(source); err != nil {
		return types.ApplicationRecord{}, err
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = DefaultDisplayName(source)
	}

	id, err := e.allocateID(displayName, req.AsNew)
	if err != nil {
		return types.ApplicationRecord{}, err
	}
	op.logger = op.logger.With().Str("id", id).Logger()

	now := e.now()
	rec := types.ApplicationRecord{
		ID:              id,
		DisplayName:     displayName,
		SourcePath:      source,
		Categories:      types.NormalizeCategories(req.Categories),
		Terminal:        req.Terminal,
		AcceptsFileArgs: req.AcceptsFileArgs,
		Interpreter:     DetectInterpreter(e.fs, source),
		Comment:         req.Comment,
		GenericName:     req.GenericName,
		Keywords:        cleanList(req.Keywords),
		StartupWMClass:  req.StartupWMClass,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if rec.InstalledBinaryPath, err = e.resolver.Path(id, types.ArtifactBinary, ""); err != nil {
		return rec, err
	}
	if rec.DesktopEntryPath, err = e.resolver.Path(id, types.ArtifactDesktopEntry, ""); err != nil {
		return rec, err
	}

	var iconSource string
	if req.IconPath != "" {
		if iconSource, err = paths.NormalizePath(req.IconPath); err != nil {
			return rec, err
		}
		if err := e.checkSource(iconSource); err != nil {
			return rec, err
		}
		if err := artifact.ValidateIcon(e.fs, iconSource); err != nil {
			return rec, err
		}
		if rec.IconPath, err = e.resolver.Path(id, types.ArtifactIcon, artifact.IconExt(iconSource)); err != nil {
			return rec, err
		}
	}

	if e.menuExport {
		if rec.MenuEntryPath, err = e.host.MenuEntryPath(id); err != nil {
			return rec, err
		}
		if err := e.claim(types.ArtifactMenuEntry, rec.MenuEntryPath); err != nil {
			return rec, err
		}
	}
	if req.DesktopShortcut {
		if e.host.DesktopDir == "" {
			return rec, errors.New(errors.ErrInvalidInput, "no desktop directory configured for shortcuts")
		}
		if rec.DesktopShortcutPath, err = e.host.DesktopShortcutPath(id); err != nil {
			return rec, err
		}
		if err := e.claim(types.ArtifactDesktopShortcut, rec.DesktopShortcutPath); err != nil {
			return rec, err
		}
	}

	j := newJournal(e.writer, op.logger)

	if err := j.place(types.ArtifactBinary, rec.InstalledBinaryPath, func() error {
		return e.writer.CopyBinary(source, rec.InstalledBinaryPath)
	}); err != nil {
		return rec, j.fail(err)
	}
	if iconSource != "" {
		if err := j.place(types.ArtifactIcon, rec.IconPath, func() error {
			return e.writer.CopyFile(iconSource, rec.IconPath, artifact.ModeRegular)
		}); err != nil {
			return rec, j.fail(err)
		}
	}

	entry := e.generator.Render(rec)
	if err := j.place(types.ArtifactDesktopEntry, rec.DesktopEntryPath, func() error {
		return e.writer.WriteBytes(rec.DesktopEntryPath, entry, artifact.ModeRegular)
	}); err != nil {
		return rec, j.fail(err)
	}
	if rec.MenuEntryPath != "" {
		if err := e.exportMenu(j, rec); err != nil {
			return rec, j.fail(err)
		}
	}
	if rec.DesktopShortcutPath != "" {
		if err := e.writeShortcut(j, rec, entry); err != nil {
			return rec, j.fail(err)
		}
	}

	if err := e.registry.Put(rec); err != nil {
		return rec, j.fail(err)
	}
	j.commit()
	return rec, nil
}

// allocateID derives the id for displayName and resolves collisions.
func (e *Engine) allocateID(displayName string, asNew bool) (string, error) {
	base, err := paths.NormalizeID(displayName)
	if err != nil {
		return "", err
	}

	records, err := e.registry.List()
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(records))
	for _, r := range records {
		taken[r.ID] = true
	}

	if !taken[base] {
		return base, nil
	}
	if !asNew {
		return "", errors.Newf(errors.ErrAlreadyInstalled, "application '%s' is already installed", base).
			WithDetail("id", base)
	}
	return paths.DisambiguateID(base, func(id string) bool { return taken[id] }), nil
}

// checkSource fails with SOURCE_UNREADABLE unless path is a readable file.
func (e *Engine) checkSource(path string) error {
	info, err := e.fs.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceUnreadable, "cannot read %s", path).
			WithDetail("path", path)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrSourceUnreadable, "%s is a directory", path).
			WithDetail("path", path)
	}
	return nil
}

// checkOutsideRoot rejects input files that live inside the install
// root. Everything under the root belongs to some record or is swept as
// an orphan by the reconcile pass that opens every mutation.
func (e *Engine) checkOutsideRoot(inputs ...string) error {
	root := e.resolver.Root()
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		path, err := paths.NormalizePath(input)
		if err != nil {
			return err
		}
		if within(root, path) {
			return errors.Newf(errors.ErrInvalidInput, "%s is inside the install root %s", path, root).
				WithDetail("path", path)
		}
	}
	return nil
}

// DefaultDisplayName derives a name from a file path: the base name with
// its extension stripped.
func DefaultDisplayName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ";") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
