package engine

import (
	"context"

	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/types"
)

// Uninstall deletes every artifact of id and then its record. An
// interruption leaves a record whose artifacts are partly gone, which the
// next reconcile pass repairs or removes.
func (e *Engine) Uninstall(ctx context.Context, id string) (types.ApplicationRecord, error) {
	op, done := e.begin("uninstall")
	defer done()
	op.logger = op.logger.With().Str("id", id).Logger()

	var rec types.ApplicationRecord
	err := e.mutate(ctx, op, func() error {
		if err := paths.ValidateID(id); err != nil {
			return err
		}
		var err error
		if rec, err = e.registry.Get(id); err != nil {
			return err
		}
		if err := e.removeArtifacts(op, rec); err != nil {
			return err
		}
		return e.registry.Delete(id)
	})
	if err != nil {
		op.logger.Warn().Err(err).Msg("Uninstall failed")
		return types.ApplicationRecord{}, err
	}
	op.logger.Info().Msg("Application uninstalled")
	return rec, nil
}

// uninstallOrder is the deletion order: launchers first, binary last.
var uninstallOrder = []types.ArtifactKind{
	types.ArtifactDesktopShortcut,
	types.ArtifactMenuEntry,
	types.ArtifactDesktopEntry,
	types.ArtifactIcon,
	types.ArtifactBinary,
}

func (e *Engine) removeArtifacts(op *operation, rec types.ApplicationRecord) error {
	owned := make(map[types.ArtifactKind]string)
	for _, p := range rec.OwnedPaths() {
		owned[p.Kind] = p.Path
	}
	for _, kind := range uninstallOrder {
		path, ok := owned[kind]
		if !ok {
			continue
		}
		if err := e.writer.Remove(path); err != nil {
			return err
		}
		op.logger.Debug().Str("kind", string(kind)).Str("path", path).Msg("Artifact removed")
	}
	return nil
}
