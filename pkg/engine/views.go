package engine

import (
	"context"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/types"
)

// List returns every installed application sorted by id.
func (e *Engine) List(ctx context.Context) (types.ApplicationList, error) {
	op, done := e.begin("list")
	defer done()

	records, snapshot, err := e.read(ctx, op)
	if err != nil {
		return types.ApplicationList{}, err
	}
	return types.ApplicationList{Applications: records, Snapshot: snapshot}, nil
}

// Status returns the record of id and the presence of each artifact.
func (e *Engine) Status(ctx context.Context, id string) (types.ApplicationStatus, error) {
	op, done := e.begin("status")
	defer done()

	if err := paths.ValidateID(id); err != nil {
		return types.ApplicationStatus{}, err
	}
	records, snapshot, err := e.read(ctx, op)
	if err != nil {
		return types.ApplicationStatus{}, err
	}
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		status := types.ApplicationStatus{Record: rec, Snapshot: snapshot}
		for _, p := range rec.OwnedPaths() {
			status.Artifacts = append(status.Artifacts, types.ArtifactState{
				Kind:    p.Kind,
				Path:    p.Path,
				Present: e.exists(p.Path),
			})
		}
		return status, nil
	}
	return types.ApplicationStatus{}, errors.Newf(errors.ErrNotFound, "application '%s' is not installed", id).
		WithDetail("id", id)
}

// read reconciles and lists when the lock is free. While another
// operation holds it, read lists the last committed snapshot instead and
// hides records whose binary is missing.
func (e *Engine) read(ctx context.Context, op *operation) ([]types.ApplicationRecord, bool, error) {
	ok, err := e.locker.TryLock()
	if err != nil {
		return nil, false, boundary(err)
	}

	if ok {
		defer func() {
			if err := e.locker.Unlock(); err != nil {
				op.logger.Error().Err(err).Msg("Failed to release registry lock")
			}
		}()
		report, err := e.reconcile(op)
		if err != nil {
			return nil, false, boundary(err)
		}
		records, err := e.registry.List()
		if err != nil {
			return nil, false, boundary(err)
		}
		if !report.Empty() {
			e.refresh(ctx, op)
		}
		return records, false, nil
	}

	op.logger.Debug().Msg("Registry is locked, reading snapshot")
	records, err := e.snapshot()
	if err != nil {
		return nil, true, boundary(err)
	}
	visible := make([]types.ApplicationRecord, 0, len(records))
	for _, rec := range records {
		if e.exists(rec.InstalledBinaryPath) {
			visible = append(visible, rec)
		}
	}
	return visible, true, nil
}
