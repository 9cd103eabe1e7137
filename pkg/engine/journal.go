package engine

import (
	"github.com/arthur-debert/lbi/pkg/artifact"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/rs/zerolog"
)

// step is one completed artifact write. backup is the preserved prior
// content; empty means the artifact did not exist before.
type step struct {
	kind   types.ArtifactKind
	path   string
	backup string
}

// journal records completed writes of one operation so they can be
// undone in reverse order.
type journal struct {
	writer *artifact.Writer
	logger zerolog.Logger
	steps  []step
}

func newJournal(w *artifact.Writer, logger zerolog.Logger) *journal {
	return &journal{writer: w, logger: logger}
}

// place preserves the current content of path, runs write and records the
// step. A failed write leaves the prior artifact in place.
func (j *journal) place(kind types.ArtifactKind, path string, write func() error) error {
	backup, err := j.writer.Preserve(path)
	if err != nil {
		return err
	}
	if err := write(); err != nil {
		if dErr := j.writer.Discard(backup); dErr != nil {
			j.logger.Warn().Err(dErr).Str("backup", backup).Msg("Failed to drop backup")
		}
		return err
	}
	j.steps = append(j.steps, step{kind: kind, path: path, backup: backup})
	j.logger.Debug().Str("kind", string(kind)).Str("path", path).Bool("replaced", backup != "").Msg("Artifact placed")
	return nil
}

// rollback undoes every step in reverse order. It keeps going past
// failures and reports whether everything was undone.
func (j *journal) rollback() bool {
	clean := true
	for i := len(j.steps) - 1; i >= 0; i-- {
		s := j.steps[i]
		var err error
		if s.backup != "" {
			err = j.writer.Restore(s.backup, s.path)
		} else {
			err = j.writer.Remove(s.path)
		}
		if err != nil {
			clean = false
			j.logger.Error().Err(err).Str("kind", string(s.kind)).Str("path", s.path).Msg("Rollback step failed")
			continue
		}
		j.logger.Debug().Str("kind", string(s.kind)).Str("path", s.path).Msg("Rolled back")
	}
	j.steps = nil
	return clean
}

// commit drops the preserved copies.
func (j *journal) commit() {
	for _, s := range j.steps {
		if err := j.writer.Discard(s.backup); err != nil {
			j.logger.Warn().Err(err).Str("backup", s.backup).Msg("Failed to drop backup")
		}
	}
	j.steps = nil
}

// fail rolls back and annotates err.
func (j *journal) fail(err error) error {
	if !j.rollback() {
		return withDetail(err, "rollbackIncomplete", true)
	}
	return err
}
