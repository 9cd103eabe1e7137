package engine

import (
	"context"
	"time"

	"github.com/arthur-debert/lbi/pkg/lock"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/arthur-debert/lbi/pkg/registry"
	"github.com/spf13/afero"
)

// ResetRegistry moves a corrupt registry store aside under the lock so the
// next operation starts from an empty registry. It works without an
// Engine because an Engine cannot be used while the store is corrupt.
// The managed files are left alone; the first reconcile pass afterwards
// sweeps them as orphans.
func ResetRegistry(ctx context.Context, l lock.Locker, fs afero.Fs, backend, path string, now time.Time) (string, error) {
	logger := logging.GetLogger("engine")
	if err := l.Lock(ctx); err != nil {
		return "", err
	}
	defer func() {
		if err := l.Unlock(); err != nil {
			logger.Error().Err(err).Msg("Failed to release registry lock")
		}
	}()

	aside, err := registry.Reset(fs, backend, path, now)
	if err != nil {
		return "", err
	}
	if aside != "" {
		logger.Warn().Str("path", path).Str("movedTo", aside).Msg("Registry reset")
	}
	return aside, nil
}
