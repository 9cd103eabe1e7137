package registry

import (
	"fmt"
	"os"
	"time"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/spf13/afero"
)

// Reset moves the store at path aside as <path>.corrupt-<timestamp> and
// returns the new location, or "" when there was no store. The sqlite
// sidecar files move with it.
func Reset(fs afero.Fs, backend, path string, now time.Time) (string, error) {
	exists, err := filesystem.Exists(fs, path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrDestinationUnwritable, "cannot inspect %s", path)
	}
	if !exists {
		return "", nil
	}

	aside := fmt.Sprintf("%s.corrupt-%s", path, now.UTC().Format("20060102T150405Z"))
	if err := fs.Rename(path, aside); err != nil {
		return "", errors.Wrapf(err, errors.ErrDestinationUnwritable, "cannot move %s aside", path).
			WithDetail("path", path)
	}

	if backend == BackendSQLite {
		for _, suffix := range []string{"-wal", "-shm"} {
			if err := fs.Rename(path+suffix, aside+suffix); err != nil && !os.IsNotExist(err) {
				return aside, errors.Wrapf(err, errors.ErrDestinationUnwritable, "cannot move %s aside", path+suffix)
			}
		}
	}
	return aside, nil
}
