package artifact

import (
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/google/uuid"
)

// Symlink points dst at target, replacing dst atomically. It returns
// filesystem.ErrUnsupported when the filesystem has no symlinks.
func (w *Writer) Symlink(target, dst string) error {
	dir := filepath.Dir(dst)
	if err := w.fs.MkdirAll(dir, modeDir); err != nil {
		return destinationError(dst, err)
	}

	tmp := filepath.Join(dir, TempPrefix+filepath.Base(dst)+"-"+uuid.NewString()[:8])
	if err := filesystem.Symlink(w.fs, target, tmp); err != nil {
		if stderrors.Is(err, filesystem.ErrUnsupported) {
			return err
		}
		return destinationError(dst, err)
	}
	if err := w.fs.Rename(tmp, dst); err != nil {
		_ = filesystem.RemoveIfExists(w.fs, tmp)
		return destinationError(dst, err)
	}
	w.syncDir(dir)
	return nil
}

// LinkOrCopy exports target at dst as a symlink, or as a copy with mode
// when symlinks are unsupported. It reports whether a link was made.
func (w *Writer) LinkOrCopy(target, dst string, mode os.FileMode) (bool, error) {
	err := w.Symlink(target, dst)
	if stderrors.Is(err, filesystem.ErrUnsupported) {
		return false, w.CopyFile(target, dst, mode)
	}
	return err == nil, err
}
