package artifact

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Scratch file prefixes. Anything carrying them under the managed tree is
// left over from an interrupted operation and may be swept.
const (
	TempPrefix   = ".lbi-tmp-"
	BackupPrefix = ".lbi-bak-"
)

// File modes for written artifacts
const (
	ModeExecutable os.FileMode = 0755
	ModeRegular    os.FileMode = 0644
	modeDir        os.FileMode = 0755
)

// IsScratch reports whether a base name belongs to a temp or backup file.
func IsScratch(name string) bool {
	return strings.HasPrefix(name, TempPrefix) || strings.HasPrefix(name, BackupPrefix)
}

// Writer places artifacts on an afero filesystem.
type Writer struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewWriter creates a Writer on fs
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{
		fs:     fs,
		logger: logging.GetLogger("artifact"),
	}
}

// Fs returns the filesystem the writer operates on
func (w *Writer) Fs() afero.Fs {
	return w.fs
}

// CopyBinary copies an executable. The destination keeps the source's
// permission bits plus 0755.
func (w *Writer) CopyBinary(src, dst string) error {
	info, err := w.statSource(src)
	if err != nil {
		return err
	}
	return w.copyFrom(src, dst, info.Mode().Perm()|ModeExecutable)
}

// CopyFile copies src to dst with the given mode.
func (w *Writer) CopyFile(src, dst string, mode os.FileMode) error {
	if _, err := w.statSource(src); err != nil {
		return err
	}
	return w.copyFrom(src, dst, mode)
}

// WriteBytes writes generated content to dst with the given mode.
func (w *Writer) WriteBytes(dst string, data []byte, mode os.FileMode) error {
	return w.atomicWrite(dst, mode, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
}

func (w *Writer) statSource(src string) (os.FileInfo, error) {
	info, err := w.fs.Stat(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnreadable, "cannot read %s", src).
			WithDetail("path", src)
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.ErrSourceUnreadable, "%s is a directory", src).
			WithDetail("path", src)
	}
	return info, nil
}

func (w *Writer) copyFrom(src, dst string, mode os.FileMode) error {
	in, err := w.fs.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceUnreadable, "cannot open %s", src).
			WithDetail("path", src)
	}
	defer func() { _ = in.Close() }()

	err = w.atomicWrite(dst, mode, func(out io.Writer) error {
		_, err := io.Copy(out, &sourceReader{r: in})
		return err
	})
	var readErr *sourceError
	if stderrors.As(err, &readErr) {
		return errors.Wrapf(readErr.err, errors.ErrSourceUnreadable, "cannot read %s", src).
			WithDetail("path", src)
	}
	return err
}

// atomicWrite fills a scratch file next to dst and renames it into place.
// The scratch file never outlives a failed call.
func (w *Writer) atomicWrite(dst string, mode os.FileMode, fill func(io.Writer) error) (err error) {
	dir := filepath.Dir(dst)
	if err := w.fs.MkdirAll(dir, modeDir); err != nil {
		return destinationError(dst, err)
	}

	tmp, err := afero.TempFile(w.fs, dir, TempPrefix+filepath.Base(dst)+"-*")
	if err != nil {
		return destinationError(dst, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			if rmErr := filesystem.RemoveIfExists(w.fs, tmpName); rmErr != nil {
				w.logger.Warn().Err(rmErr).Str("path", tmpName).Msg("Failed to remove temp file")
			}
		}
	}()

	if err := fill(tmp); err != nil {
		var readErr *sourceError
		if stderrors.As(err, &readErr) {
			return err
		}
		return destinationError(dst, err)
	}
	if err := tmp.Sync(); err != nil {
		return destinationError(dst, err)
	}
	if err := tmp.Close(); err != nil {
		return destinationError(dst, err)
	}
	if err := w.fs.Chmod(tmpName, mode); err != nil {
		return destinationError(dst, err)
	}
	if err := w.fs.Rename(tmpName, dst); err != nil {
		return destinationError(dst, err)
	}
	w.syncDir(dir)

	w.logger.Trace().Str("path", dst).Str("mode", fmt.Sprintf("%#o", mode)).Msg("Artifact written")
	return nil
}

// syncDir makes a rename durable. Filesystems without directory handles
// (memory) are ignored.
func (w *Writer) syncDir(dir string) {
	d, err := w.fs.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// Preserve keeps the current content of path aside so it can be restored
// later. It returns "" when there is nothing to preserve. A hard link is
// used when the filesystem supports it, a copy otherwise.
func (w *Writer) Preserve(path string) (string, error) {
	info, err := filesystem.Lstat(w.fs, path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", destinationError(path, err)
	}

	backup := filepath.Join(filepath.Dir(path), BackupPrefix+filepath.Base(path)+"-"+uuid.NewString()[:8])

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := filesystem.Readlink(w.fs, path)
		if err != nil {
			return "", destinationError(path, err)
		}
		if err := filesystem.Symlink(w.fs, target, backup); err != nil {
			return "", destinationError(path, err)
		}
		return backup, nil
	}

	if err := filesystem.Link(w.fs, path, backup); err == nil {
		return backup, nil
	}

	in, err := w.fs.Open(path)
	if err != nil {
		return "", destinationError(path, err)
	}
	defer func() { _ = in.Close() }()

	out, err := w.fs.OpenFile(backup, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return "", destinationError(backup, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = w.fs.Remove(backup)
		return "", destinationError(backup, err)
	}
	if err := out.Close(); err != nil {
		_ = w.fs.Remove(backup)
		return "", destinationError(backup, err)
	}
	if err := w.fs.Chmod(backup, info.Mode().Perm()); err != nil {
		_ = w.fs.Remove(backup)
		return "", destinationError(backup, err)
	}
	return backup, nil
}

// Restore moves a preserved copy back over path.
func (w *Writer) Restore(backup, path string) error {
	if err := w.fs.Rename(backup, path); err != nil {
		return destinationError(path, err)
	}
	return nil
}

// Discard drops a preserved copy once the operation has committed.
func (w *Writer) Discard(backup string) error {
	if backup == "" {
		return nil
	}
	return filesystem.RemoveIfExists(w.fs, backup)
}

// Remove deletes an artifact. A missing artifact is not an error.
func (w *Writer) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := filesystem.RemoveIfExists(w.fs, path); err != nil {
		return destinationError(path, err)
	}
	return nil
}

// sourceReader tags read errors so they can be told apart from write
// errors coming out of io.Copy.
type sourceReader struct {
	r io.Reader
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		return n, &sourceError{err: err}
	}
	return n, err
}

type sourceError struct {
	err error
}

func (e *sourceError) Error() string { return e.err.Error() }
func (e *sourceError) Unwrap() error { return e.err }
