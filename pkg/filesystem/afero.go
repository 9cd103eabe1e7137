package filesystem

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// ErrUnsupported is returned by helpers when the underlying filesystem
// lacks the requested capability (symlinks, hard links).
var ErrUnsupported = errors.New("operation not supported by filesystem")

// HardLinker is implemented by filesystems that can create hard links.
type HardLinker interface {
	LinkIfPossible(oldname, newname string) error
}

// NewMemory creates an in-memory filesystem for tests.
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Lstat stats name without following a final symlink when the filesystem
// supports it, and falls back to Stat otherwise.
func Lstat(afs afero.Fs, name string) (fs.FileInfo, error) {
	if l, ok := afs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return afs.Stat(name)
}

// Exists reports whether name exists (a dangling symlink counts).
func Exists(afs afero.Fs, name string) (bool, error) {
	_, err := Lstat(afs, name)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsSymlink reports whether name is a symbolic link.
func IsSymlink(afs afero.Fs, name string) bool {
	info, err := Lstat(afs, name)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// Symlink creates newname as a symlink to oldname.
func Symlink(afs afero.Fs, oldname, newname string) error {
	l, ok := afs.(afero.Linker)
	if !ok {
		return ErrUnsupported
	}
	return l.SymlinkIfPossible(oldname, newname)
}

// Readlink returns the target of a symlink.
func Readlink(afs afero.Fs, name string) (string, error) {
	r, ok := afs.(afero.LinkReader)
	if !ok {
		return "", ErrUnsupported
	}
	return r.ReadlinkIfPossible(name)
}

// Link creates a hard link when the filesystem supports it.
func Link(afs afero.Fs, oldname, newname string) error {
	l, ok := afs.(HardLinker)
	if !ok {
		return ErrUnsupported
	}
	return l.LinkIfPossible(oldname, newname)
}

// RemoveIfExists removes name and treats a missing file as success.
func RemoveIfExists(afs afero.Fs, name string) error {
	if err := afs.Remove(name); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
