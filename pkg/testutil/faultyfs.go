package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Op names a filesystem operation FaultyFs can fail.
type Op string

const (
	OpCreate Op = "create" // Create, or OpenFile with O_CREATE
	OpRename Op = "rename" // matched against the destination
	OpRemove Op = "remove"
	OpMkdir  Op = "mkdir"
	OpChmod  Op = "chmod"
)

type fault struct {
	op    Op
	match func(path string) bool
	err   error
}

// FaultyFs wraps an afero.Fs and returns configured errors for matching
// operations. All other calls pass through.
type FaultyFs struct {
	afero.Fs

	mu     sync.Mutex
	faults []fault
	hits   map[Op]int
}

// NewFaultyFs wraps base
func NewFaultyFs(base afero.Fs) *FaultyFs {
	return &FaultyFs{Fs: base, hits: make(map[Op]int)}
}

// FailOn makes op fail with err for every path match accepts.
func (f *FaultyFs) FailOn(op Op, match func(path string) bool, err error) *FaultyFs {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = append(f.faults, fault{op: op, match: match, err: err})
	return f
}

// FailUnder makes op fail for dir itself and every path inside it.
func (f *FaultyFs) FailUnder(op Op, dir string, err error) *FaultyFs {
	dir = filepath.Clean(dir)
	prefix := dir + string(filepath.Separator)
	return f.FailOn(op, func(path string) bool {
		path = filepath.Clean(path)
		return path == dir || strings.HasPrefix(path, prefix)
	}, err)
}

// Reset removes every configured fault.
func (f *FaultyFs) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = nil
}

// Hits returns how many times op was failed.
func (f *FaultyFs) Hits(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[op]
}

func (f *FaultyFs) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ft := range f.faults {
		if ft.op == op && ft.match(path) {
			f.hits[op]++
			return &os.PathError{Op: string(op), Path: path, Err: ft.err}
		}
	}
	return nil
}

func (f *FaultyFs) Name() string { return "FaultyFs" }

func (f *FaultyFs) Create(name string) (afero.File, error) {
	if err := f.check(OpCreate, name); err != nil {
		return nil, err
	}
	return f.Fs.Create(name)
}

func (f *FaultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&os.O_CREATE != 0 {
		if err := f.check(OpCreate, name); err != nil {
			return nil, err
		}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FaultyFs) Rename(oldname, newname string) error {
	if err := f.check(OpRename, newname); err != nil {
		return err
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *FaultyFs) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.Fs.Remove(name)
}

func (f *FaultyFs) RemoveAll(path string) error {
	if err := f.check(OpRemove, path); err != nil {
		return err
	}
	return f.Fs.RemoveAll(path)
}

func (f *FaultyFs) Mkdir(name string, perm os.FileMode) error {
	if err := f.check(OpMkdir, name); err != nil {
		return err
	}
	return f.Fs.Mkdir(name, perm)
}

func (f *FaultyFs) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdir, path); err != nil {
		return err
	}
	return f.Fs.MkdirAll(path, perm)
}

func (f *FaultyFs) Chmod(name string, mode os.FileMode) error {
	if err := f.check(OpChmod, name); err != nil {
		return err
	}
	return f.Fs.Chmod(name, mode)
}

func (f *FaultyFs) Chtimes(name string, atime, mtime time.Time) error {
	return f.Fs.Chtimes(name, atime, mtime)
}
