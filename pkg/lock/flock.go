package lock

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// FileLock is a flock(2) based Locker on a lock file.
type FileLock struct {
	path   string
	policy Policy
	logger zerolog.Logger

	mu   sync.Mutex
	file *os.File
}

// NewFileLock creates a lock on path. The file is created on first use.
func NewFileLock(path string, policy Policy) *FileLock {
	return &FileLock{
		path:   path,
		policy: policy,
		logger: logging.GetLogger("lock").With().Str("path", path).Logger(),
	}
}

// Path returns the lock file location
func (l *FileLock) Path() string {
	return l.path
}

// Lock acquires the lock under the retry policy.
func (l *FileLock) Lock(ctx context.Context) error {
	err := acquire(ctx, l.policy, l.path, l.TryLock)
	if err == nil {
		l.logger.Trace().Msg("Lock acquired")
	}
	return err
}

// TryLock makes one non-blocking attempt.
func (l *FileLock) TryLock() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		// already held by this handle
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDestinationUnwritable, "cannot create %s", filepath.Dir(l.path))
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrDestinationUnwritable, "cannot open lock file %s", l.path)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if err == unix.EWOULDBLOCK || err == unix.EINTR {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrDestinationUnwritable, "cannot lock %s", l.path)
	}

	l.file = f
	return true, nil
}

// Unlock releases the lock. Unlocking a lock that is not held is a no-op.
func (l *FileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot unlock %s", l.path)
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, errors.ErrInternal, "cannot close %s", l.path)
	}
	l.logger.Trace().Msg("Lock released")
	return nil
}
