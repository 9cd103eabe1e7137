package artifact

import (
	stderrors "errors"

	"github.com/arthur-debert/lbi/pkg/errors"
	"golang.org/x/sys/unix"
)

// IsNoSpace reports whether err means the device or quota is full.
func IsNoSpace(err error) bool {
	return stderrors.Is(err, unix.ENOSPC) || stderrors.Is(err, unix.EDQUOT)
}

// destinationError maps a failure on the output side to a coded error.
func destinationError(path string, err error) error {
	if IsNoSpace(err) {
		return errors.Wrapf(err, errors.ErrInsufficientSpace, "not enough space to write %s", path).
			WithDetail("path", path)
	}
	return errors.Wrapf(err, errors.ErrDestinationUnwritable, "cannot write %s", path).
		WithDetail("path", path)
}

// Classify maps an arbitrary filesystem error raised while handling path
// to an installer error. Errors that already carry a code are returned
// unchanged.
func Classify(path string, err error) error {
	if err == nil {
		return nil
	}
	var lbiErr *errors.LbiError
	if stderrors.As(err, &lbiErr) {
		return err
	}
	return destinationError(path, err)
}
