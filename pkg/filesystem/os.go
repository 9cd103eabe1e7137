package filesystem

import (
	"os"

	"github.com/spf13/afero"
)

// OsFs is afero's OS filesystem extended with hard links.
type OsFs struct {
	afero.OsFs
}

// NewOS creates a new OS filesystem implementation
func NewOS() afero.Fs {
	return &OsFs{}
}

// Name returns the name of this filesystem
func (OsFs) Name() string {
	return "LbiOsFs"
}

// LinkIfPossible creates a hard link newname pointing at oldname.
func (OsFs) LinkIfPossible(oldname, newname string) error {
	return os.Link(oldname, newname)
}
