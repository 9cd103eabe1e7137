package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/types"
)

// Resolver computes canonical artifact locations under an install root.
// It never touches the filesystem.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver for the given root. The root is expanded
// and made absolute.
func NewResolver(root string) (*Resolver, error) {
	abs, err := NormalizePath(root)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: abs}, nil
}

// Root returns the absolute install root
func (r *Resolver) Root() string {
	return r.root
}

// BinDir returns <root>/bin
func (r *Resolver) BinDir() string {
	return filepath.Join(r.root, BinDir)
}

// IconsDir returns <root>/icons
func (r *Resolver) IconsDir() string {
	return filepath.Join(r.root, IconsDir)
}

// ApplicationsDir returns <root>/applications
func (r *Resolver) ApplicationsDir() string {
	return filepath.Join(r.root, ApplicationsDir)
}

// ManagedDirs returns every directory whose contents belong to records.
func (r *Resolver) ManagedDirs() []string {
	return []string{r.BinDir(), r.IconsDir(), r.ApplicationsDir()}
}

// RegistryPath returns the backing store path for a registry backend.
func (r *Resolver) RegistryPath(backend string) string {
	if backend == "sqlite" {
		return filepath.Join(r.root, RegistrySQLiteFile)
	}
	return filepath.Join(r.root, RegistryJSONFile)
}

// LockPath returns <root>/.lock
func (r *Resolver) LockPath() string {
	return filepath.Join(r.root, LockFileName)
}

// Path returns the location of an artifact of the given kind. ext is only
// used for icons and is appended verbatim ("" keeps the icon extensionless).
func (r *Resolver) Path(id string, kind types.ArtifactKind, ext string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}

	switch kind {
	case types.ArtifactBinary:
		return filepath.Join(r.BinDir(), id), nil
	case types.ArtifactIcon:
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.ContainsAny(ext, `/\`) {
			return "", errors.Newf(errors.ErrInvalidInput, "invalid icon extension %q", ext)
		}
		return filepath.Join(r.IconsDir(), id+ext), nil
	case types.ArtifactDesktopEntry:
		return filepath.Join(r.ApplicationsDir(), id+DesktopEntryExt), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "artifact kind %q is not placed under the install root", kind)
	}
}

// ValidateID checks that id can be used as a single path component.
func ValidateID(id string) error {
	if id == "" {
		return errors.New(errors.ErrInvalidIdentifier, "application id is empty")
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, filepath.Separator) {
		return errors.Newf(errors.ErrInvalidIdentifier, "application id %q contains path separators", id).
			WithDetail("id", id)
	}
	return nil
}

// Host locates the artifacts that live outside the install root: the
// exported menu entry and the optional desktop shortcut.
type Host struct {
	MenuDir    string
	DesktopDir string
	// Prefix is prepended to exported file names so they never collide
	// with entries installed by other tools.
	Prefix string
}

// MenuEntryPath returns <MenuDir>/<prefix><id>.desktop
func (h Host) MenuEntryPath(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(h.MenuDir, h.Prefix+id+DesktopEntryExt), nil
}

// DesktopShortcutPath returns <DesktopDir>/<prefix><id>.desktop
func (h Host) DesktopShortcutPath(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(h.DesktopDir, h.Prefix+id+DesktopEntryExt), nil
}
