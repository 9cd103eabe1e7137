package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/lbi/pkg/errors"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Managed directory layout. These names define the on-disk structure under
// the install root and are NOT user-configurable; only the root is.
const (
	// AppDirName is the directory name used under XDG locations
	AppDirName = "lbi"

	// DefaultRootDir is the install root relative to $HOME
	DefaultRootDir = "Software/LinuxBinaryInstaller"

	// BinDir holds installed executables
	BinDir = "bin"

	// IconsDir holds installed icon copies
	IconsDir = "icons"

	// ApplicationsDir holds generated desktop entries
	ApplicationsDir = "applications"

	// RegistryJSONFile is the JSON registry backing store
	RegistryJSONFile = "registry.json"

	// RegistrySQLiteFile is the SQLite registry backing store
	RegistrySQLiteFile = "registry.db"

	// LockFileName is the whole-registry lock file
	LockFileName = ".lock"

	// DesktopEntryExt is the extension of desktop entry files
	DesktopEntryExt = ".desktop"

	// ConfigFileName is the user configuration file name
	ConfigFileName = "config.toml"
)

// DefaultRoot returns the default install root, $HOME/Software/LinuxBinaryInstaller.
func DefaultRoot() string {
	return filepath.Join(GetHomeDirectoryWithDefault("."), DefaultRootDir)
}

// DefaultMenuDir returns the XDG application-menu directory
// ($XDG_DATA_HOME/applications).
func DefaultMenuDir() string {
	return filepath.Join(xdg.DataHome, "applications")
}

// DefaultDesktopDir returns the user's Desktop directory as reported by
// xdg-user-dirs, falling back to $HOME/Desktop.
func DefaultDesktopDir() string {
	if xdg.UserDirs.Desktop != "" {
		return xdg.UserDirs.Desktop
	}
	return filepath.Join(GetHomeDirectoryWithDefault("."), "Desktop")
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/lbi/config.toml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", path)
	}

	return filepath.Clean(abs), nil
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to get home directory")
	}
	return homeDir, nil
}

// GetHomeDirectoryWithDefault returns the home directory or a default value
func GetHomeDirectoryWithDefault(defaultDir string) string {
	homeDir, err := GetHomeDirectory()
	if err != nil {
		return defaultDir
	}
	return homeDir
}
