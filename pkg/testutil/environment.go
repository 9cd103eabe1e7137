package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/lbi/pkg/filesystem"
	"github.com/spf13/afero"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment is an isolated home with an install root and the XDG
// host directories.
type TestEnvironment struct {
	Root       string
	HomeDir    string
	XDGData    string
	XDGConfig  string
	XDGState   string
	MenuDir    string
	DesktopDir string
	SourceDir  string

	FS   afero.Fs
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	base := "/virtual"
	switch envType {
	case EnvMemoryOnly:
		env.FS = filesystem.NewMemory()
	case EnvIsolated:
		base = t.TempDir()
		env.FS = filesystem.NewOS()
	}

	env.HomeDir = filepath.Join(base, "home")
	env.Root = filepath.Join(env.HomeDir, "Software", "LinuxBinaryInstaller")
	env.XDGData = filepath.Join(env.HomeDir, ".local", "share")
	env.XDGConfig = filepath.Join(env.HomeDir, ".config")
	env.XDGState = filepath.Join(env.HomeDir, ".local", "state")
	env.MenuDir = filepath.Join(env.XDGData, "applications")
	env.DesktopDir = filepath.Join(env.HomeDir, "Desktop")
	env.SourceDir = filepath.Join(base, "src")

	for _, dir := range []string{env.HomeDir, env.XDGData, env.MenuDir, env.DesktopDir, env.SourceDir} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	if envType == EnvIsolated {
		t.Setenv("HOME", env.HomeDir)
		t.Setenv("XDG_DATA_HOME", env.XDGData)
		t.Setenv("XDG_CONFIG_HOME", env.XDGConfig)
		t.Setenv("XDG_STATE_HOME", env.XDGState)
	}

	return env
}

// WriteSource creates a file in the source directory and returns its path.
func (env *TestEnvironment) WriteSource(name, content string) string {
	env.t.Helper()
	path := filepath.Join(env.SourceDir, name)
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("failed to create source dir: %v", err)
	}
	if err := afero.WriteFile(env.FS, path, []byte(content), 0644); err != nil {
		env.t.Fatalf("failed to write source %s: %v", path, err)
	}
	return path
}

// WriteFile writes an arbitrary file, creating parent directories.
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := afero.WriteFile(env.FS, path, []byte(content), 0644); err != nil {
		env.t.Fatalf("failed to write %s: %v", path, err)
	}
}

// SVG is a minimal valid SVG document
const SVG = `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="16" height="16"></svg>`
