package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/paths"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Path(t *testing.T) {
	root := t.TempDir()
	r, err := paths.NewResolver(root)
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
		kind types.ArtifactKind
		ext  string
		want string
	}{
		{name: "binary", id: "myapp", kind: types.ArtifactBinary, want: filepath.Join(root, "bin", "myapp")},
		{name: "icon_with_dot", id: "myapp", kind: types.ArtifactIcon, ext: ".png", want: filepath.Join(root, "icons", "myapp.png")},
		{name: "icon_without_dot", id: "myapp", kind: types.ArtifactIcon, ext: "svg", want: filepath.Join(root, "icons", "myapp.svg")},
		{name: "icon_extension_case_kept", id: "myapp", kind: types.ArtifactIcon, ext: ".PNG", want: filepath.Join(root, "icons", "myapp.PNG")},
		{name: "icon_no_extension", id: "myapp", kind: types.ArtifactIcon, want: filepath.Join(root, "icons", "myapp")},
		{name: "desktop_entry", id: "myapp", kind: types.ArtifactDesktopEntry, want: filepath.Join(root, "applications", "myapp.desktop")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Path(tt.id, tt.kind, tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_Path_Deterministic(t *testing.T) {
	r, err := paths.NewResolver("/opt/lbi")
	require.NoError(t, err)

	a, err := r.Path("tool", types.ArtifactBinary, "")
	require.NoError(t, err)
	b, err := r.Path("tool", types.ArtifactBinary, "")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := r.Path("tool-2", types.ArtifactBinary, "")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestResolver_Path_InvalidIdentifier(t *testing.T) {
	r, err := paths.NewResolver("/opt/lbi")
	require.NoError(t, err)

	for _, id := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		t.Run(id, func(t *testing.T) {
			_, err := r.Path(id, types.ArtifactBinary, "")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidIdentifier), "got %v", err)
		})
	}
}

func TestResolver_Path_UnmanagedKind(t *testing.T) {
	r, err := paths.NewResolver("/opt/lbi")
	require.NoError(t, err)

	_, err = r.Path("tool", types.ArtifactMenuEntry, "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestResolver_Layout(t *testing.T) {
	r, err := paths.NewResolver("/opt/lbi")
	require.NoError(t, err)

	assert.Equal(t, "/opt/lbi", r.Root())
	assert.Equal(t, "/opt/lbi/registry.json", r.RegistryPath("json"))
	assert.Equal(t, "/opt/lbi/registry.db", r.RegistryPath("sqlite"))
	assert.Equal(t, "/opt/lbi/.lock", r.LockPath())
	assert.Equal(t, []string{"/opt/lbi/bin", "/opt/lbi/icons", "/opt/lbi/applications"}, r.ManagedDirs())
}

func TestNewResolver_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	r, err := paths.NewResolver("~/Software/LinuxBinaryInstaller")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Software", "LinuxBinaryInstaller"), r.Root())
}

func TestNewResolver_EmptyRoot(t *testing.T) {
	_, err := paths.NewResolver("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestHost(t *testing.T) {
	h := paths.Host{MenuDir: "/home/u/.local/share/applications", DesktopDir: "/home/u/Desktop", Prefix: "lbi-"}

	menu, err := h.MenuEntryPath("myapp")
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.local/share/applications/lbi-myapp.desktop", menu)

	shortcut, err := h.DesktopShortcutPath("myapp")
	require.NoError(t, err)
	assert.Equal(t, "/home/u/Desktop/lbi-myapp.desktop", shortcut)

	_, err = h.MenuEntryPath("../x")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidIdentifier))
}
