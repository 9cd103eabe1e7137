package lbi

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/lbi/internal/version"
	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/arthur-debert/lbi/pkg/ui/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliEnv points every host directory lbi touches at a temp dir
type cliEnv struct {
	t          *testing.T
	base       string
	root       string
	menuDir    string
	desktopDir string
	configPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	base := t.TempDir()
	env := &cliEnv{
		t:          t,
		base:       base,
		root:       filepath.Join(base, "root"),
		menuDir:    filepath.Join(base, "menu"),
		desktopDir: filepath.Join(base, "Desktop"),
		configPath: filepath.Join(base, "config.toml"),
	}
	require.NoError(t, os.WriteFile(env.configPath, nil, 0644))

	t.Setenv("HOME", base)
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
	t.Setenv("LBI_CONFIG", env.configPath)
	t.Setenv("LBI_MENU__DIR", env.menuDir)
	t.Setenv("LBI_DESKTOP__DIR", env.desktopDir)
	t.Setenv("LBI_MENU__REFRESH_DATABASE", "false")
	return env
}

// source writes an executable script and returns its path
func (e *cliEnv) source(name string) string {
	e.t.Helper()
	path := filepath.Join(e.base, "src", name)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte("#!/bin/sh\necho hello\n"), 0755))
	return path
}

// run executes lbi with JSON output against the env's root
func (e *cliEnv) run(args ...string) (string, string, int) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append(append([]string{}, args...), "--root", e.root, "--format", "json")
	code := Execute(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	stdout, stderr, code := e.run(args...)
	require.Equal(e.t, 0, code, "lbi %s failed: %s", strings.Join(args, " "), stderr)
	return stdout
}

func decode[T any](t *testing.T, data string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(data), &v), data)
	return v
}

func errorInfo(t *testing.T, stderr string) view.ErrorInfo {
	t.Helper()
	return decode[map[string]view.ErrorInfo](t, stderr)["error"]
}

func TestInstallListUninstall(t *testing.T) {
	env := newCLIEnv(t)
	src := env.source("myapp.sh")

	out := decode[view.Outcome](t, env.mustRun("install", src, "--name", "MyApp", "--category", "Utility,Development"))
	assert.Equal(t, "installed", out.Action)
	assert.Equal(t, "myapp", out.Application.ID)
	assert.Equal(t, filepath.Join(env.root, "bin", "myapp"), out.Application.InstalledBinaryPath)
	assert.Equal(t, []string{"Development", "Utility"}, out.Application.Categories)
	assert.FileExists(t, out.Application.InstalledBinaryPath)
	assert.FileExists(t, out.Application.DesktopEntryPath)

	_, err := os.Lstat(filepath.Join(env.menuDir, "lbi-myapp.desktop"))
	assert.NoError(t, err, "menu export should exist")

	list := decode[types.ApplicationList](t, env.mustRun("list"))
	require.Len(t, list.Applications, 1)
	assert.Equal(t, "myapp", list.Applications[0].ID)
	assert.False(t, list.Snapshot)

	status := decode[types.ApplicationStatus](t, env.mustRun("status", "myapp"))
	assert.Equal(t, "MyApp", status.Record.DisplayName)
	for _, a := range status.Artifacts {
		assert.True(t, a.Present, "%s should be present", a.Path)
	}

	removed := decode[view.Outcome](t, env.mustRun("uninstall", "myapp"))
	assert.Equal(t, "uninstalled", removed.Action)
	assert.NoFileExists(t, out.Application.InstalledBinaryPath)
	assert.NoFileExists(t, out.Application.DesktopEntryPath)

	list = decode[types.ApplicationList](t, env.mustRun("list"))
	assert.Empty(t, list.Applications)
}

func TestInstall_Collision(t *testing.T) {
	env := newCLIEnv(t)
	src := env.source("tool.sh")
	env.mustRun("install", src, "--name", "Tool")

	_, stderr, code := env.run("install", src, "--name", "Tool")
	assert.Equal(t, 1, code)
	info := errorInfo(t, stderr)
	assert.Equal(t, errors.ErrAlreadyInstalled, info.Code)
	assert.NotEmpty(t, info.Hint)

	out := decode[view.Outcome](t, env.mustRun("install", src, "--name", "Tool", "--as-new"))
	assert.Equal(t, "tool-2", out.Application.ID)
}

func TestInstall_DefaultNameAndMissingSource(t *testing.T) {
	env := newCLIEnv(t)

	out := decode[view.Outcome](t, env.mustRun("install", env.source("Fancy Tool.sh")))
	assert.Equal(t, "Fancy Tool", out.Application.DisplayName)

	_, stderr, code := env.run("install", filepath.Join(env.base, "missing"))
	assert.Equal(t, 1, code)
	assert.Equal(t, errors.ErrSourceUnreadable, errorInfo(t, stderr).Code)
}

func TestUpdate_Diff(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("install", env.source("app.sh"), "--name", "App")

	out := decode[view.Outcome](t, env.mustRun("update", "app", "--comment", "Does things", "--diff"))
	assert.Equal(t, "updated", out.Action)
	assert.Equal(t, "Does things", out.Application.Comment)
	require.NotNil(t, out.Diff)
	assert.True(t, out.Diff.Changed())
	assert.Equal(t, "app.desktop", out.Diff.Title)
	assert.Contains(t, out.Diff.Lines, view.DiffLine{Op: view.DiffInsert, Text: "Comment=Does things"})

	// flags that are not given leave the record alone
	again := decode[view.Outcome](t, env.mustRun("update", "app", "--diff"))
	assert.Equal(t, "Does things", again.Application.Comment)
	require.NotNil(t, again.Diff)
	assert.False(t, again.Diff.Changed())
}

func TestUpdate_InvalidFlags(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("install", env.source("app.sh"), "--name", "App")

	_, stderr, code := env.run("update", "app", "--icon", "/tmp/x.png", "--no-icon")
	assert.Equal(t, 2, code)
	assert.Equal(t, errors.ErrInvalidInput, errorInfo(t, stderr).Code)

	_, stderr, code = env.run("update", "ghost", "--comment", "x")
	assert.Equal(t, 1, code)
	assert.Equal(t, errors.ErrNotFound, errorInfo(t, stderr).Code)
}

func TestReconcile_RemovesOrphans(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("list")

	orphan := filepath.Join(env.root, "bin", "stray")
	require.NoError(t, os.MkdirAll(filepath.Dir(orphan), 0755))
	require.NoError(t, os.WriteFile(orphan, []byte("x"), 0755))

	report := decode[types.ReconcileReport](t, env.mustRun("reconcile"))
	assert.Contains(t, report.RemovedOrphans, orphan)
	assert.NoFileExists(t, orphan)
}

func TestRegistryReset(t *testing.T) {
	env := newCLIEnv(t)

	_, stderr, code := env.run("registry", "reset")
	assert.Equal(t, 2, code)
	assert.Equal(t, errors.ErrInvalidInput, errorInfo(t, stderr).Code)

	msg := decode[map[string]string](t, env.mustRun("registry", "reset", "--force"))
	assert.Equal(t, MsgResetNothing, msg["message"])

	require.NoError(t, os.MkdirAll(env.root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(env.root, "registry.json"), []byte("{not json"), 0644))

	_, stderr, code = env.run("list")
	assert.Equal(t, 1, code)
	assert.Equal(t, errors.ErrRegistryCorrupt, errorInfo(t, stderr).Code)

	msg = decode[map[string]string](t, env.mustRun("registry", "reset", "--force"))
	assert.Contains(t, msg["message"], "registry.json.corrupt-")
	env.mustRun("list")
}

func TestGenConfig(t *testing.T) {
	env := newCLIEnv(t)

	template := env.mustRun("genconfig")
	assert.Contains(t, template, "[lock]")
	assert.Contains(t, template, "# retries = 10")

	effective := env.mustRun("genconfig", "--effective")
	assert.Contains(t, effective, env.root)
	assert.Contains(t, effective, env.menuDir)

	_, stderr, code := env.run("genconfig", "--write")
	assert.Equal(t, 2, code)
	assert.Equal(t, errors.ErrInvalidInput, errorInfo(t, stderr).Code)

	msg := decode[map[string]string](t, env.mustRun("genconfig", "--write", "--force"))
	assert.Contains(t, msg["message"], env.configPath)
	data, err := os.ReadFile(env.configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[registry]")

	// the written template still loads
	env.mustRun("list")
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	info := decode[version.Info](t, env.mustRun("version"))
	assert.Equal(t, version.Version, info.Version)
}

func TestHelpTopics(t *testing.T) {
	newCLIEnv(t)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"help", "topics"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	for _, topic := range []string{"lock-contention", "registry-corrupt", "layout", "configuration"} {
		assert.Contains(t, stdout.String(), topic)
	}

	stdout.Reset()
	code = Execute(context.Background(), []string{"help", "LOCK_CONTENTION"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.NotEmpty(t, stdout.String())
}

func TestErrorTopicsExist(t *testing.T) {
	for _, code := range errors.Codes() {
		if code == errors.ErrConfigLoad || code == errors.ErrConfigParse {
			continue
		}
		name := strings.ReplaceAll(strings.ToLower(string(code)), "_", "-")
		_, err := helpTopics.ReadFile(helpTopicsDir + "/" + name + ".md")
		assert.NoError(t, err, "missing help topic for %s", code)
	}
}

func TestCompletion(t *testing.T) {
	newCLIEnv(t)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"completion", "bash"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "lbi")
}

func TestInvalidFormat(t *testing.T) {
	env := newCLIEnv(t)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"list", "--root", env.root, "--format", "xml"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "INVALID_INPUT")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"usage", assert.AnError, 2},
		{"invalid input", errors.New(errors.ErrInvalidInput, "bad"), 2},
		{"invalid identifier", errors.New(errors.ErrInvalidIdentifier, "bad"), 2},
		{"lock", errors.New(errors.ErrLockContention, "busy"), 75},
		{"not found", errors.New(errors.ErrNotFound, "gone"), 1},
		{"corrupt", errors.New(errors.ErrRegistryCorrupt, "bad"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
