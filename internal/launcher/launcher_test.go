package launcher

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zloeber/OpenMemory/internal/desktop"
)

func setPlatform(t *testing.T, os, arch string) {
	t.Helper()
	origOS, origArch := goos, goarch
	goos, goarch = os, arch
	t.Cleanup(func() { goos, goarch = origOS, origArch })
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts stand in for the desktop binary")
	}
}

func TestPlatformBinary(t *testing.T) {
	tests := []struct {
		os, arch, want string
	}{
		{"windows", "amd64", "mcp-feedback-enhanced-desktop.exe"},
		{"darwin", "arm64", "mcp-feedback-enhanced-desktop-macos-arm64"},
		{"darwin", "amd64", "mcp-feedback-enhanced-desktop-macos-intel"},
		{"linux", "amd64", "mcp-feedback-enhanced-desktop-linux"},
		{"freebsd", "amd64", "mcp-feedback-enhanced-desktop"},
	}
	for _, tt := range tests {
		t.Run(tt.os+"/"+tt.arch, func(t *testing.T) {
			setPlatform(t, tt.os, tt.arch)
			assert.Equal(t, tt.want, PlatformBinary())
		})
	}
}

func TestCandidatesPlatformFirstWithoutDuplicates(t *testing.T) {
	setPlatform(t, "linux", "amd64")
	names := candidates()
	assert.Equal(t, "mcp-feedback-enhanced-desktop-linux", names[0])
	assert.Len(t, names, 5)
}

func TestResolvePrefersPlatformBinary(t *testing.T) {
	setPlatform(t, "linux", "amd64")
	dir := t.TempDir()
	writeScript(t, dir, BinaryName, "exit 0")
	want := writeScript(t, dir, BinaryName+"-linux", "exit 0")

	got, err := (&Launcher{Dir: dir}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveFallsBack(t *testing.T) {
	setPlatform(t, "linux", "amd64")
	dir := t.TempDir()
	want := writeScript(t, dir, BinaryName+"-macos-intel", "exit 0")

	got, err := (&Launcher{Dir: dir}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveNotFound(t *testing.T) {
	_, err := (&Launcher{Dir: t.TempDir()}).Resolve()
	assert.ErrorIs(t, err, ErrExecutableNotFound)

	_, err = (&Launcher{Executable: filepath.Join(t.TempDir(), "missing")}).Resolve()
	assert.ErrorIs(t, err, ErrExecutableNotFound)
}

func TestResolveUsesExecutableDir(t *testing.T) {
	setPlatform(t, "linux", "amd64")
	dir := t.TempDir()
	want := writeScript(t, dir, BinaryName+"-linux", "exit 0")

	orig := executable
	executable = func() (string, error) { return filepath.Join(dir, "mcp-feedback"), nil }
	defer func() { executable = orig }()

	got, err := (&Launcher{}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnvOverridesLaunchVariables(t *testing.T) {
	t.Setenv(desktop.EnvWebURL, "http://stale.test")
	t.Setenv(desktop.EnvDesktopMode, "false")

	env := Env("http://127.0.0.1:8765")

	var urls, modes []string
	for _, kv := range env {
		if strings.HasPrefix(kv, desktop.EnvWebURL+"=") {
			urls = append(urls, kv)
		}
		if strings.HasPrefix(kv, desktop.EnvDesktopMode+"=") {
			modes = append(modes, kv)
		}
	}
	assert.Equal(t, []string{"MCP_WEB_URL=http://127.0.0.1:8765"}, urls)
	assert.Equal(t, []string{"MCP_DESKTOP_MODE=true"}, modes)
}

func TestStartRejectsInvalidURL(t *testing.T) {
	l := &Launcher{Dir: t.TempDir()}
	err := l.Start("not a url")
	assert.ErrorIs(t, err, desktop.ErrInvalidWebURL)
	assert.False(t, l.Running())
}

func TestStartPassesEnvironment(t *testing.T) {
	skipOnWindows(t)
	out := filepath.Join(t.TempDir(), "env.txt")
	t.Setenv("LAUNCHER_TEST_OUT", out)
	bin := writeScript(t, t.TempDir(), "desktop", `echo "$MCP_WEB_URL $MCP_DESKTOP_MODE" > "$LAUNCHER_TEST_OUT"`)

	l := &Launcher{Executable: bin}
	require.NoError(t, l.Start("http://127.0.0.1:8765"))
	require.NoError(t, l.Wait())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8765 true", strings.TrimSpace(string(data)))
	assert.False(t, l.Running())
}

func TestStopTerminates(t *testing.T) {
	skipOnWindows(t)
	bin := writeScript(t, t.TempDir(), "desktop", "exec sleep 30")

	l := &Launcher{Executable: bin}
	require.NoError(t, l.Start("http://127.0.0.1:8765"))
	assert.True(t, l.Running())
	assert.Error(t, l.Start("http://127.0.0.1:8765"), "second start must fail while running")

	start := time.Now()
	require.NoError(t, l.Stop(StopGrace))
	assert.Less(t, time.Since(start), StopGrace)
	assert.False(t, l.Running())
}

func TestStopKillsAfterGrace(t *testing.T) {
	skipOnWindows(t)
	bin := writeScript(t, t.TempDir(), "desktop", "trap '' TERM\nexec sleep 30")

	l := &Launcher{Executable: bin}
	require.NoError(t, l.Start("http://127.0.0.1:8765"))

	require.NoError(t, l.Stop(200*time.Millisecond))
	assert.False(t, l.Running())
}

func TestStopWithoutStart(t *testing.T) {
	l := &Launcher{}
	assert.ErrorIs(t, l.Stop(time.Second), ErrNotRunning)
	assert.ErrorIs(t, l.Wait(), ErrNotRunning)
}
