package applog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := stderr
	stderr = &buf
	t.Cleanup(func() { stderr = orig })
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"TRACE", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestInitTextRespectsLevel(t *testing.T) {
	buf := captureStderr(t)
	Init(Options{Level: "warn"})

	WithComponent("test").Info("hidden")
	WithComponent("test").Warn("shown", slog.String("k", "v"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "k=v")
}

func TestInitWritesJSONFile(t *testing.T) {
	captureStderr(t)
	path := filepath.Join(t.TempDir(), "desktop.log")
	Init(Options{Level: "debug", Format: "json", File: path})

	WithComponent("bootstrap").Debug("navigate", slog.String("url", "http://example.test"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec))
	assert.Equal(t, "navigate", rec["msg"])
	assert.Equal(t, "bootstrap", rec["component"])
	assert.Equal(t, "http://example.test", rec["url"])
	assert.Equal(t, "mcp-feedback-desktop", rec["app"])
}

func TestFromEnv(t *testing.T) {
	t.Setenv("MCP_DESKTOP_LOG_LEVEL", "error")
	t.Setenv("MCP_DESKTOP_LOG_FORMAT", "json")
	t.Setenv("MCP_DESKTOP_LOG_FILE", "/tmp/x.log")

	opts := FromEnv()
	assert.Equal(t, Options{Level: "error", Format: "json", File: "/tmp/x.log"}, opts)
}

func TestWailsLoggerRoutesToSlog(t *testing.T) {
	buf := captureStderr(t)
	Init(Options{Level: "debug"})

	wl := NewWailsLogger(nil)
	wl.Info("asset server ready")
	wl.Warning("slow start")
	wl.Error("bind failed")

	out := buf.String()
	assert.Contains(t, out, "asset server ready")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "component=wails")
}

func TestWailsLoggerFatalExits(t *testing.T) {
	captureStderr(t)
	Init(Options{})

	var code int
	orig := exitFn
	exitFn = func(c int) { code = c }
	defer func() { exitFn = orig }()

	NewWailsLogger(nil).Fatal("boom")
	assert.Equal(t, 1, code)
}

func TestWailsLoggerPanicOnFatal(t *testing.T) {
	captureStderr(t)
	Init(Options{})

	exited := false
	orig := exitFn
	exitFn = func(int) { exited = true }
	defer func() { exitFn = orig }()

	assert.PanicsWithValue(t, "wails fatal: boom", func() {
		NewWailsLogger(nil).PanicOnFatal().Fatal("boom")
	})
	assert.False(t, exited)
}

func TestWailsLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, WailsLevel("debug"))
	assert.Equal(t, logger.INFO, WailsLevel("info"))
	assert.Equal(t, logger.WARNING, WailsLevel("warn"))
	assert.Equal(t, logger.ERROR, WailsLevel("error"))
	assert.Equal(t, logger.INFO, WailsLevel(""))
}
