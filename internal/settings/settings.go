// Package settings reads and writes the [desktop] section of the shell's
// config.toml and watches the file for changes made while the window is open.
package settings

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/zloeber/OpenMemory/internal/applog"
)

const (
	DefaultTitle  = "MCP Feedback Enhanced"
	DefaultWidth  = 1024
	DefaultHeight = 768

	minWidth, maxWidth   = 400, 7680
	minHeight, maxHeight = 300, 4320
)

// DesktopConfig represents the [desktop] section of config.toml
type DesktopConfig struct {
	Title       string    `toml:"title"`
	Width       int       `toml:"width"`
	Height      int       `toml:"height"`
	WebURL      string    `toml:"web_url"`
	DesktopMode bool      `toml:"desktop_mode"`
	Debug       bool      `toml:"debug"`
	Log         LogConfig `toml:"log"`
}

// LogConfig represents [desktop.log]
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() DesktopConfig {
	return DesktopConfig{
		Title:  DefaultTitle,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Log:    LogConfig{Level: "info"},
	}
}

// Manager manages the desktop section of config.toml
type Manager struct {
	configPath string
}

// NewManager creates a manager for the default config location.
func NewManager() *Manager {
	return NewManagerAt(DefaultPath())
}

// NewManagerAt creates a manager for an explicit config file.
func NewManagerAt(path string) *Manager {
	return &Manager{configPath: path}
}

// DefaultPath returns ~/.mcp-feedback-enhanced/config.toml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".mcp-feedback-enhanced", "config.toml")
	}
	return filepath.Join(home, ".mcp-feedback-enhanced", "config.toml")
}

// Path returns the config file this manager reads.
func (m *Manager) Path() string { return m.configPath }

type fullConfig struct {
	Desktop DesktopConfig `toml:"desktop"`
}

// Load reads the desktop section. A missing file yields defaults; an
// unparsable file yields defaults and a logged warning.
func (m *Manager) Load() (DesktopConfig, error) {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Defaults(), err
	}

	var cfg fullConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		applog.WithComponent("settings").Warn("config parse failed, using defaults",
			"path", m.configPath, "err", err)
		return Defaults(), nil
	}
	return normalize(cfg.Desktop), nil
}

func normalize(c DesktopConfig) DesktopConfig {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	c.WebURL = strings.TrimSpace(c.WebURL)
	c.Width = clamp(c.Width, DefaultWidth, minWidth, maxWidth)
	c.Height = clamp(c.Height, DefaultHeight, minHeight, maxHeight)

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
		c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	default:
		c.Log.Level = "info"
	}
	return c
}

// clamp returns def for zero, otherwise v bounded to [lo, hi].
func clamp(v, def, lo, hi int) int {
	switch {
	case v == 0:
		return def
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// Save writes the desktop section, preserving every other section of the file.
func (m *Manager) Save(desktop DesktopConfig) error {
	desktop = normalize(desktop)

	existingData, _ := os.ReadFile(m.configPath)

	existing := make(map[string]interface{})
	if len(existingData) > 0 {
		if err := toml.Unmarshal(existingData, &existing); err != nil {
			existing = make(map[string]interface{})
		}
	}

	existing["desktop"] = map[string]interface{}{
		"title":        desktop.Title,
		"width":        desktop.Width,
		"height":       desktop.Height,
		"web_url":      desktop.WebURL,
		"desktop_mode": desktop.DesktopMode,
		"debug":        desktop.Debug,
		"log": map[string]interface{}{
			"level": desktop.Log.Level,
			"file":  desktop.Log.File,
		},
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0700); err != nil {
		return err
	}

	var buf bytes.Buffer
	if len(existingData) == 0 {
		buf.WriteString("# MCP Feedback Enhanced desktop configuration\n\n")
	}
	if err := toml.NewEncoder(&buf).Encode(existing); err != nil {
		return err
	}
	return os.WriteFile(m.configPath, buf.Bytes(), 0600)
}
