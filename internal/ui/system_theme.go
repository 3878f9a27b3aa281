package ui

import (
	"os/exec"
	"runtime"
	"strings"
)

// Package-level hooks for testing.
var (
	goos       = runtime.GOOS
	runCommand = func(name string, args ...string) ([]byte, error) {
		return exec.Command(name, args...).Output()
	}
)

// DetectSystemTheme returns "dark" or "light" from the OS appearance setting.
// The window background is painted with it before the web UI loads, so a
// light desktop does not flash a dark frame. Falls back to "dark".
func DetectSystemTheme() string {
	switch goos {
	case "darwin":
		return macOSTheme()
	case "linux":
		return linuxTheme()
	case "windows":
		return windowsTheme()
	default:
		return "dark"
	}
}

// macOSTheme reads AppleInterfaceStyle; the key is absent in light mode.
func macOSTheme() string {
	out, err := runCommand("defaults", "read", "-g", "AppleInterfaceStyle")
	if err != nil {
		return "light"
	}
	if strings.TrimSpace(string(out)) == "Dark" {
		return "dark"
	}
	return "light"
}

// linuxTheme asks GNOME for color-scheme (42+), then the GTK theme name.
func linuxTheme() string {
	if out, err := runCommand("gsettings", "get", "org.gnome.desktop.interface", "color-scheme"); err == nil {
		lower := strings.ToLower(string(out))
		switch {
		case strings.Contains(lower, "dark"):
			return "dark"
		case strings.Contains(lower, "light"):
			return "light"
		}
	}
	if out, err := runCommand("gsettings", "get", "org.gnome.desktop.interface", "gtk-theme"); err == nil &&
		strings.Contains(strings.ToLower(string(out)), "dark") {
		return "dark"
	}
	return "dark"
}

// windowsTheme reads AppsUseLightTheme from the personalization key.
func windowsTheme() string {
	out, err := runCommand("reg", "query",
		`HKCU\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`, "/v", "AppsUseLightTheme")
	if err != nil {
		return "dark"
	}
	if strings.Contains(string(out), "0x1") {
		return "light"
	}
	return "dark"
}
