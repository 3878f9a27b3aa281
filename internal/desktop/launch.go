package desktop

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Environment variables consulted once at startup.
const (
	EnvWebURL      = "MCP_WEB_URL"
	EnvDesktopMode = "MCP_DESKTOP_MODE"
)

// ErrInvalidWebURL marks a launch URL that cannot be navigated to.
var ErrInvalidWebURL = errors.New("invalid web url")

// Package-level hook for testing.
var getEnvVar = os.Getenv

// LaunchEnv is the launch configuration read from the process environment.
type LaunchEnv struct {
	WebURL      string
	DesktopMode bool
}

// LaunchFromEnv reads MCP_WEB_URL and MCP_DESKTOP_MODE. The URL is returned
// verbatim; validation happens when it is used.
func LaunchFromEnv() LaunchEnv {
	return LaunchEnv{
		WebURL:      strings.TrimSpace(getEnvVar(EnvWebURL)),
		DesktopMode: strings.EqualFold(strings.TrimSpace(getEnvVar(EnvDesktopMode)), "true"),
	}
}

// ParseWebURL validates raw as an absolute, hierarchical URL the window can load.
// http and https URLs must carry a host.
func ParseWebURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidWebURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidWebURL, raw, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: %q has no scheme", ErrInvalidWebURL, raw)
	}
	if u.Opaque != "" {
		return nil, fmt.Errorf("%w: %q is not a hierarchical url", ErrInvalidWebURL, raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: %q has no host", ErrInvalidWebURL, raw)
		}
	}
	return u, nil
}
