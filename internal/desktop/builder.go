package desktop

import (
	"strings"

	"github.com/google/uuid"

	"github.com/zloeber/OpenMemory/internal/settings"
)

// Mode selects how the bootstrap runs the host.
type Mode string

const (
	// ModeStandalone is the desktop binary owning the process.
	ModeStandalone Mode = "standalone"
	// ModeEmbedded is a launch requested through the bridge by an embedding runtime.
	ModeEmbedded Mode = "embedded"
)

// Descriptor is the immutable result of Builder.Build. Running the same
// descriptor twice starts two independent app instances.
//
// WebURL is an explicit launch URL and wins over MCP_WEB_URL. ConfigWebURL
// is web_url from config.toml and is used only when neither is set.
type Descriptor struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	WebURL       string `json:"webUrl,omitempty"`
	ConfigWebURL string `json:"configWebUrl,omitempty"`
	DesktopMode  bool   `json:"desktopMode"`
	Mode         Mode   `json:"mode"`
	Debug        bool   `json:"debug"`
	LogLevel     string `json:"logLevel"`
}

// Builder accumulates launch settings.
type Builder struct {
	d Descriptor
}

// NewBuilder returns a builder seeded with the settings defaults in standalone mode.
func NewBuilder() *Builder {
	return (&Builder{d: Descriptor{Mode: ModeStandalone}}).WithSettings(settings.Defaults())
}

// WithSettings copies window, URL, mode and log settings from cfg.
// The config URL is kept as a fallback and never overrides MCP_WEB_URL.
func (b *Builder) WithSettings(cfg settings.DesktopConfig) *Builder {
	b.d.Title = cfg.Title
	b.d.Width = cfg.Width
	b.d.Height = cfg.Height
	b.d.ConfigWebURL = cfg.WebURL
	b.d.DesktopMode = cfg.DesktopMode
	b.d.Debug = cfg.Debug
	b.d.LogLevel = cfg.Log.Level
	return b
}

// Title sets the window title. Blank titles are ignored.
func (b *Builder) Title(title string) *Builder {
	if t := strings.TrimSpace(title); t != "" {
		b.d.Title = t
	}
	return b
}

// Size sets the initial window size. Non-positive values are ignored.
func (b *Builder) Size(width, height int) *Builder {
	if width > 0 {
		b.d.Width = width
	}
	if height > 0 {
		b.d.Height = height
	}
	return b
}

// WebURL sets an explicit launch URL that takes precedence over MCP_WEB_URL.
func (b *Builder) WebURL(url string) *Builder {
	b.d.WebURL = strings.TrimSpace(url)
	return b
}

// DesktopMode sets the initial desktop mode flag.
func (b *Builder) DesktopMode(enabled bool) *Builder {
	b.d.DesktopMode = enabled
	return b
}

// Mode selects standalone or embedded bootstrap.
func (b *Builder) Mode(m Mode) *Builder {
	b.d.Mode = m
	return b
}

// Debug enables dev behaviour in the host.
func (b *Builder) Debug(enabled bool) *Builder {
	b.d.Debug = enabled
	return b
}

// LogLevel sets the host log level name.
func (b *Builder) LogLevel(level string) *Builder {
	b.d.LogLevel = strings.ToLower(strings.TrimSpace(level))
	return b
}

// Build finalizes the current settings into a new descriptor with a fresh ID.
// The builder stays usable.
func (b *Builder) Build() Descriptor {
	d := b.d
	d.ID = uuid.NewString()
	if d.Mode == "" {
		d.Mode = ModeStandalone
	}
	if d.Title == "" {
		d.Title = settings.DefaultTitle
	}
	if d.Width <= 0 {
		d.Width = settings.DefaultWidth
	}
	if d.Height <= 0 {
		d.Height = settings.DefaultHeight
	}
	if d.LogLevel == "" {
		d.LogLevel = "info"
	}
	return d
}
