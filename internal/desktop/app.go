// Package desktop provides the native window shell for MCP Feedback Enhanced:
// the state record and commands bound to the web UI, and the bootstrap that
// builds and runs the Wails host.
package desktop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/zloeber/OpenMemory/internal/applog"
	"github.com/zloeber/OpenMemory/internal/settings"
)

// Version is set at build time via ldflags
var Version = "0.1.0-dev"

// Phase is the lifecycle position of an App.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseBuilding
	PhaseSetup
	PhaseRunning
	PhaseExited
)

func (p Phase) String() string {
	switch p {
	case PhaseBuilding:
		return "building"
	case PhaseSetup:
		return "setup"
	case PhaseRunning:
		return "running"
	case PhaseExited:
		return "exited"
	default:
		return "uninitialized"
	}
}

// App is bound to the frontend. Its exported methods are the commands the
// hosted UI can invoke.
type App struct {
	desc     Descriptor
	state    *AppState
	handle   HandleSlot
	nav      Navigator
	settings *settings.Manager
	log      *slog.Logger

	mu      sync.Mutex
	phase   Phase
	navOnce sync.Once
	cancel  context.CancelFunc
	// lastCfg is the config last seen on disk; reloads apply only what differs.
	lastCfg settings.DesktopConfig
}

// Option customizes an App.
type Option func(*App)

// WithNavigator replaces the window navigator.
func WithNavigator(n Navigator) Option {
	return func(a *App) { a.nav = n }
}

// WithSettings enables live reload of web_url from the config file in standalone mode.
func WithSettings(m *settings.Manager) Option {
	return func(a *App) { a.settings = m }
}

// NewApp creates the app for a descriptor. The state record starts at its
// defaults except for desktop mode, which follows the descriptor or MCP_DESKTOP_MODE.
func NewApp(d Descriptor, opts ...Option) *App {
	a := &App{
		desc:  d,
		state: NewAppState(),
		nav:   wailsNavigator{},
		log:   applog.WithComponent("desktop").With(slog.String("mode", string(d.Mode))),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.lastCfg = settings.DesktopConfig{WebURL: d.ConfigWebURL, DesktopMode: d.DesktopMode}
	if d.DesktopMode || LaunchFromEnv().DesktopMode {
		a.state.SetDesktopMode(true)
	}
	return a
}

// GetVersion returns the application version
func (a *App) GetVersion() string {
	return Version
}

// GetWebURL returns the URL the window was pointed at.
func (a *App) GetWebURL() string {
	return a.state.WebURL()
}

// SetWebURL stores url. It does not navigate.
func (a *App) SetWebURL(url string) {
	a.log.Info("set web url", slog.String("url", url))
	a.state.SetWebURL(url)
}

// IsDesktopMode reports whether the shell runs in desktop mode.
func (a *App) IsDesktopMode() bool {
	return a.state.DesktopMode()
}

// SetDesktopMode stores the desktop mode flag.
func (a *App) SetDesktopMode(enabled bool) {
	a.log.Info("set desktop mode", slog.Bool("enabled", enabled))
	a.state.SetDesktopMode(enabled)
}

func (a *App) getPhase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

func (a *App) setPhase(p Phase) {
	a.mu.Lock()
	a.phase = p
	a.mu.Unlock()
	a.log.Debug("phase", slog.String("phase", p.String()))
}
