package desktop

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/zloeber/OpenMemory/internal/applog"
	"github.com/zloeber/OpenMemory/internal/settings"
	"github.com/zloeber/OpenMemory/internal/ui"
)

// Package-level hooks for testing. In production these start the real host.
var (
	runHost   = wails.Run
	hostTheme = ui.DetectSystemTheme
)

// Run builds the host for d, binds the command surface and blocks in the
// event loop until the window closes. Both the desktop binary and the
// embedding bridge start the shell through here.
func Run(d Descriptor, opts ...Option) error {
	return NewApp(d, opts...).Run(ui.Assets())
}

// Run starts the host serving assets. An App can only be run once.
func (a *App) Run(assets fs.FS) error {
	if p := a.getPhase(); p != PhaseUninitialized {
		return fmt.Errorf("app %s already %s", a.desc.ID, p)
	}
	a.setPhase(PhaseBuilding)
	a.log.Info("starting desktop app", slog.String("id", a.desc.ID), slog.String("title", a.desc.Title))

	err := runHost(a.hostOptions(assets))
	a.setPhase(PhaseExited)
	if err != nil {
		a.log.Error("host failed", slog.Any("err", err))
		return fmt.Errorf("run desktop host: %w", err)
	}
	return nil
}

// hostOptions assembles the Wails options for this app.
func (a *App) hostOptions(assets fs.FS) *options.App {
	isDev := a.desc.Debug || os.Getenv("WAILS_DEV") != "" || Version == "0.1.0-dev"

	logLevel := applog.WailsLevel(a.desc.LogLevel)
	if isDev && logLevel > logger.DEBUG {
		logLevel = logger.DEBUG
	}

	bg := &options.RGBA{R: 27, G: 38, B: 54, A: 1}
	if hostTheme() == "light" {
		bg = &options.RGBA{R: 255, G: 255, B: 255, A: 1}
	}

	wailsLog := applog.NewWailsLogger(nil)
	if a.desc.Mode == ModeEmbedded {
		wailsLog.PanicOnFatal()
	}

	return &options.App{
		Title:  a.desc.Title,
		Width:  a.desc.Width,
		Height: a.desc.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: bg,
		OnStartup:        a.startup,
		OnDomReady:       a.domReady,
		OnShutdown:       a.shutdown,
		Bind: []interface{}{
			a,
		},
		Logger:             wailsLog,
		LogLevel:           logLevel,
		LogLevelProduction: logger.ERROR,
		Debug: options.Debug{
			OpenInspectorOnStartup: isDev && a.desc.Mode == ModeStandalone,
		},
	}
}

// startup is called once by the host before the event loop starts.
func (a *App) startup(ctx context.Context) {
	a.setPhase(PhaseSetup)
	if err := a.handle.Store(ctx); err != nil {
		a.log.Warn("setup already ran", slog.Any("err", err))
		return
	}

	if a.settings != nil && a.desc.Mode == ModeStandalone {
		base, err := a.settings.Load()
		if err != nil {
			a.log.Warn("config unreadable, reloads compare against defaults", slog.Any("err", err))
		}
		watchCtx, cancel := context.WithCancel(ctx)
		a.mu.Lock()
		a.cancel = cancel
		a.lastCfg = base
		a.mu.Unlock()
		if err := a.settings.Watch(watchCtx, a.applySettings); err != nil {
			a.log.Warn("config watch disabled", slog.Any("err", err))
		}
	}

	a.log.Info("desktop app initialized")
	a.setPhase(PhaseRunning)
}

// domReady performs the initial navigation once the webview can run script.
func (a *App) domReady(ctx context.Context) {
	a.navOnce.Do(func() {
		target, ok := a.launchURL()
		if !ok {
			return
		}
		a.navigate(ctx, target)
	})
}

func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.log.Info("desktop app shutting down")
	a.setPhase(PhaseExited)
}

// launchURL resolves the initial navigation target: an explicit descriptor
// URL, else MCP_WEB_URL, else web_url from the config file. An invalid value
// is reported and skipped.
func (a *App) launchURL() (string, bool) {
	raw, source := a.desc.WebURL, "descriptor"
	if raw == "" {
		raw, source = LaunchFromEnv().WebURL, EnvWebURL
	}
	if raw == "" {
		raw, source = a.desc.ConfigWebURL, "config"
	}
	if raw == "" {
		return "", false
	}

	u, err := ParseWebURL(raw)
	if err != nil {
		a.log.Error("configuration error, not navigating",
			slog.String("source", source), slog.Any("err", err))
		return "", false
	}
	a.log.Info("web url detected", slog.String("source", source), slog.String("url", u.String()))
	return u.String(), true
}

func (a *App) navigate(ctx context.Context, target string) {
	a.state.SetWebURL(target)
	a.nav.Navigate(ctx, target)
}

// applySettings reacts to config file edits while running. Only values that
// changed since the last reload are applied, so edits to other keys leave
// state set through the command surface alone.
func (a *App) applySettings(cfg settings.DesktopConfig) {
	ctx, ok := a.handle.Load()
	if !ok {
		return
	}
	a.mu.Lock()
	prev := a.lastCfg
	a.lastCfg = cfg
	a.mu.Unlock()

	if cfg.DesktopMode != prev.DesktopMode {
		a.state.SetDesktopMode(cfg.DesktopMode || LaunchFromEnv().DesktopMode)
	}

	if cfg.WebURL == "" || cfg.WebURL == prev.WebURL || cfg.WebURL == a.state.WebURL() {
		return
	}
	u, err := ParseWebURL(cfg.WebURL)
	if err != nil {
		a.log.Error("configuration error, not navigating", slog.String("source", "config"), slog.Any("err", err))
		return
	}
	a.navigate(ctx, u.String())
}
