// Package bridge is the launch surface for a runtime that embeds the
// desktop shell (the Python MCP server loads it as a shared library).
//
// Descriptors returned here are real and reusable: a caller can build one
// with BuilderFactory, keep it, and run it as often as it likes.
//
// RunApp runs the host on a worker goroutine locked to its own OS thread,
// not on the process main thread. That works on Linux (GTK) and Windows
// (WebView2). macOS requires Cocoa on the main thread, so embedded launches
// are refused there with ExitFailed; use the standalone binary through the
// launcher instead.
package bridge

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/zloeber/OpenMemory/internal/applog"
	"github.com/zloeber/OpenMemory/internal/desktop"
	"github.com/zloeber/OpenMemory/internal/settings"
)

// Exit codes returned to the embedder.
const (
	ExitOK     = 0
	ExitFailed = 1
)

// ErrMainThreadRequired is reported on platforms whose GUI toolkit must own
// the process main thread.
var ErrMainThreadRequired = errors.New("embedded launch needs the process main thread on this platform")

// Package-level hooks for testing.
var (
	goos         = runtime.GOOS
	runDesktop   = func(d desktop.Descriptor) error { return desktop.Run(d) }
	loadSettings = func() (settings.DesktopConfig, error) { return settings.NewManager().Load() }
)

// LaunchContext describes the environment a launch will see. It is
// informational: RunApp reads the environment again when it runs.
type LaunchContext struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Mode        string    `json:"mode"`
	WebURL      string    `json:"webUrl,omitempty"`
	DesktopMode bool      `json:"desktopMode"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ContextFactory captures the current launch context.
func ContextFactory() LaunchContext {
	env := desktop.LaunchFromEnv()
	return LaunchContext{
		ID:          uuid.NewString(),
		Version:     desktop.Version,
		Mode:        string(desktop.ModeEmbedded),
		WebURL:      env.WebURL,
		DesktopMode: env.DesktopMode,
		CreatedAt:   time.Now().UTC(),
	}
}

// BuilderFactory returns a builder preconfigured from config.toml for an
// embedded launch.
func BuilderFactory() *desktop.Builder {
	cfg, err := loadSettings()
	if err != nil {
		applog.WithComponent("bridge").Warn("settings unavailable, using defaults", slog.Any("err", err))
		cfg = settings.Defaults()
	}
	return desktop.NewBuilder().WithSettings(cfg).Mode(desktop.ModeEmbedded)
}

// RunApp launches the shell pointed at webURL and blocks until the window
// closes. It returns ExitOK when the host exits cleanly and ExitFailed when
// the host fails to start or the worker panics.
func RunApp(webURL string) int {
	return RunDescriptor(BuilderFactory().WebURL(webURL).DesktopMode(true).Build())
}

// RunDescriptor runs d on a dedicated worker locked to its OS thread and
// waits for it. Panics on the worker are recovered and reported as ExitFailed.
func RunDescriptor(d desktop.Descriptor) int {
	log := applog.WithComponent("bridge").With(slog.String("id", d.ID))
	log.Info("launching desktop app", slog.String("url", d.WebURL))
	if goos == "darwin" {
		log.Error("desktop app not started", slog.Any("err", ErrMainThreadRequired))
		return ExitFailed
	}

	done := make(chan int, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() {
			if r := recover(); r != nil {
				log.Error("worker panicked",
					slog.String("panic", fmt.Sprint(r)),
					slog.String("stack", string(debug.Stack())))
				done <- ExitFailed
			}
		}()

		if err := runDesktop(d); err != nil {
			log.Error("desktop app failed", slog.Any("err", err))
			done <- ExitFailed
			return
		}
		done <- ExitOK
	}()

	code := <-done
	log.Info("desktop app finished", slog.Int("code", code))
	return code
}
