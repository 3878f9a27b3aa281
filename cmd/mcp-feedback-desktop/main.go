// mcp-feedback-desktop hosts the MCP Feedback Enhanced web UI in a native window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zloeber/OpenMemory/internal/applog"
	"github.com/zloeber/OpenMemory/internal/desktop"
	"github.com/zloeber/OpenMemory/internal/launcher"
	"github.com/zloeber/OpenMemory/internal/settings"
)

// Package-level hooks for testing.
var (
	runDesktop = desktop.Run
	stdout     io.Writer = os.Stdout
	stderr     io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mcp-feedback-desktop", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "Show version")
	configPath := fs.String("config", settings.DefaultPath(), "Path to config.toml")
	webURL := fs.String("url", "", "Initial URL (overrides "+desktop.EnvWebURL+" and config)")
	debug := fs.Bool("debug", false, "Enable debug logging and the web inspector")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "mcp-feedback-desktop v%s\n", desktop.Version)
		return 0
	}

	mgr := settings.NewManagerAt(*configPath)
	cfg, err := mgr.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: cannot read %s: %v\n", mgr.Path(), err)
	}
	initLogging(cfg, *debug)

	if rest := fs.Args(); len(rest) > 0 {
		switch rest[0] {
		case "launch":
			return runLaunch(rest[1:])
		default:
			fmt.Fprintf(stderr, "Error: unknown command '%s'\n\n", rest[0])
			usage(fs)
			return 2
		}
	}

	b := desktop.NewBuilder().WithSettings(cfg).Mode(desktop.ModeStandalone)
	if *webURL != "" {
		b.WebURL(*webURL)
	}
	if *debug {
		b.Debug(true).LogLevel("debug")
	}

	if err := runDesktop(b.Build(), desktop.WithSettings(mgr)); err != nil {
		applog.WithComponent("main").Error("desktop app failed", slog.Any("err", err))
		fmt.Fprintln(stderr, "Error:", err.Error())
		return 1
	}
	return 0
}

// initLogging applies config.toml log settings unless the environment overrides them.
func initLogging(cfg settings.DesktopConfig, debug bool) {
	opts := applog.FromEnv()
	if os.Getenv("MCP_DESKTOP_LOG_LEVEL") == "" {
		opts.Level = cfg.Log.Level
	}
	if opts.File == "" {
		opts.File = cfg.Log.File
	}
	if debug {
		opts.Level = "debug"
	}
	applog.Init(opts)
}

// runLaunch starts the packaged desktop binary as a child and waits for it.
func runLaunch(args []string) int {
	fs := flag.NewFlagSet("launch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	webURL := fs.String("url", os.Getenv(desktop.EnvWebURL), "Feedback server URL")
	exe := fs.String("exe", "", "Desktop binary (default: search next to this executable)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *webURL == "" {
		fmt.Fprintln(stderr, "Error: launch requires -url or "+desktop.EnvWebURL)
		return 2
	}

	l := &launcher.Launcher{Executable: *exe}
	if err := l.Start(*webURL); err != nil {
		fmt.Fprintln(stderr, "Error:", err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	waitErr := make(chan error, 1)
	go func() { waitErr <- l.Wait() }()

	select {
	case err := <-waitErr:
		if err != nil {
			fmt.Fprintln(stderr, "Error: desktop app exited:", err.Error())
			return 1
		}
		return 0
	case <-ctx.Done():
		applog.WithComponent("main").Info("stop requested")
		if err := l.Stop(launcher.StopGrace); err != nil {
			fmt.Fprintln(stderr, "Error:", err.Error())
			return 1
		}
		return 0
	}
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintln(stderr, "MCP Feedback Enhanced - desktop shell")
	fmt.Fprintln(stderr)
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  mcp-feedback-desktop [options]              Open the desktop window")
	fmt.Fprintln(stderr, "  mcp-feedback-desktop launch -url <url>      Start the packaged desktop binary and wait")
	fmt.Fprintln(stderr)
	fmt.Fprintln(stderr, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(stderr)
	fmt.Fprintln(stderr, "Environment:")
	fmt.Fprintln(stderr, "  "+desktop.EnvWebURL+"       URL to open once the window is ready")
	fmt.Fprintln(stderr, "  "+desktop.EnvDesktopMode+"  \"true\" to start in desktop mode")
}
