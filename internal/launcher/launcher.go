// Package launcher starts the desktop binary as a child process pointed at
// a running feedback server, and stops it again.
package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/zloeber/OpenMemory/internal/applog"
	"github.com/zloeber/OpenMemory/internal/desktop"
)

// BinaryName is the base name of the packaged desktop executable.
const BinaryName = "mcp-feedback-enhanced-desktop"

// StopGrace is how long Stop waits after terminate before killing.
const StopGrace = 5 * time.Second

// ErrExecutableNotFound is returned when no desktop binary can be located.
var ErrExecutableNotFound = errors.New("desktop executable not found")

// ErrNotRunning is returned by Stop and Wait when nothing was started.
var ErrNotRunning = errors.New("desktop app not running")

// Package-level hooks for testing.
var (
	goos, goarch = runtime.GOOS, runtime.GOARCH
	executable   = os.Executable
)

// Launcher owns one desktop child process.
type Launcher struct {
	// Executable overrides binary lookup when set.
	Executable string
	// Dir is searched for packaged binaries; defaults to the directory of
	// the running executable.
	Dir string

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// PlatformBinary returns the packaged binary name for this platform.
func PlatformBinary() string {
	switch goos {
	case "windows":
		return BinaryName + ".exe"
	case "darwin":
		if goarch == "arm64" {
			return BinaryName + "-macos-arm64"
		}
		return BinaryName + "-macos-intel"
	case "linux":
		return BinaryName + "-linux"
	default:
		return BinaryName
	}
}

// candidates lists binaries to try, platform match first.
func candidates() []string {
	names := []string{
		PlatformBinary(),
		BinaryName + ".exe",
		BinaryName + "-macos-intel",
		BinaryName + "-macos-arm64",
		BinaryName + "-linux",
		BinaryName,
	}
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// Resolve returns the binary Start would run.
func (l *Launcher) Resolve() (string, error) {
	if l.Executable != "" {
		if _, err := os.Stat(l.Executable); err != nil {
			return "", fmt.Errorf("%w: %s", ErrExecutableNotFound, l.Executable)
		}
		return l.Executable, nil
	}

	dir := l.Dir
	if dir == "" {
		self, err := executable()
		if err != nil {
			return "", fmt.Errorf("locate running executable: %w", err)
		}
		dir = filepath.Dir(self)
	}

	for _, name := range candidates() {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrExecutableNotFound, dir)
}

// Env returns the child's environment: the current one plus desktop mode and webURL.
func Env(webURL string) []string {
	env := make([]string, 0, len(os.Environ())+2)
	for _, kv := range os.Environ() {
		if hasKey(kv, desktop.EnvWebURL) || hasKey(kv, desktop.EnvDesktopMode) {
			continue
		}
		env = append(env, kv)
	}
	return append(env,
		desktop.EnvDesktopMode+"=true",
		desktop.EnvWebURL+"="+webURL,
	)
}

func hasKey(kv, key string) bool {
	return len(kv) > len(key) && kv[len(key)] == '=' && kv[:len(key)] == key
}

// Start launches the desktop binary pointed at webURL. It does not wait.
func (l *Launcher) Start(webURL string) error {
	if _, err := desktop.ParseWebURL(webURL); err != nil {
		return err
	}
	path, err := l.Resolve()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cmd != nil {
		select {
		case <-l.done:
		default:
			return fmt.Errorf("desktop app already running (pid %d)", l.cmd.Process.Pid)
		}
	}

	cmd := exec.Command(path)
	cmd.Env = Env(webURL)
	configureCommand(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", path, err)
	}

	l.cmd = cmd
	l.done = make(chan struct{})
	l.err = nil
	go func(done chan struct{}) {
		err := cmd.Wait()
		l.mu.Lock()
		l.err = err
		l.mu.Unlock()
		close(done)
	}(l.done)

	applog.WithComponent("launcher").Info("desktop app started",
		slog.String("path", path), slog.Int("pid", cmd.Process.Pid), slog.String("url", webURL))
	return nil
}

// Running reports whether a started child has not exited yet.
func (l *Launcher) Running() bool {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Wait blocks until the child exits and returns its exit error.
func (l *Launcher) Wait() error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return ErrNotRunning
	}
	<-done
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Stop asks the child to terminate, waits up to grace, then kills it.
func (l *Launcher) Stop(grace time.Duration) error {
	l.mu.Lock()
	cmd, done := l.cmd, l.done
	l.mu.Unlock()
	if cmd == nil {
		return ErrNotRunning
	}
	log := applog.WithComponent("launcher").With(slog.Int("pid", cmd.Process.Pid))

	defer func() {
		l.mu.Lock()
		l.cmd, l.done = nil, nil
		l.mu.Unlock()
	}()

	select {
	case <-done:
		return nil
	default:
	}

	if err := terminate(cmd.Process); err != nil {
		log.Warn("terminate failed, killing", slog.Any("err", err))
		_ = cmd.Process.Kill()
		<-done
		return nil
	}

	select {
	case <-done:
		log.Info("desktop app stopped")
		return nil
	case <-time.After(grace):
		log.Warn("desktop app did not exit in time, killing", slog.Duration("grace", grace))
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("kill desktop app: %w", err)
		}
		<-done
		return nil
	}
}

// terminate sends SIGTERM where supported and kills elsewhere.
func terminate(p *os.Process) error {
	if goos == "windows" {
		return p.Kill()
	}
	return p.Signal(syscall.SIGTERM)
}
