package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/zloeber/OpenMemory/internal/applog"
)

// Watch calls fn with the reloaded config each time the config file is
// written, created or renamed into place. Empty or missing files are skipped. The directory is watched rather
// than the file so editors that replace the file are still seen.
// The watch stops when ctx is cancelled.
func (m *Manager) Watch(ctx context.Context, fn func(DesktopConfig)) error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go m.watchLoop(ctx, watcher, fn)
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, fn func(DesktopConfig)) {
	log := applog.WithComponent("settings")
	defer watcher.Close()

	target := filepath.Clean(m.configPath)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Save truncates before writing; a zero-length file is a write in progress.
			if info, err := os.Stat(target); err != nil || info.Size() == 0 {
				continue
			}
			cfg, err := m.Load()
			if err != nil {
				log.Warn("config reload failed", "path", target, "err", err)
				continue
			}
			log.Debug("config reloaded", "path", target, "op", event.Op.String())
			fn(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", "err", err)
		}
	}
}
