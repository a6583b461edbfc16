package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration whenever the config file is written or
// replaced, calling onReload with the new config or the load error. It
// blocks until ctx is done. The parent directory is watched so editors that
// replace the file atomically are still noticed.
func Watch(ctx context.Context, path string, onReload func(*PortalConfig, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			onReload(Reload())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onReload(nil, fmt.Errorf("watcher error: %w", err))
		case <-ctx.Done():
			return nil
		}
	}
}
