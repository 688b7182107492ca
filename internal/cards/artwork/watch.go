package artwork

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the reference list into r whenever the file at path is
// written or replaced. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file so that editors and
// deploy tools that swap the file by rename are still noticed.
func Watch(ctx context.Context, path string, r *Resolver, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch reference directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := r.LoadFile(target); err != nil {
				// Keep serving the previous table; a half written file is
				// usually followed by another write event.
				logger.Warn("Failed to reload reference list", zap.String("path", target), zap.Error(err))
				continue
			}
			logger.Info("Reloaded reference list", zap.String("path", target), zap.Int("names", r.Len()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Reference watcher error", zap.Error(err))
		}
	}
}
