package commands

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fiware-datamodels/dmv/internal/cli/config"
	"github.com/fiware-datamodels/dmv/internal/cli/output"
	"github.com/fsnotify/fsnotify"
)

// runWatch scans once, then again after every burst of file changes under
// the scan path until ctx is done. Scans run one at a time.
func runWatch(ctx context.Context, r *output.Renderer, scanner *Scanner, cfg *config.Config, debounce time.Duration, logger *slog.Logger) error {
	scan := func(ctx context.Context) error {
		result, err := scanner.Scan(ctx)
		if err != nil {
			// Fatal input errors are expected while files are being edited.
			r.Error(err.Error())
			return nil
		}
		if err := renderReport(r, result); err != nil {
			return err
		}
		if r.EffectiveMode() == output.ModeText {
			r.Println(r.Styles().Muted.Render("Watching for changes, press Ctrl+C to stop"))
		}
		return nil
	}

	skip := func(name string) bool {
		return slices.Contains(cfg.IgnoreFolders, name)
	}
	return watchAndScan(ctx, cfg.Path, debounce, skip, logger, scan)
}

// watchAndScan calls scan once and then after each change under root,
// waiting for debounce without further events first.
func watchAndScan(ctx context.Context, root string, debounce time.Duration, skip func(name string) bool,
	logger *slog.Logger, scan func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, root, skip); err != nil {
		return err
	}

	if err := scan(ctx); err != nil {
		return err
	}

	// pending fires once no event arrived for debounce; nil when idle.
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
					if err := watchDirRecursive(watcher, event.Name, skip); err != nil {
						logger.Warn("failed to watch new directory", slog.String("dir", event.Name), slog.Any("error", err))
					}
				}
			}
			logger.Debug("file changed", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			if err := scan(ctx); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string, skip func(name string) bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skip(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
