package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/reactivity"
)

// Watch loads path and returns a Ref holding the configuration. The Ref is
// updated whenever the file is written, created or renamed into place, so
// effects reading it re-run on reload. Invalid contents are logged and the
// previous value is kept. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, logger *slog.Logger) (*reactivity.Ref[Config], error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.New("E103").Wrap(err)
	}
	// Watch the directory so editors that replace the file by rename are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, errors.New("E103").
			WithDetail("Failed to watch " + filepath.Dir(path)).
			Wrap(err)
	}

	ref := reactivity.NewRef(*cfg)
	name := filepath.Clean(path)

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				reload(ref, path, logger)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watch error", "path", path, "error", err)
			}
		}
	}()

	return ref, nil
}

func reload(ref *reactivity.Ref[Config], path string, logger *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		// Renamed away or truncated mid-write; a later event carries the
		// new contents.
		return
	}
	next, err := parseFile(path, data)
	if err != nil {
		msg := err.Error()
		var coded *errors.Error
		if errors.As(err, &coded) {
			msg = coded.FormatCompact()
		}
		logger.Warn("config reload rejected", "path", path, "error", msg)
		return
	}
	ref.Set(*next)
	logger.Info("config reloaded", "path", path)
}
