package eventlog

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the log at path whenever it is written or replaced and sends
// each successfully decoded version on the returned channel. Only the latest
// unread version is kept. The channel closes when ctx is done.
func Watch(ctx context.Context, logger *zap.Logger, path string) (<-chan *Log, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	// Watch the directory so atomic replaces (write temp, rename) are seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(path))
	}

	out := make(chan *Log, 1)
	go runWatch(ctx, logger, w, filepath.Clean(path), out)
	return out, nil
}

func runWatch(ctx context.Context, logger *zap.Logger, w *fsnotify.Watcher, path string, out chan *Log) {
	defer close(out)
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			l, err := Load(path)
			if err != nil {
				// Partial writes fail to decode; the next event retries.
				logger.Debug("event log reload skipped", zap.String("path", path), zap.Error(err))
				continue
			}
			select {
			case <-out:
			default:
			}
			out <- l
			logger.Debug("event log reloaded", zap.String("path", path), zap.Int("events", l.Len()))

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("event log watch error", zap.Error(err))
		}
	}
}
