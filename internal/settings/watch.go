package settings

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	// A change notification arriving within the debounce interval of the
	// last accepted one is dropped; editors and atomic renames fire several
	// events per logical save.
	defaultDebounceInterval = time.Second
	// Settle delay between accepting a notification and reloading, to let
	// a slow writer finish.
	defaultSettleDelay = 500 * time.Millisecond
)

// debouncer tracks the last accepted notification time for one document.
type debouncer struct {
	interval time.Duration
	last     time.Time
}

func (d *debouncer) accept(now time.Time) bool {
	if !d.last.IsZero() && now.Sub(d.last) < d.interval {
		return false
	}
	d.last = now
	return true
}

// Watch starts a background goroutine that reloads a document when its file
// changes. It returns once the watcher is registered; the goroutine exits
// when ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(s.settingsPath)); err != nil {
		watcher.Close()
		return err
	}
	if dir := filepath.Dir(s.rulesPath); dir != filepath.Dir(s.settingsPath) {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return err
		}
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	settingsDebounce := debouncer{interval: s.debounceInterval}
	rulesDebounce := debouncer{interval: s.debounceInterval}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			switch filepath.Base(event.Name) {
			case filepath.Base(s.settingsPath):
				if settingsDebounce.accept(time.Now()) {
					go s.settleAndReload(ctx, SettingsFile, s.ReloadSettings)
				}
			case filepath.Base(s.rulesPath):
				if rulesDebounce.accept(time.Now()) {
					go s.settleAndReload(ctx, RulesFile, s.ReloadRules)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (s *Store) settleAndReload(ctx context.Context, document string, reload func() error) {
	timer := time.NewTimer(s.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	s.logger.Info("document changed, reloading", zap.String("document", document))
	if err := reload(); err != nil {
		s.logger.Error("reload failed, keeping previous snapshot", zap.String("document", document), zap.Error(err))
		return
	}
	if s.notify != nil {
		s.notify(document)
	}
}
