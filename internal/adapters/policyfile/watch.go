package policyfile

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"textguard/internal/platform/logger"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a reload
const DefaultDebounce = 250 * time.Millisecond

// Watch reloads the store whenever its file changes until ctx is done. The
// parent directory is watched so editors that replace the file are seen.
// onReload, when set, is told about every reload attempt
func (s *Store) Watch(ctx context.Context, debounce time.Duration, onReload func(error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	target := filepath.Clean(s.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}
	log := logger.Named("policyfile").With().Str("path", target).Logger()
	log.Info().Dur("debounce", debounce).Msg("watching policy file")

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		err := s.Reload()
		if err != nil {
			log.Error().Err(err).Msg("policy reload failed; keeping previous policies")
		} else {
			log.Info().Int("tenants", s.Tenants()).Msg("policies reloaded")
		}
		if onReload != nil {
			onReload(err)
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op == fsnotify.Chmod {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, reload)
			mu.Unlock()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}
