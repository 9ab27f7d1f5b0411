package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/coltype/internal/catalog"
	"github.com/leapstack-labs/coltype/internal/state"
)

const watchDebounce = 100 * time.Millisecond

// Reload re-imports the watched catalog file and notifies event listeners.
func (s *Server) Reload(ctx context.Context) (*state.Import, error) {
	if s.watchFile == "" {
		return nil, fmt.Errorf("no catalog file configured")
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables, err := catalog.Load(s.watchFile)
	if err != nil {
		return nil, err
	}
	imp, err := s.store.ImportTables(ctx, s.watchFile, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", s.watchFile, err)
	}

	s.logger.Info("catalog reloaded", "file", s.watchFile, "tables", imp.Tables, "import", imp.ID)
	s.notifier.broadcast(imp)
	return imp, nil
}

// watchCatalog watches the directory of the catalog file, since editors
// often replace files rather than write them in place.
func (s *Server) watchCatalog(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.watchFile)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch catalog file", "file", target, "error", err)
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				if ctx.Err() != nil {
					return
				}
				s.logger.Debug("catalog file changed, re-importing", "file", event.Name)
				if _, err := s.Reload(ctx); err != nil {
					s.logger.Error("catalog reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
