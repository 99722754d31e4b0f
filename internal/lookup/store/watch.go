package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher перечитывает файл склада после его изменения. Excel сохраняет через
// временный файл и rename, поэтому следим за каталогом и фильтруем по имени.
type Watcher struct {
	store    *Store
	path     string
	debounce time.Duration

	fsw  *fsnotify.Watcher
	once sync.Once
	done chan struct{}
}

func NewWatcher(st *Store, path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{store: st, path: abs, debounce: debounce, fsw: fsw, done: make(chan struct{})}, nil
}

// Run блокируется до отмены ctx или Close.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.done)

	// таймер антидребезга: серия событий при сохранении → одна перезагрузка
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.store.log.Debug().Str("op", ev.Op.String()).Msg("source changed")
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.store.log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			// ошибка уже в логе, прежний снимок остаётся
			_, _ = w.store.Reload(ctx)
		}
	}
}

// Close останавливает наблюдение; безопасно вызывать повторно.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() { err = w.fsw.Close() })
	return err
}

// Done закрывается, когда Run вернул управление.
func (w *Watcher) Done() <-chan struct{} { return w.done }
