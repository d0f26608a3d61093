// Package watch dispara um novo scan quando arquivos da árvore mudam.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Config configura o Watcher.
type Config struct {
	Root string

	// SkipDir poda diretórios que não devem ser observados.
	SkipDir func(name string) bool

	// Ignore descarta eventos de caminhos específicos (ex.: o próprio relatório).
	Ignore func(path string) bool

	Debounce time.Duration

	// OnChange roda depois que os eventos param por Debounce.
	OnChange func(ctx context.Context) error

	OnError func(err error)

	Logger *zap.SugaredLogger
}

const DefaultDebounce = 300 * time.Millisecond

// Watcher observa Root recursivamente com fsnotify.
type Watcher struct {
	cfg     Config
	fsw     *fsnotify.Watcher
	log     *zap.SugaredLogger
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, errors.New("raiz do watch não informada")
	}
	if cfg.OnChange == nil {
		return nil, errors.New("OnChange não informado")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.OnError == nil {
		cfg.OnError = func(err error) { log.Warnw("erro no watch", "erro", err) }
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		cfg:    cfg,
		fsw:    fsw,
		log:    log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}, nil
}

// Start registra a árvore e inicia o loop de eventos.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addRecursive(w.cfg.Root); err != nil {
		return err
	}
	go w.loop(ctx)
	return nil
}

// Stop encerra o loop e libera o watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.fsw.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	return w.fsw.Close()
}

// Done é fechado quando o loop termina.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.cfg.SkipDir != nil && w.cfg.SkipDir(d.Name()) {
			return fs.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return

		case <-w.stopCh:
			stopTimer()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.cfg.Ignore != nil && w.cfg.Ignore(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if w.cfg.SkipDir == nil || !w.cfg.SkipDir(filepath.Base(ev.Name)) {
						if err := w.addRecursive(ev.Name); err != nil {
							w.cfg.OnError(err)
						}
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debugw("mudança detectada", "arquivo", ev.Name, "op", ev.Op.String())
			stopTimer()
			timer = time.NewTimer(w.cfg.Debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.cfg.OnChange(ctx); err != nil {
				w.cfg.OnError(err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.cfg.OnError(err)
		}
	}
}
