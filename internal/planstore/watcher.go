package planstore

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/akashvibhute/simlane-web-sub000/internal/logging"
	"github.com/akashvibhute/simlane-web-sub000/internal/stint"
)

// debounceWindow collects the burst of filesystem events a single save
// produces into one reload.
const debounceWindow = 50 * time.Millisecond

// Watcher reloads the plan when the stored file changes out of band, for
// example when another engine process saves an updated schedule. The
// callback receives the freshly loaded plan.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	onChange func(*stint.Plan)
	log      *logging.Logger

	stopCh chan struct{}
	done   chan struct{}
}

// NewWatcher creates a watcher over the store's plan directory. Call
// Start to begin delivering changes to onChange.
func NewWatcher(store *Store, onChange func(*stint.Plan), log *logging.Logger) (*Watcher, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback is required")
	}
	if log == nil {
		log = logging.NopLogger()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		store:    store,
		watcher:  fw,
		onChange: onChange,
		log:      log.WithComponent("planstore"),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching the plan directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.store.dir); err != nil {
		return fmt.Errorf("watch plan directory: %w", err)
	}
	go w.watchLoop()
	return nil
}

// Stop stops the watcher and cleans up resources.
func (w *Watcher) Stop() {
	close(w.stopCh)
	_ = w.watcher.Close()
	<-w.done
}

// watchLoop processes filesystem events. Many editors and the atomic
// rename in Save produce several events per change, so events are
// debounced before the plan is reloaded.
func (w *Watcher) watchLoop() {
	defer close(w.done)

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer
	pending := false

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != planFileName {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounce.Reset(debounceWindow)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			plan, err := w.store.Load()
			if err != nil {
				w.log.Warn("plan file changed but reload failed", "error", err)
				continue
			}
			w.log.Info("plan file changed on disk", "stints", len(plan.Assignments))
			w.onChange(plan)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}
