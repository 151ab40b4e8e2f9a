package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tesshy/catalyzer/pkg/adapters/fs"
	"github.com/tesshy/catalyzer/pkg/core"
)

const debounceWindow = 100 * time.Millisecond

// watchWorker observes partition directories with fsnotify and answers
// external file changes with an idempotent partition rebuild. Rebuilds
// are debounced per namespace so editor save bursts (or our own atomic
// rename) collapse into one reload.
type watchWorker struct {
	store   *Store
	root    string
	events  chan<- core.Event
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}

	mu    sync.Mutex
	dirty map[core.Namespace]struct{}
}

func newWatchWorker(store *Store, root string, events chan<- core.Event, logger *slog.Logger) *watchWorker {
	return &watchWorker{
		store:  store,
		root:   root,
		events: events,
		logger: logger,
		dirty:  make(map[core.Namespace]struct{}),
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	// Watch the whole tree down to the partition directories. Missing
	// levels are picked up later via directory-create events. The root
	// must exist before fsnotify will accept it.
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		_ = watcher.Close()
		return err
	}
	if err := watcher.Add(w.root); err != nil {
		_ = watcher.Close()
		return err
	}
	w.store.mu.Lock()
	for _, p := range w.store.partitions {
		w.watchDirs(p)
	}
	w.store.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(runCtx)
	return nil
}

func (w *watchWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

// addPartition registers a newly created partition directory chain.
func (w *watchWorker) addPartition(p *partition) {
	w.watchDirs(p)
}

func (w *watchWorker) watchDirs(p *partition) {
	repo, ok := p.repo.(*fs.Repository)
	if !ok {
		return
	}
	dir := repo.Dir()
	// Register each level so new groups/users under existing
	// organizations are seen too.
	_ = w.watcher.Add(filepath.Dir(filepath.Dir(dir)))
	_ = w.watcher.Add(filepath.Dir(dir))
	_ = w.watcher.Add(dir)
}

func (w *watchWorker) run(ctx context.Context) {
	defer close(w.done)

	flush := time.NewTimer(debounceWindow)
	if !flush.Stop() {
		<-flush.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.handle(event) {
				flush.Reset(debounceWindow)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watch error", "error", err)
			}

		case <-flush.C:
			w.flush(ctx)
		}
	}
}

// handle classifies one fsnotify event. Returns whether a rebuild was
// scheduled.
func (w *watchWorker) handle(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	// A new directory at or above partition depth: start watching it.
	if event.Has(fsnotify.Create) && len(parts) <= 3 && filepath.Ext(rel) == "" {
		_ = w.watcher.Add(event.Name)
		return false
	}

	if len(parts) != 4 || filepath.Ext(parts[3]) != ".md" {
		return false
	}

	ns := core.Namespace{Org: parts[0], Group: parts[1], User: parts[2]}
	w.mu.Lock()
	w.dirty[ns] = struct{}{}
	w.mu.Unlock()

	w.emit(core.Event{
		Type:      eventTypeFor(event.Op),
		Namespace: ns,
		ID:        strings.TrimSuffix(parts[3], ".md"),
		Timestamp: time.Now().Unix(),
	})
	return true
}

// flush rebuilds every dirty partition.
func (w *watchWorker) flush(ctx context.Context) {
	w.mu.Lock()
	dirty := w.dirty
	w.dirty = make(map[core.Namespace]struct{})
	w.mu.Unlock()

	for ns := range dirty {
		w.store.mu.Lock()
		p, ok := w.store.partitions[ns]
		if !ok {
			// External write into a namespace we have not mounted yet.
			var err error
			p, err = w.store.mount(ctx, ns)
			if err != nil {
				w.store.mu.Unlock()
				if w.logger != nil {
					w.logger.Warn("failed to mount partition", "namespace", ns.String(), "error", err)
				}
				continue
			}
			w.store.mu.Unlock()
			w.addPartition(p)
			continue // mount already rebuilt
		}
		w.store.mu.Unlock()

		if err := p.rebuild(ctx); err != nil {
			if w.logger != nil {
				w.logger.Warn("partition rebuild failed", "namespace", ns.String(), "error", err)
			}
			continue
		}
		w.emit(core.Event{
			Type:      core.EventRebuild,
			Namespace: ns,
			Timestamp: time.Now().Unix(),
		})
	}
}

// emit delivers without blocking; a slow consumer drops events rather
// than stalling the rebuild loop.
func (w *watchWorker) emit(e core.Event) {
	select {
	case w.events <- e:
	default:
		if w.logger != nil {
			w.logger.Warn("event channel full, dropping event", "type", string(e.Type))
		}
	}
}

func eventTypeFor(op fsnotify.Op) core.EventType {
	switch {
	case op.Has(fsnotify.Create):
		return core.EventCreate
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return core.EventModify
	}
}
