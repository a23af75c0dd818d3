package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// settleDelay is how long a dropped file must sit unchanged before
// ingestion; capture tooling writes large files incrementally.
const settleDelay = 2 * time.Second

// Watcher monitors a drop directory and registers finished capture
// files with the store without going through the upload API.
type Watcher struct {
	dir        string
	store      Store
	extensions map[string]struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer

	// OnIngest is called after a file is registered, with its file ID.
	OnIngest func(fileID string)
}

// NewWatcher creates a watcher over dir for the given extensions
// (".blf", ".asc", ".gz").
func NewWatcher(dir string, store Store, extensions []string) *Watcher {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &Watcher{
		dir:        dir,
		store:      store,
		extensions: exts,
		pending:    make(map[string]*time.Timer),
	}
}

// Run watches the drop directory until the context is cancelled.
// Pre-existing files are ingested on startup.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	w.ingestExisting()

	log.Info().Str("dir", w.dir).Msg("watching drop directory")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.accepts(event.Name) {
				continue
			}
			w.scheduleIngest(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("drop directory watch error")
		}
	}
}

func (w *Watcher) accepts(path string) bool {
	_, ok := w.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (w *Watcher) ingestExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", w.dir).Msg("cannot list drop directory")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if w.accepts(path) {
			w.ingest(path)
		}
	}
}

// scheduleIngest debounces per path; each write event resets the
// settle timer so partially written files are not picked up.
func (w *Watcher) scheduleIngest(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(path)
	})
}

func (w *Watcher) ingest(path string) {
	name := filepath.Base(path)

	info, err := w.store.RegisterFile(path, name, "watch")
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to ingest dropped file")
		return
	}

	// The store holds its own copy now.
	if err := os.Remove(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove ingested file")
	}

	log.Info().Str("file", info.ID).Str("name", name).Int64("size", info.Size).Msg("ingested dropped file")

	if w.OnIngest != nil {
		w.OnIngest(info.ID)
	}
}
