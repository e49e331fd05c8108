package intent

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"igris/internal/config"
	"igris/internal/logging"
)

// CatalogueStore serves the catalogue to the pipeline. The document is read
// lazily and cached; an fsnotify watcher marks the cache dirty on file
// change, so each resolution sees the latest catalogue without re-reading an
// unchanged file. Concurrent reloads are collapsed through singleflight.
//
// Writers outside this process are not excluded; the store only guarantees
// that a reload observes a complete write or keeps the previous snapshot.
type CatalogueStore struct {
	path string

	mu     sync.RWMutex
	cached *config.Catalogue
	dirty  bool

	group   singleflight.Group
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewCatalogueStore creates a store for the catalogue at path and starts the
// change watcher. Watching is best effort: when the watcher cannot be
// created (e.g. inotify exhaustion) the store falls back to reloading on
// every Load call.
func NewCatalogueStore(path string) *CatalogueStore {
	s := &CatalogueStore{path: path, dirty: true, done: make(chan struct{})}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Get(logging.CategoryCatalogue).Warnw("catalogue watcher unavailable; reloading per request", "error", err)
		return s
	}
	// Watch the directory, not the file: editors replace files on save and
	// a file watch would be lost after the first rename.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logging.Get(logging.CategoryCatalogue).Warnw("catalogue watch failed; reloading per request", "error", err)
		_ = watcher.Close()
		return s
	}
	s.watcher = watcher
	go s.watch(watcher)
	return s
}

// Path returns the catalogue file path.
func (s *CatalogueStore) Path() string { return s.path }

func (s *CatalogueStore) watch(watcher *fsnotify.Watcher) {
	base := filepath.Base(s.path)
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				s.mu.Lock()
				s.dirty = true
				s.mu.Unlock()
				logging.Get(logging.CategoryCatalogue).Debugw("catalogue changed on disk", "op", ev.Op.String())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryCatalogue).Warnw("catalogue watcher error", "error", err)
		}
	}
}

// Load returns the current catalogue, reloading from disk when the cache is
// cold or the file changed. When no watcher is running every call reloads.
// A failed reload keeps serving the previous snapshot if one exists.
func (s *CatalogueStore) Load() (*config.Catalogue, error) {
	s.mu.RLock()
	fresh := s.cached != nil && !s.dirty && s.watcher != nil
	cached := s.cached
	s.mu.RUnlock()
	if fresh {
		return cached, nil
	}

	v, err, _ := s.group.Do("reload", func() (any, error) {
		cat, err := config.LoadCatalogue(s.path)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cached = cat
		s.dirty = false
		s.mu.Unlock()
		logging.Get(logging.CategoryCatalogue).Debugw("catalogue loaded", "path", s.path, "tasks", len(cat.Tasks))
		return cat, nil
	})
	if err != nil {
		s.mu.RLock()
		prev := s.cached
		s.mu.RUnlock()
		if prev != nil {
			logging.Get(logging.CategoryCatalogue).Warnw("catalogue reload failed; serving previous snapshot", "error", err)
			return prev, nil
		}
		return nil, fmt.Errorf("load catalogue: %w", err)
	}
	return v.(*config.Catalogue), nil
}

// Learn appends an entry (or a phrase to an entry with the same action) and
// persists the catalogue. This is the designated-writer path for catalogue
// mutation inside the process.
func (s *CatalogueStore) Learn(entry config.CatalogueEntry) error {
	cat, err := s.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := false
	for i := range cat.Tasks {
		if cat.Tasks[i].Action == entry.Action {
			for _, ph := range entry.Phrases {
				if !containsString(cat.Tasks[i].Phrases, ph) {
					cat.Tasks[i].Phrases = append(cat.Tasks[i].Phrases, ph)
				}
			}
			updated = true
			break
		}
	}
	if !updated {
		cat.Tasks = append(cat.Tasks, entry)
	}
	if err := config.SaveCatalogue(s.path, cat); err != nil {
		return fmt.Errorf("save catalogue: %w", err)
	}
	s.cached = cat
	s.dirty = false
	return nil
}

// Close stops the watcher. Safe to call once per store.
func (s *CatalogueStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		close(s.done)
		_ = s.watcher.Close()
		s.watcher = nil
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
