package am

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/logger"
)

// DefaultDebounce coalesces editor save bursts into one change
const DefaultDebounce = 500 * time.Millisecond

// ChangeCallback receives the watched files that changed since the last call.
type ChangeCallback func(changed []string)

// FileWatcher watches a fixed set of files and reports debounced changes.
//
// Parent directories are watched rather than the files themselves, so
// editors that save by rename and files created after startup are seen.
type FileWatcher struct {
	files    map[string]struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.SugaredLogger
}

// NewFileWatcher creates a watcher for paths. Empty paths are ignored.
func NewFileWatcher(paths []string, debounce time.Duration) (*FileWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	files := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	if len(files) == 0 {
		return nil, errors.New("nothing to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}

	return &FileWatcher{
		files:    files,
		watcher:  watcher,
		debounce: debounce,
		log:      logger.ComponentLogger("watch"),
	}, nil
}

// Files returns the watched files, sorted.
func (fw *FileWatcher) Files() []string {
	out := make([]string, 0, len(fw.files))
	for f := range fw.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Run blocks until ctx is done, calling onChange once per settled burst of
// changes. Callbacks run on the calling goroutine, one at a time; changes
// arriving during a callback trigger another call afterwards.
func (fw *FileWatcher) Run(ctx context.Context, onChange ChangeCallback) error {
	defer fw.watcher.Close()

	timer := time.NewTimer(fw.debounce)
	timer.Stop()
	defer timer.Stop()

	var fire <-chan time.Time
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			name, relevant := fw.relevant(event)
			if !relevant {
				continue
			}
			fw.log.Debugw("Watcher detected change",
				logger.FieldFile, name,
				"op", event.Op.String())

			pending[name] = struct{}{}
			timer.Reset(fw.debounce)
			fire = timer.C

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.log.Warnw("Watcher error", logger.FieldError, err)

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			pending = make(map[string]struct{})

			onChange(changed)
		}
	}
}

// relevant reports whether event touches a watched file with an op that can
// change its content.
func (fw *FileWatcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	_, ok := fw.files[name]
	return name, ok
}

// Close stops watching without waiting for Run.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
