// Package watch reruns the aggregation pipeline when its sources change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/Pikatsuto/raspberry-builds/internal/aggregate"
	"github.com/Pikatsuto/raspberry-builds/internal/config"
	"github.com/Pikatsuto/raspberry-builds/internal/locate"
	"github.com/Pikatsuto/raspberry-builds/internal/logfields"
)

// DefaultDebounce coalesces bursts of file events (editor saves, git checkouts).
const DefaultDebounce = 300 * time.Millisecond

// Builder runs one aggregation.
type Builder interface {
	Run(ctx context.Context) (*aggregate.Report, error)
}

// Options select what is watched.
type Options struct {
	// Dirs are watched recursively.
	Dirs []string
	// Files are watched through their parent directory; sibling changes are ignored.
	Files []string
	// Exclude lists directories that are never watched (the output tree).
	Exclude []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Interval schedules additional periodic rebuilds; zero disables them.
	Interval time.Duration
}

// OptionsFor watches the wiki and images directories and the configured readmes,
// excluding every output directory.
func OptionsFor(cfg *config.Config, src locate.Sources) Options {
	files := make([]string, 0, len(cfg.Sources.Readmes))
	for _, r := range cfg.Sources.Readmes {
		files = append(files, cfg.ReadmePath(src.RepoRoot, r))
	}
	return Options{
		Dirs:    []string{src.WikiDir, src.ImagesDir},
		Files:   files,
		Exclude: cfg.OutputDirs(src.RepoRoot),
	}
}

// Watcher rebuilds through a Builder on source changes and optionally on a timer.
type Watcher struct {
	builder Builder
	opts    Options
	logger  *slog.Logger

	files map[string]bool
}

// New creates a Watcher. A nil logger uses slog.Default().
func New(b Builder, opts Options, logger *slog.Logger) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	files := make(map[string]bool, len(opts.Files))
	for _, f := range opts.Files {
		files[filepath.Clean(f)] = true
	}
	return &Watcher{builder: b, opts: opts, logger: logger, files: files}
}

// Run builds once, then rebuilds on every debounced change until ctx is done.
// Only the initial build's error is returned; later failures are logged and the
// watcher keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()
	w.addWatches(fw)

	if _, err := w.builder.Run(ctx); err != nil {
		return err
	}

	rebuildReq := make(chan struct{}, 1)
	trigger, stopDebounce := debouncer(w.opts.Debounce, rebuildReq)
	defer stopDebounce()

	if w.opts.Interval > 0 {
		s, err := w.schedule(rebuildReq)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Shutdown(); err != nil {
				w.logger.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	workerCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.rebuildWorker(workerCtx, rebuildReq)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	w.logger.Info("Watching sources for changes",
		slog.Any("dirs", w.opts.Dirs), slog.Duration("debounce", w.opts.Debounce))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) schedule(rebuildReq chan<- struct{}) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(func() { request(rebuildReq) }),
		gocron.WithName("periodic-aggregate"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	s.Start()
	w.logger.Info("Periodic rebuild scheduled", slog.Duration("interval", w.opts.Interval))
	return s, nil
}

// rebuildWorker runs builds one at a time; requests arriving during a build
// collapse into a single follow-up build.
func (w *Watcher) rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			w.logger.Info("Change detected; rebuilding content")
			if _, err := w.builder.Run(ctx); err != nil && ctx.Err() == nil {
				w.logger.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) addWatches(fw *fsnotify.Watcher) {
	for _, dir := range w.opts.Dirs {
		if _, err := os.Stat(dir); err != nil {
			w.logger.Warn("Source directory not watched", logfields.Path(dir), logfields.Error(err))
			continue
		}
		w.addDirsRecursive(fw, dir)
	}
	parents := make(map[string]bool)
	for f := range w.files {
		parent := filepath.Dir(f)
		if parents[parent] || w.excluded(parent) {
			continue
		}
		parents[parent] = true
		if err := fw.Add(parent); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(parent), logfields.Error(err))
		}
	}
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if w.excluded(path) || (path != root && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if !w.relevant(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) && w.underWatchedDir(ev.Name) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// relevant reports whether a change to path should cause a rebuild.
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	if shouldIgnoreEvent(path) || w.excluded(path) {
		return false
	}
	return w.files[path] || w.underWatchedDir(path)
}

func (w *Watcher) underWatchedDir(path string) bool {
	return slices.ContainsFunc(w.opts.Dirs, func(dir string) bool { return within(dir, path) })
}

func (w *Watcher) excluded(path string) bool {
	return slices.ContainsFunc(w.opts.Exclude, func(dir string) bool { return within(dir, path) })
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && (rel == "." || filepath.IsLocal(rel))
}

// shouldIgnoreEvent returns true for hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	// 4913 is vim's write probe.
	return base == "Thumbs.db" || base == "4913"
}

// debouncer returns a trigger that requests a rebuild once no further trigger
// happened for d, and a stop function cancelling any pending request.
func debouncer(d time.Duration, rebuildReq chan<- struct{}) (trigger func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer

	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() { request(rebuildReq) })
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}

// request queues a rebuild unless one is already pending.
func request(rebuildReq chan<- struct{}) {
	select {
	case rebuildReq <- struct{}{}:
	default:
	}
}
