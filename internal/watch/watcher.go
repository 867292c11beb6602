// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds a mod project when its sources change.
//
// A Watcher registers every non-ignored directory of a project with fsnotify,
// collects changed paths until the tree has been quiet for the debounce
// period, and then hands the batch to a rebuild callback. Rebuilds never
// overlap: changes that arrive during a rebuild are queued for the next one.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DefaultDebounce is the quiet period before a rebuild. Editors that save
// through a temp file produce several events per save.
const DefaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// defaultIgnores never trigger rebuilds: VCS metadata, Node and Yarn
// caches, editor swap files and TypeScript incremental state.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.hg/**",
	"**/.svn/**",
	"**/node_modules/**",
	"**/.yarn/**",
	"**/*.tsbuildinfo",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the project directory. Empty means the working directory.
		BaseDir string

		// Patterns select the files that trigger a rebuild, as doublestar
		// globs relative to BaseDir. Empty selects every non-ignored file.
		Patterns []string

		// Ignore adds doublestar globs to the built-in ignores. The build
		// output directory belongs here, or every rebuild triggers another.
		Ignore []string

		// Debounce falls back to DefaultDebounce when zero or negative.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated changed paths relative
		// to BaseDir. A returned error is logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors a project tree and fires a debounced rebuild callback.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		logger   *log.Logger
		debounce time.Duration
		baseDir  string
		started  atomic.Bool

		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		busy    atomic.Bool
	}
)

// New validates cfg and registers BaseDir's directory tree with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		logger:   logger,
		debounce: debounce,
		baseDir:  absBase,
		pending:  make(map[string]struct{}),
	}
	if err := w.addTree(absBase); err != nil {
		_ = fsw.Close() // Best-effort cleanup
		return nil, err
	}
	return w, nil
}

// Run processes filesystem events until ctx is canceled. It returns nil on
// cancellation and an error when fsnotify fails beyond recovery.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			w.handle(ctx, evt)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, evt fsnotify.Event) {
	rel, err := filepath.Rel(w.baseDir, evt.Name)
	if err != nil || w.ignored(rel) {
		return
	}
	if evt.Has(fsnotify.Create) {
		w.addNewDir(evt.Name)
	}
	if !w.selected(rel) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[filepath.ToSlash(rel)] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, func() { w.fire(ctx) })
	} else {
		w.timer.Reset(w.debounce)
	}
}

// fire drains the pending batch into OnChange. A batch that arrives while
// a rebuild is running is retried after another debounce period.
func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !w.busy.CompareAndSwap(false, true) {
		w.logger.Debug("rebuild in progress, deferring changes")
		w.mu.Lock()
		w.timer.Reset(w.debounce)
		w.mu.Unlock()
		return
	}
	defer w.busy.Store(false)

	w.mu.Lock()
	changed := maps.Keys(w.pending)
	clear(w.pending)
	w.mu.Unlock()
	if len(changed) == 0 || w.cfg.OnChange == nil {
		return
	}
	slices.Sort(changed)

	w.logger.Debug("change detected", "files", len(changed))
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		w.logger.Error("rebuild failed", "err", err)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("close fsnotify", "err", err)
	}
}

// addTree registers root and every non-ignored directory below it.
// Unreadable directories are skipped with a warning.
func (w *Watcher) addTree(root string) error {
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", err)
			return nil //nolint:nilerr // unreadable directories are not watched
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(w.baseDir, path); relErr == nil && rel != "." && w.ignoredDir(rel) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// addNewDir extends the watch to a directory created after startup, such as
// a freshly cloned image pack.
func (w *Watcher) addNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("watch new directory", "path", path, "err", err)
	}
}

func (w *Watcher) ignored(rel string) bool {
	return matchAny(w.ignores, filepath.ToSlash(rel))
}

// ignoredDir also matches directory patterns such as "build/**" against the
// directory itself.
func (w *Watcher) ignoredDir(rel string) bool {
	return w.ignored(rel) || w.ignored(rel+"/")
}

func (w *Watcher) selected(rel string) bool {
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, filepath.ToSlash(rel))
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}
