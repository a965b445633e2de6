// Package watch keeps a long-running process in sync with the site: it
// re-evaluates the configuration whenever the override file or the content
// tree changes, and on a schedule so the copyright year rolls over.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/logfields"
	"github.com/pabpereza/docsite/internal/metrics"
	"github.com/pabpereza/docsite/internal/observability"
)

// Triggers passed to the Evaluator and counted by the metrics recorder.
const (
	TriggerStartup  = "startup"
	TriggerFS       = "fs"
	TriggerSchedule = "schedule"
	TriggerNewYear  = "new_year"
)

// DefaultDebounce coalesces bursts of file events (editor saves, git checkouts).
const DefaultDebounce = 500 * time.Millisecond

// ContentDirs are the directories under the site root that are watched recursively.
var ContentDirs = []string{"docs", "blog", "src", "static"}

// Evaluator re-evaluates the site from scratch.
type Evaluator func(ctx context.Context, trigger string) error

// Options configures a Watcher.
type Options struct {
	// ConfigPath is the override file. Its directory is watched and only
	// events for the file itself trigger evaluations. Optional.
	ConfigPath string
	// SiteRoot is the site directory; ContentDirs below it are watched. Optional.
	SiteRoot string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Schedule is an optional cron expression for extra periodic evaluations.
	Schedule string
	// Location is the time zone of the schedules. Defaults to time.Local.
	Location *time.Location
	Recorder metrics.Recorder
}

// Watcher runs evaluations on file changes and schedules. Evaluations are
// serialized: a trigger that arrives during an evaluation is handled after it.
type Watcher struct {
	opts       Options
	eval       Evaluator
	configPath string

	fsw       *fsnotify.Watcher
	scheduler *Scheduler
	scheduled chan string

	mu      sync.Mutex
	watched map[string]bool
}

// New creates a Watcher. It fails when the schedule is not a valid cron
// expression or the file watcher cannot be created.
func New(opts Options, eval Evaluator) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	w := &Watcher{
		opts:      opts,
		eval:      eval,
		scheduled: make(chan string, 1),
		watched:   make(map[string]bool),
	}
	if opts.ConfigPath != "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, ferrors.FileSystemError("resolve config path").WithCause(err).Build()
		}
		w.configPath = abs
	}

	scheduler, err := NewScheduler(opts.Location)
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.ScheduleNewYear(func() { w.enqueue(TriggerNewYear) }); err != nil {
		_ = scheduler.Stop()
		return nil, err
	}
	if opts.Schedule != "" {
		if _, err := scheduler.ScheduleCron(opts.Schedule, func() { w.enqueue(TriggerSchedule) }); err != nil {
			_ = scheduler.Stop()
			return nil, err
		}
	}
	w.scheduler = scheduler

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		_ = scheduler.Stop()
		return nil, ferrors.RuntimeError("create file watcher").WithCause(err).Build()
	}
	w.fsw = fsw
	return w, nil
}

// enqueue requests a scheduled evaluation. A request that arrives while one
// is already pending is dropped.
func (w *Watcher) enqueue(trigger string) {
	select {
	case w.scheduled <- trigger:
	default:
	}
}

// Run evaluates once, then blocks handling file events and schedules until
// ctx is done. Evaluation errors are logged and never stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
		if err := w.scheduler.Stop(); err != nil {
			slog.Error("Error stopping scheduler", logfields.Error(err))
		}
	}()

	if err := w.addWatches(); err != nil {
		return err
	}
	w.scheduler.Start()
	slog.Info("Watching for changes",
		logfields.Path(w.configPath),
		slog.String("site_root", w.opts.SiteRoot),
		slog.Int("directories", w.watchCount()))

	w.evaluate(ctx, TriggerStartup)

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.forget(event.Name)
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			if event.Has(fsnotify.Create) {
				w.watchIfDir(event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		case <-timerC:
			timerC = nil
			w.evaluate(ctx, TriggerFS)
		case trigger := <-w.scheduled:
			w.evaluate(ctx, trigger)
		}
	}
}

func (w *Watcher) evaluate(ctx context.Context, trigger string) {
	w.opts.Recorder.IncReload(trigger)
	start := time.Now()
	err := w.eval(ctx, trigger)
	attrs := []slog.Attr{
		slog.String("trigger", trigger),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())),
	}
	if err != nil {
		observability.ErrorContext(ctx, "Evaluation failed", append(attrs, logfields.Error(err))...)
		return
	}
	observability.InfoContext(ctx, "Evaluation succeeded", attrs...)
}

// addWatches registers the config directory and every content directory.
func (w *Watcher) addWatches() error {
	if w.configPath != "" {
		if err := w.add(filepath.Dir(w.configPath)); err != nil {
			return ferrors.RuntimeError("watch config directory").WithCause(err).Build()
		}
	}
	if w.opts.SiteRoot == "" {
		return nil
	}
	for _, dir := range ContentDirs {
		root := filepath.Join(w.opts.SiteRoot, dir)
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := w.addTree(root); err != nil {
			return ferrors.RuntimeError("watch content directory").WithCause(err).WithContext("path", root).Build()
		}
	}
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && ignoredName(d.Name()) {
			return filepath.SkipDir
		}
		return w.add(p)
	})
}

func (w *Watcher) add(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[abs] {
		return nil
	}
	if err := w.fsw.Add(abs); err != nil {
		return err
	}
	w.watched[abs] = true
	return nil
}

// forget drops p and everything below it from the watched set. fsnotify
// removes the kernel watch itself once the directory is gone.
func (w *Watcher) forget(p string) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return
	}
	prefix := abs + string(filepath.Separator)
	w.mu.Lock()
	defer w.mu.Unlock()
	for dir := range w.watched {
		if dir == abs || strings.HasPrefix(dir, prefix) {
			delete(w.watched, dir)
		}
	}
}

func (w *Watcher) watchIfDir(p string) {
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() || !w.inContent(p) {
		return
	}
	if err := w.addTree(p); err != nil {
		slog.Warn("Failed to watch new directory", logfields.Path(p), logfields.Error(err))
	}
}

func (w *Watcher) watchCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

// relevant filters out chmod-only events, editor scratch files and files in
// the config directory other than the override file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if w.configPath != "" && abs == w.configPath {
		return true
	}
	if ignoredName(filepath.Base(abs)) {
		return false
	}
	return w.inContent(abs)
}

func (w *Watcher) inContent(p string) bool {
	if w.opts.SiteRoot == "" {
		return false
	}
	root, err := filepath.Abs(w.opts.SiteRoot)
	if err != nil {
		return false
	}
	for _, dir := range ContentDirs {
		base := filepath.Join(root, dir)
		if p == base || strings.HasPrefix(p, base+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignoredName matches hidden files and editor swap/backup files.
func ignoredName(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") ||
		strings.HasSuffix(name, ".tmp")
}
