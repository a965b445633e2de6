package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/metrics"
)

type triggerLog struct {
	mu       sync.Mutex
	triggers []string
}

func (l *triggerLog) eval(_ context.Context, trigger string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.triggers = append(l.triggers, trigger)
	return nil
}

func (l *triggerLog) count(trigger string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, t := range l.triggers {
		if t == trigger {
			n++
		}
	}
	return n
}

type reloadCounter struct {
	metrics.NoopRecorder
	mu    sync.Mutex
	count map[string]int
}

func (r *reloadCounter) IncReload(trigger string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count[trigger]++
}

func (r *reloadCounter) get(trigger string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count[trigger]
}

func startWatcher(t *testing.T, opts Options, log *triggerLog) {
	t.Helper()
	w, err := New(opts, log.eval)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	require.Eventually(t, func() bool { return log.count(TriggerStartup) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_EvaluatesOnStartup(t *testing.T) {
	rec := &reloadCounter{count: map[string]int{}}
	log := &triggerLog{}
	startWatcher(t, Options{SiteRoot: t.TempDir(), Recorder: rec}, log)
	assert.Equal(t, 1, rec.get(TriggerStartup))
}

func TestRun_DebouncesContentChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	log := &triggerLog{}
	startWatcher(t, Options{SiteRoot: root, Debounce: 200 * time.Millisecond}, log)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "intro.md"), []byte{byte('a' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return log.count(TriggerFS) == 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, log.count(TriggerFS))
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blog"), 0o755))
	log := &triggerLog{}
	startWatcher(t, Options{SiteRoot: root, Debounce: 50 * time.Millisecond}, log)

	require.NoError(t, os.Mkdir(filepath.Join(root, "blog", "2024"), 0o755))
	require.Eventually(t, func() bool { return log.count(TriggerFS) == 1 }, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "blog", "2024", "post.md"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return log.count(TriggerFS) == 2 }, 3*time.Second, 10*time.Millisecond)
}

func TestRun_WatchesRecreatedDirectories(t *testing.T) {
	root := t.TempDir()
	guide := filepath.Join(root, "docs", "guide")
	require.NoError(t, os.MkdirAll(guide, 0o755))
	log := &triggerLog{}
	startWatcher(t, Options{SiteRoot: root, Debounce: 50 * time.Millisecond}, log)

	require.NoError(t, os.RemoveAll(guide))
	require.Eventually(t, func() bool { return log.count(TriggerFS) == 1 }, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Mkdir(guide, 0o755))
	require.Eventually(t, func() bool { return log.count(TriggerFS) == 2 }, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(guide, "page.md"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return log.count(TriggerFS) == 3 }, 3*time.Second, 10*time.Millisecond)
}

func TestForget(t *testing.T) {
	root := t.TempDir()
	w, err := New(Options{SiteRoot: root}, (&triggerLog{}).eval)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.scheduler.Stop(); _ = w.fsw.Close() })

	docs := filepath.Join(root, "docs")
	w.watched[docs] = true
	w.watched[filepath.Join(docs, "guide")] = true
	w.watched[filepath.Join(root, "docs-extra")] = true

	w.forget(docs)
	assert.Equal(t, map[string]bool{filepath.Join(root, "docs-extra"): true}, w.watched)
}

func TestRun_ConfigFileOnly(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docsite.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: \"1\"\n"), 0o644))
	log := &triggerLog{}
	startWatcher(t, Options{ConfigPath: cfgPath, Debounce: 50 * time.Millisecond}, log)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, log.count(TriggerFS))

	require.NoError(t, os.WriteFile(cfgPath, []byte("version: \"1\"\nonBrokenLinks: warn\n"), 0o644))
	require.Eventually(t, func() bool { return log.count(TriggerFS) == 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestRun_ScheduledTrigger(t *testing.T) {
	log := &triggerLog{}
	w, err := New(Options{}, log.eval)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	require.Eventually(t, func() bool { return log.count(TriggerStartup) == 1 }, 2*time.Second, 10*time.Millisecond)
	w.enqueue(TriggerNewYear)
	require.Eventually(t, func() bool { return log.count(TriggerNewYear) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_EvaluationErrorsDoNotStop(t *testing.T) {
	calls := make(chan string, 4)
	w, err := New(Options{}, func(_ context.Context, trigger string) error {
		calls <- trigger
		return assert.AnError
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Equal(t, TriggerStartup, <-calls)
	w.enqueue(TriggerSchedule)
	assert.Equal(t, TriggerSchedule, <-calls)

	cancel()
	require.NoError(t, <-done)
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(Options{Schedule: "every tuesday"}, (&triggerLog{}).eval)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRuntime))
	assert.Equal(t, 12, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestRelevant(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "docsite.yaml")
	w, err := New(Options{SiteRoot: root, ConfigPath: cfgPath}, (&triggerLog{}).eval)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.scheduler.Stop(); _ = w.fsw.Close() })

	for name, tc := range map[string]struct {
		event fsnotify.Event
		want  bool
	}{
		"config write":    {fsnotify.Event{Name: cfgPath, Op: fsnotify.Write}, true},
		"doc write":       {fsnotify.Event{Name: filepath.Join(root, "docs", "a.md"), Op: fsnotify.Write}, true},
		"static create":   {fsnotify.Event{Name: filepath.Join(root, "static", "img", "x.png"), Op: fsnotify.Create}, true},
		"chmod only":      {fsnotify.Event{Name: filepath.Join(root, "docs", "a.md"), Op: fsnotify.Chmod}, false},
		"swap file":       {fsnotify.Event{Name: filepath.Join(root, "docs", ".a.md.swp"), Op: fsnotify.Write}, false},
		"backup file":     {fsnotify.Event{Name: filepath.Join(root, "docs", "a.md~"), Op: fsnotify.Write}, false},
		"outside content": {fsnotify.Event{Name: filepath.Join(root, "build", "index.html"), Op: fsnotify.Write}, false},
		"sibling of cfg":  {fsnotify.Event{Name: filepath.Join(root, "README.md"), Op: fsnotify.Write}, false},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.relevant(tc.event))
		})
	}
}

func TestScheduler_NewYearNextRun(t *testing.T) {
	s, err := NewScheduler(time.UTC)
	require.NoError(t, err)
	defer func() { _ = s.Stop() }()

	_, err = s.ScheduleNewYear(func() {})
	require.NoError(t, err)
	s.Start()

	var next time.Time
	require.Eventually(t, func() bool {
		var ok bool
		next, ok = s.NextRun("new-year-refresh")
		return ok && !next.IsZero()
	}, 2*time.Second, 10*time.Millisecond)

	next = next.UTC()
	assert.Equal(t, time.January, next.Month())
	assert.Equal(t, 1, next.Day())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, time.Now().UTC().Year()+1, next.Year())
}
