package orchestrator

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/kirgen/am"
	"github.com/teranos/kirgen/errors"
	"github.com/teranos/kirgen/logger"
)

// RunCallback receives the outcome of every watch-triggered generation
type RunCallback func(*Report, error)

// Watcher regenerates a module tree whenever a .kir file next to the entry
// module changes
type Watcher struct {
	o          *Orchestrator
	entryPath  string
	outputPath string

	debounce time.Duration
	limiter  *rate.Limiter // nil = unlimited
	onRun    RunCallback

	mu      sync.Mutex
	timer   *time.Timer
	fsw     *fsnotify.Watcher
	watched map[string]bool

	// held for a whole generation so debounced runs never overlap
	runMu sync.Mutex

	log *zap.SugaredLogger
}

// NewWatcher creates a watcher for entryPath using cfg's debounce and rate limit
func NewWatcher(o *Orchestrator, cfg am.WatchConfig, entryPath, outputPath string, onRun RunCallback) *Watcher {
	w := &Watcher{
		o:          o,
		entryPath:  entryPath,
		outputPath: outputPath,
		debounce:   time.Duration(cfg.DebounceMs) * time.Millisecond,
		onRun:      onRun,
		watched:    map[string]bool{},
		log:        logger.ComponentLogger("watch"),
	}
	if cfg.MaxRunsPerMinute > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(float64(cfg.MaxRunsPerMinute)/60.0), 1)
	}
	return w
}

// Run generates once, then watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer fsw.Close()

	dir := filepath.Dir(w.entryPath)
	if err := fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	w.mu.Lock()
	w.fsw = fsw
	w.watched[dir] = true
	w.mu.Unlock()

	w.regenerate(ctx)
	w.log.Infow("Watching for KIR changes", logger.FieldFile, dir)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.log.Debugw("KIR change detected", logger.FieldFile, event.Name, "op", event.Op.String())
			w.schedule(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// relevant reports whether event modified a KIR file
func relevant(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".kir" {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// schedule debounces bursts of changes into one regeneration
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() == nil {
			w.regenerate(ctx)
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// regenerate runs one generation unless the rate limit is exhausted.
// It reports whether a generation ran.
func (w *Watcher) regenerate(ctx context.Context) bool {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if w.limiter != nil && !w.limiter.Allow() {
		w.log.Warnw("Regeneration skipped, rate limit reached", logger.FieldFile, w.entryPath)
		return false
	}

	report, err := w.o.GenerateTree(ctx, w.entryPath, w.outputPath)
	if err != nil {
		w.log.Errorw("Regeneration failed", logger.FieldError, err)
	}
	if report != nil {
		w.watchInputs(report.Inputs)
	}
	if w.onRun != nil {
		w.onRun(report, err)
	}
	return true
}

// watchInputs adds the directories of imported KIR files to the watch list.
// Directories that do not exist yet are retried after the next run.
func (w *Watcher) watchInputs(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return
	}
	for _, path := range paths {
		dir := filepath.Dir(path)
		if w.watched[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			w.log.Debugw("Import directory not watched", logger.FieldFile, dir, logger.FieldError, err)
			continue
		}
		w.watched[dir] = true
		w.log.Debugw("Watching import directory", logger.FieldFile, dir)
	}
}
