// Package watch reopens a document in a session when its file changes on
// disk. The parent directory is watched rather than the file itself, so
// editors that save through rename-and-replace keep triggering reloads.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/logging"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 150 * time.Millisecond

// ErrNotFile is returned when the watched path is a directory.
var ErrNotFile = errors.New("watch target is not a regular file")

// Opener reopens a candidate; *mdconv.Session satisfies it.
type Opener interface {
	Open(ctx context.Context, c mdconv.CandidateFile) (mdconv.SessionSnapshot, error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(w *Watcher) {
		w.logger = logging.Component(logger, "watch")
	}
}

// WithDebounce sets the quiet period before a reload. Zero reloads on
// every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// withOpenCandidate replaces the file reader (tests).
func withOpenCandidate(fn func(string) (mdconv.CandidateFile, error)) Option {
	return func(w *Watcher) {
		w.openCandidate = fn
	}
}

// Watcher reloads one file into an Opener.
type Watcher struct {
	path          string
	opener        Opener
	logger        log.Logger
	debounce      time.Duration
	openCandidate func(string) (mdconv.CandidateFile, error)
	reloaded      func(mdconv.SessionSnapshot, error) // test hook
}

// New returns a Watcher for path. The path is made absolute so events,
// which carry the watched directory joined with the base name, compare
// equal.
func New(path string, opener Opener, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watching %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrNotFile, path)
	}

	w := &Watcher{
		path:          abs,
		opener:        opener,
		logger:        logging.Nop(),
		debounce:      DefaultDebounce,
		openCandidate: mdconv.OpenCandidate,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run watches until ctx is done. It returns nil on cancellation and an
// error only if the watcher cannot be set up or fails.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %q: %w", dir, err)
	}
	level.Info(w.logger).Log("msg", "watching", "file", w.path)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.shouldReload(ev) {
				continue
			}
			if w.debounce == 0 {
				w.reload(ctx)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.reload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			level.Warn(w.logger).Log("msg", "watch error", "err", err)
		}
	}
}

// shouldReload reports whether ev is a content change of the watched file.
// Removal and rename are logged but do not clear the open document; the
// next create under the same name reloads it.
func (w *Watcher) shouldReload(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	switch {
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		return true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		level.Debug(w.logger).Log("msg", "file moved away", "file", w.path, "op", ev.Op.String())
		return false
	default:
		return false
	}
}

func (w *Watcher) reload(ctx context.Context) {
	snap, err := w.reloadOnce(ctx)
	if w.reloaded != nil {
		w.reloaded(snap, err)
	}
}

func (w *Watcher) reloadOnce(ctx context.Context) (mdconv.SessionSnapshot, error) {
	candidate, err := w.openCandidate(w.path)
	if err != nil {
		level.Warn(w.logger).Log("msg", "reload skipped", "file", w.path, "err", err)
		return mdconv.SessionSnapshot{}, err
	}

	snap, err := w.opener.Open(ctx, candidate)
	switch {
	case errors.Is(err, mdconv.ErrStaleResult), errors.Is(err, context.Canceled):
		level.Debug(w.logger).Log("msg", "reload superseded", "file", w.path)
	case err != nil:
		level.Warn(w.logger).Log("msg", "reload rejected", "file", w.path, "err", err)
	default:
		level.Info(w.logger).Log("msg", "reloaded", "file", w.path, "generation", snap.Generation)
	}
	return snap, err
}
