package db

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultWatchDebounce collapses the event bursts of one atomic write
const DefaultWatchDebounce = 200 * time.Millisecond

// Reconciler reacts to schedule documents changing outside the process
type Reconciler interface {
	EnsureJob(ctx context.Context, guildID string) error
	RemoveJob(guildID string)
}

// Watcher follows a document directory and reconciles the guilds whose
// files change. Events are debounced per guild.
type Watcher struct {
	dir        string
	reconciler Reconciler
	debounce   time.Duration
	logger     *logrus.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher over dir
func NewWatcher(dir string, reconciler Reconciler, debounce time.Duration, logger *logrus.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &Watcher{
		dir:        dir,
		reconciler: reconciler,
		debounce:   debounce,
		logger:     logger,
		pending:    make(map[string]*time.Timer),
	}
}

// Start begins watching until ctx is done
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer fsw.Close()

		w.logger.WithField("dir", w.dir).Info("Watching schedule documents")
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if guildID, ok := GuildIDFromFile(filepath.Base(event.Name)); ok {
					w.schedule(ctx, guildID)
				}

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				w.logger.WithError(err).Warn("Schedule watcher error")

			case <-ctx.Done():
				w.stopPending()
				return
			}
		}
	}()

	return nil
}

// Wait blocks until the watch loop has exited
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) schedule(ctx context.Context, guildID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[guildID]; ok {
		t.Stop()
	}
	w.pending[guildID] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, guildID)
		w.mu.Unlock()

		w.reconcile(ctx, guildID)
	})
}

func (w *Watcher) reconcile(ctx context.Context, guildID string) {
	logger := w.logger.WithField("guild", guildID)

	_, err := os.Stat(filepath.Join(w.dir, guildID+documentExt))
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("Schedule document removed, dropping job")
		w.reconciler.RemoveJob(guildID)
		return
	}

	logger.Debug("Schedule document changed, reconciling job")
	if err := w.reconciler.EnsureJob(ctx, guildID); err != nil {
		logger.WithError(err).Warn("Failed to reconcile job after document change")
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, t := range w.pending {
		t.Stop()
		delete(w.pending, id)
	}
}
