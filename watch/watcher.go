// Package watch monitors a dataset directory and reports batched changes
// so the caller can re-run propagation.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Config configures the dataset watcher
type Config struct {
	// Root is the directory to watch
	Root string

	// Patterns are doublestar globs a changed path must match,
	// relative to Root (default: **/*.json)
	Patterns []string

	// Debounce is how long to wait for more changes before reporting
	Debounce time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Event is a batch of dataset files that changed since the last flush
type Event struct {
	// Paths are the changed file paths relative to Root, sorted
	Paths []string
}

// Watcher watches for dataset file changes and emits batched events
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes before reporting
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → most recent operation

	// Content hashes for change detection
	hashMu sync.RWMutex
	hashes map[string]string // rel path → content hash

	events chan Event
}

// NewWatcher creates a new dataset watcher
func NewWatcher(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.Debounce == 0 {
		config.Debounce = 500 * time.Millisecond
	}
	if len(config.Patterns) == 0 {
		config.Patterns = []string{"**/*.json"}
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		events:  make(chan Event, 16),
	}, nil
}

// Events returns the channel of watch events
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching the dataset directory for changes
func (w *Watcher) Start(ctx context.Context) error {
	// Prime hashes so the first flush only reports real changes
	if err := w.indexExisting(); err != nil {
		return err
	}

	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Dataset watcher started",
		"root", w.config.Root,
		"patterns", w.config.Patterns,
		"debounce", w.config.Debounce)

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	close(w.events)
	return w.watcher.Close()
}

// matches reports whether a path relative to Root matches any pattern
func (w *Watcher) matches(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range w.config.Patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// indexExisting hashes every matching file already under Root
func (w *Watcher) indexExisting() error {
	return filepath.Walk(w.config.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != w.config.Root {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(w.config.Root, path)
		if err != nil || !w.matches(relPath) {
			return nil
		}

		if hash, err := hashFile(path); err == nil {
			w.setHash(relPath, hash)
		}
		return nil
	})
}

// addWatchesRecursive adds watches to all directories under root
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Only watch directories
		if !info.IsDir() {
			return nil
		}

		// Skip hidden directories
		if strings.HasPrefix(filepath.Base(path), ".") && path != root {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}

		return nil
	})
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent processes a single fsnotify event
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	relPath, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		return
	}

	if !w.matches(relPath) {
		// Handle directory creation (for new watches)
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	// Accumulate pending changes
	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Dataset change detected",
		"path", relPath,
		"op", event.Op.String())
}

// handleNewDirectory adds a watch to a newly created directory
func (w *Watcher) handleNewDirectory(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			"path", path,
			"error", err)
	} else {
		w.logger.Debug("Added watch for new directory", "path", path)
	}
}

// flushPending reports accumulated changes as a single batched event
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}

	toProcess := make(map[string]fsnotify.Op, len(w.pending))
	for k, v := range w.pending {
		toProcess[k] = v
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	var changed []string
	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		relPath, err := filepath.Rel(w.config.Root, path)
		if err != nil {
			continue
		}

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			w.hashMu.Lock()
			delete(w.hashes, relPath)
			w.hashMu.Unlock()
			changed = append(changed, relPath)
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			changed = append(changed, relPath)
			continue
		}

		hash, err := hashFile(path)
		if err != nil {
			w.logger.Warn("Failed to hash changed file",
				"path", relPath,
				"error", err)
			continue
		}

		// Skip writes that did not change content
		oldHash, hadHash := w.getHash(relPath)
		if hadHash && oldHash == hash {
			continue
		}

		w.setHash(relPath, hash)
		changed = append(changed, relPath)
	}

	if len(changed) == 0 {
		return
	}

	sort.Strings(changed)
	w.sendEvent(Event{Paths: changed})
}

// sendEvent sends an event to the output channel
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event", "paths", event.Paths)
	default:
		w.logger.Warn("Event channel full, dropping event",
			"paths", event.Paths)
	}
}

func (w *Watcher) setHash(relPath, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[relPath] = hash
}

func (w *Watcher) getHash(relPath string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	hash, ok := w.hashes[relPath]
	return hash, ok
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
