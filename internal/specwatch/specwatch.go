// Package specwatch keeps a Validator in sync with a contract file on disk.
//
// A Holder loads the contract once at construction. Watch then reloads it
// whenever the file changes. Readers always see a complete Validator: a
// reload that fails to parse leaves the previous one in place.
package specwatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/baerwang/openapi-rs/httpvalidator"
	"github.com/baerwang/openapi-rs/internal/options"
	"github.com/baerwang/openapi-rs/parser"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Holder serves the most recently loaded Validator for one contract file.
type Holder struct {
	path     string
	current  atomic.Pointer[httpvalidator.Validator]
	reloadMu sync.Mutex

	validatorOpts []httpvalidator.Option
	logger        *slog.Logger
	onReload      func(*httpvalidator.Validator, error)
	debounce      time.Duration

	// Ready is closed once Watch has registered with the file system.
	// Later Watch calls leave it closed.
	Ready     chan struct{}
	readyOnce sync.Once

	newWatcher func() (*fsnotify.Watcher, error)
}

// Option configures a Holder.
type Option func(*Holder) error

// WithValidatorOptions passes opts to every httpvalidator.New call.
func WithValidatorOptions(opts ...httpvalidator.Option) Option {
	return func(h *Holder) error {
		h.validatorOpts = append(h.validatorOpts, opts...)
		return nil
	}
}

// WithLogger sets the logger for reload messages.
func WithLogger(l *slog.Logger) Option {
	return func(h *Holder) error {
		if l == nil {
			return options.InvalidOption("logger", nil, "logger cannot be nil")
		}
		h.logger = l
		return nil
	}
}

// OnReload registers fn to run after every reload attempt made by Watch.
// On failure fn receives the still-current Validator and the error.
func OnReload(fn func(*httpvalidator.Validator, error)) Option {
	return func(h *Holder) error {
		h.onReload = fn
		return nil
	}
}

// WithDebounce sets the quiet period before a change is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(h *Holder) error {
		if d < 0 {
			return options.InvalidOption("debounce", d, "debounce cannot be negative")
		}
		h.debounce = d
		return nil
	}
}

// New loads the contract at path and returns a Holder serving it.
func New(path string, opts ...Option) (*Holder, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("specwatch: %w", err)
	}
	h := &Holder{
		path:       abs,
		logger:     slog.New(slog.DiscardHandler),
		debounce:   DefaultDebounce,
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	h.logger = h.logger.With("component", "specwatch", "spec", abs)

	v, err := h.load()
	if err != nil {
		return nil, err
	}
	h.current.Store(v)
	return h, nil
}

// Path returns the absolute path of the watched contract.
func (h *Holder) Path() string {
	return h.path
}

// Validator returns the current Validator. It never returns nil.
func (h *Holder) Validator() *httpvalidator.Validator {
	return h.current.Load()
}

// Reload parses the contract again. On success the new Validator replaces
// the current one; on failure the current one is kept and the error returned.
func (h *Holder) Reload() (*httpvalidator.Validator, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	v, err := h.load()
	if err != nil {
		h.logger.Warn("reload failed, keeping previous contract", "error", err)
		return h.current.Load(), err
	}
	h.current.Store(v)
	h.logger.Info("contract reloaded", "paths", len(v.Document().Paths))
	return v, nil
}

func (h *Holder) load() (*httpvalidator.Validator, error) {
	doc, err := parser.ParseWithOptions(
		parser.WithFilePath(h.path),
		parser.WithLogger(parser.NewSlogAdapter(h.logger)),
	)
	if err != nil {
		return nil, err
	}
	return httpvalidator.New(doc, h.validatorOpts...)
}

// Watch reloads the contract whenever its file is written, created or
// renamed into place. It blocks until ctx is cancelled and may be called
// again afterwards.
//
// The parent directory is watched rather than the file itself so that
// editors which save by replacing the file are still seen.
func (h *Holder) Watch(ctx context.Context) error {
	watcher, err := h.newWatcher()
	if err != nil {
		return fmt.Errorf("specwatch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		return fmt.Errorf("specwatch: %w", err)
	}
	h.logger.Info("watching for changes")
	h.readyOnce.Do(func() { close(h.Ready) })

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Error("watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !h.relevant(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(h.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				v, err := h.Reload()
				if h.onReload != nil {
					h.onReload(v, err)
				}
			})
		}
	}
}

func (h *Holder) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != h.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
