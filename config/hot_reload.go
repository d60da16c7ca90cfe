package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// HotReloadConfig controls the watcher's cooldown.
type HotReloadConfig struct {
	Enabled      bool
	CooldownTime time.Duration
}

// DefaultHotReloadConfig returns a 5-second cooldown between reloads,
// matching the teacher's default.
func DefaultHotReloadConfig() HotReloadConfig {
	return HotReloadConfig{Enabled: true, CooldownTime: 5 * time.Second}
}

// HotReloader watches configPath for writes and, on each change past the
// cooldown, re-loads and re-validates the document before invoking the
// registered handler. A failed load/validate is logged via onError and
// leaves the previous configuration in effect.
type HotReloader struct {
	cfg        HotReloadConfig
	configPath string
	watcher    *fsnotify.Watcher

	mu         sync.Mutex
	lastReload time.Time
	handler    func(AppConfig)
	onError    func(error)

	stopChan chan struct{}
	doneChan chan struct{}
}

// NewHotReloader opens an fsnotify watcher on configPath.
func NewHotReloader(configPath string, cfg HotReloadConfig) (*HotReloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &HotReloader{
		cfg:        cfg,
		configPath: configPath,
		watcher:    watcher,
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}, nil
}

// SetHandler registers the callback invoked with each successfully
// reloaded, validated configuration. Applied on the next batch boundary
// by the caller, never mid-batch — HotReloader only delivers the value.
func (h *HotReloader) SetHandler(handler func(AppConfig)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

// SetErrorHandler registers the callback invoked when a reload fails to
// load or validate. Optional; a nil handler discards the error.
func (h *HotReloader) SetErrorHandler(onError func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = onError
}

// Start begins watching configPath. It is a no-op if cfg.Enabled is false.
func (h *HotReloader) Start() error {
	if !h.cfg.Enabled {
		return nil
	}
	if err := h.watcher.Add(h.configPath); err != nil {
		return fmt.Errorf("watch config file: %w", err)
	}
	go h.watch()
	return nil
}

// Stop halts the watch goroutine and closes the underlying fsnotify
// watcher.
func (h *HotReloader) Stop() error {
	if !h.cfg.Enabled {
		return h.watcher.Close()
	}
	select {
	case <-h.stopChan:
	default:
		close(h.stopChan)
	}
	select {
	case <-h.doneChan:
	case <-time.After(time.Second):
	}
	return h.watcher.Close()
}

func (h *HotReloader) watch() {
	defer close(h.doneChan)
	for {
		select {
		case <-h.stopChan:
			return
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				h.reload()
			}
		case _, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (h *HotReloader) reload() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if time.Since(h.lastReload) < h.cfg.CooldownTime {
		return
	}

	cfg, err := Load(h.configPath)
	if err != nil {
		if h.onError != nil {
			h.onError(err)
		}
		return
	}

	h.lastReload = time.Now()
	if h.handler != nil {
		h.handler(cfg)
	}
}
