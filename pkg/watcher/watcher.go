package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/attackgraph/pkg/logging"
)

// ChangeEvent represents a batch of writes to the topology file
type ChangeEvent struct {
	Path      string
	Timestamp time.Time
}

// TopologyWatcher watches a topology file for changes. Editors replace
// files by rename, so the parent directory is watched and events are
// filtered to the target name.
type TopologyWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan ChangeEvent
}

// NewTopologyWatcher creates a watcher for the given topology file
func NewTopologyWatcher(path string) (*TopologyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &TopologyWatcher{
		watcher: watcher,
		path:    path,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for changes to the topology file
func (tw *TopologyWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(tw.path)
	if err := tw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Info("watching topology", "path", tw.path)

	go tw.processEvents(ctx)

	return nil
}

// processEvents filters raw fsnotify events down to writes of the watched file
func (tw *TopologyWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			tw.watcher.Close()
			close(tw.events)
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != filepath.Clean(tw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			tw.events <- ChangeEvent{
				Path:      tw.path,
				Timestamp: time.Now(),
			}

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (tw *TopologyWatcher) Events() <-chan ChangeEvent {
	return tw.events
}

// Stop stops the watcher
func (tw *TopologyWatcher) Stop() error {
	return tw.watcher.Close()
}
