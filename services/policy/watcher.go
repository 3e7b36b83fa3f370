// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package policy

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a YAML policy file.
//
// Description:
//
//	Policies stay immutable: a change to the file produces a freshly
//	parsed Policy that replaces the current one wholesale via an atomic
//	pointer swap. In-flight decisions keep the policy they started
//	with. A file that fails to parse is logged and ignored — the last
//	good policy stays active.
//
// Thread Safety: Policy() is safe for concurrent use. Close() must be
// called exactly once.
type Watcher struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[Policy]
	fsw     *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher loads the policy file and starts watching it for changes.
//
// Inputs:
//   - path: The YAML policy file path. Must parse at startup.
//   - logger: Logger for reload events. nil means slog.Default().
//
// Outputs:
//   - *Watcher: The running watcher.
//   - error: Non-nil if the initial load or the fs watch setup fails.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	initial, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("policy: creating watcher: %w", err)
	}
	// Watch the directory, not the file: editors and config rollouts
	// typically replace the file, which would orphan a file watch.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("policy: watching %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:   path,
		logger: logger,
		fsw:    fsw,
		done:   make(chan struct{}),
	}
	w.current.Store(initial)
	go w.loop()
	return w, nil
}

// Policy returns the currently active policy. The returned policy is
// immutable; callers may hold it across a reload.
func (w *Watcher) Policy() *Policy {
	return w.current.Load()
}

// Close stops watching. The last loaded policy remains available via
// Policy().
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

// loop applies file events until Close.
func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("policy watch error", slog.String("error", err.Error()))
		}
	}
}

// reload swaps in the new policy, keeping the old one on parse failure.
func (w *Watcher) reload() {
	p, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("policy reload failed, keeping previous policy",
			slog.String("path", w.path),
			slog.String("error", err.Error()),
		)
		return
	}
	w.current.Store(p)
	w.logger.Info("policy reloaded",
		slog.String("path", w.path),
		slog.String("policy", p.Name),
	)
}
